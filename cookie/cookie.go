// Package cookie splits raw Set-Cookie header values into individual
// cookie definitions and parses them.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc6265
package cookie

import (
	"iter"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"httpwire/util/rule"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

// Splitter divides one raw Set-Cookie value into cookie definitions.
// The zero value is ready to use; Logger, when set, receives a record if
// extraction has to stop early.
type Splitter struct {
	Logger *slog.Logger
}

// Split returns the definitions of raw in source order as a lazy sequence.
//
// A comma is a definition boundary unless it sits inside the date of an
// Expires attribute, recognized by the literal "Expires=" token followed
// by a weekday name. Splitting is best-effort: if the scan cannot make
// progress, the definitions produced so far are kept and no error is
// raised.
func (s Splitter) Split(raw string) iter.Seq[string] {
	return func(yield func(string) bool) {
		emit := func(def string) bool {
			def = rule.TrimOWS(def)
			if def == "" {
				return true
			}
			return yield(def)
		}

		start, i := 0, 0
		for i < len(raw) {
			prev := i

			switch {
			case raw[i] == ',':
				if !emit(raw[start:i]) {
					return
				}
				start = i + 1
				i++

			case atExpiresAttr(raw, start, i):
				i = skipExpiresDate(raw, i)

			default:
				i++
			}

			if i == prev {
				// The grammar made no progress. Keep what we have.
				if s.Logger != nil {
					s.Logger.Warn("cookie splitting stalled",
						slog.Int("position", i),
					)
				}
				return
			}
		}

		emit(raw[start:])
	}
}

// Split is shorthand for a [Splitter] without a logger.
func Split(raw string) iter.Seq[string] {
	return Splitter{}.Split(raw)
}

// atExpiresAttr reports whether raw[i:] begins an "Expires=" attribute.
// Attributes start at the beginning of a definition or after a ';'.
func atExpiresAttr(raw string, start, i int) bool {
	const attr = "expires"
	if len(raw)-i < len(attr)+1 {
		return false
	}
	if !strings.EqualFold(raw[i:i+len(attr)], attr) {
		return false
	}

	// "Expires" must be followed by '=' (optional whitespace between).
	j := i + len(attr)
	for j < len(raw) && rule.IsOWS(rune(raw[j])) {
		j++
	}
	if j >= len(raw) || raw[j] != '=' {
		return false
	}

	// And preceded by nothing but whitespace or a ';'.
	k := i - 1
	for k >= start && rule.IsOWS(rune(raw[k])) {
		k--
	}
	return k < start || raw[k] == ';'
}

// skipExpiresDate advances past "Expires=" and, when the value starts
// with a weekday name directly followed by a comma, past that comma too,
// so it is not taken for a definition boundary.
func skipExpiresDate(raw string, i int) int {
	j := strings.IndexByte(raw[i:], '=') + i + 1
	for j < len(raw) && rule.IsOWS(rune(raw[j])) {
		j++
	}

	if n, ok := rule.MatchWeekday(raw[j:]); ok && j+n < len(raw) && raw[j+n] == ',' {
		return j + n + 1
	}
	return j
}

// Definition is one parsed cookie definition.
type Definition struct {
	Name  string
	Value string

	Path     string
	Domain   string
	Expires  time.Time // zero when the definition has none
	MaxAge   *int
	Secure   bool
	HTTPOnly bool
}

// Parse parses one cookie definition, as produced by [Split]. Attribute
// values that fail to parse are dropped; only a missing name-value pair
// is an error.
func Parse(definition string) (Definition, error) {
	first, rest, _ := strings.Cut(definition, ";")

	name, value, found := strings.Cut(first, "=")
	if !found {
		return Definition{}, errors.Errorf("no name-value pair in %q", definition)
	}

	def := Definition{
		Name:  rule.TrimOWS(name),
		Value: rule.TrimOWS(value),
	}
	if def.Name == "" {
		return Definition{}, errors.Errorf("empty cookie name in %q", definition)
	}

	for len(rest) > 0 {
		var attr string
		attr, rest, _ = strings.Cut(rest, ";")

		key, val, _ := strings.Cut(attr, "=")
		key, val = rule.TrimOWS(key), rule.TrimOWS(val)

		switch strings.ToLower(key) {
		case "path":
			def.Path = val
		case "domain":
			def.Domain = val
		case "expires":
			if t, err := parseDate(val); err == nil {
				def.Expires = t
			}
		case "max-age":
			if n, err := strconv.Atoi(val); err == nil {
				def.MaxAge = &n
			}
		case "secure":
			def.Secure = true
		case "httponly":
			def.HTTPOnly = true
		}
	}

	return def, nil
}

// Expired reports whether the cookie is already past its lifetime.
// Max-Age takes precedence over Expires; a non-positive Max-Age expires
// immediately. A definition with neither is a session cookie and never
// reports expired.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc6265#section-4.1.2.2
func (d Definition) Expired(clk clock.Clock) bool {
	if d.MaxAge != nil {
		return *d.MaxAge <= 0
	}
	if !d.Expires.IsZero() {
		return !d.Expires.After(clk.Now())
	}
	return false
}

const (
	// Preferred format: IMF-fixdate
	imfFixDateFormat = time.RFC1123
	// Obsolete RFC 850 format
	rfc850DateFormat = time.RFC850
	// Obsolete asctime format
	asctimeDateFormat = time.ANSIC
)

func parseDate(raw string) (time.Time, error) {
	layouts := []string{imfFixDateFormat, rfc850DateFormat, asctimeDateFormat}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, errors.Errorf("invalid time format: %q", raw)
}
