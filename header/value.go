package header

import (
	"strconv"
	"strings"
	"time"

	"httpwire/util/rule"

	"github.com/pkg/errors"
)

// A parseFunc turns one raw field value into its parsed value(s).
// List-valued grammars may return several; every grammar returns at
// least one value or an error.
type parseFunc func(raw string) ([]any, error)

// Per-header grammar dispatch. Absent names use parseVerbatim.
var valueGrammars = map[string]parseFunc{
	AcceptEncoding:   parseTokenList,
	Age:              parseInteger,
	Connection:       parseTokenList,
	ContentEncoding:  parseTokenList,
	ContentLength:    parseInteger,
	Date:             parseHTTPDate,
	Expires:          parseHTTPDate,
	LastModified:     parseHTTPDate,
	TransferEncoding: parseTokenList,
	Upgrade:          parseTokenList,
	Vary:             parseTokenList,
}

func grammarFor(name string) parseFunc {
	if parse, ok := valueGrammars[name]; ok {
		return parse
	}
	return parseVerbatim
}

func parseVerbatim(raw string) ([]any, error) {
	return []any{rule.TrimOWS(raw)}, nil
}

// parseTokenList splits a comma-separated list, honoring quoted strings.
// Tokens are lower-cased so equality on them is case-insensitive.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.1
func parseTokenList(raw string) ([]any, error) {
	tokens := tokenizeValue(raw)
	if len(tokens) == 0 {
		return nil, errors.Errorf("no list members in %q", raw)
	}

	values := make([]any, len(tokens))
	for i, token := range tokens {
		values[i] = strings.ToLower(token)
	}
	return values, nil
}

func parseInteger(raw string) ([]any, error) {
	raw = rule.TrimOWS(raw)
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, errors.Errorf("not an unsigned integer: %q", raw)
	}
	return []any{n}, nil
}

const (
	// Preferred format: IMF-fixdate
	imfFixDateFormat = time.RFC1123
	// Obsolete RFC 850 format
	rfc850DateFormat = time.RFC850
	// Obsolete asctime format
	asctimeDateFormat = time.ANSIC
)

// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.7
func parseHTTPDate(raw string) ([]any, error) {
	raw = rule.TrimOWS(raw)
	layouts := []string{imfFixDateFormat, rfc850DateFormat, asctimeDateFormat}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return []any{t.UTC()}, nil
		}
	}

	return nil, errors.Errorf("invalid time format: %q", raw)
}

// tokenizeValue splits a field value on commas outside quoted strings.
// Empty members are dropped, quoted members are unquoted.
func tokenizeValue(fieldValue string) []string {
	tokens := make([]string, 0)
	var buf strings.Builder

	quoted := false
	flush := func() {
		token := rule.Unquote(rule.TrimOWSBytes([]byte(buf.String())))
		if len(token) > 0 {
			tokens = append(tokens, string(token))
		}
		buf.Reset()
	}

	for idx := 0; idx < len(fieldValue); idx++ {
		c := fieldValue[idx]
		switch {
		case c == '"':
			quoted = !quoted
		case c == '\\' && quoted && idx+1 < len(fieldValue):
			// Keep the escape for Unquote to resolve.
			buf.WriteByte(c)
			idx++
			buf.WriteByte(fieldValue[idx])
			continue
		case c == ',' && !quoted:
			flush()
			continue
		}
		buf.WriteByte(c)
	}
	flush()

	return tokens
}
