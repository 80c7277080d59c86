package rule

import (
	"bytes"
	"strings"
)

// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.2-2
func IsValidToken(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if IsAlpha(c) || IsDigit(c) {
			continue
		}

		switch c {
		case '!', '#', '$', '%', '&', '\'', '*', '+',
			'-', '.', '^', '_', '`', '|', '~':
			continue
		}

		return false
	}

	return true
}

// Unquote unquotes token if it was wrapped with double quotes.
// Escaped characters inside the quotes are un-escaped.
func Unquote(token []byte) []byte {
	quoted := false
	if len(token) >= 2 {
		first, last := 0, len(token)-1
		if token[first] == '"' && token[last] == '"' {
			token = token[first+1 : last]
			quoted = true
		}
	}

	if !quoted {
		return bytes.Clone(token)
	}

	buf := bytes.NewBuffer(make([]byte, 0, len(token)))
	for idx := 0; idx < len(token); idx++ {
		c := token[idx]
		if c == '\\' {
			// Escaped character inside quote. Keep the next one as-is.
			continue
		}
		buf.WriteByte(c)
	}

	return buf.Bytes()
}

// Weekday names as they appear in HTTP dates.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.7
var weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
	"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun",
}

// MatchWeekday reports whether s starts with a weekday name
// (abbreviated or full, case-insensitive) and returns its length.
func MatchWeekday(s string) (length int, ok bool) {
	for _, day := range weekdays {
		if len(s) >= len(day) && strings.EqualFold(s[:len(day)], day) {
			return len(day), true
		}
	}
	return 0, false
}
