// Package rule holds the HTTP grammar atoms shared by the header and
// cookie parsing code.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6
package rule

import "bytes"

const (
	CR   byte = '\r'
	LF   byte = '\n'
	SP   byte = ' '
	HTAB byte = '\t'
)

var (
	OWS  = []byte{SP, HTAB}
	CRLF = []byte{CR, LF}
)

func IsOWS(r rune) bool { return r == rune(SP) || r == rune(HTAB) }

func IsAlpha(r rune) bool { return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') }
func IsDigit(r rune) bool { return '0' <= r && r <= '9' }

// TrimOWS trims optional whitespace around a field value.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-5.1-3
func TrimOWS(s string) string {
	start, end := 0, len(s)
	for start < end && IsOWS(rune(s[start])) {
		start++
	}
	for end > start && IsOWS(rune(s[end-1])) {
		end--
	}
	return s[start:end]
}

func TrimOWSBytes(b []byte) []byte {
	return bytes.TrimFunc(b, IsOWS)
}
