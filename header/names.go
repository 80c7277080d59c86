package header

import (
	"strings"

	"httpwire/util/rule"
)

// Canonical forms of well-known header names. Matching names resolved
// through [Known] are returned as these exact shared strings.
const (
	AcceptEncoding   = "Accept-Encoding"
	AcceptRanges     = "Accept-Ranges"
	Age              = "Age"
	CacheControl     = "Cache-Control"
	Connection       = "Connection"
	ContentEncoding  = "Content-Encoding"
	ContentLanguage  = "Content-Language"
	ContentLength    = "Content-Length"
	ContentLocation  = "Content-Location"
	ContentRange     = "Content-Range"
	ContentType      = "Content-Type"
	Date             = "Date"
	ETag             = "ETag"
	Expires          = "Expires"
	KeepAlive        = "Keep-Alive"
	LastModified     = "Last-Modified"
	Location         = "Location"
	Pragma           = "Pragma"
	ProxyConnection  = "Proxy-Connection"
	RetryAfter       = "Retry-After"
	Server           = "Server"
	SetCookie        = "Set-Cookie"
	TransferEncoding = "Transfer-Encoding"
	Upgrade          = "Upgrade"
	Vary             = "Vary"
	Via              = "Via"
	WWWAuthenticate  = "WWW-Authenticate"
)

// Shared constants for common values, so hot parse paths don't allocate.
const (
	EncodingGzip    = "gzip"
	EncodingDeflate = "deflate"

	// Special values: their presence in an entry doubles as a boolean
	// on the owning view.
	ConnectionClose         = "close"
	TransferEncodingChunked = "chunked"
)

var knownNames = buildKnownNames(
	AcceptEncoding, AcceptRanges, Age, CacheControl, Connection,
	ContentEncoding, ContentLanguage, ContentLength, ContentLocation,
	ContentRange, ContentType, Date, ETag, Expires, KeepAlive,
	LastModified, Location, Pragma, ProxyConnection, RetryAfter, Server,
	SetCookie, TransferEncoding, Upgrade, Vary, Via, WWWAuthenticate,
)

func buildKnownNames(names ...string) map[string]string {
	// Keyed by both canonical and lower-cased form, so the two common
	// spellings resolve without allocating.
	m := make(map[string]string, 2*len(names))
	for _, name := range names {
		m[name] = name
		m[strings.ToLower(name)] = name
	}
	return m
}

// Known reports whether name matches a well-known header name
// (ASCII case-insensitive) and returns the shared canonical string.
func Known(name string) (canonical string, ok bool) {
	if c, ok := knownNames[name]; ok {
		return c, true
	}
	canonical, ok = knownNames[lowerASCII(name)]
	return canonical, ok
}

// CanonicalName resolves name to the form used as a store key.
// Known names intern to their shared constant. Unknown valid tokens get
// the usual Dash-Separated-Capitalization, anything else is lower-cased,
// so lookup stays case-insensitive either way.
func CanonicalName(name string) string {
	if c, ok := Known(name); ok {
		return c
	}
	if rule.IsValidToken(name) {
		return toCanonicalFieldName(name)
	}
	return lowerASCII(name)
}

func lowerASCII(s string) string {
	const capitalDiff = 'a' - 'A'
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + capitalDiff
		}
	}
	return string(b)
}

// This only works for valid token.
func toCanonicalFieldName(s string) string {
	const capitalDiff = 'a' - 'A'
	b := []byte(s)
	upper := true
	for i, c := range b {
		if upper && 'a' <= c && c <= 'z' {
			c -= capitalDiff
		} else if !upper && 'A' <= c && c <= 'Z' {
			c += capitalDiff
		}
		b[i] = c
		upper = c == '-'
	}
	return string(b)
}
