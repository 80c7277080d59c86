// Package header implements the response header subsystem: scanning a raw
// header block into name/value pairs, storing them with multi-value
// semantics, and projecting collection views over individual headers.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc9110
//
// - https://datatracker.ietf.org/doc/html/rfc9112
package header
