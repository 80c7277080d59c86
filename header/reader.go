package header

import (
	"bytes"
	"strings"

	"httpwire/util/rule"
)

// LineReader scans a decoded response header block. The buffer is never
// modified; only the cursor moves. Malformed input is skipped, never
// reported: the transport layer has already committed to this block and
// a broken line must not fail the whole response.
type LineReader struct {
	buf []byte
	pos int
	end int
}

// NewLineReader returns a reader over buf[offset : offset+length].
func NewLineReader(buf []byte, offset, length int) *LineReader {
	return &LineReader{buf: buf, pos: offset, end: offset + length}
}

func NewLineReaderString(s string) *LineReader {
	return NewLineReader([]byte(s), 0, len(s))
}

// ReadLine returns the next line without its CRLF terminator and
// advances past it. A non-empty tail without a final CRLF is returned
// exactly once as the last line.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-2.2
func (lr *LineReader) ReadLine() (line []byte, ok bool) {
	if lr.pos >= lr.end {
		return nil, false
	}

	rest := lr.buf[lr.pos:lr.end]
	if idx := bytes.Index(rest, rule.CRLF); idx >= 0 {
		lr.pos += idx + len(rule.CRLF)
		return rest[:idx], true
	}

	// Missing the final CRLF. Hand out the tail and report exhaustion
	// from here on.
	lr.pos = lr.end
	return rest, true
}

// ReadHeader produces the next (name, value) pair. Blank lines and lines
// without a colon are skipped. The name is interned through the known-name
// registry; the value is trimmed of surrounding whitespace. ok is false
// only when no further line can be produced.
func (lr *LineReader) ReadHeader() (name, value string, ok bool) {
	for {
		line, ok := lr.ReadLine()
		if !ok {
			return "", "", false
		}

		if len(line) == 0 {
			// Blank separator.
			continue
		}

		rawName, rawValue, found := bytes.Cut(line, []byte{':'})
		if !found {
			// Malformed field line, silently dropped.
			continue
		}

		name = internName(rawName)
		value = internValue(name, rule.TrimOWSBytes(rawValue))

		return name, value, true
	}
}

func internName(raw []byte) string {
	// Probe the registry by content before allocating.
	if canonical, ok := Known(string(raw)); ok {
		return canonical
	}
	return string(raw)
}

// internValue returns a shared constant for the common content codings,
// a fresh string otherwise.
func internValue(name string, raw []byte) string {
	if name == ContentEncoding {
		switch {
		case strings.EqualFold(string(raw), EncodingGzip):
			return EncodingGzip
		case strings.EqualFold(string(raw), EncodingDeflate):
			return EncodingDeflate
		}
	}
	return string(raw)
}
