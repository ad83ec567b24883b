package core

// streaming.go provides memory-efficient readers for CSV ingestion.
//
// Uploaded files routinely arrive with a UTF-8 BOM (Windows exports) or with
// stray invalid byte sequences. Both readers operate on fixed-size chunks so
// memory stays O(buffer) regardless of file size. WrapForStreaming applies
// them in the correct order.

import (
	"io"
	"unicode/utf8"
)

// WrapForStreaming wraps r so the CSV parser sees a BOM-free, valid-UTF-8
// byte stream.
func WrapForStreaming(r io.Reader) io.Reader {
	return NewUTF8Sanitizer(NewBOMSkipper(r))
}

// BOMSkipper removes a UTF-8 byte order mark (0xEF 0xBB 0xBF) from the start
// of the stream, if present.
type BOMSkipper struct {
	r       io.Reader
	checked bool
	held    []byte
}

// NewBOMSkipper creates a reader that drops a leading UTF-8 BOM.
func NewBOMSkipper(r io.Reader) *BOMSkipper {
	return &BOMSkipper{r: r}
}

func (b *BOMSkipper) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		head := make([]byte, 3)
		n, err := io.ReadFull(b.r, head)
		isBOM := n == 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF
		if !isBOM {
			b.held = head[:n]
		}
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return 0, err
		}
	}

	if len(b.held) > 0 {
		n := copy(p, b.held)
		b.held = b.held[n:]
		return n, nil
	}
	return b.r.Read(p)
}

// UTF8Sanitizer replaces bytes that do not form valid UTF-8 sequences with
// '?' on the fly. A multi-byte sequence split across two reads is held back
// until the next read completes it.
type UTF8Sanitizer struct {
	r       io.Reader
	pending []byte
}

// NewUTF8Sanitizer creates a streaming UTF-8 sanitizer over r.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{r: r, pending: make([]byte, 0, utf8.UTFMax)}
}

func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	off := copy(p, s.pending)
	s.pending = s.pending[:0]

	n, err := s.r.Read(p[off:])
	n += off
	if n == 0 {
		return 0, err
	}

	data := p[:n]

	// Hold back an incomplete trailing sequence unless the stream has ended;
	// the next read may complete it.
	if err == nil {
		if trail := incompleteTrailingBytes(data); trail > 0 {
			s.pending = append(s.pending, data[n-trail:]...)
			n -= trail
			data = data[:n]
		}
	}

	for i := 0; i < len(data); {
		if data[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			data[i] = '?'
			i++
			continue
		}
		i += size
	}

	return n, err
}

// incompleteTrailingBytes returns how many bytes at the end of data form the
// start of a multi-byte sequence that has not been fully read yet.
func incompleteTrailingBytes(data []byte) int {
	for i := 1; i <= utf8.UTFMax && i <= len(data); i++ {
		b := data[len(data)-i]
		if !utf8.RuneStart(b) {
			continue
		}
		if b < utf8.RuneSelf {
			return 0
		}
		if i < expectedRuneLen(b) {
			return i
		}
		return 0
	}
	return 0
}

// expectedRuneLen returns the sequence length implied by a UTF-8 leading
// byte, or 1 for bytes that cannot start a sequence.
func expectedRuneLen(b byte) int {
	switch {
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}
