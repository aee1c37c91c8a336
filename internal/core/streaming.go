package core

// streaming.go holds the io.Reader wrappers the decoder stacks under encoding/csv:
//
//   - bomSkipper drops a leading UTF-8 BOM written by Excel and Notepad
//   - utf8Sanitizer replaces invalid bytes with '?' without buffering the file
//   - rowRecorder keeps the bytes of the record being parsed so a malformed
//     row can be echoed back in the error report

import (
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// bomSkipper removes a UTF-8 byte order mark from the start of a stream.
type bomSkipper struct {
	r       io.Reader
	checked bool
	head    []byte
}

func newBOMSkipper(r io.Reader) *bomSkipper {
	return &bomSkipper{r: r}
}

func (b *bomSkipper) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		buf := make([]byte, len(utf8BOM))
		n, err := io.ReadFull(b.r, buf)
		switch {
		case err == io.ErrUnexpectedEOF || err == io.EOF:
			err = nil
		case err != nil:
			return 0, err
		}
		b.head = buf[:n]
		if bytes.Equal(b.head, utf8BOM) {
			b.head = nil
		}
	}

	if len(b.head) > 0 {
		n := copy(p, b.head)
		b.head = b.head[n:]
		return n, nil
	}
	return b.r.Read(p)
}

// utf8Sanitizer replaces invalid UTF-8 bytes with '?'. A multi-byte sequence
// split across two reads is carried over to the next call.
type utf8Sanitizer struct {
	r       io.Reader
	pending []byte
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{r: r, pending: make([]byte, 0, utf8.UTFMax)}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
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

	return s.sanitize(p[:n], err != nil), err
}

// sanitize rewrites data in place and returns the number of bytes to hand on.
func (s *utf8Sanitizer) sanitize(data []byte, final bool) int {
	if asciiOnly(data) {
		return len(data)
	}

	w := 0
	for r := 0; r < len(data); {
		c, size := utf8.DecodeRune(data[r:])
		if c == utf8.RuneError && size == 1 {
			if !final && !utf8.FullRune(data[r:]) {
				s.pending = append(s.pending, data[r:]...)
				return w
			}
			data[w] = '?'
			w++
			r++
			continue
		}
		copy(data[w:], data[r:r+size])
		w += size
		r += size
	}
	return w
}

func asciiOnly(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// rowRecorder tees everything the CSV tokenizer consumes so that the text of
// a record can be recovered from the tokenizer's input offsets.
type rowRecorder struct {
	r    io.Reader
	buf  []byte
	base int64 // stream offset of buf[0]
}

func newRowRecorder(r io.Reader) *rowRecorder {
	return &rowRecorder{r: r}
}

func (rr *rowRecorder) Read(p []byte) (int, error) {
	n, err := rr.r.Read(p)
	rr.buf = append(rr.buf, p[:n]...)
	return n, err
}

// take returns the bytes between stream offsets from and to, stripped of the
// surrounding line breaks, and releases everything before to.
func (rr *rowRecorder) take(from, to int64) string {
	lo, hi := from-rr.base, to-rr.base
	if lo < 0 {
		lo = 0
	}
	if hi > int64(len(rr.buf)) {
		hi = int64(len(rr.buf))
	}
	if lo > hi {
		lo = hi
	}

	raw := string(bytes.Trim(rr.buf[lo:hi], "\r\n"))

	rest := copy(rr.buf, rr.buf[hi:])
	rr.buf = rr.buf[:rest]
	rr.base += hi
	return raw
}

// wrapForDecoding applies BOM removal then UTF-8 sanitization.
func wrapForDecoding(r io.Reader) io.Reader {
	return newUTF8Sanitizer(newBOMSkipper(r))
}
