// Package parsers provides small composable parsers used to read command
// arguments out of message text and component payloads.
package parsers

import (
	"unicode"
	"unicode/utf8"
)

// Reader is a cursor over an immutable input string.
type Reader struct {
	input string
	pos   int
}

// NewReader creates a reader positioned at the start of input.
func NewReader(input string) *Reader {
	return &Reader{input: input}
}

// Input returns the full underlying text.
func (r *Reader) Input() string {
	return r.input
}

// Position returns the current byte offset.
func (r *Reader) Position() int {
	return r.pos
}

// SetPosition moves the cursor. Out of range values are clamped.
func (r *Reader) SetPosition(pos int) {
	switch {
	case pos < 0:
		r.pos = 0
	case pos > len(r.input):
		r.pos = len(r.input)
	default:
		r.pos = pos
	}
}

// CanRead reports whether any input is left.
func (r *Reader) CanRead() bool {
	return r.pos < len(r.input)
}

// Remaining returns the unconsumed input.
func (r *Reader) Remaining() string {
	return r.input[r.pos:]
}

// Peek returns the next rune without consuming it.
func (r *Reader) Peek() (rune, bool) {
	if !r.CanRead() {
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(r.input[r.pos:])
	return c, true
}

// Read consumes and returns the next rune.
func (r *Reader) Read() (rune, bool) {
	if !r.CanRead() {
		return 0, false
	}
	c, size := utf8.DecodeRuneInString(r.input[r.pos:])
	r.pos += size
	return c, true
}

// ReadWhile consumes runes as long as keep returns true and returns them.
func (r *Reader) ReadWhile(keep func(rune) bool) string {
	start := r.pos
	for r.CanRead() {
		c, size := utf8.DecodeRuneInString(r.input[r.pos:])
		if !keep(c) {
			break
		}
		r.pos += size
	}
	return r.input[start:r.pos]
}

// SkipWhitespace advances past any whitespace.
func (r *Reader) SkipWhitespace() {
	r.ReadWhile(unicode.IsSpace)
}
