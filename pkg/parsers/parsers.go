package parsers

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Parser reads a value of type T from the reader. A parser that fails
// leaves the reader where it found it.
type Parser[T any] func(r *Reader) Result[T]

// Parse runs the parser against the reader, restoring the start position
// if it fails.
func (p Parser[T]) Parse(r *Reader) Result[T] {
	start := r.Position()
	res := p(r)
	if !res.IsOk() {
		r.SetPosition(start)
		return res
	}
	r.SetPosition(res.Position())
	return res
}

// Or tries p first and falls back to other from the same start position.
func (p Parser[T]) Or(other Parser[T]) Parser[T] {
	return Or(p, other)
}

// ParseString runs p on a fresh reader over text.
func ParseString[T any](p Parser[T], text string) Result[T] {
	return p.Parse(NewReader(text))
}

// Or returns a parser that succeeds with the first of a or b that succeeds.
// Both branches start at the same position; when both fail the reason
// names both attempts.
func Or[T any](a, b Parser[T]) Parser[T] {
	return func(r *Reader) Result[T] {
		start := r.Position()
		first := a.Parse(r)
		if first.IsOk() {
			return first
		}
		r.SetPosition(start)
		second := b.Parse(r)
		if second.IsOk() {
			return second
		}
		return Fail[T](fmt.Sprintf("%s or %s", first.Reason(), second.Reason()), start)
	}
}

// Map converts the value of a successful parse.
func Map[T, U any](p Parser[T], f func(T) U) Parser[U] {
	return func(r *Reader) Result[U] {
		res := p.Parse(r)
		if !res.IsOk() {
			return Fail[U](res.Reason(), res.Position())
		}
		return Ok(f(res.Value()), res.Position())
	}
}

// Pair holds the values of two sequenced parsers.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Then runs a and then b, skipping whitespace between them. It fails
// without consuming anything if either fails.
func Then[A, B any](a Parser[A], b Parser[B]) Parser[Pair[A, B]] {
	return func(r *Reader) Result[Pair[A, B]] {
		start := r.Position()
		first := a.Parse(r)
		if !first.IsOk() {
			return Fail[Pair[A, B]](first.Reason(), first.Position())
		}
		r.SkipWhitespace()
		second := b.Parse(r)
		if !second.IsOk() {
			r.SetPosition(start)
			return Fail[Pair[A, B]](second.Reason(), second.Position())
		}
		return Ok(Pair[A, B]{First: first.Value(), Second: second.Value()}, second.Position())
	}
}

// Literal matches text exactly (case sensitive).
func Literal(text string) Parser[string] {
	return func(r *Reader) Result[string] {
		start := r.Position()
		if !strings.HasPrefix(r.Remaining(), text) {
			return Fail[string](fmt.Sprintf("expected '%s'", text), start)
		}
		return Ok(text, start+len(text))
	}
}

// Word reads a maximal run of non-whitespace characters.
func Word() Parser[string] {
	return func(r *Reader) Result[string] {
		start := r.Position()
		word := r.ReadWhile(func(c rune) bool { return !unicode.IsSpace(c) })
		if word == "" {
			return Fail[string]("expected a word", start)
		}
		return Ok(word, r.Position())
	}
}

// Integer reads a maximal run of ASCII digits. Values that do not fit in
// an int are reported as failures.
func Integer() Parser[int] {
	return func(r *Reader) Result[int] {
		start := r.Position()
		digits := r.ReadWhile(func(c rune) bool { return c >= '0' && c <= '9' })
		if digits == "" {
			return Fail[int]("expected an integer", start)
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return Fail[int](fmt.Sprintf("invalid integer '%s'", digits), start)
		}
		return Ok(n, r.Position())
	}
}

// Remaining consumes everything left in the input. It fails when fewer
// than minLength non-space characters are left.
func Remaining(minLength int) Parser[string] {
	return func(r *Reader) Result[string] {
		start := r.Position()
		rest := r.Remaining()
		if len([]rune(strings.TrimSpace(rest))) < minLength {
			return Fail[string](fmt.Sprintf("expected at least %d characters", minLength), start)
		}
		return Ok(rest, len(r.Input()))
	}
}
