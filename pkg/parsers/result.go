package parsers

import "fmt"

// ParseError describes why and where a parser failed.
type ParseError struct {
	Position int
	Reason   string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (at position %d)", e.Reason, e.Position)
}

// Result is the outcome of a single parse attempt: either a value together
// with the position after it, or a failure reason with the position it
// occurred at.
type Result[T any] struct {
	value  T
	pos    int
	reason string
	ok     bool
}

// Ok builds a successful result that ends at pos.
func Ok[T any](value T, pos int) Result[T] {
	return Result[T]{value: value, pos: pos, ok: true}
}

// Fail builds a failed result.
func Fail[T any](reason string, pos int) Result[T] {
	return Result[T]{reason: reason, pos: pos}
}

// IsOk reports whether the parse succeeded.
func (r Result[T]) IsOk() bool {
	return r.ok
}

// Value returns the parsed value; the zero value on failure.
func (r Result[T]) Value() T {
	return r.value
}

// Position is the cursor after the value on success, or the failure offset.
func (r Result[T]) Position() int {
	return r.pos
}

// Reason returns the failure reason, empty on success.
func (r Result[T]) Reason() string {
	return r.reason
}

// Err returns a *ParseError for failed results and nil otherwise.
func (r Result[T]) Err() error {
	if r.ok {
		return nil
	}
	return &ParseError{Position: r.pos, Reason: r.reason}
}

// Get returns the value or the parse error.
func (r Result[T]) Get() (T, error) {
	if !r.ok {
		var zero T
		return zero, r.Err()
	}
	return r.value, nil
}
