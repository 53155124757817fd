package commands

import (
	"errors"

	"doctor/pkg/parsers"
)

// Context consumes the arguments of one dispatch. It is not safe for
// concurrent use and is never reused across events.
type Context struct {
	reader *parsers.Reader
	match  string
}

// NewContext creates a context reading text from pos.
func NewContext(text string, pos int, match string) *Context {
	reader := parsers.NewReader(text)
	reader.SetPosition(pos)
	return &Context{reader: reader, match: match}
}

// Match returns what the keyword (or command name) matched.
func (cc *Context) Match() string {
	return cc.match
}

// Position returns the cursor position.
func (cc *Context) Position() int {
	return cc.reader.Position()
}

// Remaining returns the unconsumed input.
func (cc *Context) Remaining() string {
	return cc.reader.Remaining()
}

// Shift parses the next argument. A failure aborts the dispatch: the error
// is a *DispatchError and the cursor is left where it was.
func Shift[T any](cc *Context, p parsers.Parser[T]) (T, error) {
	start := cc.reader.Position()
	cc.reader.SkipWhitespace()

	res := p.Parse(cc.reader)
	if !res.IsOk() {
		cc.reader.SetPosition(start)
		var zero T
		return zero, &DispatchError{Err: res.Err()}
	}
	return res.Value(), nil
}

// TryShift parses an optional argument. On failure the cursor is unchanged
// and ok is false.
func TryShift[T any](cc *Context, p parsers.Parser[T]) (T, bool) {
	start := cc.reader.Position()
	cc.reader.SkipWhitespace()

	res := p.Parse(cc.reader)
	if !res.IsOk() {
		cc.reader.SetPosition(start)
		var zero T
		return zero, false
	}
	return res.Value(), true
}

// DispatchError aborts a single command invocation. The Executor reports
// it back to the user instead of logging it as a failure.
type DispatchError struct {
	Err error
}

func (e *DispatchError) Error() string {
	return "invalid arguments: " + e.Err.Error()
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Abort builds a DispatchError with a plain reason.
func Abort(reason string) error {
	return &DispatchError{Err: errors.New(reason)}
}
