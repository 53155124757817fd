package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteral(t *testing.T) {
	r := NewReader("doc String")
	res := Literal("doc").Parse(r)
	require.True(t, res.IsOk())
	assert.Equal(t, "doc", res.Value())
	assert.Equal(t, 3, r.Position())

	r = NewReader("Doc String")
	res = Literal("doc").Parse(r)
	require.False(t, res.IsOk())
	assert.Contains(t, res.Reason(), "'doc'")
	assert.Equal(t, 0, r.Position())
}

func TestWord(t *testing.T) {
	r := NewReader("abc-123 rest")
	res := Word().Parse(r)
	require.True(t, res.IsOk())
	assert.Equal(t, "abc-123", res.Value())
	assert.Equal(t, " rest", r.Remaining())

	res = Word().Parse(NewReader(""))
	assert.False(t, res.IsOk())
}

func TestInteger(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
		ok    bool
	}{
		{name: "simple", input: "42 x", want: 42, ok: true},
		{name: "leading zeros", input: "007", want: 7, ok: true},
		{name: "not a number", input: "x1", ok: false},
		{name: "empty", input: "", ok: false},
		{name: "overflow", input: "999999999999999999999999999", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.input)
			res := Integer().Parse(r)
			require.Equal(t, tt.ok, res.IsOk(), res.Reason())
			if tt.ok {
				assert.Equal(t, tt.want, res.Value())
				return
			}
			assert.Equal(t, 0, r.Position())
			assert.Error(t, res.Err())
		})
	}
}

func TestRemaining(t *testing.T) {
	r := NewReader("doc String#contains")
	r.SetPosition(4)
	res := Remaining(2).Parse(r)
	require.True(t, res.IsOk())
	assert.Equal(t, "String#contains", res.Value())
	assert.False(t, r.CanRead())

	r = NewReader("doc  a ")
	r.SetPosition(3)
	res = Remaining(2).Parse(r)
	require.False(t, res.IsOk())
	assert.Equal(t, 3, r.Position())
}

func TestOr(t *testing.T) {
	keyword := Literal("doc").Or(Literal("javadoc"))

	res := ParseString(keyword, "javadoc Foo")
	require.True(t, res.IsOk())
	assert.Equal(t, "javadoc", res.Value())
	assert.Equal(t, len("javadoc"), res.Position())

	res = ParseString(keyword, "doc Foo")
	require.True(t, res.IsOk())
	assert.Equal(t, "doc", res.Value())

	r := NewReader("help")
	res = keyword.Parse(r)
	require.False(t, res.IsOk())
	assert.Equal(t, "expected 'doc' or expected 'javadoc'", res.Reason())
	assert.Equal(t, 0, r.Position())
}

func TestOrSucceedsIffEitherBranchSucceeds(t *testing.T) {
	branches := []Parser[string]{Literal("ab"), Literal("a"), Word(), Literal("zz")}
	inputs := []string{"", "a", "ab", "abc", "zz top", " x", "b"}

	for _, a := range branches {
		for _, b := range branches {
			for _, in := range inputs {
				ra := ParseString(a, in)
				rb := ParseString(b, in)
				ror := ParseString(Or(a, b), in)

				assert.Equal(t, ra.IsOk() || rb.IsOk(), ror.IsOk(), "input %q", in)
				if ra.IsOk() {
					assert.Equal(t, ra.Position(), ror.Position())
				} else if rb.IsOk() {
					assert.Equal(t, rb.Position(), ror.Position())
				}
			}
		}
	}
}

func TestParsersArePure(t *testing.T) {
	p := Then(Integer(), Word())
	first := ParseString(p, "12 abcdef")
	second := ParseString(p, "12 abcdef")
	assert.Equal(t, first, second)
	require.True(t, first.IsOk())
	assert.Equal(t, 12, first.Value().First)
	assert.Equal(t, "abcdef", first.Value().Second)
}

func TestThenRestoresOnSecondFailure(t *testing.T) {
	r := NewReader("12 ")
	res := Then(Integer(), Word()).Parse(r)
	require.False(t, res.IsOk())
	assert.Equal(t, 0, r.Position())
}

func TestMap(t *testing.T) {
	double := Map(Integer(), func(n int) int { return n * 2 })
	res := ParseString(double, "21")
	require.True(t, res.IsOk())
	assert.Equal(t, 42, res.Value())

	res = ParseString(double, "x")
	assert.False(t, res.IsOk())
}

func TestResultGet(t *testing.T) {
	v, err := ParseString(Word(), "hello").Get()
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	_, err = ParseString(Word(), "").Get()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 0, perr.Position)
}
