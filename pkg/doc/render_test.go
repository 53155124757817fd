package doc

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortDescription(t *testing.T) {
	tests := map[string]string{
		"One sentence. Two sentences.":         "One sentence.",
		"First paragraph\n\nSecond paragraph.": "First paragraph",
		"Uses e.g.the version 1.5 here. Then.": "Uses e.g.the version 1.5 here.",
		"No period at all":                     "No period at all",
		"":                                     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, shortDescription(in), in)
	}
}

func TestRenderTagsAndFooter(t *testing.T) {
	el := &Element{
		QualifiedName: "java.util.List#add(E)",
		Kind:          "method",
		Declaration:   "boolean add(E e)",
		Description:   "Appends the element.",
		URL:           "https://docs.example/List.html#add(E)",
		Tags: []Tag{
			{Name: "@param", Value: "e element to be appended"},
			{Name: "return", Value: "true"},
			{Name: "throws", Value: "UnsupportedOperationException"},
			{Name: "throws", Value: "ClassCastException"},
		},
	}

	resp := NewRenderer().Render(LoadResult{Element: el, Source: "jdk-21"}, RenderOptions{QueryDuration: 1500 * time.Microsecond})
	require.NotNil(t, resp.Embed)

	embed := resp.Embed
	assert.Equal(t, el.QualifiedName, embed.Title)
	assert.Equal(t, el.URL, embed.URL)
	assert.True(t, strings.HasPrefix(embed.Description, "```java\nboolean add(E e)\n```"))
	assert.Equal(t, kindColors["method"], embed.Color)
	assert.Equal(t, "jdk-21 | Query took 1.5ms", embed.Footer)

	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "param", embed.Fields[0].Name)
	assert.Equal(t, "throws", embed.Fields[2].Name)
	assert.Equal(t, "UnsupportedOperationException\nClassCastException", embed.Fields[2].Value)

	resp = NewRenderer().Render(LoadResult{Element: el}, RenderOptions{OmitTags: true})
	assert.Empty(t, resp.Embed.Fields)
	assert.Empty(t, resp.Embed.Footer)
}

func TestRenderTruncatesLongDescriptions(t *testing.T) {
	el := &Element{QualifiedName: "a.A", Description: strings.Repeat("x", maxDescriptionLength*2)}

	resp := NewRenderer().Render(LoadResult{Element: el}, RenderOptions{})
	assert.Len(t, []rune(resp.Embed.Description), maxDescriptionLength)
}

func TestRenderPrompt(t *testing.T) {
	resp := NewRenderer().RenderPrompt("doc", "id-1", []FuzzyQueryResult{
		{QualifiedName: "a.Foo"},
		{QualifiedName: "b.Foo"},
	})

	require.NotNil(t, resp.Prompt)
	assert.Equal(t, "doc 1 id-1", resp.Prompt.ButtonCustomID(1))
	assert.Equal(t, "doc id-1", resp.Prompt.MenuCustomID())
	assert.Contains(t, resp.Content, "`0`: a.Foo")
	assert.Contains(t, resp.Content, "`1`: b.Foo")
}
