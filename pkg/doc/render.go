package doc

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"doctor/pkg/commands"
)

// Discord embed limits.
const (
	maxDescriptionLength = 4096
	maxFieldValueLength  = 1024
	maxFields            = 25
)

var kindColors = map[string]int{
	"class":       0x3498DB,
	"interface":   0x1ABC9C,
	"enum":        0x9B59B6,
	"annotation":  0xE67E22,
	"record":      0x2ECC71,
	"method":      0xF1C40F,
	"constructor": 0xE74C3C,
	"field":       0x95A5A6,
}

// RenderOptions control how an element is shown.
type RenderOptions struct {
	ShortDescription bool
	OmitTags         bool
	QueryDuration    time.Duration
}

// Renderer turns loaded elements into chat responses.
type Renderer struct{}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render builds the response for one element.
func (r *Renderer) Render(result LoadResult, opts RenderOptions) *commands.Response {
	el := result.Element

	var desc strings.Builder
	if el.Declaration != "" {
		desc.WriteString("```java\n")
		desc.WriteString(el.Declaration)
		desc.WriteString("\n```\n")
	}
	body := strings.TrimSpace(el.Description)
	if opts.ShortDescription {
		body = shortDescription(body)
	}
	desc.WriteString(body)

	embed := &commands.Embed{
		Title:       el.QualifiedName,
		URL:         el.URL,
		Description: truncate(desc.String(), maxDescriptionLength),
		Color:       kindColors[strings.ToLower(el.Kind)],
		Footer:      footer(result.Source, opts.QueryDuration),
	}
	if !opts.OmitTags {
		embed.Fields = tagFields(el.Tags)
	}

	return &commands.Response{Embed: embed}
}

// RenderPrompt builds the "pick one" message for an ambiguous query.
func (r *Renderer) RenderPrompt(command, interactionID string, choices []FuzzyQueryResult) *commands.Response {
	prompt := &commands.ChoicePrompt{
		Command:       command,
		InteractionID: interactionID,
		Choices:       make([]commands.PromptChoice, 0, len(choices)),
	}

	var sb strings.Builder
	sb.WriteString("I found multiple matching elements. Which one did you mean?\n")
	for id, choice := range choices {
		prompt.Choices = append(prompt.Choices, commands.PromptChoice{ID: id, Label: choice.QualifiedName})
		sb.WriteString(fmt.Sprintf("`%d`: %s\n", id, choice.QualifiedName))
	}

	return &commands.Response{
		Content: truncate(sb.String(), 2000),
		Prompt:  prompt,
	}
}

func footer(source string, took time.Duration) string {
	parts := make([]string, 0, 2)
	if source != "" {
		parts = append(parts, source)
	}
	if took > 0 {
		parts = append(parts, fmt.Sprintf("Query took %s", took.Round(time.Microsecond)))
	}
	return strings.Join(parts, " | ")
}

func tagFields(tags []Tag) []commands.EmbedField {
	var (
		order  []string
		values = make(map[string][]string)
	)
	for _, tag := range tags {
		name := strings.TrimPrefix(strings.TrimSpace(tag.Name), "@")
		if name == "" {
			continue
		}
		if _, seen := values[name]; !seen {
			order = append(order, name)
		}
		values[name] = append(values[name], strings.TrimSpace(tag.Value))
	}

	fields := make([]commands.EmbedField, 0, len(order))
	for _, name := range order {
		if len(fields) == maxFields {
			break
		}
		fields = append(fields, commands.EmbedField{
			Name:   name,
			Value:  truncate(strings.Join(values[name], "\n"), maxFieldValueLength),
			Inline: name == "since" || name == "author",
		})
	}
	return fields
}

// shortDescription keeps the first paragraph and, within it, the first
// sentence.
func shortDescription(text string) string {
	if para, _, found := strings.Cut(text, "\n\n"); found {
		text = para
	}
	runes := []rune(text)
	for i, c := range runes {
		if c != '.' {
			continue
		}
		if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
			return string(runes[:i+1])
		}
	}
	return text
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}
