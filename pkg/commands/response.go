package commands

import (
	"context"
	"fmt"
)

// Sender delivers replies for one event.
type Sender interface {
	// Reply sends a new message.
	Reply(ctx context.Context, resp *Response) error
	// EditOrReply replaces the message the event came from when the
	// platform allows it and replies otherwise.
	EditOrReply(ctx context.Context, resp *Response) error
	// Deny tells only the triggering user that the action is not allowed.
	Deny(ctx context.Context, text string) error
}

// Response is a reply to render.
type Response struct {
	Content string
	Embed   *Embed
	Prompt  *ChoicePrompt
}

// Text builds a plain text response.
func Text(content string) *Response {
	return &Response{Content: content}
}

// Textf builds a plain text response from a format string.
func Textf(format string, args ...any) *Response {
	return &Response{Content: fmt.Sprintf(format, args...)}
}

// Embed is a rich message block.
type Embed struct {
	Title       string
	URL         string
	Description string
	Fields      []EmbedField
	Footer      string
	Color       int
}

// EmbedField is a titled section of an Embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// ChoicePrompt asks the user to pick one of several candidates. Front-ends
// render it as buttons or a select menu whose payloads encode Command,
// InteractionID and the choice id.
type ChoicePrompt struct {
	Command       string
	InteractionID string
	Choices       []PromptChoice
}

// PromptChoice is one selectable entry.
type PromptChoice struct {
	ID    int
	Label string
}

// ButtonCustomID encodes a choice button payload.
func (p *ChoicePrompt) ButtonCustomID(choiceID int) string {
	return fmt.Sprintf("%s %d %s", p.Command, choiceID, p.InteractionID)
}

// MenuCustomID encodes the select menu payload. The choice id travels as
// the selected option value.
func (p *ChoicePrompt) MenuCustomID() string {
	return fmt.Sprintf("%s %s", p.Command, p.InteractionID)
}
