// Package commands routes chat events to commands and defines the contract
// a command implements for each way it can be invoked.
package commands

import (
	"context"

	"doctor/pkg/parsers"
)

// Command is the unit of behavior the Executor routes to. Handling is
// opt-in per source variant through the *Handler interfaces below; a
// command is never invoked for a variant it does not implement.
type Command interface {
	// Name identifies the command for slash, button and menu routing.
	Name() string
	// Keyword matches the start of a message.
	Keyword() parsers.Parser[string]
}

// SlashProvider is implemented by commands that register a slash command.
type SlashProvider interface {
	SlashData() SlashData
}

// MessageHandler handles typed messages.
type MessageHandler interface {
	HandleMessage(ctx context.Context, cc *Context, src *MessageSource, sender Sender) error
}

// SlashHandler handles slash command invocations.
type SlashHandler interface {
	HandleSlash(ctx context.Context, src *SlashSource, sender Sender) error
}

// ButtonHandler handles button clicks. cc is positioned after the command
// name in the button's custom id.
type ButtonHandler interface {
	HandleButton(ctx context.Context, cc *Context, src *ButtonSource, sender Sender) error
}

// MenuHandler handles select menu choices. cc is positioned after the
// command name in the menu's custom id.
type MenuHandler interface {
	HandleMenu(ctx context.Context, cc *Context, src *MenuSource, sender Sender) error
}

// OptionType is the declared type of a slash command option.
type OptionType int

const (
	OptionString OptionType = iota + 1
	OptionInteger
	OptionBoolean
)

// String returns the lower-case type name.
func (t OptionType) String() string {
	switch t {
	case OptionString:
		return "string"
	case OptionInteger:
		return "integer"
	case OptionBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// SlashData is the schema a platform needs to register a slash command.
type SlashData struct {
	Name        string
	Description string
	Options     []OptionData
}

// OptionData declares one slash command option.
type OptionData struct {
	Type        OptionType
	Name        string
	Description string
	Required    bool
}

// SlashRegistrar registers slash commands with the chat platform.
type SlashRegistrar interface {
	RegisterGuild(ctx context.Context, guildID string, data []SlashData) error
}
