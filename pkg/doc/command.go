package doc

import (
	"context"

	"doctor/pkg/commands"
	"doctor/pkg/parsers"
)

const (
	denyButton = "Are you trying to steal those buttons?"
	denyMenu   = "Checkbox theft is a crime!"
)

// Command is the doc/javadoc lookup command.
type Command struct {
	resolver *Resolver
}

// NewCommand creates the lookup command.
func NewCommand(resolver *Resolver) *Command {
	return &Command{resolver: resolver}
}

func (c *Command) Name() string { return "doc" }

func (c *Command) Keyword() parsers.Parser[string] {
	return parsers.Literal("doc").Or(parsers.Literal("javadoc"))
}

func (c *Command) SlashData() commands.SlashData {
	return commands.SlashData{
		Name:        "doc",
		Description: "Fetches Javadoc for methods, classes and fields.",
		Options: []commands.OptionData{
			{
				Type:        commands.OptionString,
				Name:        "query",
				Description: "The query. Example: 'String#contains('",
				Required:    true,
			},
			{
				Type:        commands.OptionBoolean,
				Name:        "long",
				Description: "Display a long version of the javadoc",
			},
			{
				Type:        commands.OptionBoolean,
				Name:        "omit-tags",
				Description: "If true the Javadoc tags will be omitted",
			},
		},
	}
}

// HandleMessage handles "doc [long] <query>".
func (c *Command) HandleMessage(ctx context.Context, cc *commands.Context, src *commands.MessageSource, sender commands.Sender) error {
	_, long := commands.TryShift(cc, parsers.Literal("long"))
	query, err := commands.Shift(cc, parsers.Remaining(2))
	if err != nil {
		return err
	}

	return c.resolver.Resolve(ctx, Request{
		Command:          c.Name(),
		Query:            query,
		OwnerID:          src.AuthorID(),
		ShortDescription: !long,
		OmitTags:         true,
	}, sender)
}

func (c *Command) HandleSlash(ctx context.Context, src *commands.SlashSource, sender commands.Sender) error {
	raw, ok := src.StringOption("query")
	if !ok {
		return commands.Abort("missing option 'query'")
	}
	query, err := parsers.ParseString(parsers.Remaining(2), raw).Get()
	if err != nil {
		return &commands.DispatchError{Err: err}
	}

	return c.resolver.Resolve(ctx, Request{
		Command:          c.Name(),
		Query:            query,
		OwnerID:          src.AuthorID(),
		ShortDescription: !src.BoolOption("long", false),
		OmitTags:         src.BoolOption("omit-tags", true),
	}, sender)
}

// HandleButton handles "<choice-id> <interaction-id>".
func (c *Command) HandleButton(ctx context.Context, cc *commands.Context, src *commands.ButtonSource, sender commands.Sender) error {
	choiceID, err := commands.Shift(cc, parsers.Integer())
	if err != nil {
		return err
	}
	interactionID, err := commands.Shift(cc, parsers.Word())
	if err != nil {
		return err
	}

	return c.resolver.FollowUp(ctx, src.AuthorID(), interactionID, choiceID, denyButton, sender)
}

// HandleMenu handles "<interaction-id>" with the choice id as the selected
// value.
func (c *Command) HandleMenu(ctx context.Context, cc *commands.Context, src *commands.MenuSource, sender commands.Sender) error {
	interactionID, err := commands.Shift(cc, parsers.Word())
	if err != nil {
		return err
	}
	choiceID, err := parsers.ParseString(parsers.Integer(), src.Value).Get()
	if err != nil {
		return &commands.DispatchError{Err: err}
	}

	return c.resolver.FollowUp(ctx, src.AuthorID(), interactionID, choiceID, denyMenu, sender)
}
