package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"doctor/pkg/logger"
	"doctor/pkg/parsers"
)

// UpdateSlashesCommand re-registers every slash command in the guild the
// message was sent from. Only the configured owner may run it; anyone else
// is ignored.
type UpdateSlashesCommand struct {
	log       *logger.Logger
	executor  *Executor
	registrar SlashRegistrar
	ownerID   string
}

// NewUpdateSlashesCommand creates the command.
func NewUpdateSlashesCommand(log *logger.Logger, executor *Executor, registrar SlashRegistrar, ownerID string) *UpdateSlashesCommand {
	return &UpdateSlashesCommand{
		log:       log,
		executor:  executor,
		registrar: registrar,
		ownerID:   ownerID,
	}
}

func (c *UpdateSlashesCommand) Name() string { return "update-slashes" }

func (c *UpdateSlashesCommand) Keyword() parsers.Parser[string] {
	return parsers.Literal("update-slashes")
}

func (c *UpdateSlashesCommand) HandleMessage(ctx context.Context, cc *Context, src *MessageSource, sender Sender) error {
	if c.ownerID == "" || src.AuthorID() != c.ownerID {
		c.log.Debug("Ignoring update-slashes from non-owner", zap.String("user", src.AuthorID()))
		return nil
	}
	if src.GuildID() == "" {
		return Abort("this only works inside a guild")
	}

	data := c.executor.SlashData()
	if err := c.registrar.RegisterGuild(ctx, src.GuildID(), data); err != nil {
		return fmt.Errorf("registering slash commands in guild %s: %w", src.GuildID(), err)
	}

	c.log.Info("Re-registered slash commands",
		zap.String("guild", src.GuildID()),
		zap.Int("count", len(data)))
	return sender.Reply(ctx, Text("Commands in your guild re-registered"))
}
