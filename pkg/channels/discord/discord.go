// Package discord connects the command executor to Discord.
package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"doctor/pkg/commands"
	"doctor/pkg/config"
	"doctor/pkg/logger"
)

const dispatchTimeout = 30 * time.Second

// api is the part of *discordgo.Session the channel uses.
type api interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Channel implements the Discord front-end.
type Channel struct {
	log      *logger.Logger
	config   config.DiscordConfig
	executor *commands.Executor
	session  *discordgo.Session
	api      api
	selfID   func() string
	running  bool
}

// NewChannel creates a new Discord channel.
func NewChannel(log *logger.Logger, cfg config.DiscordConfig, executor *commands.Executor) (*Channel, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}

	c := &Channel{
		log:      log,
		config:   cfg,
		executor: executor,
		session:  session,
		api:      session,
	}
	c.selfID = func() string {
		if session.State == nil || session.State.User == nil {
			return ""
		}
		return session.State.User.ID
	}
	return c, nil
}

// IsEnabled returns whether the channel is enabled.
func (c *Channel) IsEnabled() bool {
	return c.config.Enabled
}

// Start opens the gateway connection.
func (c *Channel) Start(ctx context.Context) error {
	c.log.Info("Starting Discord channel")

	c.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		c.onMessage(m)
	})
	c.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		c.onInteraction(i)
	})
	c.session.AddHandler(c.onReady)

	c.session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("opening discord connection: %w", err)
	}
	c.running = true
	return nil
}

// Stop closes the gateway connection.
func (c *Channel) Stop(ctx context.Context) error {
	c.log.Info("Stopping Discord channel")
	if !c.running {
		return nil
	}
	c.running = false

	if err := c.session.Close(); err != nil {
		return fmt.Errorf("closing discord session: %w", err)
	}
	return nil
}

func (c *Channel) onReady(s *discordgo.Session, r *discordgo.Ready) {
	c.log.Info("Discord bot connected",
		zap.String("username", r.User.Username),
		zap.String("user_id", r.User.ID),
		zap.Int("guilds", len(r.Guilds)))

	if !c.config.RegisterOnStart {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	data := c.executor.SlashData()
	for _, guildID := range c.config.GuildIDs {
		if err := c.RegisterGuild(ctx, guildID, data); err != nil {
			c.log.Error("Failed to register slash commands",
				zap.String("guild", guildID),
				zap.Error(err))
		}
	}
}

// RegisterGuild replaces the guild's slash commands with data.
func (c *Channel) RegisterGuild(ctx context.Context, guildID string, data []commands.SlashData) error {
	appID := c.selfID()
	if appID == "" {
		return fmt.Errorf("discord session is not ready")
	}

	created, err := c.api.ApplicationCommandBulkOverwrite(appID, guildID, applicationCommands(data), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("overwriting guild commands: %w", err)
	}

	c.log.Info("Registered slash commands",
		zap.String("guild", guildID),
		zap.Int("count", len(created)))
	return nil
}

func (c *Channel) onMessage(m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == c.selfID() {
		return
	}

	if !c.isAllowed(m.Author.ID) {
		c.log.Debug("Unauthorized user",
			zap.String("user_id", m.Author.ID),
			zap.String("username", m.Author.Username))
		return
	}

	text, ok := c.stripPrefix(m.Content)
	if !ok {
		return
	}

	src := &commands.MessageSource{
		Origin: commands.Origin{Author: m.Author.ID, Channel: m.ChannelID, Guild: m.GuildID},
		Text:   text,
	}
	sender := &messageSender{api: c.api, channelID: m.ChannelID, messageID: m.ID, guildID: m.GuildID}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()
	c.executor.Dispatch(ctx, src, sender)
}

func (c *Channel) onInteraction(i *discordgo.InteractionCreate) {
	if i == nil || i.Interaction == nil {
		return
	}

	userID := interactionUserID(i)
	if userID == "" || !c.isAllowed(userID) {
		return
	}

	src, ok := sourceFromInteraction(i, userID)
	if !ok {
		c.log.Debug("Ignoring interaction", zap.Int("type", int(i.Type)))
		return
	}
	sender := &interactionSender{
		api:         c.api,
		interaction: i.Interaction,
		component:   i.Type == discordgo.InteractionMessageComponent,
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()
	c.executor.Dispatch(ctx, src, sender)
}

// stripPrefix removes the configured prefix. Messages without it are not
// meant for the bot.
func (c *Channel) stripPrefix(content string) (string, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", false
	}
	if c.config.Prefix == "" {
		return content, true
	}
	if !strings.HasPrefix(content, c.config.Prefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(content, c.config.Prefix)), true
}

// isAllowed checks if a user is allowed to use the bot.
func (c *Channel) isAllowed(userID string) bool {
	if len(c.config.AllowFrom) == 0 {
		return true
	}

	for _, allowed := range c.config.AllowFrom {
		if allowed == userID || allowed == "*" {
			return true
		}
	}

	return false
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func sourceFromInteraction(i *discordgo.InteractionCreate, userID string) (commands.Source, bool) {
	origin := commands.Origin{Author: userID, Channel: i.ChannelID, Guild: i.GuildID}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		return &commands.SlashSource{
			Origin:      origin,
			CommandName: data.Name,
			Options:     slashOptions(data.Options),
		}, true

	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		switch data.ComponentType {
		case discordgo.ButtonComponent:
			return &commands.ButtonSource{Origin: origin, CustomID: data.CustomID}, true
		case discordgo.SelectMenuComponent:
			if len(data.Values) == 0 {
				return nil, false
			}
			return &commands.MenuSource{Origin: origin, CustomID: data.CustomID, Value: data.Values[0]}, true
		}
	}
	return nil, false
}

func slashOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]commands.Option {
	out := make(map[string]commands.Option, len(opts))
	for _, opt := range opts {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionString:
			out[opt.Name] = commands.Option{Type: commands.OptionString, Value: opt.StringValue()}
		case discordgo.ApplicationCommandOptionInteger:
			out[opt.Name] = commands.Option{Type: commands.OptionInteger, Value: opt.IntValue()}
		case discordgo.ApplicationCommandOptionBoolean:
			out[opt.Name] = commands.Option{Type: commands.OptionBoolean, Value: opt.BoolValue()}
		}
	}
	return out
}
