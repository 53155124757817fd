package discord

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"

	"doctor/pkg/commands"
)

// messageSender answers a typed message in its channel. Messages cannot be
// edited into answers, so EditOrReply and Deny reply too.
type messageSender struct {
	api       api
	channelID string
	messageID string
	guildID   string
}

func (s *messageSender) Reply(ctx context.Context, resp *commands.Response) error {
	send := messageSend(resp)
	send.Reference = &discordgo.MessageReference{
		MessageID: s.messageID,
		ChannelID: s.channelID,
		GuildID:   s.guildID,
	}
	send.AllowedMentions = &discordgo.MessageAllowedMentions{}
	_, err := s.api.ChannelMessageSendComplex(s.channelID, send, discordgo.WithContext(ctx))
	return err
}

func (s *messageSender) EditOrReply(ctx context.Context, resp *commands.Response) error {
	return s.Reply(ctx, resp)
}

func (s *messageSender) Deny(ctx context.Context, text string) error {
	return s.Reply(ctx, &commands.Response{Content: text})
}

// interactionSender answers an interaction. The first answer is the
// interaction response; later ones become follow-up messages.
type interactionSender struct {
	api         api
	interaction *discordgo.Interaction
	component   bool

	mu        sync.Mutex
	responded bool
}

func (s *interactionSender) Reply(ctx context.Context, resp *commands.Response) error {
	return s.respond(ctx, discordgo.InteractionResponseChannelMessageWithSource, resp, 0)
}

// EditOrReply replaces the message holding the clicked component.
func (s *interactionSender) EditOrReply(ctx context.Context, resp *commands.Response) error {
	if !s.component {
		return s.Reply(ctx, resp)
	}
	return s.respond(ctx, discordgo.InteractionResponseUpdateMessage, resp, 0)
}

func (s *interactionSender) Deny(ctx context.Context, text string) error {
	return s.respond(ctx,
		discordgo.InteractionResponseChannelMessageWithSource,
		&commands.Response{Content: text},
		discordgo.MessageFlagsEphemeral)
}

func (s *interactionSender) respond(ctx context.Context, kind discordgo.InteractionResponseType, resp *commands.Response, flags discordgo.MessageFlags) error {
	s.mu.Lock()
	first := !s.responded
	s.responded = true
	s.mu.Unlock()

	data := responseData(resp)
	data.Flags = flags

	if first {
		return s.api.InteractionRespond(s.interaction, &discordgo.InteractionResponse{
			Type: kind,
			Data: data,
		}, discordgo.WithContext(ctx))
	}

	_, err := s.api.FollowupMessageCreate(s.interaction, false, &discordgo.WebhookParams{
		Content:    data.Content,
		Embeds:     data.Embeds,
		Components: data.Components,
		Flags:      flags,
	}, discordgo.WithContext(ctx))
	return err
}
