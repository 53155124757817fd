package discord

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"doctor/pkg/commands"
)

// Discord component limits.
const (
	maxButtons       = 5
	maxSelectOptions = 25
	maxButtonLabel   = 80
	maxOptionLabel   = 100
)

func messageSend(resp *commands.Response) *discordgo.MessageSend {
	send := &discordgo.MessageSend{Content: resp.Content}
	if resp.Embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{embed(resp.Embed)}
	}
	if resp.Prompt != nil {
		send.Components = promptComponents(resp.Prompt)
	}
	return send
}

// responseData always sets Components so an updated message loses the
// buttons it had.
func responseData(resp *commands.Response) *discordgo.InteractionResponseData {
	data := &discordgo.InteractionResponseData{
		Content:    resp.Content,
		Embeds:     []*discordgo.MessageEmbed{},
		Components: []discordgo.MessageComponent{},
	}
	if resp.Embed != nil {
		data.Embeds = []*discordgo.MessageEmbed{embed(resp.Embed)}
	}
	if resp.Prompt != nil {
		data.Components = promptComponents(resp.Prompt)
	}
	return data
}

func embed(e *commands.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       e.Title,
		URL:         e.URL,
		Description: e.Description,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if e.Footer != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	return out
}

// promptComponents renders a few choices as buttons and more as a select
// menu.
func promptComponents(p *commands.ChoicePrompt) []discordgo.MessageComponent {
	if len(p.Choices) <= maxButtons {
		buttons := make([]discordgo.MessageComponent, 0, len(p.Choices))
		for _, choice := range p.Choices {
			buttons = append(buttons, discordgo.Button{
				Label:    clip(fmt.Sprintf("%d: %s", choice.ID, choice.Label), maxButtonLabel),
				Style:    discordgo.SecondaryButton,
				CustomID: p.ButtonCustomID(choice.ID),
			})
		}
		return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
	}

	options := make([]discordgo.SelectMenuOption, 0, maxSelectOptions)
	for _, choice := range p.Choices {
		if len(options) == maxSelectOptions {
			break
		}
		options = append(options, discordgo.SelectMenuOption{
			Label: clip(fmt.Sprintf("%d: %s", choice.ID, choice.Label), maxOptionLabel),
			Value: strconv.Itoa(choice.ID),
		})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    p.MenuCustomID(),
				Placeholder: "Choose an element",
				Options:     options,
			},
		}},
	}
}

func applicationCommands(data []commands.SlashData) []*discordgo.ApplicationCommand {
	out := make([]*discordgo.ApplicationCommand, 0, len(data))
	for _, d := range data {
		cmd := &discordgo.ApplicationCommand{
			Type:        discordgo.ChatApplicationCommand,
			Name:        d.Name,
			Description: d.Description,
		}
		for _, opt := range d.Options {
			cmd.Options = append(cmd.Options, &discordgo.ApplicationCommandOption{
				Type:        optionType(opt.Type),
				Name:        opt.Name,
				Description: opt.Description,
				Required:    opt.Required,
			})
		}
		out = append(out, cmd)
	}
	return out
}

func optionType(t commands.OptionType) discordgo.ApplicationCommandOptionType {
	switch t {
	case commands.OptionInteger:
		return discordgo.ApplicationCommandOptionInteger
	case commands.OptionBoolean:
		return discordgo.ApplicationCommandOptionBoolean
	default:
		return discordgo.ApplicationCommandOptionString
	}
}

func clip(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}
