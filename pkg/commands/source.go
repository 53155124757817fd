package commands

import "strconv"

// Source describes where an event came from. The set of variants is closed:
// MessageSource, SlashSource, ButtonSource and MenuSource.
type Source interface {
	AuthorID() string
	ChannelID() string
	GuildID() string
	isSource()
}

// Origin carries the identity fields every source shares.
type Origin struct {
	Author  string
	Channel string
	Guild   string
}

// AuthorID returns the id of the user that triggered the event.
func (o Origin) AuthorID() string { return o.Author }

// ChannelID returns the channel the event happened in.
func (o Origin) ChannelID() string { return o.Channel }

// GuildID returns the guild, or "" for direct messages.
func (o Origin) GuildID() string { return o.Guild }

func (Origin) isSource() {}

// MessageSource is a typed chat message.
type MessageSource struct {
	Origin
	Text string
}

// SlashSource is a slash command invocation with named options.
type SlashSource struct {
	Origin
	CommandName string
	Options     map[string]Option
}

// ButtonSource is a button click. CustomID is the payload encoded when the
// button was created.
type ButtonSource struct {
	Origin
	CustomID string
}

// MenuSource is a selection from a string select menu.
type MenuSource struct {
	Origin
	CustomID string
	Value    string
}

// Option is one typed slash command argument.
type Option struct {
	Type  OptionType
	Value any
}

// String returns the option as text.
func (o Option) String() string {
	switch v := o.Value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// Bool returns the option as a boolean, false if it is not one.
func (o Option) Bool() bool {
	v, _ := o.Value.(bool)
	return v
}

// StringOption returns the named option as text.
func (s *SlashSource) StringOption(name string) (string, bool) {
	opt, ok := s.Options[name]
	if !ok {
		return "", false
	}
	return opt.String(), true
}

// BoolOption returns the named boolean option or fallback when absent.
func (s *SlashSource) BoolOption(name string, fallback bool) bool {
	opt, ok := s.Options[name]
	if !ok || opt.Type != OptionBoolean {
		return fallback
	}
	return opt.Bool()
}
