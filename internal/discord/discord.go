package discord

import "context"

// VoiceStateEvent is one raw membership change. BeforeChannelID and
// AfterChannelID are empty when the user was not in / did not move to a
// voice channel. The adapter filters out non-transitions where both
// sides are the same channel (mute, deafen, stream toggles).
type VoiceStateEvent struct {
	GuildID         string
	UserID          string
	UserDisplayName string
	UserIsBot       bool
	BeforeChannelID string
	AfterChannelID  string
}

// VoiceOccupant is one user currently connected to a voice channel.
type VoiceOccupant struct {
	UserID      string
	DisplayName string
	IsBot       bool
}

type ChannelInfo struct {
	ID   string
	Name string
}

type SlashCommandOptionKind int

const (
	OptionKindVoiceChannel SlashCommandOptionKind = iota
	OptionKindTextChannel
	OptionKindRole
)

type SlashCommandOption struct {
	Name        string
	Description string
	Kind        SlashCommandOptionKind
	Required    bool
}

type SlashCommandDefinition struct {
	Name        string
	Description string
	Options     []SlashCommandOption
}

// SlashCommandEvent carries a received application command. Options maps
// option name to the raw snowflake the user picked.
type SlashCommandEvent struct {
	GuildID          string
	ChannelID        string
	CommandName      string
	UserID           string
	UserIsAdmin      bool
	Options          map[string]string
	RespondEphemeral func(content string) error
}

type Client interface {
	Connect(ctx context.Context) error
	Close() error
	// SendChannelMessage posts content and returns the created message id.
	SendChannelMessage(channelID, content string) (string, error)
	RegisterVoiceStateUpdateHandler(handler func(VoiceStateEvent))
	RegisterSlashCommandHandler(handler func(SlashCommandEvent))
	UpsertGuildSlashCommands(guildID string, defs []SlashCommandDefinition) error
	// ListVoiceChannelOccupants returns everyone currently connected to
	// the channel, with display names resolved best-effort.
	ListVoiceChannelOccupants(guildID, channelID string) ([]VoiceOccupant, error)
	// ResolveChannel reports whether the channel still exists; the name
	// falls back to the channel id when it cannot be resolved.
	ResolveChannel(channelID string) (ChannelInfo, bool)
	ResolveRoleName(guildID, roleID string) (string, bool)
	GetBotUserID() (string, error)
	Run() error
}
