package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foxseedlab/tsuuchin/internal/discord"
	"github.com/foxseedlab/tsuuchin/internal/repository"
)

const (
	commandMonitorSetup  = "monitor_setup"
	commandMonitorDelete = "monitor_delete"
	commandShowConfig    = "show_config"
	commandInfo          = "info"

	optionVCChannel           = "vc_channel"
	optionNotificationChannel = "notification_channel"
	optionMentionRole         = "mention_role"
)

func SlashCommandDefinitions() []discord.SlashCommandDefinition {
	return []discord.SlashCommandDefinition{
		{
			Name:        commandMonitorSetup,
			Description: "VC通知設定を追加・更新します",
			Options: []discord.SlashCommandOption{
				{Name: optionVCChannel, Description: "通知するボイスチャンネル", Kind: discord.OptionKindVoiceChannel, Required: true},
				{Name: optionNotificationChannel, Description: "通知を送るテキストチャンネル", Kind: discord.OptionKindTextChannel, Required: true},
				{Name: optionMentionRole, Description: "メンションするロール", Kind: discord.OptionKindRole, Required: false},
			},
		},
		{
			Name:        commandMonitorDelete,
			Description: "VC通知設定を削除します",
			Options: []discord.SlashCommandOption{
				{Name: optionVCChannel, Description: "通知を解除するボイスチャンネル", Kind: discord.OptionKindVoiceChannel, Required: true},
			},
		},
		{
			Name:        commandShowConfig,
			Description: "現在の通知設定を表示します",
		},
		{
			Name:        commandInfo,
			Description: "Botの情報を表示します",
		},
	}
}

func (m *Manager) HandleSlashCommand(event discord.SlashCommandEvent) {
	switch event.CommandName {
	case commandMonitorSetup:
		m.handleMonitorSetup(event)
	case commandMonitorDelete:
		m.handleMonitorDelete(event)
	case commandShowConfig:
		m.handleShowConfig(event)
	case commandInfo:
		m.respond(event, messageInfo)
	default:
		m.respond(event, messageEphemeralUnknownCmd)
	}
}

func (m *Manager) handleMonitorSetup(event discord.SlashCommandEvent) {
	if !event.UserIsAdmin {
		m.respond(event, messageEphemeralNoPermission)
		return
	}
	roomID := event.Options[optionVCChannel]
	notifyChannelID := event.Options[optionNotificationChannel]
	if roomID == "" || notifyChannelID == "" {
		m.respond(event, messageEphemeralMissingOption)
		return
	}
	mentionRoleID := event.Options[optionMentionRole]

	ctx := context.Background()
	if err := m.repo.UpsertConfig(ctx, repository.RoomConfig{
		GuildID:         event.GuildID,
		RoomID:          roomID,
		NotifyChannelID: notifyChannelID,
		MentionRoleID:   mentionRoleID,
	}); err != nil {
		slog.Error("failed to upsert room config", "error", err, "guild_id", event.GuildID, "room_id", roomID)
		m.respond(event, messageEphemeralSaveFailed)
		return
	}

	roomInfo, _ := m.discord.ResolveChannel(roomID)
	content := fmt.Sprintf(messageEphemeralSetupSavedFormat, roomInfo.Name, notifyChannelID)
	if mentionRoleID != "" {
		roleName, ok := m.discord.ResolveRoleName(event.GuildID, mentionRoleID)
		if !ok {
			roleName = mentionRoleID
		}
		content += fmt.Sprintf(messageEphemeralSetupRoleLineFormat, roleName)
	}
	m.respond(event, content)
}

func (m *Manager) handleMonitorDelete(event discord.SlashCommandEvent) {
	if !event.UserIsAdmin {
		m.respond(event, messageEphemeralNoPermission)
		return
	}
	roomID := event.Options[optionVCChannel]
	if roomID == "" {
		m.respond(event, messageEphemeralMissingOption)
		return
	}

	ctx := context.Background()
	existing, err := m.repo.GetConfig(ctx, event.GuildID, roomID)
	if err != nil {
		slog.Error("failed to load room config", "error", err, "guild_id", event.GuildID, "room_id", roomID)
		m.respond(event, messageEphemeralDeleteFailed)
		return
	}
	if existing == nil {
		m.respond(event, fmt.Sprintf(messageEphemeralNotConfiguredFormat, roomID))
		return
	}
	if err := m.repo.DeleteConfig(ctx, event.GuildID, roomID); err != nil {
		slog.Error("failed to delete room config", "error", err, "guild_id", event.GuildID, "room_id", roomID)
		m.respond(event, messageEphemeralDeleteFailed)
		return
	}
	m.respond(event, fmt.Sprintf(messageEphemeralDeletedFormat, roomID))
}

func (m *Manager) handleShowConfig(event discord.SlashCommandEvent) {
	ctx := context.Background()
	configs, err := m.repo.GetConfigsByGuild(ctx, event.GuildID)
	if err != nil {
		slog.Error("failed to load room configs", "error", err, "guild_id", event.GuildID)
		m.respond(event, messageEphemeralListFailed)
		return
	}
	if len(configs) == 0 {
		m.respond(event, messageEphemeralNoConfigs)
		return
	}

	lines := []string{messageConfigListHeader}
	for _, rc := range configs {
		lines = append(lines, m.describeConfig(event.GuildID, rc))
	}
	m.respond(event, strings.Join(lines, "\n"))
}

func (m *Manager) describeConfig(guildID string, rc repository.RoomConfig) string {
	roomName := rc.RoomID
	if info, ok := m.discord.ResolveChannel(rc.RoomID); ok {
		roomName = info.Name
	} else {
		roomName = fmt.Sprintf("不明なチャンネル (%s)", rc.RoomID)
	}
	notifyName := rc.NotifyChannelID
	if info, ok := m.discord.ResolveChannel(rc.NotifyChannelID); ok {
		notifyName = info.Name
	} else {
		notifyName = fmt.Sprintf("不明なチャンネル (%s)", rc.NotifyChannelID)
	}
	line := fmt.Sprintf("・VC：%s → 通知先：%s", roomName, notifyName)
	if rc.MentionRoleID != "" {
		roleName, ok := m.discord.ResolveRoleName(guildID, rc.MentionRoleID)
		if !ok {
			roleName = "不明なロール"
		}
		line += fmt.Sprintf("（メンション：%s）", roleName)
	}
	return line
}

func (m *Manager) respond(event discord.SlashCommandEvent, content string) {
	if event.RespondEphemeral == nil {
		return
	}
	if err := event.RespondEphemeral(content); err != nil {
		slog.Error("failed to respond to slash command", "error", err, "command", event.CommandName, "guild_id", event.GuildID, "user_id", event.UserID)
	}
}
