package repository

import "time"

// RoomConfig maps one monitored voice channel to the text channel that
// receives its call notifications. MentionRoleID is empty when no role
// should be pinged.
type RoomConfig struct {
	GuildID         string
	RoomID          string
	NotifyChannelID string
	MentionRoleID   string
}

// SessionState is the persisted occupancy lifecycle of one room.
// StartedAt and NotificationMessageID are set only while IsActive.
type SessionState struct {
	GuildID               string
	RoomID                string
	IsActive              bool
	StartedAt             *time.Time
	NotificationMessageID string
}

// Participant is one human occupant seen during the current session.
type Participant struct {
	UserID      string
	DisplayName string
}
