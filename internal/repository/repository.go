package repository

import (
	"context"
	"time"
)

type ConfigRepository interface {
	UpsertConfig(ctx context.Context, config RoomConfig) error
	GetConfig(ctx context.Context, guildID, roomID string) (*RoomConfig, error)
	GetConfigsByGuild(ctx context.Context, guildID string) ([]RoomConfig, error)
	DeleteConfig(ctx context.Context, guildID, roomID string) error
}

type SessionStateRepository interface {
	// GetSessionState returns nil when the room has never been touched;
	// callers treat that the same as an inactive state.
	GetSessionState(ctx context.Context, guildID, roomID string) (*SessionState, error)
	IsSessionActive(ctx context.Context, guildID, roomID string) (bool, error)
	SetSessionActive(ctx context.Context, guildID, roomID string, startedAt time.Time, notificationMessageID string) error
	SetSessionInactive(ctx context.Context, guildID, roomID string) error
}

type ParticipantRepository interface {
	// AddParticipant is an idempotent insert; recording the same user
	// twice leaves a single roster entry.
	AddParticipant(ctx context.Context, guildID, roomID, userID, displayName string) error
	GetParticipants(ctx context.Context, guildID, roomID string) ([]Participant, error)
	ClearParticipants(ctx context.Context, guildID, roomID string) error
	// ResetParticipants clears the roster and seeds it with the given
	// participants in a single transaction, so a session start never
	// carries over a previous roster or loses a concurrent early join.
	ResetParticipants(ctx context.Context, guildID, roomID string, participants []Participant) error
}

type Repository interface {
	ConfigRepository
	SessionStateRepository
	ParticipantRepository
}
