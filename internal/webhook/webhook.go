package webhook

import "context"

const SessionSummarySchemaVersion = 1

type SessionSummaryParticipant struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// SessionSummaryPayload is posted once per ended session when a webhook
// URL is configured.
type SessionSummaryPayload struct {
	SchemaVersion   int                         `json:"schema_version"`
	GuildID         string                      `json:"guild_id"`
	RoomID          string                      `json:"room_id"`
	RoomName        string                      `json:"room_name"`
	StartAt         string                      `json:"start_at,omitempty"`
	EndAt           string                      `json:"end_at"`
	DurationSeconds int64                       `json:"duration_seconds"`
	Participants    []SessionSummaryParticipant `json:"participants"`
}

type Sender interface {
	SendSessionSummary(ctx context.Context, payload SessionSummaryPayload) error
}
