package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS room_configs (
		guild_id TEXT NOT NULL,
		room_id TEXT NOT NULL,
		notify_channel_id TEXT NOT NULL,
		mention_role_id TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (guild_id, room_id)
	)`,
	`CREATE TABLE IF NOT EXISTS session_states (
		guild_id TEXT NOT NULL,
		room_id TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT FALSE,
		started_at TIMESTAMPTZ,
		notification_message_id TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (guild_id, room_id)
	)`,
	`CREATE TABLE IF NOT EXISTS session_participants (
		guild_id TEXT NOT NULL,
		room_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		display_name TEXT NOT NULL,
		PRIMARY KEY (guild_id, room_id, user_id)
	)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
