package repository

import (
	"context"
	"time"

	"github.com/foxseedlab/tsuuchin/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) UpsertConfig(ctx context.Context, config repository.RoomConfig) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO room_configs (guild_id, room_id, notify_channel_id, mention_role_id)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (guild_id, room_id) DO UPDATE SET
		 	notify_channel_id = EXCLUDED.notify_channel_id,
		 	mention_role_id = EXCLUDED.mention_role_id`,
		config.GuildID, config.RoomID, config.NotifyChannelID, config.MentionRoleID)
	return err
}

func (r *PostgresRepository) GetConfig(ctx context.Context, guildID, roomID string) (*repository.RoomConfig, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT guild_id, room_id, notify_channel_id, mention_role_id
		 FROM room_configs WHERE guild_id = $1 AND room_id = $2`,
		guildID, roomID)
	var c repository.RoomConfig
	err := row.Scan(&c.GuildID, &c.RoomID, &c.NotifyChannelID, &c.MentionRoleID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) GetConfigsByGuild(ctx context.Context, guildID string) ([]repository.RoomConfig, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT guild_id, room_id, notify_channel_id, mention_role_id
		 FROM room_configs WHERE guild_id = $1 ORDER BY room_id ASC`,
		guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.RoomConfig
	for rows.Next() {
		var c repository.RoomConfig
		if err := rows.Scan(&c.GuildID, &c.RoomID, &c.NotifyChannelID, &c.MentionRoleID); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) DeleteConfig(ctx context.Context, guildID, roomID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM room_configs WHERE guild_id = $1 AND room_id = $2`,
		guildID, roomID)
	return err
}

func (r *PostgresRepository) GetSessionState(ctx context.Context, guildID, roomID string) (*repository.SessionState, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT guild_id, room_id, is_active, started_at, notification_message_id
		 FROM session_states WHERE guild_id = $1 AND room_id = $2`,
		guildID, roomID)
	var s repository.SessionState
	var startedAt *time.Time
	err := row.Scan(&s.GuildID, &s.RoomID, &s.IsActive, &startedAt, &s.NotificationMessageID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	s.StartedAt = startedAt
	return &s, nil
}

func (r *PostgresRepository) IsSessionActive(ctx context.Context, guildID, roomID string) (bool, error) {
	state, err := r.GetSessionState(ctx, guildID, roomID)
	if err != nil {
		return false, err
	}
	return state != nil && state.IsActive, nil
}

func (r *PostgresRepository) SetSessionActive(ctx context.Context, guildID, roomID string, startedAt time.Time, notificationMessageID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO session_states (guild_id, room_id, is_active, started_at, notification_message_id)
		 VALUES ($1, $2, TRUE, $3, $4)
		 ON CONFLICT (guild_id, room_id) DO UPDATE SET
		 	is_active = TRUE,
		 	started_at = EXCLUDED.started_at,
		 	notification_message_id = EXCLUDED.notification_message_id`,
		guildID, roomID, startedAt, notificationMessageID)
	return err
}

func (r *PostgresRepository) SetSessionInactive(ctx context.Context, guildID, roomID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE session_states
		 SET is_active = FALSE, started_at = NULL, notification_message_id = ''
		 WHERE guild_id = $1 AND room_id = $2`,
		guildID, roomID)
	return err
}

func (r *PostgresRepository) AddParticipant(ctx context.Context, guildID, roomID, userID, displayName string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO session_participants (guild_id, room_id, user_id, display_name)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (guild_id, room_id, user_id) DO NOTHING`,
		guildID, roomID, userID, displayName)
	return err
}

func (r *PostgresRepository) GetParticipants(ctx context.Context, guildID, roomID string) ([]repository.Participant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, display_name
		 FROM session_participants WHERE guild_id = $1 AND room_id = $2
		 ORDER BY display_name ASC, user_id ASC`,
		guildID, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.Participant
	for rows.Next() {
		var p repository.Participant
		if err := rows.Scan(&p.UserID, &p.DisplayName); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) ClearParticipants(ctx context.Context, guildID, roomID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM session_participants WHERE guild_id = $1 AND room_id = $2`,
		guildID, roomID)
	return err
}

func (r *PostgresRepository) ResetParticipants(ctx context.Context, guildID, roomID string, participants []repository.Participant) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if _, err := tx.Exec(ctx,
		`DELETE FROM session_participants WHERE guild_id = $1 AND room_id = $2`,
		guildID, roomID); err != nil {
		return err
	}
	for _, p := range participants {
		if _, err := tx.Exec(ctx,
			`INSERT INTO session_participants (guild_id, room_id, user_id, display_name)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (guild_id, room_id, user_id) DO NOTHING`,
			guildID, roomID, p.UserID, p.DisplayName); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
