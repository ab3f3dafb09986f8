package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/foxseedlab/tsuuchin/internal/config"
	"github.com/foxseedlab/tsuuchin/internal/discord"
	"github.com/foxseedlab/tsuuchin/internal/repository"
	"github.com/foxseedlab/tsuuchin/internal/webhook"
)

const webhookSendTimeout = 10 * time.Second

// Manager routes voice-state events to the rooms they affect and runs
// the debounced start/end evaluations. All per-room decisions happen
// under the room's lock against freshly read persisted state, so
// re-running any evaluation against already-consistent state is a no-op.
type Manager struct {
	cfg     *config.Config
	repo    repository.Repository
	discord discord.Client
	webhook webhook.Sender
	locks   *LockRegistry

	botUserID string
	now       func() time.Time
	schedule  func(delay time.Duration, fn func())
}

func NewManager(cfg *config.Config, repo repository.Repository, dc discord.Client, wh webhook.Sender) *Manager {
	return &Manager{
		cfg:     cfg,
		repo:    repo,
		discord: dc,
		webhook: wh,
		locks:   NewLockRegistry(),
		now:     time.Now,
		schedule: func(delay time.Duration, fn func()) {
			time.AfterFunc(delay, fn)
		},
	}
}

func (m *Manager) SetBotUserID(userID string) {
	m.botUserID = userID
}

// HandleVoiceStateUpdate fans one membership change out to every
// configured room it is relevant to. Checks are scheduled after a grace
// delay and never cancelled; stale checks become no-ops.
func (m *Manager) HandleVoiceStateUpdate(event discord.VoiceStateEvent) {
	if event.BeforeChannelID == event.AfterChannelID {
		return
	}
	ctx := context.Background()
	configs, err := m.repo.GetConfigsByGuild(ctx, event.GuildID)
	if err != nil {
		slog.Error("failed to load room configs", "error", err, "guild_id", event.GuildID)
		return
	}
	if len(configs) == 0 {
		return
	}
	for _, rc := range configs {
		if event.AfterChannelID == rc.RoomID {
			m.handleRoomJoin(ctx, rc, event)
		}
		if event.BeforeChannelID == rc.RoomID {
			m.scheduleEndCheck(rc)
		}
	}
}

func (m *Manager) handleRoomJoin(ctx context.Context, rc repository.RoomConfig, event discord.VoiceStateEvent) {
	if m.shouldCountOccupant(event.UserID, event.UserIsBot) {
		m.recordJoiner(ctx, rc, event.UserID, event.UserDisplayName)
	}
	m.scheduleStartCheck(rc)
}

// recordJoiner captures occupants who join after the session-start
// notification already fired. Joins before the start transition are
// covered by the roster seed inside runStartCheck.
func (m *Manager) recordJoiner(ctx context.Context, rc repository.RoomConfig, userID, displayName string) {
	lock := m.locks.Acquire(rc.GuildID, rc.RoomID)
	lock.Lock()
	defer lock.Unlock()

	active, err := m.repo.IsSessionActive(ctx, rc.GuildID, rc.RoomID)
	if err != nil {
		slog.Error("failed to read session state", "error", err, "guild_id", rc.GuildID, "room_id", rc.RoomID)
		return
	}
	if !active {
		return
	}
	if err := m.repo.AddParticipant(ctx, rc.GuildID, rc.RoomID, userID, displayName); err != nil {
		slog.Error("failed to record participant", "error", err, "guild_id", rc.GuildID, "room_id", rc.RoomID, "user_id", userID)
	}
}

func (m *Manager) scheduleStartCheck(rc repository.RoomConfig) {
	m.schedule(time.Duration(m.cfg.StartGraceSeconds)*time.Second, func() {
		m.runStartCheck(rc)
	})
}

func (m *Manager) scheduleEndCheck(rc repository.RoomConfig) {
	m.schedule(time.Duration(m.cfg.EndGraceSeconds)*time.Second, func() {
		m.runEndCheck(rc)
	})
}

// runStartCheck evaluates whether a session has truly begun. The grace
// delay has already passed, so the live occupant list has settled.
func (m *Manager) runStartCheck(rc repository.RoomConfig) {
	ctx := context.Background()
	lock := m.locks.Acquire(rc.GuildID, rc.RoomID)
	lock.Lock()
	defer lock.Unlock()

	occupants, ok := m.liveOccupants(rc)
	if !ok {
		return
	}
	if len(occupants) == 0 {
		return
	}
	active, err := m.repo.IsSessionActive(ctx, rc.GuildID, rc.RoomID)
	if err != nil {
		slog.Error("failed to read session state", "error", err, "guild_id", rc.GuildID, "room_id", rc.RoomID)
		return
	}
	if active {
		return
	}

	roomInfo, roomOK := m.discord.ResolveChannel(rc.RoomID)
	_, notifyOK := m.discord.ResolveChannel(rc.NotifyChannelID)
	if !roomOK || !notifyOK {
		slog.Warn("skipping config with unresolvable channel", "guild_id", rc.GuildID, "room_id", rc.RoomID, "notify_channel_id", rc.NotifyChannelID)
		return
	}

	n := Notification{
		Kind:     NotificationStarted,
		RoomName: roomInfo.Name,
		RoomLink: roomLink(rc.GuildID, rc.RoomID),
	}
	if rc.MentionRoleID != "" {
		if _, ok := m.discord.ResolveRoleName(rc.GuildID, rc.MentionRoleID); ok {
			n.RoleMention = roleMention(rc.MentionRoleID)
		} else {
			slog.Warn("mention role could not be resolved; sending without mention", "guild_id", rc.GuildID, "role_id", rc.MentionRoleID)
		}
	}

	messageID, err := m.discord.SendChannelMessage(rc.NotifyChannelID, n.Render())
	if err != nil {
		slog.Error("failed to send start notification", "error", err, "guild_id", rc.GuildID, "room_id", rc.RoomID, "notify_channel_id", rc.NotifyChannelID)
		return
	}
	startedAt := m.now()
	if err := m.repo.SetSessionActive(ctx, rc.GuildID, rc.RoomID, startedAt, messageID); err != nil {
		slog.Error("failed to persist active session state", "error", err, "guild_id", rc.GuildID, "room_id", rc.RoomID)
		return
	}
	seed := make([]repository.Participant, 0, len(occupants))
	for _, o := range occupants {
		seed = append(seed, repository.Participant{UserID: o.UserID, DisplayName: o.DisplayName})
	}
	if err := m.repo.ResetParticipants(ctx, rc.GuildID, rc.RoomID, seed); err != nil {
		slog.Error("failed to seed session roster", "error", err, "guild_id", rc.GuildID, "room_id", rc.RoomID)
	}
	slog.Info("session started", "guild_id", rc.GuildID, "room_id", rc.RoomID, "occupants", len(occupants), "message_id", messageID)
}

// runEndCheck evaluates whether a session has truly ended. A brief
// empty dip that refills within the grace window is absorbed because
// the occupant list is re-read here, after the delay.
func (m *Manager) runEndCheck(rc repository.RoomConfig) {
	ctx := context.Background()
	lock := m.locks.Acquire(rc.GuildID, rc.RoomID)
	lock.Lock()
	defer lock.Unlock()

	occupants, ok := m.liveOccupants(rc)
	if !ok {
		return
	}
	if len(occupants) > 0 {
		return
	}
	state, err := m.repo.GetSessionState(ctx, rc.GuildID, rc.RoomID)
	if err != nil {
		slog.Error("failed to read session state", "error", err, "guild_id", rc.GuildID, "room_id", rc.RoomID)
		return
	}
	if state == nil || !state.IsActive {
		return
	}

	roomInfo, roomOK := m.discord.ResolveChannel(rc.RoomID)
	_, notifyOK := m.discord.ResolveChannel(rc.NotifyChannelID)
	if !roomOK || !notifyOK {
		slog.Warn("skipping config with unresolvable channel", "guild_id", rc.GuildID, "room_id", rc.RoomID, "notify_channel_id", rc.NotifyChannelID)
		return
	}

	endedAt := m.now()
	n := Notification{
		Kind:     NotificationEnded,
		RoomName: roomInfo.Name,
		RoomLink: roomLink(rc.GuildID, rc.RoomID),
	}
	if state.StartedAt != nil {
		n.Duration = formatDurationHMS(endedAt.Sub(*state.StartedAt))
	} else {
		slog.Warn("active session has no start time; sending end notification without duration", "guild_id", rc.GuildID, "room_id", rc.RoomID)
	}
	participants, err := m.repo.GetParticipants(ctx, rc.GuildID, rc.RoomID)
	if err != nil {
		slog.Error("failed to load session roster", "error", err, "guild_id", rc.GuildID, "room_id", rc.RoomID)
		return
	}
	for _, p := range participants {
		n.ParticipantMentions = append(n.ParticipantMentions, userMention(p.UserID))
	}

	if _, err := m.discord.SendChannelMessage(rc.NotifyChannelID, n.Render()); err != nil {
		slog.Error("failed to send end notification", "error", err, "guild_id", rc.GuildID, "room_id", rc.RoomID, "notify_channel_id", rc.NotifyChannelID)
		return
	}
	if err := m.repo.SetSessionInactive(ctx, rc.GuildID, rc.RoomID); err != nil {
		slog.Error("failed to persist inactive session state", "error", err, "guild_id", rc.GuildID, "room_id", rc.RoomID)
		return
	}
	if err := m.repo.ClearParticipants(ctx, rc.GuildID, rc.RoomID); err != nil {
		slog.Error("failed to clear session roster", "error", err, "guild_id", rc.GuildID, "room_id", rc.RoomID)
	}
	slog.Info("session ended", "guild_id", rc.GuildID, "room_id", rc.RoomID, "duration", n.Duration, "participants", len(participants))

	go m.sendSessionSummary(state, endedAt, roomInfo.Name, participants)
}

func (m *Manager) sendSessionSummary(state *repository.SessionState, endedAt time.Time, roomName string, participants []repository.Participant) {
	payload := webhook.SessionSummaryPayload{
		SchemaVersion: webhook.SessionSummarySchemaVersion,
		GuildID:       state.GuildID,
		RoomID:        state.RoomID,
		RoomName:      roomName,
		EndAt:         endedAt.Format(time.RFC3339),
	}
	if state.StartedAt != nil {
		payload.StartAt = state.StartedAt.Format(time.RFC3339)
		durationSeconds := int64(endedAt.Sub(*state.StartedAt).Seconds())
		if durationSeconds < 0 {
			durationSeconds = 0
		}
		payload.DurationSeconds = durationSeconds
	}
	payload.Participants = make([]webhook.SessionSummaryParticipant, 0, len(participants))
	for _, p := range participants {
		payload.Participants = append(payload.Participants, webhook.SessionSummaryParticipant{
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), webhookSendTimeout)
	defer cancel()
	if err := m.webhook.SendSessionSummary(ctx, payload); err != nil {
		slog.Error("failed to send session summary webhook", "error", err, "guild_id", state.GuildID, "room_id", state.RoomID)
	}
}

func (m *Manager) liveOccupants(rc repository.RoomConfig) ([]discord.VoiceOccupant, bool) {
	all, err := m.discord.ListVoiceChannelOccupants(rc.GuildID, rc.RoomID)
	if err != nil {
		slog.Error("failed to list voice channel occupants", "error", err, "guild_id", rc.GuildID, "room_id", rc.RoomID)
		return nil, false
	}
	occupants := make([]discord.VoiceOccupant, 0, len(all))
	for _, o := range all {
		if m.shouldCountOccupant(o.UserID, o.IsBot) {
			occupants = append(occupants, o)
		}
	}
	return occupants, true
}

func (m *Manager) shouldCountOccupant(userID string, isBot bool) bool {
	if m.botUserID != "" && userID == m.botUserID {
		return false
	}
	if !isBot {
		return true
	}
	return m.cfg.DiscordCountOtherBots
}
