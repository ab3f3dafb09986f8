package discord

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/foxseedlab/tsuuchin/internal/discord"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestSession(t *testing.T, rt roundTripFunc) *discordgo.Session {
	t.Helper()
	s, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if rt != nil {
		s.Client = &http.Client{Transport: rt}
	}
	return s
}

func failOnRESTCall(t *testing.T) roundTripFunc {
	return func(req *http.Request) (*http.Response, error) {
		t.Fatalf("unexpected REST call: %s %s", req.Method, req.URL.String())
		return nil, nil
	}
}

func TestListVoiceChannelOccupants_UsesStateCache(t *testing.T) {
	s := newTestSession(t, failOnRESTCall(t))
	if err := s.State.GuildAdd(&discordgo.Guild{
		ID: "guild-1",
		VoiceStates: []*discordgo.VoiceState{
			{
				GuildID:   "guild-1",
				ChannelID: "vc-1",
				UserID:    "user-1",
				Member: &discordgo.Member{
					GuildID: "guild-1",
					Nick:    "いちばん",
					User:    &discordgo.User{ID: "user-1", Username: "ichiban"},
				},
			},
			{
				GuildID:   "guild-1",
				ChannelID: "vc-1",
				UserID:    "bot-1",
				Member: &discordgo.Member{
					GuildID: "guild-1",
					User:    &discordgo.User{ID: "bot-1", Username: "some-bot", Bot: true},
				},
			},
			{GuildID: "guild-1", ChannelID: "vc-2", UserID: "user-2", Member: &discordgo.Member{
				GuildID: "guild-1",
				User:    &discordgo.User{ID: "user-2", Username: "niban"},
			}},
		},
	}); err != nil {
		t.Fatalf("failed to add guild to state: %v", err)
	}
	if err := s.State.MemberAdd(&discordgo.Member{
		GuildID: "guild-1",
		Nick:    "いちばん",
		User:    &discordgo.User{ID: "user-1", Username: "ichiban"},
	}); err != nil {
		t.Fatalf("failed to add member to state: %v", err)
	}
	if err := s.State.MemberAdd(&discordgo.Member{
		GuildID: "guild-1",
		User:    &discordgo.User{ID: "bot-1", Username: "some-bot", Bot: true},
	}); err != nil {
		t.Fatalf("failed to add member to state: %v", err)
	}

	c := &Client{session: s}
	occupants, err := c.ListVoiceChannelOccupants("guild-1", "vc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occupants) != 2 {
		t.Fatalf("expected two occupants in vc-1, got %d", len(occupants))
	}
	byID := make(map[string]discordpkg.VoiceOccupant, len(occupants))
	for _, o := range occupants {
		byID[o.UserID] = o
	}
	if o, ok := byID["user-1"]; !ok || o.IsBot || o.DisplayName != "いちばん" {
		t.Fatalf("unexpected occupant user-1: %+v", byID["user-1"])
	}
	if o, ok := byID["bot-1"]; !ok || !o.IsBot {
		t.Fatalf("expected bot-1 to carry the bot flag: %+v", byID["bot-1"])
	}
}

func TestListVoiceChannelOccupants_UnknownGuildReturnsEmpty(t *testing.T) {
	s := newTestSession(t, failOnRESTCall(t))
	c := &Client{session: s}

	occupants, err := c.ListVoiceChannelOccupants("guild-unknown", "vc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occupants) != 0 {
		t.Fatalf("expected no occupants, got %d", len(occupants))
	}
}

func TestResolveChannel_UsesStateCache(t *testing.T) {
	s := newTestSession(t, failOnRESTCall(t))
	if err := s.State.GuildAdd(&discordgo.Guild{ID: "guild-1"}); err != nil {
		t.Fatalf("failed to add guild to state: %v", err)
	}
	if err := s.State.ChannelAdd(&discordgo.Channel{ID: "vc-1", GuildID: "guild-1", Name: "雑談部屋"}); err != nil {
		t.Fatalf("failed to add channel to state: %v", err)
	}

	c := &Client{session: s}
	info, ok := c.ResolveChannel("vc-1")
	if !ok {
		t.Fatal("expected channel to resolve")
	}
	if info.Name != "雑談部屋" {
		t.Fatalf("unexpected channel name: %q", info.Name)
	}
}

func TestResolveChannel_DeletedChannelReportsNotFound(t *testing.T) {
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Status:     "404 Not Found",
			Body:       io.NopCloser(strings.NewReader(`{"message":"Unknown Channel","code":10003}`)),
			Header:     make(http.Header),
		}, nil
	})

	c := &Client{session: s}
	info, ok := c.ResolveChannel("vc-gone")
	if ok {
		t.Fatal("expected deleted channel to be unresolvable")
	}
	if info.Name != "vc-gone" {
		t.Fatalf("expected the id as fallback name, got %q", info.Name)
	}
}

func TestResolveRoleName_UsesStateCache(t *testing.T) {
	s := newTestSession(t, failOnRESTCall(t))
	if err := s.State.GuildAdd(&discordgo.Guild{ID: "guild-1"}); err != nil {
		t.Fatalf("failed to add guild to state: %v", err)
	}
	if err := s.State.RoleAdd("guild-1", &discordgo.Role{ID: "role-1", Name: "通話好き"}); err != nil {
		t.Fatalf("failed to add role to state: %v", err)
	}

	c := &Client{session: s}
	name, ok := c.ResolveRoleName("guild-1", "role-1")
	if !ok {
		t.Fatal("expected role to resolve")
	}
	if name != "通話好き" {
		t.Fatalf("unexpected role name: %q", name)
	}
}

func TestCommandOptionsPayload_MapsKinds(t *testing.T) {
	payload := commandOptionsPayload([]discordpkg.SlashCommandOption{
		{Name: "vc_channel", Description: "vc", Kind: discordpkg.OptionKindVoiceChannel, Required: true},
		{Name: "notification_channel", Description: "text", Kind: discordpkg.OptionKindTextChannel, Required: true},
		{Name: "mention_role", Description: "role", Kind: discordpkg.OptionKindRole},
	})

	if len(payload) != 3 {
		t.Fatalf("expected three options, got %d", len(payload))
	}
	if payload[0].Type != discordgo.ApplicationCommandOptionChannel || !payload[0].Required {
		t.Fatalf("unexpected voice channel option: %+v", payload[0])
	}
	if len(payload[0].ChannelTypes) == 0 || payload[0].ChannelTypes[0] != discordgo.ChannelTypeGuildVoice {
		t.Fatalf("expected voice channel type restriction: %+v", payload[0].ChannelTypes)
	}
	if payload[1].Type != discordgo.ApplicationCommandOptionChannel || payload[1].ChannelTypes[0] != discordgo.ChannelTypeGuildText {
		t.Fatalf("expected text channel type restriction: %+v", payload[1])
	}
	if payload[2].Type != discordgo.ApplicationCommandOptionRole || payload[2].Required {
		t.Fatalf("unexpected role option: %+v", payload[2])
	}
}
