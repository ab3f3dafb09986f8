package session

import (
	"strings"
	"testing"
	"time"
)

func TestFormatDurationHMS(t *testing.T) {
	cases := []struct {
		name string
		d    time.Duration
		want string
	}{
		{name: "zero", d: 0, want: "00:00:00"},
		{name: "one hour two minutes five seconds", d: 3725 * time.Second, want: "01:02:05"},
		{name: "truncates sub-second", d: 3725*time.Second + 900*time.Millisecond, want: "01:02:05"},
		{name: "unbounded hours", d: 100*time.Hour + 5*time.Second, want: "100:00:05"},
		{name: "negative clamps to zero", d: -5 * time.Second, want: "00:00:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatDurationHMS(tc.d); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNotificationRender_StartedWithRoleMention(t *testing.T) {
	n := Notification{
		Kind:        NotificationStarted,
		RoomName:    "雑談部屋",
		RoomLink:    "https://discord.com/channels/guild-1/vc-1",
		RoleMention: "<@&role-1>",
	}
	want := "<@&role-1>\n:loud_sound: **雑談部屋で通話が始まりました！**\nhttps://discord.com/channels/guild-1/vc-1"
	if got := n.Render(); got != want {
		t.Fatalf("unexpected render:\n%q\nwant:\n%q", got, want)
	}
}

func TestNotificationRender_StartedWithoutRoleMention(t *testing.T) {
	n := Notification{
		Kind:     NotificationStarted,
		RoomName: "雑談部屋",
		RoomLink: "https://discord.com/channels/guild-1/vc-1",
	}
	got := n.Render()
	if strings.HasPrefix(got, "\n") {
		t.Fatalf("expected no leading newline without a role mention: %q", got)
	}
	if !strings.HasPrefix(got, ":loud_sound:") {
		t.Fatalf("expected title first: %q", got)
	}
}

func TestNotificationRender_EndedWithParticipants(t *testing.T) {
	n := Notification{
		Kind:                NotificationEnded,
		RoomName:            "雑談部屋",
		RoomLink:            "https://discord.com/channels/guild-1/vc-1",
		Duration:            "01:02:05",
		ParticipantMentions: []string{"<@user-1>", "<@user-2>"},
	}
	want := ":wave: **雑談部屋での通話が終了しました！**\n" +
		"https://discord.com/channels/guild-1/vc-1\n" +
		"通話時間：01:02:05\n" +
		"参加者：\n<@user-1>\n<@user-2>"
	if got := n.Render(); got != want {
		t.Fatalf("unexpected render:\n%q\nwant:\n%q", got, want)
	}
}

func TestNotificationRender_EndedEmptyRosterShowsPlaceholder(t *testing.T) {
	n := Notification{
		Kind:     NotificationEnded,
		RoomName: "雑談部屋",
		RoomLink: "https://discord.com/channels/guild-1/vc-1",
		Duration: "00:00:00",
	}
	got := n.Render()
	if !strings.Contains(got, "参加者：なし") {
		t.Fatalf("expected empty roster placeholder, got %q", got)
	}
}

func TestNotificationRender_EndedWithoutDurationOmitsLine(t *testing.T) {
	n := Notification{
		Kind:     NotificationEnded,
		RoomName: "雑談部屋",
		RoomLink: "https://discord.com/channels/guild-1/vc-1",
	}
	got := n.Render()
	if strings.Contains(got, "通話時間") {
		t.Fatalf("expected no duration line when start time was lost, got %q", got)
	}
}

func TestRoomLinkAndMentions(t *testing.T) {
	if got := roomLink("guild-1", "vc-1"); got != "https://discord.com/channels/guild-1/vc-1" {
		t.Fatalf("unexpected room link: %q", got)
	}
	if got := roleMention("role-1"); got != "<@&role-1>" {
		t.Fatalf("unexpected role mention: %q", got)
	}
	if got := userMention("user-1"); got != "<@user-1>" {
		t.Fatalf("unexpected user mention: %q", got)
	}
}
