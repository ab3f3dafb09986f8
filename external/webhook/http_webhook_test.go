package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	internalwebhook "github.com/foxseedlab/tsuuchin/internal/webhook"
)

func testPayload() internalwebhook.SessionSummaryPayload {
	return internalwebhook.SessionSummaryPayload{
		SchemaVersion:   internalwebhook.SessionSummarySchemaVersion,
		GuildID:         "guild-1",
		RoomID:          "vc-1",
		RoomName:        "雑談部屋",
		StartAt:         "2026-08-28T20:00:00Z",
		EndAt:           "2026-08-28T21:02:05Z",
		DurationSeconds: 3725,
		Participants: []internalwebhook.SessionSummaryParticipant{
			{UserID: "user-1", DisplayName: "いちばん"},
		},
	}
}

func TestSendSessionSummary_EmptyWebhookURL(t *testing.T) {
	sender := NewHTTPSender("")
	if err := sender.SendSessionSummary(context.Background(), testPayload()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestSendSessionSummary_Success(t *testing.T) {
	var got internalwebhook.SessionSummaryPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type: %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewHTTPSender(server.URL)
	if err := sender.SendSessionSummary(context.Background(), testPayload()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got.GuildID != "guild-1" || got.RoomID != "vc-1" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got.DurationSeconds != 3725 {
		t.Fatalf("unexpected duration: %d", got.DurationSeconds)
	}
	if len(got.Participants) != 1 || got.Participants[0].DisplayName != "いちばん" {
		t.Fatalf("unexpected participants: %+v", got.Participants)
	}
}

func TestSendSessionSummary_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	sender := NewHTTPSender(server.URL)
	if err := sender.SendSessionSummary(context.Background(), testPayload()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
