package handoff

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/powerpay/reportdesk/internal/models"
)

func openTestChannel(t *testing.T, path string) *Channel {
	t.Helper()
	c, err := Open(path)
	if err != nil {
		t.Fatalf("open channel: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestReadAbsentSlots(t *testing.T) {
	c := openTestChannel(t, filepath.Join(t.TempDir(), "handoff.db"))

	history, err := c.ReadHistory()
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if history != nil {
		t.Fatalf("absent history should read as nil, got %+v", history)
	}

	latest, err := c.ReadLatest()
	if err != nil {
		t.Fatalf("read latest: %v", err)
	}
	if latest != nil {
		t.Fatalf("absent latest should read as nil, got %+v", latest)
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	c := openTestChannel(t, filepath.Join(t.TempDir(), "handoff.db"))

	in := History{
		ConversationID: "abc-123",
		Messages: []models.ChatMessage{
			{ID: "m1", MessageID: "m1", Content: "show revenue", Role: "user", Timestamp: time.Now().UTC()},
			{ID: "m2", MessageID: "m2", Role: "assistant", TableData: []models.Row{{"a": "1"}}},
		},
	}
	if err := c.WriteHistory(in); err != nil {
		t.Fatalf("write history: %v", err)
	}

	out, err := c.ReadHistory()
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if out == nil || out.ConversationID != "abc-123" {
		t.Fatalf("unexpected history: %+v", out)
	}
	if len(out.Messages) != 2 || out.Messages[0].Content != "show revenue" || out.Messages[1].Role != "assistant" {
		t.Fatalf("messages did not survive the round trip: %+v", out.Messages)
	}
	if out.Messages[1].TableData[0]["a"] != "1" {
		t.Fatalf("table data lost: %+v", out.Messages[1].TableData)
	}

	// A second read still sees the value; consumption does not clear it.
	again, err := c.ReadHistory()
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if again == nil || len(again.Messages) != 2 {
		t.Fatalf("value should persist across reads, got %+v", again)
	}
}

func TestLastWriterWins(t *testing.T) {
	c := openTestChannel(t, filepath.Join(t.TempDir(), "handoff.db"))

	if err := c.WriteHistory(History{ConversationID: "first"}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := c.WriteHistory(History{ConversationID: "second"}); err != nil {
		t.Fatalf("second write: %v", err)
	}

	out, err := c.ReadHistory()
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if out.ConversationID != "second" {
		t.Fatalf("expected the overwrite to win, got %q", out.ConversationID)
	}
}

func TestLatestRoundTrip(t *testing.T) {
	c := openTestChannel(t, filepath.Join(t.TempDir(), "handoff.db"))

	in := models.ChatMessage{ID: "m9", MessageID: "m9", Content: "latest", Role: "assistant"}
	if err := c.WriteLatest(in); err != nil {
		t.Fatalf("write latest: %v", err)
	}

	out, err := c.ReadLatest()
	if err != nil {
		t.Fatalf("read latest: %v", err)
	}
	if out == nil || out.ID != "m9" || out.Content != "latest" {
		t.Fatalf("unexpected latest: %+v", out)
	}
}

func TestValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handoff.db")

	c, err := Open(path)
	if err != nil {
		t.Fatalf("open channel: %v", err)
	}
	if err := c.WriteLatest(models.ChatMessage{ID: "m1", Role: "assistant"}); err != nil {
		t.Fatalf("write latest: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close channel: %v", err)
	}

	reopened := openTestChannel(t, path)
	out, err := reopened.ReadLatest()
	if err != nil {
		t.Fatalf("read latest after reopen: %v", err)
	}
	if out == nil || out.ID != "m1" {
		t.Fatalf("value should survive a restart, got %+v", out)
	}
}
