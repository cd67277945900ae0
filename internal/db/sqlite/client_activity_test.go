package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/iamwavecut/guardbot/internal/db"
)

func newTestClient(t *testing.T) *sqliteClient {
	t.Helper()
	client, err := NewSQLiteClient(context.Background(), t.TempDir(), "test.db")
	if err != nil {
		t.Fatalf("new sqlite client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestGetActivityAbsentReturnsNil(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	activity, err := client.GetActivity(context.Background(), 100, 200)
	if err != nil {
		t.Fatalf("get activity: %v", err)
	}
	if activity != nil {
		t.Fatalf("expected nil activity for absent pair, got %+v", activity)
	}
}

func TestUpsertActivityWindowPreservesBanFields(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)

	if err := client.BanUser(ctx, 1, 2, time.Hour); err != nil {
		t.Fatalf("ban user: %v", err)
	}
	if err := client.UpsertActivityWindow(ctx, 1, 2, 3, 1700000000); err != nil {
		t.Fatalf("upsert window: %v", err)
	}

	activity, err := client.GetActivity(ctx, 1, 2)
	if err != nil {
		t.Fatalf("get activity: %v", err)
	}
	if activity == nil {
		t.Fatal("expected activity record")
	}
	if activity.MessageCount != 3 || activity.LastMessageTime != 1700000000 {
		t.Fatalf("window fields not updated: %+v", activity)
	}
	if !activity.IsBanned || activity.BanUntil <= time.Now().Unix() {
		t.Fatalf("ban fields disturbed by window upsert: %+v", activity)
	}
}

func TestBanUserIsIdempotentAndOverwritesExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)

	if err := client.BanUser(ctx, 5, 6, time.Minute); err != nil {
		t.Fatalf("first ban: %v", err)
	}
	first, err := client.GetActivity(ctx, 5, 6)
	if err != nil || first == nil {
		t.Fatalf("get activity after first ban: %v, %+v", err, first)
	}

	if err := client.BanUser(ctx, 5, 6, 2*time.Hour); err != nil {
		t.Fatalf("second ban: %v", err)
	}
	second, err := client.GetActivity(ctx, 5, 6)
	if err != nil || second == nil {
		t.Fatalf("get activity after second ban: %v, %+v", err, second)
	}
	if second.BanUntil <= first.BanUntil {
		t.Fatalf("expected re-ban to extend expiry: first=%d second=%d", first.BanUntil, second.BanUntil)
	}
}

func TestUnbanUserAbsentIsNoop(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	if err := client.UnbanUser(context.Background(), 7, 8); err != nil {
		t.Fatalf("unban of absent pair should not fail: %v", err)
	}
}

func TestSpamLogAppendAndQuery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)

	entries := []*db.SpamLog{
		{UserID: 10, ChatID: 20, MessageText: "first", DetectedAt: 100, ActionTaken: "message deleted"},
		{UserID: 11, ChatID: 20, MessageText: "second", DetectedAt: 200, ActionTaken: "user banned"},
		{UserID: 12, ChatID: 21, MessageText: "other chat", DetectedAt: 300, ActionTaken: "message deleted"},
	}
	for _, entry := range entries {
		if err := client.AppendSpamLog(ctx, entry); err != nil {
			t.Fatalf("append spam log: %v", err)
		}
		if entry.ID == 0 {
			t.Fatalf("expected assigned id for %+v", entry)
		}
	}

	count, err := client.CountSpamLogs(ctx, 20)
	if err != nil {
		t.Fatalf("count spam logs: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 entries for chat 20, got %d", count)
	}

	logs, err := client.GetSpamLogs(ctx, 20, 10)
	if err != nil {
		t.Fatalf("get spam logs: %v", err)
	}
	if len(logs) != 2 || logs[0].MessageText != "second" {
		t.Fatalf("expected newest-first entries for chat 20, got %+v", logs)
	}
}
