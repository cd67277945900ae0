package db

import (
	"context"
	"time"
)

// Client is the persistence boundary of the moderation core. All activity
// operations are keyed by (chatID, userID).
type Client interface {
	Close() error

	// GetActivity returns (nil, nil) when no record exists for the pair.
	GetActivity(ctx context.Context, chatID, userID int64) (*UserActivity, error)

	// UpsertActivityWindow sets message_count and last_message_time, creating
	// the record if absent. Ban fields are left untouched.
	UpsertActivityWindow(ctx context.Context, chatID, userID int64, count int, lastMessageTime int64) error

	// BanUser marks the pair banned until now+duration, creating the record if
	// absent. Re-banning simply overwrites the expiry.
	BanUser(ctx context.Context, chatID, userID int64, duration time.Duration) error

	// UnbanUser clears the ban fields. Not an error when the record is absent
	// or already unbanned.
	UnbanUser(ctx context.Context, chatID, userID int64) error

	AppendSpamLog(ctx context.Context, entry *SpamLog) error
	GetSpamLogs(ctx context.Context, chatID int64, limit int) ([]SpamLog, error)
	CountSpamLogs(ctx context.Context, chatID int64) (int64, error)
}
