package db

// UserActivity holds the rate window and ban state for one (user, chat) pair.
// ban_until is meaningful only while is_banned is set; a ban past its expiry is
// cleared lazily on the next evaluation, never by a background sweep.
type UserActivity struct {
	UserID          int64 `db:"user_id"`
	ChatID          int64 `db:"chat_id"`
	MessageCount    int   `db:"message_count"`
	LastMessageTime int64 `db:"last_message_time"`
	IsBanned        bool  `db:"is_banned"`
	BanUntil        int64 `db:"ban_until"`
}

// BannedAt reports whether the record carries a ban active at the given moment
// (epoch seconds).
func (a *UserActivity) BannedAt(now int64) bool {
	return a != nil && a.IsBanned && a.BanUntil > now
}

// SpamLog is an append-only audit record of one detected violation.
type SpamLog struct {
	ID          int64  `db:"id"`
	UserID      int64  `db:"user_id"`
	ChatID      int64  `db:"chat_id"`
	MessageText string `db:"message_text"`
	DetectedAt  int64  `db:"detected_at"`
	ActionTaken string `db:"action_taken"`
}
