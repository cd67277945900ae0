package moderation

import (
	"context"

	"github.com/iamwavecut/guardbot/internal/db"
	apperrors "github.com/iamwavecut/guardbot/internal/errors"
)

// rateWindow is the fixed accounting bucket in seconds. A message arriving
// exactly at the boundary starts a fresh window (`< 60` keeps counting,
// `>= 60` resets).
const rateWindow int64 = 60

type rateLimiter struct {
	store        db.Client
	maxPerWindow int
}

// observe records the message in the activity window and reports whether the
// sender went over the per-minute budget. The caller holds the pair's lock and
// passes the already-fetched record (nil when absent).
func (r *rateLimiter) observe(ctx context.Context, chatID, userID int64, activity *db.UserActivity, now int64) (Verdict, error) {
	if activity == nil || now-activity.LastMessageTime >= rateWindow {
		if err := r.store.UpsertActivityWindow(ctx, chatID, userID, 1, now); err != nil {
			return Verdict{}, apperrors.NewStoreError("reset activity window", err)
		}
		return Clean(), nil
	}

	count := activity.MessageCount + 1
	if err := r.store.UpsertActivityWindow(ctx, chatID, userID, count, now); err != nil {
		return Verdict{}, apperrors.NewStoreError("update activity window", err)
	}
	if count > r.maxPerWindow {
		return Spam(ReasonRateLimitExceeded), nil
	}
	return Clean(), nil
}
