package moderation

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/guardbot/internal/db"
	apperrors "github.com/iamwavecut/guardbot/internal/errors"
)

// Config is the immutable detection configuration the engine is built with.
type Config struct {
	MaxMessagesPerMinute int
	BanDuration          time.Duration
	SpamKeywords         []string
}

// Engine produces one Verdict per evaluated message: ban check first, then the
// rate window, then content rules. It owns per-pair serialization; callers may
// invoke Evaluate from any number of goroutines.
type Engine struct {
	store      db.Client
	classifier *Classifier
	limiter    *rateLimiter
	cfg        Config
	locks      *keyedMutex
}

func NewEngine(store db.Client, cfg Config) *Engine {
	return &Engine{
		store:      store,
		classifier: NewClassifier(cfg.SpamKeywords),
		limiter:    &rateLimiter{store: store, maxPerWindow: cfg.MaxMessagesPerMinute},
		cfg:        cfg,
		locks:      newKeyedMutex(),
	}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Evaluate decides the fate of one message. Store failures surface as
// *errors.StoreError and abort the call before any further rule runs; the
// engine never guesses a verdict over unknown state.
func (e *Engine) Evaluate(ctx context.Context, chatID, userID int64, text string, now time.Time) (Verdict, error) {
	unlock := e.locks.lock(activityKey{chatID: chatID, userID: userID})
	defer unlock()

	ts := now.Unix()
	activity, err := e.store.GetActivity(ctx, chatID, userID)
	if err != nil {
		return Verdict{}, apperrors.NewStoreError("get activity", err)
	}

	if activity != nil && activity.IsBanned {
		if activity.BanUntil > ts {
			return Banned(ReasonTemporarilyBanned), nil
		}
		// Lazy expiry: clear the stale ban and let this message through to
		// the regular checks.
		if err := e.store.UnbanUser(ctx, chatID, userID); err != nil {
			return Verdict{}, apperrors.NewStoreError("unban", err)
		}
		activity.IsBanned = false
		activity.BanUntil = 0
	}

	verdict, err := e.limiter.observe(ctx, chatID, userID, activity, ts)
	if err != nil {
		return Verdict{}, err
	}
	if !verdict.IsClean() {
		return verdict, nil
	}

	return e.classifier.Classify(text), nil
}

// RecordViolation appends an audit entry for a detected violation. Audit
// logging is best-effort: failures are reported, never propagated.
func (e *Engine) RecordViolation(ctx context.Context, chatID, userID int64, text, action string, now time.Time) {
	entry := &db.SpamLog{
		UserID:      userID,
		ChatID:      chatID,
		MessageText: text,
		DetectedAt:  now.Unix(),
		ActionTaken: action,
	}
	if err := e.store.AppendSpamLog(ctx, entry); err != nil {
		log.WithField("context", "engine").WithError(err).Error("cant append spam log")
	}
}
