package handlers

import (
	"context"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/guardbot/internal/bot"
	apperrors "github.com/iamwavecut/guardbot/internal/errors"
	"github.com/iamwavecut/guardbot/internal/observability"
)

// BanService combines the Telegram-side ban with the activity store's ban
// state, which the decision engine consults on every message.
type BanService interface {
	Ban(ctx context.Context, chatID, userID int64, duration time.Duration) error
	Unban(ctx context.Context, chatID, userID int64) error
}

type banStore interface {
	BanUser(ctx context.Context, chatID, userID int64, duration time.Duration) error
	UnbanUser(ctx context.Context, chatID, userID int64) error
}

type defaultBanService struct {
	bot   *api.BotAPI
	store banStore
}

func NewBanService(bot *api.BotAPI, store banStore) BanService {
	return &defaultBanService{
		bot:   bot,
		store: store,
	}
}

// Ban records the ban in the store first: the store is what the engine
// enforces, so it stays authoritative even when the Telegram call fails.
func (s *defaultBanService) Ban(ctx context.Context, chatID, userID int64, duration time.Duration) error {
	if duration <= 0 {
		return apperrors.ErrInvalidInput
	}
	if err := s.store.BanUser(ctx, chatID, userID, duration); err != nil {
		return apperrors.NewStoreError("ban user", err)
	}
	if s.bot != nil {
		until := time.Now().Add(duration).Unix()
		if err := bot.BanUserFromChat(ctx, s.bot, userID, chatID, until); err != nil {
			observability.CountRemediationError("ban")
			log.WithError(err).WithFields(log.Fields{
				"chat_id": chatID,
				"user_id": userID,
			}).Error("cant ban chat member")
		}
	}
	return nil
}

func (s *defaultBanService) Unban(ctx context.Context, chatID, userID int64) error {
	if err := s.store.UnbanUser(ctx, chatID, userID); err != nil {
		return apperrors.NewStoreError("unban user", err)
	}
	if s.bot != nil {
		if err := bot.UnbanUserInChat(ctx, s.bot, userID, chatID); err != nil {
			observability.CountRemediationError("unban")
			log.WithError(err).WithFields(log.Fields{
				"chat_id": chatID,
				"user_id": userID,
			}).Error("cant unban chat member")
		}
	}
	return nil
}
