package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/guardbot/internal/bot"
	apperrors "github.com/iamwavecut/guardbot/internal/errors"
)

// Admin handles the administrative command surface: /start, /stats,
// /ban <user_id> [seconds], /unban <user_id>. Non-admins get a refusal.
type Admin struct {
	s          bot.Service
	banService BanService
}

func NewAdmin(s bot.Service, banService BanService) *Admin {
	return &Admin{
		s:          s,
		banService: banService,
	}
}

func (a *Admin) Handle(ctx context.Context, u *api.Update, chat *api.Chat, user *api.User) (bool, error) {
	if u == nil || u.Message == nil || chat == nil || user == nil {
		return true, nil
	}
	msg := u.Message
	if !msg.IsCommand() {
		return true, nil
	}

	cfg := a.s.GetConfig()
	if !cfg.IsAdmin(user.ID) {
		a.reply(chat.ID, "❌ You don't have permission to use commands.")
		return false, nil
	}

	entry := a.getLogEntry().WithFields(log.Fields{
		"chat_id": chat.ID,
		"user_id": user.ID,
		"command": msg.Command(),
	})

	switch msg.Command() {
	case "start":
		a.reply(chat.ID, "🤖 Anti-Spam Bot Activated!\nI will monitor this chat for spam messages.")

	case "stats":
		count, err := a.s.GetDB().CountSpamLogs(ctx, chat.ID)
		if err != nil {
			entry.WithError(err).Error("cant count spam logs")
			a.reply(chat.ID, "❌ Error fetching stats.")
			return false, nil
		}
		a.reply(chat.ID, fmt.Sprintf("📊 Bot is active and monitoring for spam.\nViolations recorded in this chat: %d.", count))

	case "ban":
		targetID, duration, err := parseBanArgs(msg.CommandArguments(), cfg.SpamDetection.BanDuration)
		if err != nil {
			a.reply(chat.ID, "❌ Usage: /ban <user_id> [duration_seconds]")
			return false, nil
		}
		if err := a.banService.Ban(ctx, chat.ID, targetID, duration); err != nil {
			entry.WithError(err).Error("cant ban user")
			a.reply(chat.ID, fmt.Sprintf("❌ Error banning user %d.", targetID))
			return false, nil
		}
		a.reply(chat.ID, fmt.Sprintf("✅ User %d has been banned for %d seconds.", targetID, int64(duration.Seconds())))

	case "unban":
		targetID, err := parseUserIDArg(msg.CommandArguments())
		if err != nil {
			a.reply(chat.ID, "❌ Usage: /unban <user_id>")
			return false, nil
		}
		if err := a.banService.Unban(ctx, chat.ID, targetID); err != nil {
			entry.WithError(err).Error("cant unban user")
			a.reply(chat.ID, fmt.Sprintf("❌ Error unbanning user %d.", targetID))
			return false, nil
		}
		a.reply(chat.ID, fmt.Sprintf("✅ User %d has been unbanned.", targetID))

	default:
		return true, nil
	}

	return false, nil
}

// parseBanArgs extracts the target user and optional duration in seconds.
// Non-positive durations are rejected here; the core never sees them.
func parseBanArgs(args string, defaultDuration time.Duration) (int64, time.Duration, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return 0, 0, errors.WithMessage(apperrors.ErrInvalidInput, "missing user id")
	}
	targetID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, 0, errors.WithMessage(apperrors.ErrInvalidInput, "bad user id")
	}

	duration := defaultDuration
	if len(fields) > 1 {
		seconds, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || seconds <= 0 {
			return 0, 0, errors.WithMessage(apperrors.ErrInvalidInput, "bad duration")
		}
		duration = time.Duration(seconds) * time.Second
	}
	return targetID, duration, nil
}

func parseUserIDArg(args string) (int64, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return 0, errors.WithMessage(apperrors.ErrInvalidInput, "missing user id")
	}
	targetID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, errors.WithMessage(apperrors.ErrInvalidInput, "bad user id")
	}
	return targetID, nil
}

func (a *Admin) reply(chatID int64, text string) {
	if _, err := a.s.GetBot().Send(api.NewMessage(chatID, text)); err != nil {
		a.getLogEntry().WithError(err).Error("cant send reply")
	}
}

func (a *Admin) getLogEntry() *log.Entry {
	return log.WithField("context", "admin")
}
