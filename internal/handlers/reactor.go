package handlers

import (
	"context"
	"strings"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/iamwavecut/tool"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/guardbot/internal/bot"
	"github.com/iamwavecut/guardbot/internal/moderation"
	"github.com/iamwavecut/guardbot/internal/observability"
)

const warnTemplate = `⚠️ Anti-Spam System:
Your message was deleted because: {{ .reason }}
Continued spamming will result in a ban.`

// Reactor moderates every plain group message: it asks the decision engine
// for a verdict and performs remediation on anything non-clean.
type Reactor struct {
	s          bot.Service
	engine     *moderation.Engine
	banService BanService
}

func NewReactor(s bot.Service, engine *moderation.Engine, banService BanService) *Reactor {
	return &Reactor{
		s:          s,
		engine:     engine,
		banService: banService,
	}
}

func (r *Reactor) Handle(ctx context.Context, u *api.Update, chat *api.Chat, user *api.User) (bool, error) {
	if u == nil || u.Message == nil || chat == nil || user == nil {
		return true, nil
	}
	msg := u.Message

	if user.IsBot {
		return false, nil
	}
	if !shouldModerate(msg, chat) {
		return true, nil
	}

	entry := r.getLogEntry().WithFields(log.Fields{
		"chat_id":        chat.ID,
		"user_id":        user.ID,
		"correlation_id": uuid.New(),
	})

	content := bot.ExtractContentFromMessage(msg)
	started := time.Now()
	verdict, err := r.engine.Evaluate(ctx, chat.ID, user.ID, content, started)
	if err != nil {
		return false, errors.WithMessage(err, "cant evaluate message")
	}
	observability.ObserveVerdict(verdict.Kind.String(), time.Since(started))

	if verdict.IsClean() {
		return true, nil
	}

	entry.WithFields(log.Fields{
		"verdict": verdict.Kind.String(),
		"reason":  verdict.Reason,
	}).Info("message flagged")

	actions := r.remediate(ctx, msg, chat, user, verdict, entry)
	r.engine.RecordViolation(ctx, chat.ID, user.ID, content, strings.Join(actions, ", "), time.Now())
	return false, nil
}

// shouldModerate filters out everything the engine never sees: private chats,
// commands, and messages with no moderatable content.
func shouldModerate(msg *api.Message, chat *api.Chat) bool {
	if chat.Type != "group" && chat.Type != "supergroup" {
		return false
	}
	if msg.IsCommand() {
		return false
	}
	return true
}

// remediate deletes the message, warns the user, and places or extends the
// ban. Each action is independent; failures are logged and counted but never
// abort the rest.
func (r *Reactor) remediate(ctx context.Context, msg *api.Message, chat *api.Chat, user *api.User, verdict moderation.Verdict, entry *log.Entry) []string {
	actions := make([]string, 0, 3)

	if err := bot.DeleteChatMessage(ctx, r.s.GetBot(), chat.ID, msg.MessageID); err != nil {
		observability.CountRemediationError("delete")
		entry.WithError(err).Error("cant delete message")
	} else {
		actions = append(actions, "message deleted")
	}

	warnText := tool.ExecTemplate(warnTemplate, map[string]any{
		"reason": verdict.Reason,
	})
	if _, err := r.s.GetBot().Send(api.NewMessage(chat.ID, warnText)); err != nil {
		observability.CountRemediationError("warn")
		entry.WithError(err).Error("cant warn user")
	} else {
		actions = append(actions, "user warned")
	}

	if err := r.banService.Ban(ctx, chat.ID, user.ID, r.engine.Config().BanDuration); err != nil {
		observability.CountRemediationError("ban")
		entry.WithError(err).Error("cant ban user")
	} else {
		actions = append(actions, "user banned")
	}

	return actions
}

func (r *Reactor) getLogEntry() *log.Entry {
	return log.WithField("context", "reactor")
}
