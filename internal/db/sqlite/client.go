package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/iamwavecut/guardbot/internal/db"
	"github.com/iamwavecut/guardbot/resources"
)

type sqliteClient struct {
	db    *sqlx.DB
	mutex sync.RWMutex
}

func NewSQLiteClient(ctx context.Context, workDir, dbPath string) (*sqliteClient, error) {
	dbx, err := sqlx.Open("sqlite", filepath.Join(workDir, dbPath))
	if err != nil {
		return nil, err
	}
	dbx.SetMaxOpenConns(42)

	migrationsSource := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: resources.FS,
		Root:       "migrations",
	}
	n, err := migrate.Exec(dbx.DB, "sqlite3", migrationsSource, migrate.Up)
	if err != nil {
		_ = dbx.Close()
		return nil, err
	}
	if n > 0 {
		log.Infof("applied %d migrations!", n)
	}

	return &sqliteClient{db: dbx}, nil
}

func (s *sqliteClient) Close() error {
	return s.db.Close()
}

func (s *sqliteClient) GetActivity(ctx context.Context, chatID, userID int64) (*db.UserActivity, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var activity db.UserActivity
	err := s.db.GetContext(ctx, &activity, `
		SELECT user_id, chat_id, message_count, last_message_time, is_banned, ban_until
		FROM user_activity
		WHERE user_id = ? AND chat_id = ?
	`, userID, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (s *sqliteClient) UpsertActivityWindow(ctx context.Context, chatID, userID int64, count int, lastMessageTime int64) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// Single statement so the window update cannot clobber ban fields.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_activity (user_id, chat_id, message_count, last_message_time)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, chat_id) DO UPDATE SET
		message_count=excluded.message_count,
		last_message_time=excluded.last_message_time
	`, userID, chatID, count, lastMessageTime)
	return err
}

func (s *sqliteClient) BanUser(ctx context.Context, chatID, userID int64, duration time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	banUntil := time.Now().Add(duration).Unix()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_activity (user_id, chat_id, message_count, last_message_time, is_banned, ban_until)
		VALUES (?, ?, 0, 0, 1, ?)
		ON CONFLICT(user_id, chat_id) DO UPDATE SET
		is_banned=1,
		ban_until=excluded.ban_until
	`, userID, chatID, banUntil)
	return err
}

func (s *sqliteClient) UnbanUser(ctx context.Context, chatID, userID int64) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	_, err := s.db.ExecContext(ctx, `
		UPDATE user_activity
		SET is_banned = 0, ban_until = 0
		WHERE user_id = ? AND chat_id = ?
	`, userID, chatID)
	return err
}

func (s *sqliteClient) AppendSpamLog(ctx context.Context, entry *db.SpamLog) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO spam_logs (user_id, chat_id, message_text, detected_at, action_taken)
		VALUES (?, ?, ?, ?, ?)
	`, entry.UserID, entry.ChatID, entry.MessageText, entry.DetectedAt, entry.ActionTaken)
	if err != nil {
		return err
	}
	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}
	return nil
}

func (s *sqliteClient) GetSpamLogs(ctx context.Context, chatID int64, limit int) ([]db.SpamLog, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var entries []db.SpamLog
	err := s.db.SelectContext(ctx, &entries, `
		SELECT id, user_id, chat_id, message_text, detected_at, action_taken
		FROM spam_logs
		WHERE chat_id = ?
		ORDER BY detected_at DESC, id DESC
		LIMIT ?
	`, chatID, limit)
	return entries, err
}

func (s *sqliteClient) CountSpamLogs(ctx context.Context, chatID int64) (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var count int64
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM spam_logs WHERE chat_id = ?", chatID)
	return count, err
}
