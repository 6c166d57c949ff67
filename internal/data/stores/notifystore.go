package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/foodverse/foodverse/internal/core/notify"
	"github.com/foodverse/foodverse/internal/data/db"
)

// NotifyStore implements notify.Store using SQLite.
type NotifyStore struct {
	db        *db.DB
	retention int
}

var _ notify.Store = (*NotifyStore)(nil)

// NewNotifyStore creates a SQLite-backed notification history. retention
// caps the number of rows kept (oldest pruned first); 0 keeps everything.
func NewNotifyStore(db *db.DB, retention int) *NotifyStore {
	return &NotifyStore{db: db, retention: max(retention, 0)}
}

// Save appends a notification to the history.
func (s *NotifyStore) Save(ctx context.Context, n notify.Notification) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO notifications (notification_id, category, title, message, duration_ms, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			n.ID, string(n.Category), n.Title, n.Message, n.Duration.Milliseconds(), n.CreatedAt.UnixNano(),
		)
		if err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}

		if s.retention == 0 {
			return nil
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM notifications WHERE id NOT IN (
				SELECT id FROM notifications ORDER BY created_at DESC, id DESC LIMIT ?
			)`, s.retention)
		if err != nil {
			return fmt.Errorf("prune notifications: %w", err)
		}
		return nil
	})
}

// List returns all notifications ordered by newest first.
func (s *NotifyStore) List(ctx context.Context) ([]notify.Notification, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT notification_id, category, title, message, duration_ms, created_at
		FROM notifications
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]notify.Notification, 0)
	for rows.Next() {
		var (
			n          notify.Notification
			category   string
			durationMS int64
			createdAt  int64
		)
		if err := rows.Scan(&n.ID, &category, &n.Title, &n.Message, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Category = notify.Category(category)
		n.Duration = time.Duration(durationMS) * time.Millisecond
		n.CreatedAt = time.Unix(0, createdAt)
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return result, nil
}

// Clear deletes all notifications.
func (s *NotifyStore) Clear(ctx context.Context) error {
	if _, err := s.db.Conn().ExecContext(ctx, "DELETE FROM notifications"); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

// Count returns the total number of notifications.
func (s *NotifyStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM notifications").Scan(&count); err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return count, nil
}
