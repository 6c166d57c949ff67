// Package notify holds the transient notification ("toast") model and the
// Center that owns the active list and its expiry timers.
package notify

import (
	"context"
	"time"
)

// Category is the visual kind of a notification.
type Category string

const (
	CategorySuccess Category = "success"
	CategoryError   Category = "error"
	CategoryInfo    Category = "info"
	CategoryWarning Category = "warning"
)

// DefaultDuration is how long a notification stays visible when the caller
// does not ask for a specific duration.
const DefaultDuration = 5 * time.Second

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategorySuccess, CategoryError, CategoryInfo, CategoryWarning:
		return true
	default:
		return false
	}
}

// Notification is a single transient, user-visible message.
type Notification struct {
	ID        string
	Title     string
	Message   string
	Category  Category
	Duration  time.Duration // zero means DefaultDuration (or the Center's configured default)
	CreatedAt time.Time
}

// Store persists notifications so they can be reviewed after they expire.
type Store interface {
	Save(ctx context.Context, n Notification) error
	List(ctx context.Context) ([]Notification, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
