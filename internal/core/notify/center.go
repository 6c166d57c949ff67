package notify

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EventType describes what happened to a notification.
type EventType string

const (
	EventAdded     EventType = "added"
	EventDismissed EventType = "dismissed"
	EventExpired   EventType = "expired"
)

// Event is delivered to listeners after the active list changed.
type Event struct {
	Type         EventType
	Notification Notification
}

// Listener is a callback invoked for every Event. Listeners run outside the
// Center's lock and may call back into the Center.
type Listener func(Event)

type entry struct {
	notification Notification
	timer        Timer
}

type subscription struct {
	id int
	fn Listener
}

// Center owns the ordered list of active notifications. Each notification
// gets exactly one expiry timer when added; expiry and explicit dismissal
// share the same removal path, so removing twice is a no-op.
//
// A Center is created at application start and torn down with Close.
type Center struct {
	mu        sync.Mutex
	entries   []entry
	listeners []subscription
	nextSubID int
	closed    bool

	clock    Clock
	history  Store
	duration time.Duration
	newID    func() string
	logger   zerolog.Logger
}

// Option configures a Center.
type Option func(*Center)

// WithClock replaces the wall clock used for timestamps and expiry timers.
func WithClock(clock Clock) Option {
	return func(c *Center) { c.clock = clock }
}

// WithHistory persists every added notification to store.
func WithHistory(store Store) Option {
	return func(c *Center) { c.history = store }
}

// WithDefaultDuration overrides DefaultDuration. Non-positive values are ignored.
func WithDefaultDuration(d time.Duration) Option {
	return func(c *Center) {
		if d > 0 {
			c.duration = d
		}
	}
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Center) { c.logger = l }
}

// NewCenter creates an empty notification center.
func NewCenter(opts ...Option) *Center {
	c := &Center{
		clock:    RealClock(),
		duration: DefaultDuration,
		newID:    uuid.NewString,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add appends n to the end of the active list under a fresh id and schedules
// its removal. Any ID set by the caller is replaced. Unknown categories fall
// back to CategoryInfo and a non-positive Duration uses the default.
//
// Listeners see EventAdded before the notification is written to history.
func (c *Center) Add(n Notification) {
	if !n.Category.IsValid() {
		n.Category = CategoryInfo
	}
	if n.Duration <= 0 {
		n.Duration = c.duration
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	n.ID = c.newID()
	n.CreatedAt = c.clock.Now()

	id := n.ID
	c.entries = append(c.entries, entry{
		notification: n,
		timer:        c.clock.AfterFunc(n.Duration, func() { c.remove(id, EventExpired) }),
	})
	c.mu.Unlock()

	c.emit(Event{Type: EventAdded, Notification: n})

	if c.history != nil {
		if err := c.history.Save(context.Background(), n); err != nil {
			c.logger.Error().Err(err).Str("id", n.ID).Msg("failed to persist notification")
		}
	}
}

// Remove dismisses the notification with the given id. Unknown ids, including
// ones that already expired, are ignored.
func (c *Center) Remove(id string) {
	c.remove(id, EventDismissed)
}

func (c *Center) remove(id string, reason EventType) {
	c.mu.Lock()
	idx := slices.IndexFunc(c.entries, func(e entry) bool {
		return e.notification.ID == id
	})
	if idx < 0 {
		c.mu.Unlock()
		return
	}

	removed := c.entries[idx]
	removed.timer.Stop()
	c.entries = slices.Delete(c.entries, idx, idx+1)
	c.mu.Unlock()

	c.emit(Event{Type: reason, Notification: removed.notification})
}

// Clear dismisses every active notification.
func (c *Center) Clear() {
	c.mu.Lock()
	removed := c.entries
	c.entries = nil
	for _, e := range removed {
		e.timer.Stop()
	}
	c.mu.Unlock()

	for _, e := range removed {
		c.emit(Event{Type: EventDismissed, Notification: e.notification})
	}
}

// Active returns a snapshot of the active notifications in display order
// (oldest first).
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.notification
	}
	return out
}

// Len returns the number of active notifications.
func (c *Center) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Subscribe registers fn for all future events and returns a function that
// removes the subscription.
func (c *Center) Subscribe(fn Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextSubID++
	id := c.nextSubID
	c.listeners = append(c.listeners, subscription{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.listeners = slices.DeleteFunc(c.listeners, func(s subscription) bool {
			return s.id == id
		})
	}
}

// Close stops all pending timers and drops the active list and listeners.
// Add is a no-op afterwards.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for _, e := range c.entries {
		e.timer.Stop()
	}
	c.entries = nil
	c.listeners = nil
}

func (c *Center) emit(ev Event) {
	c.mu.Lock()
	subs := make([]subscription, len(c.listeners))
	copy(subs, c.listeners)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(ev)
	}
}

// Successf adds a success notification.
func (c *Center) Successf(format string, args ...any) {
	c.Add(Notification{Category: CategorySuccess, Message: fmt.Sprintf(format, args...)})
}

// Infof adds an info notification.
func (c *Center) Infof(format string, args ...any) {
	c.Add(Notification{Category: CategoryInfo, Message: fmt.Sprintf(format, args...)})
}

// Warnf adds a warning notification.
func (c *Center) Warnf(format string, args ...any) {
	c.Add(Notification{Category: CategoryWarning, Message: fmt.Sprintf(format, args...)})
}

// Errorf adds an error notification.
func (c *Center) Errorf(format string, args ...any) {
	c.Add(Notification{Category: CategoryError, Message: fmt.Sprintf(format, args...)})
}

// History returns persisted notifications, newest first.
// Returns nil if no history store is configured.
func (c *Center) History(ctx context.Context) ([]Notification, error) {
	if c.history == nil {
		return nil, nil
	}
	return c.history.List(ctx)
}

// HistoryCount returns the number of persisted notifications.
// Returns 0 if no history store is configured.
func (c *Center) HistoryCount(ctx context.Context) (int64, error) {
	if c.history == nil {
		return 0, nil
	}
	return c.history.Count(ctx)
}

// ClearHistory deletes all persisted notifications.
func (c *Center) ClearHistory(ctx context.Context) error {
	if c.history == nil {
		return nil
	}
	return c.history.Clear(ctx)
}
