package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodverse/foodverse/internal/core/notify"
	"github.com/foodverse/foodverse/internal/core/notify/notifytest"
)

// memStore is an in-memory notify.Store for testing.
type memStore struct {
	mu    sync.Mutex
	items []notify.Notification
	err   error
}

func (m *memStore) Save(_ context.Context, n notify.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.items = append(m.items, n)
	return nil
}

func (m *memStore) List(_ context.Context) ([]notify.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]notify.Notification, len(m.items))
	for i, n := range m.items {
		out[len(m.items)-1-i] = n
	}
	return out, nil
}

func (m *memStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	return nil
}

func (m *memStore) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}

func newTestCenter(opts ...notify.Option) (*notify.Center, *notifytest.FakeClock) {
	clock := notifytest.NewFakeClock(time.Date(2025, 6, 4, 18, 0, 0, 0, time.UTC))
	return notify.NewCenter(append([]notify.Option{notify.WithClock(clock)}, opts...)...), clock
}

func TestCenter_Add(t *testing.T) {
	c, _ := newTestCenter()

	c.Add(notify.Notification{Category: notify.CategoryInfo, Message: "Logged out"})

	active := c.Active()
	require.Len(t, active, 1)
	assert.NotEmpty(t, active[0].ID)
	assert.Equal(t, "Logged out", active[0].Message)
	assert.Equal(t, notify.CategoryInfo, active[0].Category)
	assert.Equal(t, notify.DefaultDuration, active[0].Duration)
	assert.False(t, active[0].CreatedAt.IsZero())
}

func TestCenter_Add_increments_count_by_one(t *testing.T) {
	c, _ := newTestCenter()

	for i := range 4 {
		before := c.Len()
		c.Add(notify.Notification{Category: notify.CategorySuccess, Message: "saved"})
		assert.Equal(t, before+1, c.Len(), "add #%d", i)
	}
}

func TestCenter_Add_twice_distinct_ids_in_call_order(t *testing.T) {
	c, _ := newTestCenter()

	c.Add(notify.Notification{Category: notify.CategoryInfo, Message: "first"})
	c.Add(notify.Notification{Category: notify.CategoryError, Message: "second"})

	active := c.Active()
	require.Len(t, active, 2)
	assert.NotEqual(t, active[0].ID, active[1].ID)
	assert.Equal(t, "first", active[0].Message)
	assert.Equal(t, "second", active[1].Message)
}

func TestCenter_Add_replaces_caller_id(t *testing.T) {
	c, _ := newTestCenter()

	c.Add(notify.Notification{ID: "mine", Message: "a"})
	c.Add(notify.Notification{ID: "mine", Message: "b"})

	active := c.Active()
	require.Len(t, active, 2)
	assert.NotEqual(t, "mine", active[0].ID)
	assert.NotEqual(t, active[0].ID, active[1].ID)
}

func TestCenter_Add_ids_never_reused(t *testing.T) {
	c, clock := newTestCenter()

	seen := make(map[string]bool)
	for range 50 {
		c.Add(notify.Notification{Message: "x", Duration: time.Millisecond})
		for _, n := range c.Active() {
			assert.False(t, seen[n.ID], "id %s reused", n.ID)
			seen[n.ID] = true
		}
		clock.Advance(time.Millisecond)
	}
	assert.Len(t, seen, 50)
}

func TestCenter_Add_normalizes_category(t *testing.T) {
	c, _ := newTestCenter()

	c.Add(notify.Notification{Message: "no category"})
	c.Add(notify.Notification{Category: "fatal", Message: "unknown category"})

	for _, n := range c.Active() {
		assert.Equal(t, notify.CategoryInfo, n.Category)
	}
}

func TestCenter_expires_after_default_duration(t *testing.T) {
	c, clock := newTestCenter()

	c.Add(notify.Notification{Category: notify.CategoryInfo, Message: "Logged out"})

	clock.Advance(4999 * time.Millisecond)
	assert.Equal(t, 1, c.Len(), "still visible just before 5000ms")

	clock.Advance(time.Millisecond)
	assert.Equal(t, 0, c.Len(), "removed at 5000ms")
}

func TestCenter_expires_after_explicit_duration(t *testing.T) {
	c, clock := newTestCenter()

	c.Add(notify.Notification{Message: "short", Duration: time.Second})
	c.Add(notify.Notification{Message: "long", Duration: 10 * time.Second})

	clock.Advance(time.Second)
	active := c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "long", active[0].Message)

	clock.Advance(9 * time.Second)
	assert.Zero(t, c.Len())
}

func TestCenter_WithDefaultDuration(t *testing.T) {
	c, clock := newTestCenter(notify.WithDefaultDuration(2 * time.Second))

	c.Add(notify.Notification{Message: "configured default"})
	assert.Equal(t, 2*time.Second, c.Active()[0].Duration)

	clock.Advance(2 * time.Second)
	assert.Zero(t, c.Len())
}

func TestCenter_WithDefaultDuration_ignores_non_positive(t *testing.T) {
	c, _ := newTestCenter(notify.WithDefaultDuration(0))

	c.Add(notify.Notification{Message: "x"})
	assert.Equal(t, notify.DefaultDuration, c.Active()[0].Duration)
}

func TestCenter_Remove(t *testing.T) {
	c, _ := newTestCenter()

	c.Add(notify.Notification{Message: "keep"})
	c.Add(notify.Notification{Message: "drop"})
	c.Add(notify.Notification{Message: "keep too"})

	c.Remove(c.Active()[1].ID)

	active := c.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "keep", active[0].Message)
	assert.Equal(t, "keep too", active[1].Message)
}

func TestCenter_Remove_unknown_id_is_noop(t *testing.T) {
	c, _ := newTestCenter()
	c.Add(notify.Notification{Message: "present"})

	before := c.Active()
	c.Remove("does-not-exist")

	assert.Equal(t, before, c.Active())
}

func TestCenter_Remove_twice_is_noop(t *testing.T) {
	c, _ := newTestCenter()
	c.Add(notify.Notification{Message: "once"})
	id := c.Active()[0].ID

	c.Remove(id)
	c.Remove(id)

	assert.Zero(t, c.Len())
}

func TestCenter_dismiss_before_expiry_cancels_timer(t *testing.T) {
	c, clock := newTestCenter()

	var events []notify.Event
	c.Subscribe(func(ev notify.Event) { events = append(events, ev) })

	c.Add(notify.Notification{Message: "dismissed early"})
	id := c.Active()[0].ID
	assert.Equal(t, 1, clock.Pending())

	c.Remove(id)
	assert.Zero(t, clock.Pending(), "timer should be stopped on dismissal")

	c.Add(notify.Notification{Message: "later"})
	clock.Advance(notify.DefaultDuration - time.Millisecond)

	active := c.Active()
	require.Len(t, active, 1, "the earlier timer must not remove anything")
	assert.Equal(t, "later", active[0].Message)

	require.Len(t, events, 3)
	assert.Equal(t, notify.EventAdded, events[0].Type)
	assert.Equal(t, notify.EventDismissed, events[1].Type)
	assert.Equal(t, id, events[1].Notification.ID)
	assert.Equal(t, notify.EventAdded, events[2].Type)
}

func TestCenter_Subscribe_receives_expired(t *testing.T) {
	c, clock := newTestCenter()

	var events []notify.Event
	c.Subscribe(func(ev notify.Event) { events = append(events, ev) })

	c.Add(notify.Notification{Category: notify.CategoryWarning, Message: "expiring"})
	clock.Advance(notify.DefaultDuration)

	require.Len(t, events, 2)
	assert.Equal(t, notify.EventAdded, events[0].Type)
	assert.Equal(t, notify.EventExpired, events[1].Type)
	assert.Equal(t, "expiring", events[1].Notification.Message)
}

func TestCenter_Subscribe_unsubscribe(t *testing.T) {
	c, _ := newTestCenter()

	calls := 0
	unsubscribe := c.Subscribe(func(notify.Event) { calls++ })

	c.Add(notify.Notification{Message: "a"})
	unsubscribe()
	c.Add(notify.Notification{Message: "b"})

	assert.Equal(t, 1, calls)
}

func TestCenter_listener_may_reenter(t *testing.T) {
	c, _ := newTestCenter()

	c.Subscribe(func(ev notify.Event) {
		if ev.Type == notify.EventAdded && ev.Notification.Message == "auto-dismiss" {
			c.Remove(ev.Notification.ID)
		}
	})

	c.Add(notify.Notification{Message: "auto-dismiss"})
	assert.Zero(t, c.Len())
}

func TestCenter_Clear(t *testing.T) {
	c, clock := newTestCenter()

	dismissed := 0
	c.Subscribe(func(ev notify.Event) {
		if ev.Type == notify.EventDismissed {
			dismissed++
		}
	})

	c.Add(notify.Notification{Message: "a"})
	c.Add(notify.Notification{Message: "b"})
	c.Clear()

	assert.Zero(t, c.Len())
	assert.Zero(t, clock.Pending())
	assert.Equal(t, 2, dismissed)
}

func TestCenter_Close(t *testing.T) {
	c, clock := newTestCenter()

	calls := 0
	c.Subscribe(func(notify.Event) { calls++ })
	c.Add(notify.Notification{Message: "before close"})

	c.Close()

	assert.Zero(t, c.Len())
	assert.Zero(t, clock.Pending())

	c.Add(notify.Notification{Message: "after close"})
	assert.Zero(t, c.Len())
	assert.Equal(t, 1, calls, "no events after close")
}

func TestCenter_helpers(t *testing.T) {
	c, _ := newTestCenter()

	c.Successf("saved %d bags", 3)
	c.Infof("info")
	c.Warnf("warn")
	c.Errorf("boom: %s", "timeout")

	active := c.Active()
	require.Len(t, active, 4)
	assert.Equal(t, notify.CategorySuccess, active[0].Category)
	assert.Equal(t, "saved 3 bags", active[0].Message)
	assert.Equal(t, notify.CategoryInfo, active[1].Category)
	assert.Equal(t, notify.CategoryWarning, active[2].Category)
	assert.Equal(t, notify.CategoryError, active[3].Category)
	assert.Equal(t, "boom: timeout", active[3].Message)
}

func TestCenter_History(t *testing.T) {
	store := &memStore{}
	c, clock := newTestCenter(notify.WithHistory(store))

	c.Infof("first")
	c.Errorf("second")
	clock.Advance(notify.DefaultDuration)

	assert.Zero(t, c.Len())

	history, err := c.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].Message)
	assert.Equal(t, "first", history[1].Message)

	require.NoError(t, c.ClearHistory(context.Background()))
	history, err = c.History(context.Background())
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCenter_History_failure_does_not_block_add(t *testing.T) {
	store := &memStore{err: errors.New("disk full")}
	c, _ := newTestCenter(notify.WithHistory(store))

	c.Errorf("still shown")

	assert.Equal(t, 1, c.Len())
}

// orderedStore records Save calls into a log shared with a listener.
type orderedStore struct {
	memStore
	log *[]string
}

func (o *orderedStore) Save(ctx context.Context, n notify.Notification) error {
	*o.log = append(*o.log, "saved:"+n.Message)
	return o.memStore.Save(ctx, n)
}

func TestCenter_Add_emits_before_persisting(t *testing.T) {
	var log []string
	c, _ := newTestCenter(notify.WithHistory(&orderedStore{log: &log}))
	c.Subscribe(func(ev notify.Event) {
		if ev.Type == notify.EventAdded {
			log = append(log, "added:"+ev.Notification.Message)
		}
	})

	c.Infof("one")
	c.Infof("two")

	assert.Equal(t, []string{"added:one", "saved:one", "added:two", "saved:two"}, log)
}

func TestCenter_HistoryCount(t *testing.T) {
	c, _ := newTestCenter(notify.WithHistory(&memStore{}))

	c.Infof("first")
	c.Warnf("second")

	count, err := c.HistoryCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, c.ClearHistory(context.Background()))
	count, err = c.HistoryCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCenter_History_nil_store(t *testing.T) {
	c, _ := newTestCenter()

	history, err := c.History(context.Background())
	require.NoError(t, err)
	assert.Nil(t, history)
	assert.NoError(t, c.ClearHistory(context.Background()))

	count, err := c.HistoryCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCenter_real_clock_expires(t *testing.T) {
	c := notify.NewCenter(notify.WithDefaultDuration(20 * time.Millisecond))
	defer c.Close()

	expired := make(chan notify.Event, 1)
	c.Subscribe(func(ev notify.Event) {
		if ev.Type == notify.EventExpired {
			expired <- ev
		}
	})

	c.Infof("real timer")

	select {
	case ev := <-expired:
		assert.Equal(t, "real timer", ev.Notification.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("notification did not expire")
	}
	assert.Zero(t, c.Len())
}
