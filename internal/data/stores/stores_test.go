package stores

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodverse/foodverse/internal/core/auth"
	"github.com/foodverse/foodverse/internal/core/notify"
	"github.com/foodverse/foodverse/internal/data/db"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestNotifyStore(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 4, 18, 0, 0, 0, time.UTC)

	t.Run("save and list", func(t *testing.T) {
		store := NewNotifyStore(openTestDB(t), 0)

		err := store.Save(ctx, notify.Notification{
			ID:        "n-1",
			Title:     "Login Failed",
			Message:   "invalid email or password",
			Category:  notify.CategoryError,
			Duration:  5 * time.Second,
			CreatedAt: base,
		})
		require.NoError(t, err)

		items, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "n-1", items[0].ID)
		assert.Equal(t, "Login Failed", items[0].Title)
		assert.Equal(t, notify.CategoryError, items[0].Category)
		assert.Equal(t, 5*time.Second, items[0].Duration)
		assert.True(t, base.Equal(items[0].CreatedAt))
	})

	t.Run("list returns newest first", func(t *testing.T) {
		store := NewNotifyStore(openTestDB(t), 0)

		for i, msg := range []string{"first", "second", "third"} {
			require.NoError(t, store.Save(ctx, notify.Notification{
				ID:        msg,
				Message:   msg,
				Category:  notify.CategoryInfo,
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			}))
		}

		items, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "third", items[0].Message)
		assert.Equal(t, "first", items[2].Message)
	})

	t.Run("retention prunes oldest", func(t *testing.T) {
		store := NewNotifyStore(openTestDB(t), 2)

		for i, msg := range []string{"a", "b", "c"} {
			require.NoError(t, store.Save(ctx, notify.Notification{
				ID:        msg,
				Message:   msg,
				Category:  notify.CategoryInfo,
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}))
		}

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		items, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, "c", items[0].Message)
		assert.Equal(t, "b", items[1].Message)
	})

	t.Run("clear and count", func(t *testing.T) {
		store := NewNotifyStore(openTestDB(t), 0)

		require.NoError(t, store.Save(ctx, notify.Notification{ID: "x", Message: "x", Category: notify.CategoryInfo, CreatedAt: base}))
		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		require.NoError(t, store.Clear(ctx))

		items, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		store := NewNotifyStore(openTestDB(t), 0)

		n := notify.Notification{ID: "same", Message: "x", Category: notify.CategoryInfo, CreatedAt: base}
		require.NoError(t, store.Save(ctx, n))
		assert.Error(t, store.Save(ctx, n))
	})
}

func TestNotifyStore_withCenter(t *testing.T) {
	store := NewNotifyStore(openTestDB(t), 0)
	center := notify.NewCenter(notify.WithHistory(store))
	defer center.Close()

	center.Successf("Welcome back, %s", "Rina")
	center.Errorf("boom")

	history, err := center.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, notify.CategoryError, history[0].Category)
	assert.Equal(t, "Welcome back, Rina", history[1].Message)
}

func newTestKVStore(t *testing.T) *KVStore {
	t.Helper()
	return NewKVStore(openTestDB(t))
}

func TestKVStore_SetAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestKVStore(t)

	type payload struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}

	require.NoError(t, store.Set(ctx, "test-key", payload{Name: "hello", Value: 42}))

	var got payload
	require.NoError(t, store.Get(ctx, "test-key", &got))
	assert.Equal(t, payload{Name: "hello", Value: 42}, got)
}

func TestKVStore_GetNotFound(t *testing.T) {
	store := newTestKVStore(t)

	var v string
	err := store.Get(context.Background(), "nonexistent", &v)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.True(t, IsNotFoundError(err))
}

func TestKVStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	store := newTestKVStore(t)

	require.NoError(t, store.Set(ctx, "key", "first"))
	require.NoError(t, store.Set(ctx, "key", "second"))

	var got string
	require.NoError(t, store.Get(ctx, "key", &got))
	assert.Equal(t, "second", got)
}

func TestKVStore_TTL(t *testing.T) {
	ctx := context.Background()
	store := newTestKVStore(t)

	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.SetTTL(ctx, "short", "v", time.Minute))
	require.NoError(t, store.Set(ctx, "forever", "v"))

	ok, err := store.Has(ctx, "short")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)

	ok, err = store.Has(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok, "expired key reads as missing")

	require.NoError(t, store.SetTTL(ctx, "other", "v", time.Second))
	now = now.Add(time.Minute)

	removed, err := store.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	ok, err = store.Has(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestKVStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestKVStore(t)

	require.NoError(t, store.Set(ctx, "k", 1))
	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"), "deleting a missing key is fine")

	ok, err := store.Has(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		store := NewSessionStore(newTestKVStore(t))
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, auth.ErrNoSession)
	})

	t.Run("round trip", func(t *testing.T) {
		store := NewSessionStore(newTestKVStore(t))
		sess := auth.Session{
			Token:     "jwt",
			ExpiresAt: time.Now().Add(time.Hour).Truncate(time.Second),
			User:      auth.User{ID: 7, Name: "Rina", Email: "rina@example.com", Role: auth.RoleConsumer},
		}
		require.NoError(t, store.Save(ctx, sess))

		got, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, sess.Token, got.Token)
		assert.Equal(t, sess.User, got.User)
		assert.True(t, sess.ExpiresAt.Equal(got.ExpiresAt))

		require.NoError(t, store.Clear(ctx))
		_, err = store.Load(ctx)
		assert.ErrorIs(t, err, auth.ErrNoSession)
	})

	t.Run("expired entry reads as no session", func(t *testing.T) {
		kv := newTestKVStore(t)
		now := time.Now()
		kv.now = func() time.Time { return now }
		store := NewSessionStore(kv)

		require.NoError(t, store.Save(ctx, auth.Session{Token: "jwt", ExpiresAt: now.Add(time.Minute)}))
		now = now.Add(time.Hour)

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, auth.ErrNoSession)
	})

	t.Run("no expiry", func(t *testing.T) {
		store := NewSessionStore(newTestKVStore(t))
		require.NoError(t, store.Save(ctx, auth.Session{Token: "jwt"}))

		got, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "jwt", got.Token)
	})
}

func TestSessionStore_withService(t *testing.T) {
	store := NewSessionStore(newTestKVStore(t))
	require.NoError(t, store.Save(context.Background(), auth.Session{
		Token:     "jwt",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      auth.User{ID: 1, Name: "Rina", Role: auth.RoleConsumer},
	}))

	svc := auth.NewService(nil, store)
	require.NoError(t, svc.Restore(context.Background()))

	u, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, "Rina", u.Name)

	require.NoError(t, svc.Logout(context.Background()))
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, auth.ErrNoSession)
}

func TestIsCorruptionError(t *testing.T) {
	assert.False(t, IsCorruptionError(nil))
	assert.False(t, IsCorruptionError(errors.New("disk full")))
	assert.True(t, IsCorruptionError(errors.New("database disk image is malformed")))
	assert.False(t, IsBusyError(errors.New("database is locked")))
}

func TestRecoverFromCorruption(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, db.FileName)
	require.NoError(t, os.WriteFile(dbPath, []byte("garbage"), 0o600))
	require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("garbage"), 0o600))

	backup, err := RecoverFromCorruption(dir)
	require.NoError(t, err)

	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(backup)
	assert.NoError(t, err)
	_, err = os.Stat(backup + "-wal")
	assert.NoError(t, err)

	database, err := db.Open(dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	assert.NoError(t, database.Close())
}
