package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/safeguard-school/safeguard-api/internal/domain/auth"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client), mr
}

func TestSessionStore_SaveLoadRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	id := domainauth.Identity{
		ID:     "7",
		Email:  "alex@safeguard.edu",
		Name:   "Alex Thompson",
		Role:   domainauth.RoleStudent,
		School: "SafeGuard Elementary School",
		Grade:  "Grade 5",
	}
	require.NoError(t, store.Save(ctx, id))

	got, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestSessionStore_LoadEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	_, ok, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore_SaveOverwrites(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Identity{ID: "1", Email: "a@x.edu", Role: domainauth.RoleStudent}))
	require.NoError(t, store.Save(ctx, domainauth.Identity{ID: "2", Email: "b@x.edu", Role: domainauth.RoleAdmin}))

	got, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2", got.ID)
}

func TestSessionStore_CorruptRecordReadsAsAbsent(t *testing.T) {
	store, mr := newTestStore(t)
	require.NoError(t, mr.Set(DefaultKey, "{not json"))

	_, ok, err := store.Load(context.Background())

	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse session record")
}

func TestSessionStore_ClearIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Identity{ID: "1", Email: "a@x.edu", Role: domainauth.RoleStudent}))
	require.NoError(t, store.Clear(ctx))
	// Clearing an already-empty store must not fail.
	require.NoError(t, store.Clear(ctx))

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore_CustomKeyIsolation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	a := NewSessionStoreWithKey(client, "safeguard:session:device-a")
	b := NewSessionStoreWithKey(client, "safeguard:session:device-b")
	ctx := context.Background()

	require.NoError(t, a.Save(ctx, domainauth.Identity{ID: "1", Email: "a@x.edu", Role: domainauth.RoleStudent}))

	_, ok, err := b.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
