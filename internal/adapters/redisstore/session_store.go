package redisstore

// Package redisstore provides the Redis-backed session record adapter.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/safeguard-school/safeguard-api/internal/domain/auth"
)

// DefaultKey is the fixed key the device session record lives under.
const DefaultKey = "safeguard:session"

// SessionStore persists at most one serialized Identity under a fixed key.
// The record has no TTL: a signed-in session survives process restarts
// until an explicit logout clears it.
type SessionStore struct {
	client redis.UniversalClient
	key    string
}

// NewSessionStore creates a session store on the default key.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{client: client, key: DefaultKey}
}

// NewSessionStoreWithKey creates a session store on a custom key, e.g. to
// isolate device profiles sharing one Redis.
func NewSessionStoreWithKey(client redis.UniversalClient, key string) *SessionStore {
	return &SessionStore{client: client, key: key}
}

// Save serializes the identity and overwrites any prior record.
func (s *SessionStore) Save(ctx context.Context, id domainauth.Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("write session record: %w", err)
	}
	return nil
}

// Load returns the stored identity, or ok=false when no record exists.
// A record that fails to parse reads as absent; the parse error is returned
// alongside so the caller can log it. Corrupt state never fails startup.
func (s *SessionStore) Load(ctx context.Context) (domainauth.Identity, bool, error) {
	data, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Identity{}, false, nil
		}
		return domainauth.Identity{}, false, fmt.Errorf("read session record: %w", err)
	}

	var id domainauth.Identity
	if err := json.Unmarshal([]byte(data), &id); err != nil {
		return domainauth.Identity{}, false, fmt.Errorf("parse session record: %w", err)
	}
	return id, true, nil
}

// Clear removes the session record. Clearing an empty store is not an error.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("delete session record: %w", err)
	}
	return nil
}
