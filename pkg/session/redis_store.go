package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrymomot/bootstrap/pkg/redis"
)

// RedisStore keeps sessions as JSON values with a TTL matching their expiry.
// Values read back from Redis have JSON types (numbers become float64).
type RedisStore struct {
	storage *redis.Storage
}

func NewRedisStore(storage *redis.Storage) *RedisStore {
	return &RedisStore{storage: storage}
}

func (s *RedisStore) Create(ctx context.Context, session *Session) error {
	return s.save(ctx, session)
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := s.storage.Get(ctx, token)
	if err != nil {
		return nil, errors.Join(ErrStore, err)
	}
	if data == nil {
		return nil, ErrSessionNotFound
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}
	if session.IsExpired() {
		_ = s.storage.Delete(ctx, token)
		return nil, ErrSessionExpired
	}
	return &session, nil
}

func (s *RedisStore) Update(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}
	ok, err := s.storage.Exists(ctx, session.Token)
	if err != nil {
		return errors.Join(ErrStore, err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return s.save(ctx, session)
}

func (s *RedisStore) UpdateActivity(ctx context.Context, token string, lastActivity time.Time) error {
	session, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	session.LastActivityAt = lastActivity
	return s.save(ctx, session)
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.storage.Delete(ctx, token); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.storage.Close()
}

func (s *RedisStore) save(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionExpired
	}
	data, err := json.Marshal(session)
	if err != nil {
		return errors.Join(ErrInvalidSession, err)
	}
	if err := s.storage.Set(ctx, session.Token, data, ttl); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}
