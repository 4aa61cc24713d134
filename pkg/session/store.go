package session

import (
	"context"
	"time"
)

// Store persists sessions by token.
type Store interface {
	Create(ctx context.Context, session *Session) error
	// Get returns ErrSessionNotFound or ErrSessionExpired for unusable tokens.
	Get(ctx context.Context, token string) (*Session, error)
	Update(ctx context.Context, session *Session) error
	UpdateActivity(ctx context.Context, token string, lastActivity time.Time) error
	Delete(ctx context.Context, token string) error
	Close() error
}
