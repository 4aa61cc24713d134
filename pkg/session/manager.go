package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/bootstrap/pkg/cookie"
)

// Manager creates, loads and persists sessions.
type Manager struct {
	store     Store
	transport Transport
	config    Config
	cookies   *cookie.Manager

	activity  chan activityUpdate
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

type activityUpdate struct {
	token string
	time  time.Time
}

// New builds a manager. Without a Store sessions live in memory; without a
// Transport a cookie manager is required for the encrypted cookie transport.
func New(opts ...Option) (*Manager, error) {
	m := &Manager{
		config:   DefaultConfig(),
		activity: make(chan activityUpdate, 1000),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.transport == nil {
		if m.cookies == nil {
			return nil, ErrNoCookieManager
		}
		m.transport = NewCookieTransport(m.cookies, m.config.CookieName, m.config.SecureCookies)
	}
	if m.store == nil {
		m.store = NewMemoryStore(m.config.CleanupInterval)
	}

	m.wg.Add(1)
	go m.activityWorker()

	return m, nil
}

// Ensure returns the current session or starts a new one.
func (m *Manager) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	if session, err := m.Get(ctx, r); err == nil {
		if time.Since(session.LastActivityAt) >= m.config.ActivityUpdateThreshold {
			m.queueActivityUpdate(session.Token)
		}
		return session, nil
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	session := NewSession(token, m.expiry(now, now).Sub(now))
	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}
	if err := m.transport.SetToken(w, session.Token, m.config.IdleTimeout); err != nil {
		_ = m.store.Delete(ctx, session.Token)
		return nil, err
	}
	return session, nil
}

// Get loads the session referenced by the request.
func (m *Manager) Get(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.transport.GetToken(r)
	if err != nil {
		return nil, err
	}
	return m.store.Get(ctx, token)
}

// Set stores a value in the request session, creating it if needed.
func (m *Manager) Set(ctx context.Context, w http.ResponseWriter, r *http.Request, key string, value any) error {
	session, err := m.Ensure(ctx, w, r)
	if err != nil {
		return err
	}
	session.Set(key, value)
	return m.store.Update(ctx, session)
}

func (m *Manager) GetValue(ctx context.Context, r *http.Request, key string) (any, bool) {
	session, err := m.Get(ctx, r)
	if err != nil {
		return nil, false
	}
	return session.Get(key)
}

// Refresh extends the session expiry.
func (m *Manager) Refresh(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	session, err := m.Get(ctx, r)
	if err != nil {
		return err
	}
	session.ExpiresAt = m.expiry(session.CreatedAt, time.Now())
	session.Touch()
	if err := m.store.Update(ctx, session); err != nil {
		return err
	}
	return m.transport.SetToken(w, session.Token, m.config.IdleTimeout)
}

func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if token, err := m.transport.GetToken(r); err == nil && token != "" {
		_ = m.store.Delete(ctx, token)
	}
	return m.transport.ClearToken(w)
}

// Close stops the activity worker and closes the store.
func (m *Manager) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.done)
		m.wg.Wait()
		err = m.store.Close()
	})
	return err
}

func (m *Manager) queueActivityUpdate(token string) {
	select {
	case m.activity <- activityUpdate{token: token, time: time.Now()}:
	default:
	}
}

func (m *Manager) activityWorker() {
	defer m.wg.Done()
	for {
		select {
		case u := <-m.activity:
			_ = m.store.UpdateActivity(context.Background(), u.token, u.time)
		case <-m.done:
			for {
				select {
				case u := <-m.activity:
					_ = m.store.UpdateActivity(context.Background(), u.token, u.time)
				default:
					return
				}
			}
		}
	}
}

// expiry is the earlier of the idle deadline and the max lifetime.
func (m *Manager) expiry(createdAt, now time.Time) time.Time {
	idle := now.Add(m.config.IdleTimeout)
	hard := createdAt.Add(m.config.MaxLifetime)
	if hard.Before(idle) {
		return hard
	}
	return idle
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
