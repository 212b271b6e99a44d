// internal/domain/session/service.go
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/gurukul-storefront/internal/infrastructure/storage"
)

// RoleAdmin is the role that unlocks product management
const RoleAdmin = "admin"

var (
	ErrInvalidToken = errors.New("token payload could not be decoded")
	ErrInvalidTTL   = errors.New("session ttl must be positive")
)

// State is the login state of the session
type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

// Identity is the stored projection of the token payload
type Identity struct {
	UserID    string     `json:"user_id"`
	Role      string     `json:"role"`
	Phone     string     `json:"phone"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// IsAdmin reports whether the identity carries the admin role
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// Manager owns the bearer token and its fixed-lifetime expiry. The expiry is
// enforced by a one-shot timer and also checked on every read, so an expired
// session is never observed.
type Manager struct {
	storage storage.Storage
	clock   Clock
	logger  *logrus.Logger

	mu         sync.Mutex
	timer      Timer
	generation uint64
}

// NewManager creates a session manager. A nil clock means the wall clock.
func NewManager(store storage.Storage, clock Clock, logger *logrus.Logger) *Manager {
	if clock == nil {
		clock = SystemClock
	}
	return &Manager{storage: store, clock: clock, logger: logger}
}

type record struct {
	token     string
	userID    string
	role      string
	phone     string
	expiry    time.Time
	hasExpiry bool
}

// Login stores token with an expiry of now + ttl and arms the expiry timer.
// A token that does not decode is rejected without touching stored state.
func (m *Manager) Login(ctx context.Context, token string, ttl time.Duration) (*Identity, error) {
	claims := Decode(token)
	if claims == nil {
		return nil, ErrInvalidToken
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	// stored writes must not be cut short once the session starts changing
	ctx = context.WithoutCancel(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	expiry := time.UnixMilli(m.clock.Now().Add(ttl).UnixMilli())
	values := []struct{ key, value string }{
		{storage.KeyToken, token},
		{storage.KeyTokenExpiry, strconv.FormatInt(expiry.UnixMilli(), 10)},
		{storage.KeyUserID, claims.Subject.String()},
		{storage.KeyRole, claims.Role},
		{storage.KeyPhone, claims.Contact()},
	}
	for _, v := range values {
		if err := m.storage.Set(ctx, v.key, v.value); err != nil {
			m.clearLocked(ctx)
			return nil, fmt.Errorf("failed to store session: %w", err)
		}
	}

	m.armLocked(expiry)

	m.logger.WithFields(logrus.Fields{
		"user_id":    claims.Subject.String(),
		"role":       claims.Role,
		"expires_at": expiry.Format(time.RFC3339),
	}).Info("Session started")

	return &Identity{
		UserID:    claims.Subject.String(),
		Role:      claims.Role,
		Phone:     claims.Contact(),
		ExpiresAt: &expiry,
	}, nil
}

// Logout cancels the expiry timer and removes every session key
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelLocked()
	if err := m.storage.Delete(context.WithoutCancel(ctx), storage.SessionKeys...); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	m.logger.Info("Session ended")
	return nil
}

// ArmExpiryTimer schedules the expiry stored by a previous process. Run it
// once at startup before anything reads the session. A stored expiry in the
// past (or one that cannot be parsed) clears the session immediately and a
// future one arms the timer. When there is no expiry, or it cannot be read,
// no timer is armed; reads still check the expiry themselves.
func (m *Manager) ArmExpiryTimer(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := m.storage.Get(ctx, storage.KeyTokenExpiry)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		m.logger.WithError(err).Warn("Failed to read session expiry, starting without a timer")
		return
	}

	expiry, err := parseExpiry(raw)
	if err != nil {
		m.logger.WithField("value", raw).Warn("Unreadable session expiry, clearing session")
		m.clearLocked(ctx)
		return
	}
	if !expiry.After(m.clock.Now()) {
		m.logger.Info("Stored session already expired, clearing")
		m.clearLocked(ctx)
		return
	}

	m.armLocked(expiry)
}

// Token returns the bearer token of a live session
func (m *Manager) Token(ctx context.Context) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.loadLocked(ctx)
	if !ok {
		return "", false
	}
	return rec.token, true
}

// Role returns the role of a live session
func (m *Manager) Role(ctx context.Context) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.loadLocked(ctx)
	if !ok || rec.role == "" {
		return "", false
	}
	return rec.role, true
}

// Identity returns the stored identity of a live session
func (m *Manager) Identity(ctx context.Context) (*Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.loadLocked(ctx)
	if !ok {
		return nil, false
	}
	id := &Identity{UserID: rec.userID, Role: rec.role, Phone: rec.phone}
	if rec.hasExpiry {
		expiry := rec.expiry
		id.ExpiresAt = &expiry
	}
	return id, true
}

// State reports whether a live session exists
func (m *Manager) State(ctx context.Context) State {
	if _, ok := m.Token(ctx); ok {
		return LoggedIn
	}
	return LoggedOut
}

// IsAdmin reports whether the live session has the admin role
func (m *Manager) IsAdmin(ctx context.Context) bool {
	role, ok := m.Role(ctx)
	return ok && role == RoleAdmin
}

// Close stops the expiry timer without touching stored state
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked()
}

func (m *Manager) armLocked(expiry time.Time) {
	m.cancelLocked()
	gen := m.generation
	m.timer = m.clock.AfterFunc(expiry.Sub(m.clock.Now()), func() {
		m.expire(gen)
	})
}

// cancelLocked stops the armed timer and invalidates any callback already
// past the point of being stopped.
func (m *Manager) cancelLocked() {
	m.generation++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Manager) expire(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		return
	}
	m.timer = nil
	m.clearLocked(context.Background())
	m.logger.Info("Session expired")
}

func (m *Manager) clearLocked(ctx context.Context) {
	if err := m.storage.Delete(context.WithoutCancel(ctx), storage.SessionKeys...); err != nil {
		m.logger.WithError(err).Warn("Failed to clear session")
	}
}

// loadLocked reads the stored session, clearing it when it has expired or
// its token no longer decodes.
func (m *Manager) loadLocked(ctx context.Context) (record, bool) {
	rec := record{token: m.get(ctx, storage.KeyToken)}
	if rec.token == "" {
		return record{}, false
	}

	if raw := m.get(ctx, storage.KeyTokenExpiry); raw != "" {
		expiry, err := parseExpiry(raw)
		if err != nil || !expiry.After(m.clock.Now()) {
			m.cancelLocked()
			m.clearLocked(ctx)
			return record{}, false
		}
		rec.expiry, rec.hasExpiry = expiry, true
	}

	if Decode(rec.token) == nil {
		m.logger.Warn("Stored token is malformed, clearing session")
		m.cancelLocked()
		m.clearLocked(ctx)
		return record{}, false
	}

	rec.userID = m.get(ctx, storage.KeyUserID)
	rec.role = m.get(ctx, storage.KeyRole)
	rec.phone = m.get(ctx, storage.KeyPhone)
	return rec, true
}

func (m *Manager) get(ctx context.Context, key string) string {
	v, err := m.storage.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.logger.WithError(err).WithField("key", key).Warn("Failed to read session value")
		}
		return ""
	}
	return v
}

func parseExpiry(raw string) (time.Time, error) {
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid expiry %q: %w", raw, err)
	}
	return time.UnixMilli(ms), nil
}
