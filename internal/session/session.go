// Package session persists the authenticated principal in a single named slot
// with a fixed lifetime. Expiry is enforced lazily: a stale slot is removed by
// the read that discovers it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tradepro/internal/metrics"
	"tradepro/internal/repo"
)

const (
	DefaultKey = "tradepro_session"
	DefaultTTL = 24 * time.Hour
)

var errMalformed = errors.New("malformed session record")

// Data is an active session.
type Data struct {
	Principal  Principal
	MerchantID string
	Timestamp  time.Time
}

// record is the persisted shape of a slot.
type record struct {
	User       json.RawMessage `json:"user"`
	Type       Role            `json:"type"`
	MerchantID string          `json:"merchant_id"`
	Timestamp  int64           `json:"timestamp"`
}

// Store reads and writes the session slot on a Backend.
type Store struct {
	backend Backend
	key     string
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// New builds a Store with the default slot name and a 24h lifetime.
func New(backend Backend, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		ttl:     DefaultTTL,
		now:     time.Now,
		logger:  logger.With("component", "session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save overwrites the slot with p, stamped now. Passwords are not persisted.
func (s *Store) Save(ctx context.Context, p Principal, merchantID string) error {
	if p == nil {
		return fmt.Errorf("save session: nil principal")
	}
	var user any
	switch v := p.(type) {
	case MerchantPrincipal:
		m := v.Merchant
		m.Password = ""
		user = m
	case ClientPrincipal:
		c := v.Client
		c.Password = ""
		user = c
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	data, err := json.Marshal(record{
		User:       raw,
		Type:       p.Role(),
		MerchantID: merchantID,
		Timestamp:  s.now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.backend.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.event("saved")
	s.logger.Info("session saved", "role", p.Role(), "principal", p.PrincipalID(), "merchant", merchantID)
	return nil
}

// Get returns the active session. Empty, stale and malformed slots all report
// false; stale and malformed slots are deleted first.
func (s *Store) Get(ctx context.Context) (*Data, bool) {
	raw, found, err := s.backend.Get(ctx, s.key)
	if err != nil {
		s.event("error")
		s.logger.Error("read session failed", "error", err)
		return nil, false
	}
	if !found {
		s.event("miss")
		return nil, false
	}

	d, err := decode(raw)
	if err != nil {
		s.event("malformed")
		s.logger.Warn("discarding malformed session", "error", err)
		s.discard(ctx)
		return nil, false
	}
	if age := s.now().Sub(d.Timestamp); age >= s.ttl {
		s.event("expired")
		s.logger.Info("session expired", "role", d.Principal.Role(), "age", age.Round(time.Second))
		s.discard(ctx)
		return nil, false
	}
	s.event("restored")
	return d, true
}

// Clear empties the slot. Clearing an empty slot is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.event("cleared")
	return nil
}

func (s *Store) discard(ctx context.Context) {
	if err := s.backend.Delete(ctx, s.key); err != nil {
		s.logger.Error("delete session failed", "error", err)
	}
}

func (s *Store) event(name string) {
	if s.metrics != nil {
		s.metrics.SessionEvents.WithLabelValues(name).Inc()
	}
}

func decode(raw []byte) (*Data, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformed, err)
	}
	if len(rec.User) == 0 || string(rec.User) == "null" {
		return nil, fmt.Errorf("%w: missing user", errMalformed)
	}
	if rec.Timestamp <= 0 {
		return nil, fmt.Errorf("%w: missing timestamp", errMalformed)
	}

	var p Principal
	switch rec.Type {
	case RoleMerchant:
		var m repo.Merchant
		if err := json.Unmarshal(rec.User, &m); err != nil {
			return nil, fmt.Errorf("%w: %w", errMalformed, err)
		}
		if m.ID == "" {
			return nil, fmt.Errorf("%w: merchant without id", errMalformed)
		}
		p = MerchantPrincipal{Merchant: m}
	case RoleClient:
		var c repo.Client
		if err := json.Unmarshal(rec.User, &c); err != nil {
			return nil, fmt.Errorf("%w: %w", errMalformed, err)
		}
		if c.ID == "" {
			return nil, fmt.Errorf("%w: client without id", errMalformed)
		}
		p = ClientPrincipal{Client: c}
	default:
		return nil, fmt.Errorf("%w: unknown type %q", errMalformed, rec.Type)
	}

	return &Data{
		Principal:  p,
		MerchantID: rec.MerchantID,
		Timestamp:  time.UnixMilli(rec.Timestamp),
	}, nil
}
