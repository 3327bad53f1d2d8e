// Package auth runs the login flows and guards protected paths with the session slot.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tradepro/internal/repo"
	"tradepro/internal/session"
)

var (
	// ErrInvalidCredentials is the only failure a login form shows.
	ErrInvalidCredentials = errors.New("identifiant ou mot de passe incorrect")
	ErrNoSession          = errors.New("no active session")
	ErrForbidden          = errors.New("session role not allowed here")
	ErrSessionUnavailable = errors.New("session could not be saved")
)

// Authenticator is the part of the gateway the login flow needs.
type Authenticator interface {
	AuthenticateMerchant(ctx context.Context, handle, password string) *repo.Merchant
	AuthenticateClient(ctx context.Context, clientHandle, password, merchantHandle string) *repo.Client
}

// Sessions is the session slot.
type Sessions interface {
	Save(ctx context.Context, p session.Principal, merchantID string) error
	Get(ctx context.Context) (*session.Data, bool)
	Clear(ctx context.Context) error
}

type Service struct {
	gw       Authenticator
	sessions Sessions
	logger   *slog.Logger
}

func NewService(gw Authenticator, sessions Sessions, logger *slog.Logger) *Service {
	return &Service{gw: gw, sessions: sessions, logger: logger.With("component", "auth")}
}

// LoginMerchant authenticates a merchant and opens a session scoped to the merchant itself.
func (s *Service) LoginMerchant(ctx context.Context, handle, password string) (*session.Data, error) {
	m := s.gw.AuthenticateMerchant(ctx, handle, password)
	if m == nil {
		s.logger.Info("merchant login rejected", "merchant_id", handle)
		return nil, ErrInvalidCredentials
	}
	return s.open(ctx, session.MerchantPrincipal{Merchant: *m}, m.ID)
}

// LoginClient authenticates a client of the merchant behind merchantHandle and
// opens a session scoped to that merchant.
func (s *Service) LoginClient(ctx context.Context, clientHandle, password, merchantHandle string) (*session.Data, error) {
	c := s.gw.AuthenticateClient(ctx, clientHandle, password, merchantHandle)
	if c == nil {
		s.logger.Info("client login rejected", "client_id", clientHandle, "merchant_id", merchantHandle)
		return nil, ErrInvalidCredentials
	}
	return s.open(ctx, session.ClientPrincipal{Client: *c}, c.MerchantID)
}

func (s *Service) open(ctx context.Context, p session.Principal, merchantID string) (*session.Data, error) {
	if err := s.sessions.Save(ctx, p, merchantID); err != nil {
		s.logger.Error("persist session failed", "role", p.Role(), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSessionUnavailable, err)
	}
	d, ok := s.sessions.Get(ctx)
	if !ok {
		return nil, ErrSessionUnavailable
	}
	return d, nil
}

// Logout clears the session slot.
func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

// Require reads the session, applying lazy expiry, and checks its role.
func (s *Service) Require(ctx context.Context, role session.Role) (*session.Data, error) {
	d, ok := s.sessions.Get(ctx)
	if !ok {
		return nil, ErrNoSession
	}
	if d.Principal.Role() != role {
		return nil, ErrForbidden
	}
	return d, nil
}
