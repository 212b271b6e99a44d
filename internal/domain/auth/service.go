// internal/domain/auth/service.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/gurukul-storefront/internal/domain/session"
	"github.com/your-org/gurukul-storefront/internal/pkg/api"
	"github.com/your-org/gurukul-storefront/internal/pkg/validate"
)

// ErrRejected means the backend answered without issuing a usable token
var ErrRejected = errors.New("login was rejected")

// AuthAPI is the backend authentication surface
type AuthAPI interface {
	Login(ctx context.Context, identifier, password string) (string, error)
	SendOTP(ctx context.Context, phoneNumber string) error
	VerifyOTP(ctx context.Context, phoneNumber, otp string) (string, error)
}

// Sessions starts and ends the local session
type Sessions interface {
	Login(ctx context.Context, token string, ttl time.Duration) (*session.Identity, error)
	Logout(ctx context.Context) error
}

// Service handles the login flows
type Service struct {
	api      AuthAPI
	sessions Sessions
	ttl      time.Duration
	logger   *logrus.Logger
}

// NewService creates a new auth service
func NewService(authAPI AuthAPI, sessions Sessions, ttl time.Duration, logger *logrus.Logger) *Service {
	return &Service{api: authAPI, sessions: sessions, ttl: ttl, logger: logger}
}

// PasswordLoginRequest represents password login data
type PasswordLoginRequest struct {
	Identifier string `json:"identifier" validate:"required,notblank"`
	Password   string `json:"password" validate:"required"`
}

// SendOTPRequest represents an OTP send request
type SendOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,notblank"`
}

// VerifyOTPRequest represents OTP verification data
type VerifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,notblank"`
	OTP         string `json:"otp" validate:"required,notblank"`
}

// LoginWithPassword logs in with a phone number or email and a password
func (s *Service) LoginWithPassword(ctx context.Context, req *PasswordLoginRequest) (*session.Identity, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	token, err := s.api.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		return nil, s.loginError(err)
	}
	return s.start(ctx, token)
}

// SendOTP asks the backend to text a one-time password. Resending is allowed.
func (s *Service) SendOTP(ctx context.Context, req *SendOTPRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	if err := s.api.SendOTP(ctx, req.PhoneNumber); err != nil {
		return fmt.Errorf("failed to send OTP: %w", err)
	}
	s.logger.WithField("phone", req.PhoneNumber).Info("OTP sent")
	return nil
}

// VerifyOTP logs in with a phone number and the one-time password sent to it
func (s *Service) VerifyOTP(ctx context.Context, req *VerifyOTPRequest) (*session.Identity, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	token, err := s.api.VerifyOTP(ctx, req.PhoneNumber, req.OTP)
	if err != nil {
		return nil, s.loginError(err)
	}
	return s.start(ctx, token)
}

// Logout ends the local session
func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.Logout(ctx)
}

func (s *Service) start(ctx context.Context, token string) (*session.Identity, error) {
	identity, err := s.sessions.Login(ctx, token, s.ttl)
	if errors.Is(err, session.ErrInvalidToken) {
		s.logger.Warn("Backend issued a token that does not decode")
		return nil, ErrRejected
	}
	if err != nil {
		return nil, err
	}
	return identity, nil
}

func (s *Service) loginError(err error) error {
	if errors.Is(err, api.ErrNoToken) {
		return ErrRejected
	}
	return fmt.Errorf("login failed: %w", err)
}
