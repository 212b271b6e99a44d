package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/gurukul-storefront/internal/domain/session"
	"github.com/your-org/gurukul-storefront/internal/infrastructure/storage"
	"github.com/your-org/gurukul-storefront/internal/pkg/api"
	"github.com/your-org/gurukul-storefront/internal/pkg/logger"
	"github.com/your-org/gurukul-storefront/internal/pkg/validate"
)

type fakeAuthAPI struct {
	token string
	err   error
	calls []string
}

func (f *fakeAuthAPI) Login(_ context.Context, identifier, _ string) (string, error) {
	f.calls = append(f.calls, "login "+identifier)
	return f.token, f.err
}

func (f *fakeAuthAPI) SendOTP(_ context.Context, phone string) error {
	f.calls = append(f.calls, "send-otp "+phone)
	return f.err
}

func (f *fakeAuthAPI) VerifyOTP(_ context.Context, phone, _ string) (string, error) {
	f.calls = append(f.calls, "verify-otp "+phone)
	return f.token, f.err
}

func testToken(payload string) string {
	return "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".sig"
}

func newTestService(t *testing.T, fake *fakeAuthAPI) (*Service, *session.Manager) {
	t.Helper()
	sessions := session.NewManager(storage.NewMemory(), nil, logger.Discard())
	t.Cleanup(sessions.Close)
	return NewService(fake, sessions, 15*time.Minute, logger.Discard()), sessions
}

func TestLoginWithPassword(t *testing.T) {
	fake := &fakeAuthAPI{token: testToken(`{"sub":3,"role":"admin","phoneNumber":"9876543210"}`)}
	svc, sessions := newTestService(t, fake)
	ctx := context.Background()

	id, err := svc.LoginWithPassword(ctx, &PasswordLoginRequest{Identifier: "9876543210", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "3", id.UserID)
	assert.True(t, sessions.IsAdmin(ctx))
	require.NotNil(t, id.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *id.ExpiresAt, 5*time.Second)
}

func TestValidationHappensBeforeNetwork(t *testing.T) {
	fake := &fakeAuthAPI{token: testToken(`{"sub":1}`)}
	svc, _ := newTestService(t, fake)
	ctx := context.Background()

	_, err := svc.LoginWithPassword(ctx, &PasswordLoginRequest{Identifier: " ", Password: "x"})
	var verr *validate.Error
	assert.ErrorAs(t, err, &verr)

	err = svc.SendOTP(ctx, &SendOTPRequest{})
	assert.ErrorAs(t, err, &verr)

	_, err = svc.VerifyOTP(ctx, &VerifyOTPRequest{PhoneNumber: "9876543210"})
	assert.ErrorAs(t, err, &verr)

	assert.Empty(t, fake.calls)
}

func TestMissingTokenIsRejectedWithoutSession(t *testing.T) {
	fake := &fakeAuthAPI{err: api.ErrNoToken}
	svc, sessions := newTestService(t, fake)
	ctx := context.Background()

	_, err := svc.VerifyOTP(ctx, &VerifyOTPRequest{PhoneNumber: "9876543210", OTP: "1234"})
	assert.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, session.LoggedOut, sessions.State(ctx))
}

func TestUndecodableTokenIsRejected(t *testing.T) {
	fake := &fakeAuthAPI{token: "opaque"}
	svc, sessions := newTestService(t, fake)
	ctx := context.Background()

	_, err := svc.LoginWithPassword(ctx, &PasswordLoginRequest{Identifier: "a@b.in", Password: "x"})
	assert.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, session.LoggedOut, sessions.State(ctx))
}

func TestBackendErrorIsSurfaced(t *testing.T) {
	fake := &fakeAuthAPI{err: &api.APIError{Status: 401, Message: "Invalid OTP"}}
	svc, _ := newTestService(t, fake)

	_, err := svc.VerifyOTP(context.Background(), &VerifyOTPRequest{PhoneNumber: "9876543210", OTP: "0000"})
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid OTP", apiErr.Message)
}

func TestSendOTP_ResendIsAllowed(t *testing.T) {
	fake := &fakeAuthAPI{}
	svc, _ := newTestService(t, fake)
	ctx := context.Background()

	require.NoError(t, svc.SendOTP(ctx, &SendOTPRequest{PhoneNumber: "9876543210"}))
	require.NoError(t, svc.SendOTP(ctx, &SendOTPRequest{PhoneNumber: "9876543210"}))
	assert.Equal(t, []string{"send-otp 9876543210", "send-otp 9876543210"}, fake.calls)

	fake.err = errors.New("network down")
	assert.Error(t, svc.SendOTP(ctx, &SendOTPRequest{PhoneNumber: "9876543210"}))
}

func TestLogout(t *testing.T) {
	fake := &fakeAuthAPI{token: testToken(`{"sub":"u1","role":"user"}`)}
	svc, sessions := newTestService(t, fake)
	ctx := context.Background()

	_, err := svc.VerifyOTP(ctx, &VerifyOTPRequest{PhoneNumber: "9876543210", OTP: "1234"})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))
	assert.Equal(t, session.LoggedOut, sessions.State(ctx))
}
