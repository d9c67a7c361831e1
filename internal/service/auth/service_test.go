package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
)

type fakeUsers struct {
	byEmail map[string]user.User
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (user.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUsers) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	for email, u := range f.byEmail {
		if u.ID == userID {
			u.PasswordHash = passwordHash
			f.byEmail[email] = u
			return nil
		}
	}
	return user.ErrUserNotFound
}

type storedSession struct {
	userID  string
	revoked bool
}

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]*storedSession
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: map[string]*storedSession{}}
}

func (f *fakeSessions) CreateRefreshToken(_ context.Context, userID, token string, _ int64, _ auth.SessionTrackingRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[token] = &storedSession{userID: userID}
	return nil
}

func (f *fakeSessions) IsRefreshTokenRevoked(_ context.Context, token string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[token]
	if !ok {
		return "", false, auth.ErrSessionNotFound
	}
	return s.userID, s.revoked, nil
}

func (f *fakeSessions) RevokeRefreshToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[token]
	if !ok {
		return auth.ErrSessionNotFound
	}
	s.revoked = true
	return nil
}

func (f *fakeSessions) RevokeAllForUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.userID == userID {
			s.revoked = true
		}
	}
	return nil
}

type resetEntry struct {
	userID    string
	expiresAt time.Time
	used      bool
}

type fakeResets struct {
	tokens map[string]*resetEntry
}

func (f *fakeResets) Create(_ context.Context, userID, token string, expiresAt time.Time) error {
	f.tokens[token] = &resetEntry{userID: userID, expiresAt: expiresAt}
	return nil
}

func (f *fakeResets) Consume(_ context.Context, token string, now time.Time) (string, error) {
	e, ok := f.tokens[token]
	if !ok || e.used || !now.Before(e.expiresAt) {
		return "", auth.ErrResetTokenInvalid
	}
	e.used = true
	return e.userID, nil
}

type fakeEmail struct {
	resetLinks []string
}

func (f *fakeEmail) SendPasswordReset(_, resetLink, _ string) error {
	f.resetLinks = append(f.resetLinks, resetLink)
	return nil
}

func (f *fakeEmail) SendProposalSubmitted(string, email.ProposalSubmittedData) error {
	return nil
}

type inlineTransactor struct{}

func (inlineTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type authFixture struct {
	svc      *AuthServiceImpl
	users    *fakeUsers
	sessions *fakeSessions
	resets   *fakeResets
	mail     *fakeEmail
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	employeeID, nik := "emp-1", "00005950"
	users := &fakeUsers{byEmail: map[string]user.User{
		"sari@presensi.test": {
			ID:           "user-1",
			Email:        "sari@presensi.test",
			PasswordHash: string(hash),
			Role:         user.RoleEmployee,
			EmployeeID:   &employeeID,
			EmployeeNIK:  &nik,
		},
	}}
	f := authFixture{
		users:    users,
		sessions: newFakeSessions(),
		resets:   &fakeResets{tokens: map[string]*resetEntry{}},
		mail:     &fakeEmail{},
	}
	f.svc = NewAuthService(users, jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp),
		f.sessions, f.resets, f.mail, inlineTransactor{}, "http://frontend.test")
	return f
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials issue tokens and store the session", func(t *testing.T) {
		f := newAuthFixture(t)

		resp, err := f.svc.SignIn(ctx, auth.SignInRequest{Email: "sari@presensi.test", Password: "password123"}, auth.SessionTrackingRequest{})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Greater(t, resp.RefreshTokenExpiresIn, resp.AccessTokenExpiresIn)

		userID, revoked, err := f.sessions.IsRefreshTokenRevoked(ctx, resp.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)
		assert.False(t, revoked)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.SignIn(ctx, auth.SignInRequest{Email: "sari@presensi.test", Password: "nope-nope"}, auth.SessionTrackingRequest{})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("unknown email looks like wrong password", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.SignIn(ctx, auth.SignInRequest{Email: "ghost@presensi.test", Password: "password123"}, auth.SessionTrackingRequest{})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("validation", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.SignIn(ctx, auth.SignInRequest{}, auth.SessionTrackingRequest{})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})
}

func TestSignOut(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes a live session", func(t *testing.T) {
		f := newAuthFixture(t)
		resp, err := f.svc.SignIn(ctx, auth.SignInRequest{Email: "sari@presensi.test", Password: "password123"}, auth.SessionTrackingRequest{})
		require.NoError(t, err)

		require.NoError(t, f.svc.SignOut(ctx, resp.RefreshToken))

		_, revoked, err := f.sessions.IsRefreshTokenRevoked(ctx, resp.RefreshToken)
		require.NoError(t, err)
		assert.True(t, revoked)

		// second sign-out is a no-op
		assert.NoError(t, f.svc.SignOut(ctx, resp.RefreshToken))
	})

	t.Run("only the signed-out device ends", func(t *testing.T) {
		f := newAuthFixture(t)
		signIn := auth.SignInRequest{Email: "sari@presensi.test", Password: "password123"}
		phone, err := f.svc.SignIn(ctx, signIn, auth.SessionTrackingRequest{})
		require.NoError(t, err)
		laptop, err := f.svc.SignIn(ctx, signIn, auth.SessionTrackingRequest{})
		require.NoError(t, err)
		require.NotEqual(t, phone.RefreshToken, laptop.RefreshToken)
		assert.Len(t, f.sessions.sessions, 2)

		require.NoError(t, f.svc.SignOut(ctx, phone.RefreshToken))

		_, revoked, err := f.sessions.IsRefreshTokenRevoked(ctx, laptop.RefreshToken)
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("missing session is success", func(t *testing.T) {
		f := newAuthFixture(t)
		assert.NoError(t, f.svc.SignOut(ctx, ""))
		assert.NoError(t, f.svc.SignOut(ctx, "never-issued"))
	})
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	resp, err := f.svc.SignIn(ctx, auth.SignInRequest{Email: "sari@presensi.test", Password: "password123"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	refreshed, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: resp.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken, "access tokens cannot refresh")

	require.NoError(t, f.svc.SignOut(ctx, resp.RefreshToken))
	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email sends nothing", func(t *testing.T) {
		f := newAuthFixture(t)
		require.NoError(t, f.svc.SendPasswordReset(ctx, auth.PasswordResetRequest{Email: "ghost@presensi.test"}))
		assert.Empty(t, f.mail.resetLinks)
		assert.Empty(t, f.resets.tokens)
	})

	t.Run("token resets once and ends sessions", func(t *testing.T) {
		f := newAuthFixture(t)
		session, err := f.svc.SignIn(ctx, auth.SignInRequest{Email: "sari@presensi.test", Password: "password123"}, auth.SessionTrackingRequest{})
		require.NoError(t, err)

		require.NoError(t, f.svc.SendPasswordReset(ctx, auth.PasswordResetRequest{Email: "sari@presensi.test"}))
		require.Len(t, f.mail.resetLinks, 1)
		require.Len(t, f.resets.tokens, 1)
		assert.Contains(t, f.mail.resetLinks[0], "http://frontend.test/reset-password?token=")

		var token string
		for k := range f.resets.tokens {
			token = k
		}

		req := auth.ConfirmPasswordResetRequest{Token: token, NewPassword: "brand-new-pass"}
		require.NoError(t, f.svc.ResetPassword(ctx, req))

		_, err = f.svc.SignIn(ctx, auth.SignInRequest{Email: "sari@presensi.test", Password: "brand-new-pass"}, auth.SessionTrackingRequest{})
		assert.NoError(t, err)

		_, revoked, err := f.sessions.IsRefreshTokenRevoked(ctx, session.RefreshToken)
		require.NoError(t, err)
		assert.True(t, revoked)

		err = f.svc.ResetPassword(ctx, req)
		assert.True(t, errors.Is(err, auth.ErrResetTokenInvalid))
	})

	t.Run("expired token", func(t *testing.T) {
		f := newAuthFixture(t)
		require.NoError(t, f.svc.SendPasswordReset(ctx, auth.PasswordResetRequest{Email: "sari@presensi.test"}))
		var token string
		for k := range f.resets.tokens {
			token = k
		}

		f.svc.now = func() time.Time { return time.Now().Add(2 * passwordResetTTL) }
		err := f.svc.ResetPassword(ctx, auth.ConfirmPasswordResetRequest{Token: token, NewPassword: "brand-new-pass"})
		assert.ErrorIs(t, err, auth.ErrResetTokenInvalid)
	})
}
