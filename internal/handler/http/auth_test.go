package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presensi-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestAccessExp  = "1h"
	handlerTestRefreshExp = "24h"
	handlerTestSecret     = "test-secret-key-for-jwt"
)

type fakeAuthService struct {
	signInErr      error
	signedOutWith  *string
	refreshedWith  string
	resetRequested string
	resetErr       error
	tokens         auth.TokenResponse
}

func (f *fakeAuthService) SignIn(_ context.Context, req auth.SignInRequest, _ auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}
	if f.signInErr != nil {
		return auth.TokenResponse{}, f.signInErr
	}
	return f.tokens, nil
}

func (f *fakeAuthService) SignOut(_ context.Context, refreshToken string) error {
	f.signedOutWith = &refreshToken
	return nil
}

func (f *fakeAuthService) RefreshToken(_ context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	f.refreshedWith = req.RefreshToken
	return auth.AccessTokenResponse{AccessToken: "new-access"}, nil
}

func (f *fakeAuthService) SendPasswordReset(_ context.Context, req auth.PasswordResetRequest) error {
	f.resetRequested = req.Email
	return nil
}

func (f *fakeAuthService) ResetPassword(context.Context, auth.ConfirmPasswordResetRequest) error {
	return f.resetErr
}

func newTestJWT() jwt.Service {
	return jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, rec)
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "response has no error object: %s", rec.Body.String())
	return errObj["code"].(string)
}

func TestAuthHandler_SignIn(t *testing.T) {
	svc := &fakeAuthService{tokens: auth.TokenResponse{
		AccessToken:           "access",
		RefreshToken:          "refresh",
		RefreshTokenExpiresIn: 1893456000,
	}}
	h := NewAuthHandler(newTestJWT(), svc)

	t.Run("sets refresh cookie", func(t *testing.T) {
		body := `{"email":"rina@example.com","password":"secret123"}`
		rec := httptest.NewRecorder()
		h.SignIn(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-in", bytes.NewBufferString(body)))

		assert.Equal(t, http.StatusCreated, rec.Code)
		cookies := rec.Result().Cookies()
		require.NotEmpty(t, cookies)
		assert.Equal(t, "refresh_token", cookies[0].Name)
		assert.Equal(t, "refresh", cookies[0].Value)
	})

	t.Run("invalid json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.SignIn(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-in", bytes.NewBufferString("{")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.SignIn(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-in", bytes.NewBufferString(`{}`)))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc.signInErr = auth.ErrInvalidCredentials
		defer func() { svc.signInErr = nil }()

		body := `{"email":"rina@example.com","password":"wrong"}`
		rec := httptest.NewRecorder()
		h.SignIn(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-in", bytes.NewBufferString(body)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))
	})
}

func TestAuthHandler_SignOutWithoutSession(t *testing.T) {
	svc := &fakeAuthService{}
	h := NewAuthHandler(newTestJWT(), svc)

	rec := httptest.NewRecorder()
	h.SignOut(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-out", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.signedOutWith)
	assert.Empty(t, *svc.signedOutWith)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Empty(t, cookies[0].Value)
}

func TestAuthHandler_RefreshPrefersCookie(t *testing.T) {
	svc := &fakeAuthService{}
	h := NewAuthHandler(newTestJWT(), svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewBufferString(`{"refresh_token":"from-body"}`))
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "from-cookie"})
	rec := httptest.NewRecorder()
	h.RefreshToken(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "from-cookie", svc.refreshedWith)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewBufferString(`{"refresh_token":"from-body"}`))
	rec = httptest.NewRecorder()
	h.RefreshToken(rec, req)
	assert.Equal(t, "from-body", svc.refreshedWith)
}

func TestAuthHandler_PasswordReset(t *testing.T) {
	svc := &fakeAuthService{}
	h := NewAuthHandler(newTestJWT(), svc)

	rec := httptest.NewRecorder()
	h.ForgotPassword(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/forgot-password", bytes.NewBufferString(`{"email":"nobody@example.com"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nobody@example.com", svc.resetRequested)

	svc.resetErr = auth.ErrResetTokenInvalid
	rec = httptest.NewRecorder()
	h.ResetPassword(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/reset-password", bytes.NewBufferString(`{"token":"used","new_password":"newsecret1"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAuthHandler_SSEToken(t *testing.T) {
	jwtService := newTestJWT()
	h := NewAuthHandler(jwtService, &fakeAuthService{})

	rec := httptest.NewRecorder()
	h.SSEToken(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/sse-token", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sse-token", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), middleware.Identity{UserID: "user-1", Role: user.RoleEmployee}))
	rec = httptest.NewRecorder()
	h.SSEToken(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeBody(t, rec)["data"].(map[string]any)
	userID, err := jwtService.ValidateSSEToken(data["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}
