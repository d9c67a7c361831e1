package auth

import (
	"context"
)

type AuthService interface {
	SignIn(ctx context.Context, req SignInRequest, session SessionTrackingRequest) (TokenResponse, error)
	// SignOut treats a missing or unknown session as already signed out.
	SignOut(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	// SendPasswordReset succeeds for unknown emails without sending anything.
	SendPasswordReset(ctx context.Context, req PasswordResetRequest) error
	ResetPassword(ctx context.Context, req ConfirmPasswordResetRequest) error
}
