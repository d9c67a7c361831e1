package auth

import "github.com/cmlabs-hris/presensi-backend-go/internal/pkg/apperror"

var (
	ErrInvalidCredentials  = apperror.New(apperror.KindUnauthorized, "invalid email or password")
	ErrInvalidToken        = apperror.New(apperror.KindUnauthorized, "invalid or expired token")
	ErrRefreshTokenRevoked = apperror.New(apperror.KindUnauthorized, "refresh token has been revoked")
	ErrSessionNotFound     = apperror.New(apperror.KindNotFound, "session not found")
	ErrResetTokenInvalid   = apperror.New(apperror.KindValidation, "password reset link is invalid or has expired")
)
