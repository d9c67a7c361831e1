package user

import "github.com/cmlabs-hris/presensi-backend-go/internal/pkg/apperror"

var (
	ErrUserNotFound            = apperror.New(apperror.KindNotFound, "user not found")
	ErrInsufficientPermissions = apperror.New(apperror.KindForbidden, "insufficient permissions")
	ErrAdminPrivilegeRequired  = apperror.New(apperror.KindForbidden, "admin privilege required")
)
