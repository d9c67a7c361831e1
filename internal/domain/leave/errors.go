package leave

import "github.com/cmlabs-hris/presensi-backend-go/internal/pkg/apperror"

var (
	ErrLeaveQuotaNotFound = apperror.New(apperror.KindNotFound, "leave quota not found")
)
