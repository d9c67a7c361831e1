package schedule

import "github.com/cmlabs-hris/presensi-backend-go/internal/pkg/apperror"

var (
	ErrInvalidShift       = apperror.New(apperror.KindValidation, "shift code is not in the shift catalog")
	ErrAssignmentNotFound = apperror.New(apperror.KindNotFound, "shift assignment not found")
)
