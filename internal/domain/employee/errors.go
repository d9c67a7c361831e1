package employee

import "github.com/cmlabs-hris/presensi-backend-go/internal/pkg/apperror"

var (
	ErrEmployeeNotFound = apperror.New(apperror.KindNotFound, "employee not found")
	ErrManagerNotFound  = apperror.New(apperror.KindNotFound, "manager not found")
)
