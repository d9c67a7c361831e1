package device

import "github.com/cmlabs-hris/presensi-backend-go/internal/pkg/apperror"

var (
	ErrDeviceMismatch      = apperror.New(apperror.KindDeviceMismatch, "account is bound to another device")
	ErrAlreadyBound        = apperror.New(apperror.KindDeviceMismatch, "a different device is already bound to this account")
	ErrFingerprintRequired = apperror.New(apperror.KindValidation, "fingerprint_id is required for on-site attendance")
	ErrFingerprintNotFound = apperror.New(apperror.KindNotFound, "no device bound to this account")
)
