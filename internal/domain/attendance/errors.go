package attendance

import "github.com/cmlabs-hris/presensi-backend-go/internal/pkg/apperror"

// Attendance domain errors
var (
	ErrAlreadyClockedIn  = apperror.New(apperror.KindInvalidTransition, "already clocked in for this date")
	ErrNoClockIn         = apperror.New(apperror.KindInvalidTransition, "no clock-in found")
	ErrAlreadyClockedOut = apperror.New(apperror.KindInvalidTransition, "already clocked out for this date")

	ErrAttendanceNotFound  = apperror.New(apperror.KindNotFound, "attendance record not found")
	ErrInvalidLocationType = apperror.New(apperror.KindValidation, "invalid work location type")
	ErrNotOwner            = apperror.New(apperror.KindForbidden, "attendance record belongs to another employee")
)
