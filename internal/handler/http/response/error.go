package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses by their apperror kind.
func HandleError(w http.ResponseWriter, err error) {
	// Field-level validation carries a details map
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	message := apperror.MessageOf(err)
	switch kind := apperror.KindOf(err); kind {
	case apperror.KindValidation:
		writeError(w, http.StatusUnprocessableEntity, string(kind), message)
	case apperror.KindNotFound:
		NotFound(w, message)
	case apperror.KindInvalidTransition:
		writeError(w, http.StatusConflict, string(kind), message)
	case apperror.KindDeviceMismatch:
		writeError(w, http.StatusForbidden, string(kind), message)
	case apperror.KindForbidden:
		Forbidden(w, message)
	case apperror.KindUnauthorized:
		Unauthorized(w, message)
	case apperror.KindSchemaMissing:
		slog.Error("database schema missing", "error", err)
		ServiceUnavailable(w, string(kind), message)
	case apperror.KindStorageUnavailable:
		slog.Error("storage unavailable", "error", err)
		ServiceUnavailable(w, string(kind), message)
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
