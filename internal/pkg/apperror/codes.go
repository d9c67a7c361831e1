package apperror

// Kind classifies an error independently of the package that raised it.
type Kind string

const (
	KindValidation         Kind = "VALIDATION_ERROR"
	KindNotFound           Kind = "NOT_FOUND"
	KindInvalidTransition  Kind = "INVALID_TRANSITION"
	KindDeviceMismatch     Kind = "DEVICE_MISMATCH"
	KindForbidden          Kind = "FORBIDDEN"
	KindUnauthorized       Kind = "UNAUTHORIZED"
	KindSchemaMissing      Kind = "SCHEMA_MISSING"
	KindStorageUnavailable Kind = "STORAGE_UNAVAILABLE"
	KindInternal           Kind = "INTERNAL_ERROR"
)
