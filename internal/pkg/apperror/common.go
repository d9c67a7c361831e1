package apperror

// Kind sentinels. Compare with errors.Is(err, apperror.ErrNotFound).
var (
	ErrValidation         = &AppError{Kind: KindValidation}
	ErrNotFound           = &AppError{Kind: KindNotFound}
	ErrInvalidTransition  = &AppError{Kind: KindInvalidTransition}
	ErrDeviceMismatch     = &AppError{Kind: KindDeviceMismatch}
	ErrForbidden          = &AppError{Kind: KindForbidden}
	ErrUnauthorized       = &AppError{Kind: KindUnauthorized}
	ErrSchemaMissing      = &AppError{Kind: KindSchemaMissing}
	ErrStorageUnavailable = &AppError{Kind: KindStorageUnavailable}
)

// SchemaMissing reports a table the store has not provisioned.
func SchemaMissing(table string, err error) *AppError {
	return Wrap(err, KindSchemaMissing,
		"table "+table+" is not provisioned; apply migrations/0001_init.up.sql to the database")
}
