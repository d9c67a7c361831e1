package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the repositories react to.
const (
	CodeUndefinedTable  = "42P01"
	CodeUniqueViolation = "23505"
	CodeForeignKey      = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUndefinedTable reports whether err is a "relation does not exist" error.
func IsUndefinedTable(err error) bool {
	return pgCode(err) == CodeUndefinedTable
}

func IsUniqueViolation(err error) bool {
	return pgCode(err) == CodeUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == CodeForeignKey
}
