package postgresql

import (
	"errors"

	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// translateError maps store errors onto the domain taxonomy.
// notFound is returned for pgx.ErrNoRows; a nil notFound leaves ErrNoRows as is.
func translateError(err error, table string, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows) && notFound != nil:
		return notFound
	case database.IsUndefinedTable(err):
		if table == "" {
			table = "(unknown)"
		}
		return apperror.SchemaMissing(table, err)
	default:
		return err
	}
}
