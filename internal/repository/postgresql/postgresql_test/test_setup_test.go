package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// newTestDatabase connects to TEST_DATABASE_URL and rebuilds the schema from
// the migrations directory. The test is skipped when no database is configured.
func newTestDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(db.Close)

	ctx := context.Background()
	for _, name := range []string{"0001_init.down.sql", "0001_init.up.sql"} {
		require.NoError(t, execFile(ctx, db, name))
	}
	return db
}

func execFile(ctx context.Context, db *database.DB, name string) error {
	_, self, _, _ := runtime.Caller(0)
	path := filepath.Join(filepath.Dir(self), "..", "..", "..", "..", "migrations", name)

	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	// No arguments, so pgx sends it over the simple protocol as one batch.
	if _, err := db.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply %s: %w", name, err)
	}
	return nil
}

type seeded struct {
	UserID     string
	EmployeeID string
	NIK        string
}

func seedEmployee(t *testing.T, db *database.DB, nik, email string, managerID *string) seeded {
	t.Helper()
	ctx := context.Background()

	var s seeded
	s.NIK = nik
	err := db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, 'x', 'employee')
		RETURNING id
	`, email).Scan(&s.UserID)
	require.NoError(t, err)

	err = db.QueryRow(ctx, `
		INSERT INTO employees (user_id, nik, full_name, email, manager_id, section)
		VALUES ($1, $2, $3, $4, $5, 'Produksi')
		RETURNING id
	`, s.UserID, nik, "Employee "+nik, email, managerID).Scan(&s.EmployeeID)
	require.NoError(t, err)
	return s
}
