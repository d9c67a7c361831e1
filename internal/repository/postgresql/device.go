package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

var fingerprintFields = fieldMap[device.Fingerprint]{
	col("user_id", func(f *device.Fingerprint) any { return &f.UserID }),
	col("fingerprint_id", func(f *device.Fingerprint) any { return &f.FingerprintID }),
	col("created_at", func(f *device.Fingerprint) any { return &f.CreatedAt }),
}

type fingerprintRepositoryImpl struct {
	db *database.DB
}

func NewFingerprintRepository(db *database.DB) device.FingerprintRepository {
	return &fingerprintRepositoryImpl{db: db}
}

// GetByUserID implements device.FingerprintRepository.
func (r *fingerprintRepositoryImpl) GetByUserID(ctx context.Context, userID string) (device.Fingerprint, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM device_fingerprints WHERE user_id = $1`, fingerprintFields.columns(""))
	fp, err := scanOne(q.QueryRow(ctx, query, userID), fingerprintFields)
	if err != nil {
		return device.Fingerprint{}, translateError(err, "device_fingerprints", device.ErrFingerprintNotFound)
	}
	return fp, nil
}

// InsertIfAbsent implements device.FingerprintRepository.
//
// The CTE either inserts the row or yields nothing on conflict; the UNION
// then falls back to the row that won. When the winner committed after this
// statement's snapshot was taken the fallback sees nothing, so it is re-read.
func (r *fingerprintRepositoryImpl) InsertIfAbsent(ctx context.Context, userID, fingerprintID string) (device.Fingerprint, bool, error) {
	q := GetQuerier(ctx, r.db)

	cols := fingerprintFields.columns("")
	query := fmt.Sprintf(`
		WITH inserted AS (
			INSERT INTO device_fingerprints (user_id, fingerprint_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id) DO NOTHING
			RETURNING %[1]s
		)
		SELECT %[1]s, TRUE FROM inserted
		UNION ALL
		SELECT %[1]s, FALSE FROM device_fingerprints
		WHERE user_id = $1 AND NOT EXISTS (SELECT 1 FROM inserted)
		LIMIT 1`, cols)

	var fp device.Fingerprint
	var created bool
	targets := append(fingerprintFields.targets(&fp), &created)
	err := q.QueryRow(ctx, query, userID, fingerprintID).Scan(targets...)
	if errors.Is(err, pgx.ErrNoRows) {
		fp, err = r.GetByUserID(ctx, userID)
		return fp, false, err
	}
	if err != nil {
		return device.Fingerprint{}, false, translateError(err, "device_fingerprints", nil)
	}
	return fp, created, nil
}
