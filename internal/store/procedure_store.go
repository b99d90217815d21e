package store

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jjenkins/regmonitor/internal/model"
)

// ProcedureStore handles database operations for imported procedure records
type ProcedureStore struct {
	db *sql.DB
}

// NewProcedureStore creates a new ProcedureStore
func NewProcedureStore(db *sql.DB) *ProcedureStore {
	return &ProcedureStore{db: db}
}

// Checksum computes the MD5 of a record's JSON encoding
func Checksum(payload []byte) string {
	hash := md5.Sum(payload)
	return hex.EncodeToString(hash[:])
}

// Upsert inserts or replaces a record keyed by its reference. changed is
// false when the stored payload already had the same checksum.
func (s *ProcedureStore) Upsert(ctx context.Context, rec *model.ProcedureRecord, batchID string) (changed bool, err error) {
	ref := rec.Reference()
	if ref == "" {
		return false, fmt.Errorf("record has no reference")
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("failed to encode record %s: %w", ref, err)
	}
	checksum := Checksum(payload)

	var existing sql.NullString
	err = s.db.QueryRowContext(ctx, `SELECT checksum FROM procedures WHERE reference = $1`, ref).Scan(&existing)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to get checksum for %s: %w", ref, err)
	}
	if existing.Valid && existing.String == checksum {
		return false, nil
	}

	query := `
		INSERT INTO procedures (reference, title, procedure_type, payload, checksum, import_batch, imported_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (reference) DO UPDATE SET
			title = EXCLUDED.title,
			procedure_type = EXCLUDED.procedure_type,
			payload = EXCLUDED.payload,
			checksum = EXCLUDED.checksum,
			import_batch = EXCLUDED.import_batch,
			imported_at = EXCLUDED.imported_at
	`

	_, err = s.db.ExecContext(ctx, query,
		ref,
		rec.Title(),
		rec.Type(),
		string(payload),
		checksum,
		batchID,
		time.Now(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert procedure %s: %w", ref, err)
	}

	return true, nil
}

// Load returns the stored records of procedureType, or all records when
// procedureType is empty. Rows whose payload no longer decodes are skipped.
func (s *ProcedureStore) Load(ctx context.Context, procedureType string) ([]model.ProcedureRecord, error) {
	query := `
		SELECT reference, payload
		FROM procedures
		WHERE $1 = '' OR procedure_type = $1
		ORDER BY reference
	`

	rows, err := s.db.QueryContext(ctx, query, procedureType)
	if err != nil {
		return nil, fmt.Errorf("failed to get procedures: %w", err)
	}
	defer rows.Close()

	var records []model.ProcedureRecord
	for pos := 0; rows.Next(); pos++ {
		var ref string
		var payload []byte
		if err := rows.Scan(&ref, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan procedure: %w", err)
		}

		var rec model.ProcedureRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			slog.Warn("Skipping malformed stored record", "reference", ref, "error", &DataLoadError{Position: pos, Err: err})
			continue
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// CountProcedures returns the number of stored records
func (s *ProcedureStore) CountProcedures(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM procedures`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count procedures: %w", err)
	}
	return count, nil
}
