package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Marlup/gcloud-instruction-generator"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ igen.SignatureService = (*SignatureService)(nil)

// SignatureService implements igen.SignatureService using SQLite.
type SignatureService struct {
	db *DB
}

// NewSignatureService creates a new SignatureService.
func NewSignatureService(db *DB) *SignatureService {
	return &SignatureService{db: db}
}

// RecordSignature stores rec and compares it with the latest signature of
// the same path in a single transaction.
func (s *SignatureService) RecordSignature(ctx context.Context, rec *igen.SignatureRecord) (bool, error) {
	if err := rec.Validate(); err != nil {
		return false, err
	}

	rec.ID = uuid.New().String()
	if rec.CrawledAt.IsZero() {
		rec.CrawledAt = time.Now()
	}
	rec.CrawledAt = rec.CrawledAt.UTC()

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var latest string
	err = tx.QueryRowContext(ctx, `
		SELECT signature FROM signatures
		WHERE path = ?
		ORDER BY crawled_at DESC, rowid DESC
		LIMIT 1
	`, rec.Path).Scan(&latest)
	seen := true
	if errors.Is(err, sql.ErrNoRows) {
		seen = false
	} else if err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO signatures (id, run_id, path, signature, crawled_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, rec.RunID, rec.Path, rec.Signature, formatTime(rec.CrawledAt)); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return seen && latest != rec.Signature, nil
}

// FindSignatures retrieves signature records matching the filter, newest first.
func (s *SignatureService) FindSignatures(ctx context.Context, filter igen.SignatureFilter) ([]*igen.SignatureRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, run_id, path, signature, crawled_at FROM signatures WHERE 1=1")

	if filter.Path != nil {
		query.WriteString(" AND path = ?")
		args = append(args, *filter.Path)
	}
	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}

	query.WriteString(" ORDER BY crawled_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*igen.SignatureRecord
	for rows.Next() {
		var rec igen.SignatureRecord
		var crawledAt string
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Path, &rec.Signature, &crawledAt); err != nil {
			return nil, err
		}
		if rec.CrawledAt, err = parseTime(crawledAt, "crawled_at"); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
