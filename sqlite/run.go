package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Marlup/gcloud-instruction-generator"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ igen.CrawlRunService = (*CrawlRunService)(nil)

// CrawlRunService implements igen.CrawlRunService using SQLite.
type CrawlRunService struct {
	db *DB
}

// NewCrawlRunService creates a new CrawlRunService.
func NewCrawlRunService(db *DB) *CrawlRunService {
	return &CrawlRunService{db: db}
}

// CreateRun creates a new run.
func (s *CrawlRunService) CreateRun(ctx context.Context, run *igen.CrawlRun) error {
	if _, err := igen.ParseUpdateMode(string(run.Mode)); err != nil {
		return igen.Errorf(igen.EINVALID, "invalid run mode %q", run.Mode)
	}

	run.ID = uuid.New().String()
	run.StartedAt = time.Now().UTC()
	run.FinishedAt = time.Time{}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO crawl_runs (id, mode, started_at)
		VALUES (?, ?, ?)
	`, run.ID, string(run.Mode), formatTime(run.StartedAt))
	return err
}

// FinishRun stores the outcome of a run.
func (s *CrawlRunService) FinishRun(ctx context.Context, run *igen.CrawlRun) error {
	finishedAt := time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE crawl_runs
		SET succeeded = ?, failed = ?, finished_at = ?
		WHERE id = ?
	`, run.Succeeded, run.Failed, formatTime(finishedAt), run.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return igen.Errorf(igen.ENOTFOUND, "crawl run not found")
	}

	run.FinishedAt = finishedAt
	return nil
}

// FindRunByID retrieves a run by ID. FinishedAt is zero for a run that has
// not finished.
func (s *CrawlRunService) FindRunByID(ctx context.Context, id string) (*igen.CrawlRun, error) {
	var run igen.CrawlRun
	var mode, startedAt, finishedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, mode, succeeded, failed, started_at, finished_at
		FROM crawl_runs
		WHERE id = ?
	`, id).Scan(&run.ID, &mode, &run.Succeeded, &run.Failed, &startedAt, &finishedAt)

	if err == sql.ErrNoRows {
		return nil, igen.Errorf(igen.ENOTFOUND, "crawl run not found")
	}
	if err != nil {
		return nil, err
	}

	run.Mode = igen.UpdateMode(mode)
	if run.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &run, nil
}
