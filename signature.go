package igen

import (
	"context"
	"time"
)

// SignatureRecord is the signature of one command path observed by a crawl run.
type SignatureRecord struct {
	ID        string    `json:"id"`
	RunID     string    `json:"runId"`
	Path      string    `json:"path"`
	Signature string    `json:"signature"`
	CrawledAt time.Time `json:"crawledAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *SignatureRecord) Validate() error {
	if r.Path == "" {
		return Errorf(EINVALID, "signature path required")
	}
	if r.Signature == "" {
		return Errorf(EINVALID, "signature value required")
	}
	return nil
}

// SignatureFilter represents a filter for FindSignatures.
type SignatureFilter struct {
	Path  *string `json:"path"`
	RunID *string `json:"runId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SignatureService stores the history of command signatures.
type SignatureService interface {
	// RecordSignature stores rec and reports whether its signature differs
	// from the latest one stored for the same path. A path seen for the first
	// time is not reported as changed.
	RecordSignature(ctx context.Context, rec *SignatureRecord) (changed bool, err error)

	// FindSignatures returns records matching the filter, newest first.
	FindSignatures(ctx context.Context, filter SignatureFilter) ([]*SignatureRecord, error)
}

// CrawlRun records one invocation of the crawler.
type CrawlRun struct {
	ID         string     `json:"id"`
	Mode       UpdateMode `json:"mode"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt time.Time  `json:"finishedAt"`
}

// CrawlRunService stores crawl run history.
type CrawlRunService interface {
	// CreateRun assigns an ID and start time and stores the run.
	CreateRun(ctx context.Context, run *CrawlRun) error

	// FinishRun stores the outcome counts and finish time of a run.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, run *CrawlRun) error
}
