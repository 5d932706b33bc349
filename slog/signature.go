package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/Marlup/gcloud-instruction-generator"
)

// Ensure LoggingSignatureService implements igen.SignatureService.
var _ igen.SignatureService = (*LoggingSignatureService)(nil)

// LoggingSignatureService wraps a SignatureService with logging of recorded
// signatures.
type LoggingSignatureService struct {
	next   igen.SignatureService
	logger *slog.Logger
}

// NewLoggingSignatureService creates a new LoggingSignatureService.
func NewLoggingSignatureService(next igen.SignatureService, logger *slog.Logger) *LoggingSignatureService {
	return &LoggingSignatureService{next: next, logger: logger}
}

// RecordSignature delegates to the wrapped service and logs the outcome.
func (s *LoggingSignatureService) RecordSignature(ctx context.Context, rec *igen.SignatureRecord) (changed bool, err error) {
	defer func(begin time.Time) {
		s.logger.Info("record signature",
			"path", rec.Path,
			"signature", rec.Signature,
			"changed", changed,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.RecordSignature(ctx, rec)
}

// FindSignatures delegates to the wrapped service.
func (s *LoggingSignatureService) FindSignatures(ctx context.Context, filter igen.SignatureFilter) ([]*igen.SignatureRecord, error) {
	return s.next.FindSignatures(ctx, filter)
}
