package mock

import (
	"context"

	"github.com/Marlup/gcloud-instruction-generator"
)

var (
	_ igen.SignatureService = (*SignatureService)(nil)
	_ igen.CrawlRunService  = (*CrawlRunService)(nil)
)

// SignatureService is a mock implementation of igen.SignatureService.
type SignatureService struct {
	RecordSignatureFn func(ctx context.Context, rec *igen.SignatureRecord) (bool, error)
	FindSignaturesFn  func(ctx context.Context, filter igen.SignatureFilter) ([]*igen.SignatureRecord, error)
}

func (s *SignatureService) RecordSignature(ctx context.Context, rec *igen.SignatureRecord) (bool, error) {
	return s.RecordSignatureFn(ctx, rec)
}

func (s *SignatureService) FindSignatures(ctx context.Context, filter igen.SignatureFilter) ([]*igen.SignatureRecord, error) {
	return s.FindSignaturesFn(ctx, filter)
}

// CrawlRunService is a mock implementation of igen.CrawlRunService.
type CrawlRunService struct {
	CreateRunFn func(ctx context.Context, run *igen.CrawlRun) error
	FinishRunFn func(ctx context.Context, run *igen.CrawlRun) error
}

func (s *CrawlRunService) CreateRun(ctx context.Context, run *igen.CrawlRun) error {
	return s.CreateRunFn(ctx, run)
}

func (s *CrawlRunService) FinishRun(ctx context.Context, run *igen.CrawlRun) error {
	return s.FinishRunFn(ctx, run)
}
