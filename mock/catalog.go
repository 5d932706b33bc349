package mock

import (
	"context"

	"github.com/Marlup/gcloud-instruction-generator"
)

var _ igen.CatalogLoader = (*CatalogLoader)(nil)

// CatalogLoader is a mock implementation of igen.CatalogLoader.
type CatalogLoader struct {
	LoadCatalogFn func(ctx context.Context, service string) (*igen.Catalog, error)
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context, service string) (*igen.Catalog, error) {
	return l.LoadCatalogFn(ctx, service)
}
