package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/Marlup/gcloud-instruction-generator"
)

// Ensure LoggingCatalogLoader implements igen.CatalogLoader.
var _ igen.CatalogLoader = (*LoggingCatalogLoader)(nil)

// LoggingCatalogLoader wraps a CatalogLoader with logging.
type LoggingCatalogLoader struct {
	next   igen.CatalogLoader
	logger *slog.Logger
}

// NewLoggingCatalogLoader creates a new LoggingCatalogLoader.
func NewLoggingCatalogLoader(next igen.CatalogLoader, logger *slog.Logger) *LoggingCatalogLoader {
	return &LoggingCatalogLoader{next: next, logger: logger}
}

// LoadCatalog delegates to the wrapped loader and logs the catalog size.
func (l *LoggingCatalogLoader) LoadCatalog(ctx context.Context, service string) (catalog *igen.Catalog, err error) {
	defer func(begin time.Time) {
		var stats igen.CatalogStats
		if catalog != nil {
			stats = catalog.Stats()
		}
		l.logger.Info("load catalog",
			"service", service,
			"resources", stats.Resources,
			"categories", stats.Categories,
			"actions", stats.Actions,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.LoadCatalog(ctx, service)
}
