package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/Marlup/gcloud-instruction-generator"
	"github.com/Marlup/gcloud-instruction-generator/mock"
	igenslog "github.com/Marlup/gcloud-instruction-generator/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingCatalogLoader_LoadCatalog(t *testing.T) {
	t.Parallel()

	t.Run("logs catalog size", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		catalog := igen.NewCatalog("storage")
		catalog.SetAction("buckets", "query", "list", igen.ActionDef{Cmd: "gcloud storage buckets list"})
		catalog.SetAction("buckets", "create", "create", igen.ActionDef{Cmd: "gcloud storage buckets create"})
		inner := &mock.CatalogLoader{
			LoadCatalogFn: func(ctx context.Context, service string) (*igen.Catalog, error) {
				return catalog, nil
			},
		}

		got, err := igenslog.NewLoggingCatalogLoader(inner, logger).LoadCatalog(context.Background(), "storage")

		require.NoError(t, err)
		assert.Same(t, catalog, got)
		output := buf.String()
		assert.Contains(t, output, "load catalog")
		assert.Contains(t, output, "service=storage")
		assert.Contains(t, output, "resources=1")
		assert.Contains(t, output, "categories=2")
		assert.Contains(t, output, "actions=2")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CatalogLoader{
			LoadCatalogFn: func(ctx context.Context, service string) (*igen.Catalog, error) {
				return nil, igen.Errorf(igen.ENOTFOUND, "service %q not found", service)
			},
		}

		_, err := igenslog.NewLoggingCatalogLoader(inner, logger).LoadCatalog(context.Background(), "compute")

		assert.Equal(t, igen.ENOTFOUND, igen.ErrorCode(err))
		output := buf.String()
		assert.Contains(t, output, "actions=0")
		assert.Contains(t, output, "err=")
	})
}
