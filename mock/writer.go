package mock

import (
	"context"

	"github.com/Marlup/gcloud-instruction-generator"
)

var (
	_ igen.CommandWriter = (*CommandWriter)(nil)
	_ igen.CatalogWriter = (*CatalogWriter)(nil)
)

// CommandWriter is a mock implementation of igen.CommandWriter.
type CommandWriter struct {
	WriteCommandFn func(ctx context.Context, node *igen.CommandNode) error
	WriteFlagsFn   func(ctx context.Context, kind igen.FlagKind, flags *igen.Flags) error
}

func (w *CommandWriter) WriteCommand(ctx context.Context, node *igen.CommandNode) error {
	return w.WriteCommandFn(ctx, node)
}

func (w *CommandWriter) WriteFlags(ctx context.Context, kind igen.FlagKind, flags *igen.Flags) error {
	return w.WriteFlagsFn(ctx, kind, flags)
}

// CatalogWriter is a mock implementation of igen.CatalogWriter.
type CatalogWriter struct {
	WriteCatalogFn func(ctx context.Context, catalog *igen.Catalog) error
}

func (w *CatalogWriter) WriteCatalog(ctx context.Context, catalog *igen.Catalog) error {
	return w.WriteCatalogFn(ctx, catalog)
}
