package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/Marlup/gcloud-instruction-generator"
)

// Ensure Writer implements the igen writer interfaces at compile time.
var (
	_ igen.CommandWriter = (*Writer)(nil)
	_ igen.CatalogWriter = (*Writer)(nil)
)

// Writer writes command trees, flags and catalogs below a catalog root.
// It is safe for concurrent use by different roots.
type Writer struct {
	root string

	written   atomic.Int64
	unchanged atomic.Int64
}

// NewWriter creates a new Writer that writes to the given catalog root.
func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// Written returns the number of files replaced so far.
func (w *Writer) Written() int {
	return int(w.written.Load())
}

// Unchanged returns the number of files skipped because their content
// was already up to date.
func (w *Writer) Unchanged() int {
	return int(w.unchanged.Load())
}

// WriteCommand writes the tree of one root to <root>/<name>/<name>_command.json.
func (w *Writer) WriteCommand(ctx context.Context, node *igen.CommandNode) error {
	if node == nil {
		return igen.Errorf(igen.EINVALID, "command node required")
	}
	if err := checkName("command", node.Name); err != nil {
		return err
	}
	return w.writeJSON(ctx, CommandPath(w.root, node.Name), node)
}

// WriteFlags writes a CLI-wide flags document.
func (w *Writer) WriteFlags(ctx context.Context, kind igen.FlagKind, flags *igen.Flags) error {
	switch kind {
	case igen.GlobalFlags, igen.OtherFlags:
	default:
		return igen.Errorf(igen.EINVALID, "unknown flag kind %q", kind)
	}
	if flags == nil {
		flags = igen.NewFlags()
	}
	return w.writeJSON(ctx, FlagsPath(w.root, kind), flags)
}

// WriteCatalog writes one leaf document per category of the catalog, at
// <root>/<service>/<resource>/<category>/action.json. Empty categories are
// written as empty documents so that they survive a reload.
func (w *Writer) WriteCatalog(ctx context.Context, catalog *igen.Catalog) error {
	if catalog == nil {
		return igen.Errorf(igen.EINVALID, "catalog required")
	}
	if err := checkName("service", catalog.Service); err != nil {
		return err
	}

	serviceDir := filepath.Join(w.root, catalog.Service)
	for _, r := range catalog.Resources {
		if err := checkName("resource", r.Name); err != nil {
			return err
		}
		for _, c := range r.Categories {
			if err := checkName("category", c.Name); err != nil {
				return err
			}
			actions := c.Actions
			if actions == nil {
				actions = igen.NewActions()
			}
			path := filepath.Join(serviceDir, r.Name, c.Name, LeafFile)
			if err := w.writeJSON(ctx, path, actions); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Writer) writeJSON(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeJSON(v)
	if err != nil {
		return igen.Errorf(igen.EINTERNAL, "encode %s: %v", path, err)
	}

	written, err := writeFileAtomic(path, data)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if written {
		w.written.Add(1)
	} else {
		w.unchanged.Add(1)
	}
	return nil
}
