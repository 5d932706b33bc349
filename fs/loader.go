package fs

import (
	"context"
	"encoding/json"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Marlup/gcloud-instruction-generator"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Ensure Loader implements igen.CatalogLoader at compile time.
var _ igen.CatalogLoader = (*Loader)(nil)

// Loader reads catalogs and crawled documents from a catalog root.
type Loader struct {
	root string

	// OnSkip, if set, is called for every directory or leaf document that
	// could not be read and was left out of a catalog.
	OnSkip func(path string, err error)
}

// NewLoader creates a new Loader reading from the given catalog root.
func NewLoader(root string) *Loader {
	return &Loader{root: root}
}

// LoadCatalog walks <root>/<service>: resource directories, then category
// directories, then leaf documents. Leaves are merged into their category in
// directory listing order, so a later leaf overrides an earlier one on key
// collision. Plain files at the resource and category levels are ignored.
//
// Returns ENOTFOUND if the service directory does not exist and EMALFORMED if
// a leaf document cannot be decoded.
func (l *Loader) LoadCatalog(ctx context.Context, service string) (*igen.Catalog, error) {
	serviceDir, err := l.serviceDir(service)
	if err != nil {
		return nil, err
	}

	resources, err := os.ReadDir(serviceDir)
	if err != nil {
		return nil, err
	}

	catalog := igen.NewCatalog(service)
	for _, re := range resources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !re.IsDir() || isHidden(re.Name()) {
			continue
		}

		resourceDir := filepath.Join(serviceDir, re.Name())
		categories, err := os.ReadDir(resourceDir)
		if err != nil {
			l.skip(resourceDir, err)
			continue
		}

		resource := catalog.AddResource(re.Name())
		for _, ce := range categories {
			if !ce.IsDir() || isHidden(ce.Name()) {
				continue
			}
			if err := l.loadCategory(resource, filepath.Join(resourceDir, ce.Name())); err != nil {
				return nil, err
			}
		}
	}

	return catalog, nil
}

func (l *Loader) loadCategory(resource *igen.Resource, categoryDir string) error {
	leaves, err := os.ReadDir(categoryDir)
	if err != nil {
		l.skip(categoryDir, err)
		return nil
	}

	category := resource.AddCategory(filepath.Base(categoryDir))
	for _, le := range leaves {
		if le.IsDir() || !isLeafDocument(le.Name()) {
			continue
		}
		path := filepath.Join(categoryDir, le.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			l.skip(path, err)
			continue
		}
		actions, err := decodeActions(path, data)
		if err != nil {
			return err
		}
		category.Merge(actions)
	}
	return nil
}

// decodeActions decodes a JSON or YAML leaf document and validates every
// action it defines.
func decodeActions(path string, data []byte) (*igen.Actions, error) {
	actions := igen.NewActions()
	if err := decodeDocument(path, data, actions); err != nil {
		return nil, err
	}
	for pair := actions.Oldest(); pair != nil; pair = pair.Next() {
		if err := pair.Value.Validate(); err != nil {
			return nil, igen.Errorf(igen.EMALFORMED, "%s: action %q: %s", path, pair.Key, igen.ErrorMessage(err))
		}
	}
	return actions, nil
}

// decodeDocument decodes data into v according to the extension of path.
func decodeDocument(path string, data []byte, v any) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	default:
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return igen.Errorf(igen.EMALFORMED, "%s: %v", path, err)
	}
	return nil
}

// ListServices returns the service directories below the catalog root in
// lexical order, excluding the shared common directory.
func (l *Loader) ListServices(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, igen.Errorf(igen.ENOTFOUND, "catalog directory %s not found", l.root)
	} else if err != nil {
		return nil, err
	}

	var services []string
	for _, e := range entries {
		if !e.IsDir() || isHidden(e.Name()) || e.Name() == CommonDir {
			continue
		}
		services = append(services, e.Name())
	}
	return services, ctx.Err()
}

// HasFlatCatalog reports whether a service still has a legacy flat document.
func (l *Loader) HasFlatCatalog(service string) bool {
	info, err := os.Stat(filepath.Join(l.root, service, FlatFile))
	return err == nil && info.Mode().IsRegular()
}

// flatDocument is the legacy layout: resource → category → action.
type flatDocument = orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, *igen.Actions]]

// LoadFlatCatalog reads the legacy <root>/<service>/actions.json document.
// Returns ENOTFOUND if it does not exist and EMALFORMED if it cannot be decoded.
func (l *Loader) LoadFlatCatalog(ctx context.Context, service string) (*igen.Catalog, error) {
	serviceDir, err := l.serviceDir(service)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(serviceDir, FlatFile)
	data, err := l.readFile(path)
	if err != nil {
		return nil, err
	}

	var doc flatDocument
	if err := decodeDocument(path, data, &doc); err != nil {
		return nil, err
	}

	catalog := igen.NewCatalog(service)
	for rp := doc.Oldest(); rp != nil; rp = rp.Next() {
		resource := catalog.AddResource(rp.Key)
		if rp.Value == nil {
			continue
		}
		for cp := rp.Value.Oldest(); cp != nil; cp = cp.Next() {
			resource.AddCategory(cp.Key).Merge(cp.Value)
		}
	}
	if err := catalog.Validate(); err != nil {
		return nil, igen.Errorf(igen.EMALFORMED, "%s: %s", path, igen.ErrorMessage(err))
	}
	return catalog, ctx.Err()
}

// LoadCommand reads the crawled tree of one root.
// Returns ENOTFOUND if the root has not been crawled.
func (l *Loader) LoadCommand(ctx context.Context, name string) (*igen.CommandNode, error) {
	if err := checkName("command", name); err != nil {
		return nil, err
	}
	path := CommandPath(l.root, name)
	data, err := l.readFile(path)
	if err != nil {
		return nil, err
	}

	var node igen.CommandNode
	if err := decodeDocument(path, data, &node); err != nil {
		return nil, err
	}
	node.Walk(func(n *igen.CommandNode) {
		if n.SubGroups == nil {
			n.SubGroups = make(map[string]igen.Entry)
		}
		if n.SubCommands == nil {
			n.SubCommands = make(map[string]igen.Entry)
		}
		if n.PositionalArgs == nil {
			n.PositionalArgs = igen.NewFlags()
		}
		if n.RequiredFlags == nil {
			n.RequiredFlags = igen.NewFlags()
		}
	})
	return &node, ctx.Err()
}

// LoadFlags reads a CLI-wide flags document.
// Returns ENOTFOUND if no full crawl has stored it yet.
func (l *Loader) LoadFlags(ctx context.Context, kind igen.FlagKind) (*igen.Flags, error) {
	path := FlagsPath(l.root, kind)
	data, err := l.readFile(path)
	if err != nil {
		return nil, err
	}
	flags := igen.NewFlags()
	if err := decodeDocument(path, data, flags); err != nil {
		return nil, err
	}
	return flags, ctx.Err()
}

func (l *Loader) serviceDir(service string) (string, error) {
	if err := checkName("service", service); err != nil {
		return "", err
	}
	dir := filepath.Join(l.root, service)
	info, err := os.Stat(dir)
	if errors.Is(err, iofs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return "", igen.Errorf(igen.ENOTFOUND, "service %q not found", service)
	} else if err != nil {
		return "", err
	}
	return dir, nil
}

func (l *Loader) readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, igen.Errorf(igen.ENOTFOUND, "%s not found", path)
	}
	return data, err
}

func (l *Loader) skip(path string, err error) {
	if l.OnSkip != nil {
		l.OnSkip(path, err)
	}
}
