package fs

import (
	"context"
	"fmt"

	"github.com/Marlup/gcloud-instruction-generator"
)

// Normalizer rewrites legacy flat catalogs into the directory layout that
// Loader.LoadCatalog reads.
type Normalizer struct {
	Loader *Loader
	Writer igen.CatalogWriter
}

// NewNormalizer creates a Normalizer that reads and writes below root.
func NewNormalizer(root string) *Normalizer {
	return &Normalizer{
		Loader: NewLoader(root),
		Writer: NewWriter(root),
	}
}

// NormalizeResult is the outcome of normalizing one service.
type NormalizeResult struct {
	Service string
	Stats   igen.CatalogStats
	Err     error
}

// Normalize writes one leaf document per category of the service's flat
// document. Running it again rewrites the same leaves with the same content.
func (n *Normalizer) Normalize(ctx context.Context, service string) (*igen.Catalog, error) {
	catalog, err := n.Loader.LoadFlatCatalog(ctx, service)
	if err != nil {
		return nil, err
	}
	if err := n.Writer.WriteCatalog(ctx, catalog); err != nil {
		return nil, fmt.Errorf("normalize %s: %w", service, err)
	}
	return catalog, nil
}

// NormalizeAll normalizes every service that has a flat document. A failing
// service is reported in its result and does not stop the others.
func (n *Normalizer) NormalizeAll(ctx context.Context) ([]NormalizeResult, error) {
	services, err := n.Loader.ListServices(ctx)
	if err != nil {
		return nil, err
	}

	var results []NormalizeResult
	for _, service := range services {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if !n.Loader.HasFlatCatalog(service) {
			continue
		}
		res := NormalizeResult{Service: service}
		if catalog, err := n.Normalize(ctx, service); err != nil {
			res.Err = err
		} else {
			res.Stats = catalog.Stats()
		}
		results = append(results, res)
	}
	return results, nil
}
