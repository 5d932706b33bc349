package igen

import (
	"context"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ActionDef is the definition of one catalog action: a command template and
// the ordered names of the parameters it substitutes.
type ActionDef struct {
	Cmd    string   `json:"cmd" yaml:"cmd"`
	Params []string `json:"params" yaml:"params"`
}

// Validate returns an error if the action has no template or repeats a parameter.
func (d ActionDef) Validate() error {
	if strings.TrimSpace(d.Cmd) == "" {
		return Errorf(EINVALID, "action command template required")
	}
	seen := make(map[string]struct{}, len(d.Params))
	for _, p := range d.Params {
		if p == "" {
			return Errorf(EINVALID, "action parameter name required")
		}
		if _, ok := seen[p]; ok {
			return Errorf(EINVALID, "duplicate action parameter %q", p)
		}
		seen[p] = struct{}{}
	}
	return nil
}

// Actions maps action names to definitions in insertion order.
type Actions = orderedmap.OrderedMap[string, ActionDef]

// NewActions returns an empty Actions map.
func NewActions() *Actions {
	return orderedmap.New[string, ActionDef]()
}

// Category groups the actions of one category directory.
type Category struct {
	Name    string
	Actions *Actions
}

// Merge copies every action of src into c. An action already present is
// overwritten but keeps its original position.
func (c *Category) Merge(src *Actions) {
	if src == nil {
		return
	}
	for pair := src.Oldest(); pair != nil; pair = pair.Next() {
		c.Actions.Set(pair.Key, pair.Value)
	}
}

// Resource groups the categories of one resource directory.
type Resource struct {
	Name       string
	Categories []*Category
}

// Category returns the named category or nil.
func (r *Resource) Category(name string) *Category {
	for _, c := range r.Categories {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// AddCategory returns the named category, appending it if absent.
func (r *Resource) AddCategory(name string) *Category {
	if c := r.Category(name); c != nil {
		return c
	}
	c := &Category{Name: name, Actions: NewActions()}
	r.Categories = append(r.Categories, c)
	return c
}

// Catalog is the resource → category → action mapping of one service.
// Resource and category order is insertion order.
type Catalog struct {
	Service   string
	Resources []*Resource
}

// NewCatalog returns an empty catalog for service.
func NewCatalog(service string) *Catalog {
	return &Catalog{Service: service}
}

// Resource returns the named resource or nil.
func (c *Catalog) Resource(name string) *Resource {
	for _, r := range c.Resources {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// AddResource returns the named resource, appending it if absent.
func (c *Catalog) AddResource(name string) *Resource {
	if r := c.Resource(name); r != nil {
		return r
	}
	r := &Resource{Name: name}
	c.Resources = append(c.Resources, r)
	return r
}

// SetAction stores def under resource/category/action, creating the
// resource and category as needed. An existing action is overwritten.
func (c *Catalog) SetAction(resource, category, action string, def ActionDef) {
	c.AddResource(resource).AddCategory(category).Actions.Set(action, def)
}

// ActionDef returns the definition of one action.
// Returns ENOTFOUND if the resource, category or action does not exist.
func (c *Catalog) ActionDef(resource, category, action string) (ActionDef, error) {
	r := c.Resource(resource)
	if r == nil {
		return ActionDef{}, Errorf(ENOTFOUND, "resource %q not found in %s", resource, c.Service)
	}
	cat := r.Category(category)
	if cat == nil {
		return ActionDef{}, Errorf(ENOTFOUND, "category %q not found in %s/%s", category, c.Service, resource)
	}
	def, ok := cat.Actions.Get(action)
	if !ok {
		return ActionDef{}, Errorf(ENOTFOUND, "action %q not found in %s/%s/%s", action, c.Service, resource, category)
	}
	return def, nil
}

// ActionGroup lists the action names of one resource/category pair.
type ActionGroup struct {
	Resource string
	Category string
	Actions  []string
}

// Key returns the display key of the group, e.g. "buckets / create".
func (g ActionGroup) Key() string {
	return g.Resource + " / " + g.Category
}

// ListActions returns the action names grouped by resource and category,
// in catalog order. Empty categories are included with no actions.
func (c *Catalog) ListActions() []ActionGroup {
	var groups []ActionGroup
	for _, r := range c.Resources {
		for _, cat := range r.Categories {
			names := make([]string, 0, cat.Actions.Len())
			for pair := cat.Actions.Oldest(); pair != nil; pair = pair.Next() {
				names = append(names, pair.Key)
			}
			groups = append(groups, ActionGroup{Resource: r.Name, Category: cat.Name, Actions: names})
		}
	}
	return groups
}

// ActionNames returns every action name in catalog order.
func (c *Catalog) ActionNames() []string {
	var names []string
	for _, g := range c.ListActions() {
		names = append(names, g.Actions...)
	}
	return names
}

// CatalogStats counts the entries of a catalog.
type CatalogStats struct {
	Resources  int
	Categories int
	Actions    int
}

// Stats returns resource, category and action counts.
func (c *Catalog) Stats() CatalogStats {
	var s CatalogStats
	s.Resources = len(c.Resources)
	for _, r := range c.Resources {
		s.Categories += len(r.Categories)
		for _, cat := range r.Categories {
			s.Actions += cat.Actions.Len()
		}
	}
	return s
}

// Validate returns an error for the first invalid action in the catalog.
func (c *Catalog) Validate() error {
	for _, r := range c.Resources {
		for _, cat := range r.Categories {
			for pair := cat.Actions.Oldest(); pair != nil; pair = pair.Next() {
				if err := pair.Value.Validate(); err != nil {
					return Errorf(EINVALID, "%s/%s/%s: %s", r.Name, cat.Name, pair.Key, ErrorMessage(err))
				}
			}
		}
	}
	return nil
}

// CatalogLoader loads a service catalog from durable storage.
type CatalogLoader interface {
	// LoadCatalog returns the catalog of a service.
	// Returns ENOTFOUND if the service does not exist.
	LoadCatalog(ctx context.Context, service string) (*Catalog, error)
}

// CatalogWriter persists a catalog in the layout CatalogLoader reads.
type CatalogWriter interface {
	WriteCatalog(ctx context.Context, catalog *Catalog) error
}
