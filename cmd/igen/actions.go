package main

import (
	"fmt"
	"strings"

	"github.com/Marlup/gcloud-instruction-generator"
)

// Run executes the actions command.
func (c *ActionsCmd) Run(deps *Dependencies) error {
	var catalog *igen.Catalog
	var err error
	if c.Flat {
		catalog, err = deps.Loader.LoadFlatCatalog(deps.Ctx, c.Service)
	} else {
		catalog, err = deps.Catalogs.LoadCatalog(deps.Ctx, c.Service)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", igen.ErrorMessage(err))
		return err
	}

	for _, g := range catalog.ListActions() {
		if len(g.Actions) == 0 {
			fmt.Fprintf(deps.Stdout, "%s: (none)\n", g.Key())
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s: %s\n", g.Key(), strings.Join(g.Actions, ", "))
	}
	fmt.Fprintf(deps.Stdout, "\n%s: %s\n", c.Service, formatStats(catalog.Stats()))
	return nil
}
