package main

import (
	"fmt"

	"github.com/Marlup/gcloud-instruction-generator"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	for _, service := range c.Services {
		node, err := deps.Loader.LoadCommand(deps.Ctx, service)
		if err != nil {
			if igen.ErrorCode(err) == igen.ENOTFOUND {
				fmt.Fprintf(deps.Stderr, "error: %q has not been crawled. Run 'igen crawl single %s' first.\n", service, service)
			} else {
				fmt.Fprintf(deps.Stderr, "error: %s\n", igen.ErrorMessage(err))
			}
			return err
		}

		catalog := igen.CatalogFromCommand(node, c.Binary)
		if err := catalog.Validate(); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", igen.ErrorMessage(err))
			return err
		}
		if err := deps.Exporter.WriteCatalog(deps.Ctx, catalog); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}

		fmt.Fprintf(deps.Stdout, "Exported %s: %s\n", service, formatStats(catalog.Stats()))
	}
	return nil
}

func formatStats(s igen.CatalogStats) string {
	return fmt.Sprintf("%d resources, %d categories, %d actions", s.Resources, s.Categories, s.Actions)
}
