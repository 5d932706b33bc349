package main

import (
	"fmt"

	"github.com/Marlup/gcloud-instruction-generator"
	"github.com/Marlup/gcloud-instruction-generator/fs"
)

// Run executes the normalize command.
func (c *NormalizeCmd) Run(deps *Dependencies) error {
	n := &fs.Normalizer{Loader: deps.Loader, Writer: deps.Writer}

	if len(c.Services) == 0 {
		results, err := n.NormalizeAll(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", igen.ErrorMessage(err))
			return err
		}
		if len(results) == 0 {
			fmt.Fprintln(deps.Stdout, "No flat actions.json documents found.")
			return nil
		}

		var failed int
		for _, res := range results {
			if res.Err != nil {
				failed++
				fmt.Fprintf(deps.Stdout, "  fail %s: %v\n", res.Service, res.Err)
				continue
			}
			fmt.Fprintf(deps.Stdout, "  ok   %s: %s\n", res.Service, formatStats(res.Stats))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d services failed to normalize", failed, len(results))
		}
		return nil
	}

	for _, service := range c.Services {
		catalog, err := n.Normalize(deps.Ctx, service)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", igen.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "  ok   %s: %s\n", service, formatStats(catalog.Stats()))
	}
	return nil
}
