package main

import (
	"fmt"
	"strings"

	"github.com/Marlup/gcloud-instruction-generator"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	def, err := loadActionDef(deps, c.Service, c.Resource, c.Category, c.Action)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "cmd:    %s\n", def.Cmd)
	if len(def.Params) == 0 {
		fmt.Fprintln(deps.Stdout, "params: (none)")
		return nil
	}

	params := make([]string, len(def.Params))
	for i, p := range def.Params {
		params[i] = p
		if v, ok := deps.Defaults[p]; ok {
			params[i] = fmt.Sprintf("%s (default %q)", p, v)
		}
	}
	fmt.Fprintf(deps.Stdout, "params: %s\n", strings.Join(params, ", "))
	return nil
}

// loadActionDef loads a service catalog and looks up one action, reporting
// failures on stderr.
func loadActionDef(deps *Dependencies, service, resource, category, action string) (igen.ActionDef, error) {
	catalog, err := deps.Catalogs.LoadCatalog(deps.Ctx, service)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", igen.ErrorMessage(err))
		return igen.ActionDef{}, err
	}
	def, err := catalog.ActionDef(resource, category, action)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s. Use 'igen actions %s' to list actions.\n", igen.ErrorMessage(err), service)
		return igen.ActionDef{}, err
	}
	return def, nil
}
