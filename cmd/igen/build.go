package main

import (
	"fmt"
	"strings"

	"github.com/Marlup/gcloud-instruction-generator"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	values, err := parseParams(c.Params)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", igen.ErrorMessage(err))
		return err
	}

	def, err := loadActionDef(deps, c.Service, c.Resource, c.Category, c.Action)
	if err != nil {
		return err
	}

	// Placeholders outside the declared params still resolve from explicit values.
	names, err := igen.Placeholders(def.Cmd)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", igen.ErrorMessage(err))
		return err
	}
	params := igen.ResolveParams(def.Params, deps.Defaults, values)
	for _, name := range names {
		if v, ok := values[name]; ok {
			params[name] = v
		}
	}

	cmd, err := igen.BuildCommand(def.Cmd, params)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", igen.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(deps.Stdout, cmd)
	return nil
}

// parseParams parses name=value arguments.
func parseParams(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, igen.Errorf(igen.EINVALID, "parameter %q must be name=value", arg)
		}
		values[name] = value
	}
	return values, nil
}
