package main

import (
	"fmt"

	"github.com/Marlup/gcloud-instruction-generator"
)

// Run executes the flags command.
func (c *FlagsCmd) Run(deps *Dependencies) error {
	kind := igen.FlagKind(c.Kind)
	flags, err := deps.Loader.LoadFlags(deps.Ctx, kind)
	if err != nil {
		if igen.ErrorCode(err) == igen.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: no %s flags stored. Run 'igen crawl full' first.\n", kind)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", igen.ErrorMessage(err))
		}
		return err
	}

	for pair := flags.Oldest(); pair != nil; pair = pair.Next() {
		fmt.Fprintf(deps.Stdout, "%s\n", pair.Value.Flag)
		if pair.Value.Description != "" {
			fmt.Fprintf(deps.Stdout, "    %s\n", pair.Value.Description)
		}
	}
	fmt.Fprintf(deps.Stdout, "\n%d %s flags\n", flags.Len(), kind)
	return nil
}
