package main

import (
	"fmt"
	"strings"

	"github.com/Marlup/gcloud-instruction-generator"
	"github.com/Marlup/gcloud-instruction-generator/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	mode, err := igen.ParseUpdateMode(c.Mode)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", igen.ErrorMessage(err))
		return err
	}
	targets, err := mode.ResolveTargets(c.Targets)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", igen.ErrorMessage(err))
		return err
	}

	if c.DryRun {
		return c.dryRun(deps, mode, targets)
	}

	deps.Crawler.MaxDepth = c.Depth
	if c.Concurrency > 0 {
		deps.Crawler.Concurrency = c.Concurrency
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Crawling %d roots (%s)\n", event.Total, mode)
		case crawl.ProgressChildSkipped:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.Path, event.Error)
		}
	}

	result, err := deps.Crawler.Run(deps.Ctx, mode, targets, progress)
	if result == nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %v\n", err)
		return err
	}

	for _, root := range result.Roots {
		if root.Err != nil {
			fmt.Fprintf(deps.Stdout, "  fail %s: %v\n", root.Name, root.Err)
			continue
		}
		fmt.Fprintf(deps.Stdout, "  ok   %s (%d nodes)\n", root.Name, root.Nodes)
		for _, path := range root.Changed {
			fmt.Fprintf(deps.Stdout, "       changed: %s\n", path)
		}
	}
	if result.FlagsErr != nil {
		fmt.Fprintf(deps.Stderr, "  flags: %v\n", result.FlagsErr)
	}

	fmt.Fprintf(deps.Stdout, "%d succeeded, %d failed (%d written, %d unchanged)\n",
		result.Succeeded(), result.Failed(), deps.Writer.Written(), deps.Writer.Unchanged())

	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %v\n", err)
		return err
	}
	if failed := result.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d roots failed: %s", failed, len(result.Roots), strings.Join(failedRoots(result), ", "))
	}
	return nil
}

// dryRun prints the roots a crawl would visit. Full mode discovers them from
// the index page; nothing is stored.
func (c *CrawlCmd) dryRun(deps *Dependencies, mode igen.UpdateMode, targets []string) error {
	roots := targets
	if mode == igen.UpdateFull {
		var err error
		if roots, err = deps.Crawler.DiscoverRoots(deps.Ctx); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", igen.ErrorMessage(err))
			return err
		}
	}
	for _, root := range roots {
		fmt.Fprintf(deps.Stdout, "  %s\n", root)
	}
	fmt.Fprintf(deps.Stdout, "%d roots (%s, depth %d)\n", len(roots), mode, c.Depth)
	return nil
}

func failedRoots(result *crawl.Result) []string {
	var names []string
	for _, root := range result.Roots {
		if root.Err != nil {
			names = append(names, root.Name)
		}
	}
	return names
}
