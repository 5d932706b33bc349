package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/Marlup/gcloud-instruction-generator"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	path := strings.Join(c.Path, " ")

	// One extra record tells whether the oldest shown entry was a change.
	filter := igen.SignatureFilter{Path: &path}
	if c.Limit > 0 {
		filter.Limit = c.Limit + 1
	}
	records, err := deps.Signatures.FindSignatures(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", igen.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintf(deps.Stdout, "No signatures recorded for %q. Use 'igen crawl' to record some.\n", path)
		return nil
	}

	shown := records
	if c.Limit > 0 && len(shown) > c.Limit {
		shown = shown[:c.Limit]
	}
	for i, rec := range shown {
		mark := " "
		if i+1 < len(records) && records[i+1].Signature != rec.Signature {
			mark = "*"
		}
		fmt.Fprintf(deps.Stdout, "%s %s  %s  %s\n", mark, rec.CrawledAt.Format(time.RFC3339), short(rec.Signature), rec.RunID)
	}
	return nil
}

func short(sig string) string {
	if len(sig) > 12 {
		return sig[:12]
	}
	return sig
}
