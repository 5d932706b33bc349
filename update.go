package igen

import (
	"context"
	"strings"
)

// UpdateMode selects which roots a crawl visits.
type UpdateMode string

// Supported update modes.
const (
	UpdateSingle  UpdateMode = "single"
	UpdatePartial UpdateMode = "partial"
	UpdateFull    UpdateMode = "full"
)

// ParseUpdateMode returns the mode named s.
// Returns EUNSUPPORTED for any other value.
func ParseUpdateMode(s string) (UpdateMode, error) {
	switch m := UpdateMode(strings.ToLower(strings.TrimSpace(s))); m {
	case UpdateSingle, UpdatePartial, UpdateFull:
		return m, nil
	}
	return "", Errorf(EUNSUPPORTED, "unsupported update mode %q (want single, partial or full)", s)
}

// ResolveTargets checks the targets a mode requires and returns them with
// repeats removed, keeping first occurrences in order. Full mode discovers
// its own roots and accepts none.
// Returns EUNSUPPORTED when targets are missing, malformed or not allowed.
func (m UpdateMode) ResolveTargets(targets []string) ([]string, error) {
	switch m {
	case UpdateSingle:
		if len(targets) != 1 {
			return nil, Errorf(EUNSUPPORTED, "single update requires exactly one root, got %d", len(targets))
		}
	case UpdatePartial:
		if len(targets) == 0 {
			return nil, Errorf(EUNSUPPORTED, "partial update requires at least one root")
		}
	case UpdateFull:
		if len(targets) > 0 {
			return nil, Errorf(EUNSUPPORTED, "full update discovers its roots and takes no targets, got %d", len(targets))
		}
		return nil, nil
	default:
		return nil, Errorf(EUNSUPPORTED, "unsupported update mode %q", string(m))
	}

	seen := make(map[string]struct{}, len(targets))
	resolved := make([]string, 0, len(targets))
	for _, t := range targets {
		if !IsValidName(t) {
			return nil, Errorf(EUNSUPPORTED, "malformed root name %q", t)
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		resolved = append(resolved, t)
	}
	return resolved, nil
}

// IsValidName reports whether s can be used as a root, resource or category
// name: non-empty, no path separators or whitespace, not "." or "..".
func IsValidName(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, "/\\ \t\n\r")
}

// FlagKind selects one of the CLI-wide flag documents.
type FlagKind string

// Shared flag documents.
const (
	GlobalFlags FlagKind = "global"
	OtherFlags  FlagKind = "other"
)

// Section returns the index page section holding flags of this kind.
func (k FlagKind) Section() Section {
	if k == OtherFlags {
		return SectionOtherFlags
	}
	return SectionGlobalFlags
}

// CommandWriter persists crawl results.
type CommandWriter interface {
	// WriteCommand stores the crawled tree of one root.
	WriteCommand(ctx context.Context, node *CommandNode) error

	// WriteFlags stores a CLI-wide flag document.
	WriteFlags(ctx context.Context, kind FlagKind, flags *Flags) error
}
