package crawl

// RecursionBudget bounds how many levels below a root the crawler expands.
// It is passed by value, so each branch carries its own depth and returning
// from a branch needs no restore step.
type RecursionBudget struct {
	Used  int
	Limit int
}

// NewRecursionBudget returns an unused budget that allows limit levels of
// expansion. A negative limit is treated as zero.
func NewRecursionBudget(limit int) RecursionBudget {
	return RecursionBudget{Limit: max(limit, 0)}
}

// CanDescend reports whether a link at the current level may be expanded.
func (b RecursionBudget) CanDescend() bool {
	return b.Used < b.Limit
}

// Descend returns the budget for the level below.
func (b RecursionBudget) Descend() RecursionBudget {
	b.Used++
	return b
}
