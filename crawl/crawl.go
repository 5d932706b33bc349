// Package crawl scrapes the gcloud reference documentation into command
// trees. It coordinates fetching, extraction, bounded recursion, signature
// recording and storage of crawled roots.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Marlup/gcloud-instruction-generator"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultBaseURL is the root of the gcloud reference documentation.
const DefaultBaseURL = "https://cloud.google.com/sdk/gcloud/reference/"

// DefaultMaxDepth is the expansion depth used by the CLI.
const DefaultMaxDepth = 2

// DefaultConcurrency is used when Crawler.Concurrency is not positive.
const DefaultConcurrency = 4

// Crawler orchestrates the crawling of command roots.
type Crawler struct {
	Fetcher     igen.Fetcher
	Extractor   igen.PageExtractor
	Writer      igen.CommandWriter
	RateLimiter igen.DomainLimiter
	Signatures  igen.SignatureService
	Runs        igen.CrawlRunService

	// BaseURL is the reference index; roots resolve beneath it.
	BaseURL string

	// MaxDepth is the number of link levels expanded below a root.
	// Zero scrapes the root page only and stores its links as references.
	MaxDepth int

	// Concurrency bounds simultaneous fetches and simultaneous roots.
	Concurrency int

	// RetryDelays overrides DefaultBackoff when non-nil.
	RetryDelays []time.Duration

	// Logf, if set, receives retry notices.
	Logf LogFunc
}

// Result holds the outcome of a crawl operation.
type Result struct {
	RunID string
	Roots []RootResult

	// FlagsErr is set when a full crawl could not store the CLI-wide flags.
	FlagsErr error
}

// Succeeded returns the number of roots crawled without error.
func (r *Result) Succeeded() int {
	var n int
	for _, root := range r.Roots {
		if root.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of roots whose crawl failed.
func (r *Result) Failed() int {
	return len(r.Roots) - r.Succeeded()
}

// RootResult holds the outcome of crawling one root.
type RootResult struct {
	Name string

	// Nodes is the number of expanded nodes in the stored tree.
	Nodes int

	// Changed lists the command paths whose signature differs from the
	// previous crawl.
	Changed []string

	Err error
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Root      string
	Path      string
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressRootStarted
	ProgressRootCompleted
	ProgressRootFailed
	ProgressChildSkipped
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
// Calls are serialized.
type ProgressFunc func(event ProgressEvent)

// Run crawls the roots selected by mode. Single and partial modes crawl the
// named targets; full mode discovers every root from the index page and also
// stores the CLI-wide flags. A failing root is reported in its RootResult and
// does not affect the others.
func (c *Crawler) Run(ctx context.Context, mode igen.UpdateMode, targets []string, progress ProgressFunc) (*Result, error) {
	targets, err := mode.ResolveTargets(targets)
	if err != nil {
		return nil, err
	}

	s, err := c.newSession(progress)
	if err != nil {
		return nil, err
	}

	var indexHTML string
	if mode == igen.UpdateFull {
		indexHTML, targets, err = s.discover(ctx)
		if err != nil {
			return nil, fmt.Errorf("discover roots: %w", err)
		}
	}

	run := &igen.CrawlRun{Mode: mode}
	if c.Runs != nil {
		if err := c.Runs.CreateRun(ctx, run); err != nil {
			return nil, fmt.Errorf("create run: %w", err)
		}
	}
	s.runID = run.ID

	result := &Result{
		RunID: run.ID,
		Roots: make([]RootResult, len(targets)),
	}
	total := len(targets)

	s.emit(ProgressEvent{Type: ProgressStarted, Total: total})

	var completed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, name := range targets {
		g.Go(func() error {
			s.emit(ProgressEvent{Type: ProgressRootStarted, Root: name, Total: total})
			res := s.crawlRoot(ctx, name)
			result.Roots[i] = res

			event := ProgressEvent{
				Type:      ProgressRootCompleted,
				Completed: int(completed.Add(1)),
				Total:     total,
				Root:      name,
			}
			if res.Err != nil {
				event.Type = ProgressRootFailed
				event.Error = res.Err
			}
			s.emit(event)
			return nil
		})
	}
	_ = g.Wait()

	if mode == igen.UpdateFull && ctx.Err() == nil {
		result.FlagsErr = s.writeFlags(ctx, indexHTML)
	}

	if c.Runs != nil {
		run.Succeeded = result.Succeeded()
		run.Failed = result.Failed()
		if err := c.Runs.FinishRun(context.WithoutCancel(ctx), run); err != nil {
			return result, fmt.Errorf("finish run: %w", err)
		}
	}

	s.emit(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})

	return result, ctx.Err()
}

// CrawlRoot scrapes the root command name and expands its links up to
// MaxDepth levels. The tree is returned without being stored.
func (c *Crawler) CrawlRoot(ctx context.Context, name string) (*igen.CommandNode, error) {
	if !igen.IsValidName(name) {
		return nil, igen.Errorf(igen.EUNSUPPORTED, "malformed command name %q", name)
	}
	s, err := c.newSession(nil)
	if err != nil {
		return nil, err
	}
	return s.scrape(ctx, name, name, s.rootURL(name), NewRecursionBudget(c.MaxDepth))
}

// session holds the state shared by all branches of one crawl.
type session struct {
	crawler     *Crawler
	base        *url.URL
	sem         *semaphore.Weighted
	concurrency int
	backoff     Backoff
	runID       string

	mu       sync.Mutex
	progress ProgressFunc
}

func (c *Crawler) newSession(progress ProgressFunc) (*session, error) {
	if c.Fetcher == nil || c.Extractor == nil {
		return nil, igen.Errorf(igen.EINVALID, "crawler requires a fetcher and an extractor")
	}

	raw := c.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := parseBaseURL(raw)
	if err != nil {
		return nil, err
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	backoff := Backoff(c.RetryDelays)
	if backoff == nil {
		backoff = DefaultBackoff()
	}

	return &session{
		crawler:     c,
		base:        base,
		sem:         semaphore.NewWeighted(int64(concurrency)),
		concurrency: concurrency,
		backoff:     backoff,
		progress:    progress,
	}, nil
}

func (s *session) emit(event ProgressEvent) {
	if s.progress == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress(event)
}

func (s *session) rootURL(name string) *url.URL {
	return s.base.ResolveReference(&url.URL{Path: name})
}

// crawlRoot scrapes, stores and fingerprints one root.
func (s *session) crawlRoot(ctx context.Context, name string) RootResult {
	res := RootResult{Name: name}

	node, err := s.scrape(ctx, name, name, s.rootURL(name), NewRecursionBudget(s.crawler.MaxDepth))
	if err != nil {
		res.Err = err
		return res
	}

	if s.crawler.Writer != nil {
		if err := s.crawler.Writer.WriteCommand(ctx, node); err != nil {
			res.Err = fmt.Errorf("write %s: %w", name, err)
			return res
		}
	}

	res.Changed, res.Err = s.recordSignatures(ctx, node)
	node.Walk(func(*igen.CommandNode) { res.Nodes++ })
	return res
}

// child is a link found on a page, with the entry it resolves to.
type child struct {
	name  string
	group bool
	url   *url.URL
	entry igen.Entry
}

// scrape fetches and extracts the page at u, then expands its links while the
// budget allows. Links that are not expanded keep their reference string.
func (s *session) scrape(ctx context.Context, name, path string, u *url.URL, budget RecursionBudget) (*igen.CommandNode, error) {
	html, err := s.fetch(ctx, u.String())
	if err != nil {
		return nil, err
	}
	page, err := s.crawler.Extractor.ExtractCommand(html)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", u, err)
	}

	node := igen.NewCommandNode(name, path, u.String())
	node.Synopsis = page.Synopsis
	node.Description = page.Description
	if page.PositionalArgs != nil {
		node.PositionalArgs = page.PositionalArgs
	}
	if page.RequiredFlags != nil {
		node.RequiredFlags = page.RequiredFlags
	}

	children := s.children(u, page)
	if budget.CanDescend() {
		if err := s.expand(ctx, path, children, budget.Descend()); err != nil {
			return nil, err
		}
	}

	for _, ch := range children {
		if ch.group {
			node.SubGroups[ch.name] = ch.entry
		} else {
			node.SubCommands[ch.name] = ch.entry
		}
	}
	node.Signature = node.ComputeSignature()

	return node, nil
}

func (s *session) children(page *url.URL, p *igen.CommandPage) []child {
	var out []child
	add := func(links []igen.Link, group bool) {
		for _, link := range links {
			ch := child{name: link.Name, group: group, entry: igen.Entry{Ref: link.Href}}
			if u, err := resolveLink(page, link.Href); err == nil {
				ch.entry.Ref = refFor(s.base, u)
				if withinBase(s.base, u) {
					ch.url = u
				}
			}
			out = append(out, ch)
		}
	}
	add(p.Groups, true)
	add(p.Commands, false)
	return out
}

// expand scrapes every child concurrently. A child that fails keeps its
// reference entry; only cancellation aborts the expansion.
func (s *session) expand(ctx context.Context, parent string, children []child, budget RecursionBudget) error {
	var g errgroup.Group
	for i := range children {
		ch := &children[i]
		if ch.url == nil {
			continue
		}
		g.Go(func() error {
			path := parent + " " + ch.name
			node, err := s.scrape(ctx, ch.name, path, ch.url, budget)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.emit(ProgressEvent{Type: ProgressChildSkipped, Path: path, URL: ch.url.String(), Error: err})
				return nil
			}
			ch.entry = igen.Entry{Node: node}
			return nil
		})
	}
	return g.Wait()
}

// fetch retrieves one page, holding a concurrency slot only for the duration
// of the request and its retries.
func (s *session) fetch(ctx context.Context, rawURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer s.sem.Release(1)

	if s.crawler.RateLimiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", igen.Errorf(igen.EINVALID, "invalid URL %q: %v", rawURL, err)
		}
		if err := s.crawler.RateLimiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}

	return s.backoff.Fetch(ctx, rawURL, s.crawler.Fetcher.Fetch, s.crawler.Logf)
}

// recordSignatures stores the signature of every expanded node under root
// and returns the paths whose signature changed.
func (s *session) recordSignatures(ctx context.Context, root *igen.CommandNode) ([]string, error) {
	if s.crawler.Signatures == nil {
		return nil, nil
	}

	var changed []string
	var err error
	now := time.Now().UTC()
	root.Walk(func(n *igen.CommandNode) {
		if err != nil {
			return
		}
		var diff bool
		diff, err = s.crawler.Signatures.RecordSignature(ctx, &igen.SignatureRecord{
			RunID:     s.runID,
			Path:      n.Path,
			Signature: n.Signature,
			CrawledAt: now,
		})
		if diff {
			changed = append(changed, n.Path)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("record signature: %w", err)
	}
	return changed, nil
}

// writeFlags extracts and stores the CLI-wide flag sections of the index page.
func (s *session) writeFlags(ctx context.Context, indexHTML string) error {
	for _, kind := range []igen.FlagKind{igen.GlobalFlags, igen.OtherFlags} {
		flags, err := s.crawler.Extractor.ExtractFlags(indexHTML, kind.Section())
		if err != nil {
			return fmt.Errorf("extract %s flags: %w", kind, err)
		}
		if s.crawler.Writer == nil {
			continue
		}
		if err := s.crawler.Writer.WriteFlags(ctx, kind, flags); err != nil {
			return fmt.Errorf("write %s flags: %w", kind, err)
		}
	}
	return nil
}
