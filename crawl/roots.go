package crawl

import (
	"context"
	"net/url"
	"strings"

	"github.com/Marlup/gcloud-instruction-generator"
	"github.com/Marlup/gcloud-instruction-generator/bloom"
)

// expectedRoots sizes the de-duplication filter for the reference index.
const expectedRoots = 512

// parseBaseURL parses the reference base URL and ensures its path ends in
// a slash so that relative references resolve beneath it.
func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, igen.Errorf(igen.EINVALID, "invalid base URL %q: %v", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, igen.Errorf(igen.EINVALID, "base URL must be absolute: %q", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// resolveLink resolves href against page and drops its fragment.
func resolveLink(page *url.URL, href string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil, err
	}
	u := page.ResolveReference(ref)
	u.Fragment = ""
	return u, nil
}

// withinBase reports whether u is a page below the base reference URL.
func withinBase(base, u *url.URL) bool {
	return u.Host == base.Host && strings.HasPrefix(u.Path, base.Path) && len(u.Path) > len(base.Path)
}

// refFor returns the path of u relative to the base reference URL, e.g.
// "pubsub/topics/create". Links outside the base are returned whole.
func refFor(base, u *url.URL) string {
	if !withinBase(base, u) {
		return u.String()
	}
	return strings.Trim(strings.TrimPrefix(u.Path, base.Path), "/")
}

// rootName returns the root command named by u, which must sit exactly one
// path segment below the base reference URL.
func rootName(base, u *url.URL) (string, bool) {
	if !withinBase(base, u) {
		return "", false
	}
	rel := refFor(base, u)
	if strings.Contains(rel, "/") || !igen.IsValidName(rel) {
		return "", false
	}
	return rel, true
}

// DiscoverRoots fetches the reference index page and returns the names of
// the top-level commands it links to, in document order.
func (c *Crawler) DiscoverRoots(ctx context.Context) ([]string, error) {
	s, err := c.newSession(nil)
	if err != nil {
		return nil, err
	}
	_, roots, err := s.discover(ctx)
	return roots, err
}

func (s *session) discover(ctx context.Context) (string, []string, error) {
	html, err := s.fetch(ctx, s.base.String())
	if err != nil {
		return "", nil, err
	}
	links, err := s.crawler.Extractor.ExtractRoots(html)
	if err != nil {
		return "", nil, err
	}

	seen := bloom.New(max(uint(len(links)), expectedRoots))
	var roots []string
	for _, link := range links {
		u, err := resolveLink(s.base, link.Href)
		if err != nil {
			continue
		}
		name, ok := rootName(s.base, u)
		if !ok || seen.Seen(name) {
			continue
		}
		roots = append(roots, name)
	}
	if len(roots) == 0 {
		return "", nil, igen.Errorf(igen.ENOTFOUND, "no commands found at %s", s.base)
	}
	return html, roots, nil
}
