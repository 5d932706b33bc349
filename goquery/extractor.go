// Package goquery implements igen.PageExtractor for gcloud reference pages
// using CSS selectors over the parsed HTML document.
package goquery

import (
	"strings"

	"github.com/Marlup/gcloud-instruction-generator"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var _ igen.PageExtractor = (*Extractor)(nil)

// sectionAliases lists the element ids accepted for each section, in lookup order.
var sectionAliases = map[igen.Section][]string{
	igen.SectionGroup:   {"GROUP", "GROUPS"},
	igen.SectionCommand: {"COMMAND", "COMMANDS"},
}

// Extractor extracts command data from reference pages. Sections are located
// by element id inside the page's <article>; a missing section yields an
// empty value.
type Extractor struct {
	converter igen.Converter
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithConverter renders the DESCRIPTION section as markdown through c
// instead of plain text.
func WithConverter(c igen.Converter) Option {
	return func(e *Extractor) {
		e.converter = c
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractCommand parses a command or group reference page.
func (e *Extractor) ExtractCommand(htmlStr string) (*igen.CommandPage, error) {
	doc, err := parse(htmlStr)
	if err != nil {
		return nil, err
	}
	root := article(doc)

	return &igen.CommandPage{
		Synopsis:       strings.Join(sectionLines(root, igen.SectionSynopsis), " "),
		Description:    e.description(root),
		Groups:         sectionLinks(root, igen.SectionGroup),
		Commands:       sectionLinks(root, igen.SectionCommand),
		PositionalArgs: definitionList(root, igen.SectionPositionalArgs),
		RequiredFlags:  definitionList(root, igen.SectionRequiredFlags),
	}, nil
}

// ExtractFlags parses the definition list of the given section.
func (e *Extractor) ExtractFlags(htmlStr string, section igen.Section) (*igen.Flags, error) {
	doc, err := parse(htmlStr)
	if err != nil {
		return nil, err
	}
	return definitionList(article(doc), section), nil
}

// ExtractRoots returns the links of the index page navigation list and its
// GROUP section, de-duplicated by href in document order.
func (e *Extractor) ExtractRoots(htmlStr string) ([]igen.Link, error) {
	doc, err := parse(htmlStr)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var links []igen.Link
	add := func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || skipHref(href) {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		links = append(links, igen.Link{Name: collapse(sel.Text()), Href: href})
	}

	doc.Find("ul.devsite-nav-section a[href]").Each(add)
	if sec := findSection(doc.Selection, igen.SectionGroup); sec != nil {
		termLinks(sec).Each(add)
	}
	return links, nil
}

func (e *Extractor) description(root *goquery.Selection) string {
	if e.converter != nil {
		if sec := findSection(root, igen.SectionDescription); sec != nil {
			body, err := withoutHeadings(sec).Html()
			if err == nil && strings.TrimSpace(body) != "" {
				if md, err := e.converter.Convert(body); err == nil {
					return strings.TrimSpace(md)
				}
			}
		}
	}
	return strings.Join(sectionLines(root, igen.SectionDescription), "\n")
}

func parse(htmlStr string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, igen.Errorf(igen.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// article returns the page's <article> element, or the whole document when
// the page has none.
func article(doc *goquery.Document) *goquery.Selection {
	if a := doc.Find("article").First(); a.Length() > 0 {
		return a
	}
	return doc.Selection
}

// findSection returns the first section whose id matches section or one of
// its aliases, or nil.
func findSection(root *goquery.Selection, section igen.Section) *goquery.Selection {
	ids, ok := sectionAliases[section]
	if !ok {
		ids = []string{string(section)}
	}
	for _, id := range ids {
		if sel := root.Find(`section[id="` + id + `"]`).First(); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// withoutHeadings returns a copy of sec with its headings removed.
func withoutHeadings(sec *goquery.Selection) *goquery.Selection {
	body := sec.Clone()
	body.Find("h1, h2, h3, h4, h5, h6").Remove()
	return body
}

// sectionLines returns the non-empty text lines of a section, excluding its heading.
func sectionLines(root *goquery.Selection, section igen.Section) []string {
	sec := findSection(root, section)
	if sec == nil {
		return nil
	}
	return textLines(withoutHeadings(sec))
}

// termLinks selects the links in the terms of a section's first definition
// list. Links in the definitions are prose and never name a command. A section
// without a list contributes all of its links.
func termLinks(sec *goquery.Selection) *goquery.Selection {
	dl := sec.Find("dl").First()
	if dl.Length() == 0 {
		return sec.Find("a[href]")
	}
	return dl.ChildrenFiltered("dt").Find("a[href]")
}

// sectionLinks returns the named links of a section in document order.
// The first link wins when a name repeats.
func sectionLinks(root *goquery.Selection, section igen.Section) []igen.Link {
	sec := findSection(root, section)
	if sec == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var links []igen.Link
	termLinks(sec).Each(func(_ int, a *goquery.Selection) {
		name := collapse(a.Text())
		href, _ := a.Attr("href")
		if name == "" || skipHref(href) {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		links = append(links, igen.Link{Name: name, Href: href})
	})
	return links
}

// definitionList pairs each dt of the section's first dl with the dd that
// follows it. Nested lists inside a dd are not flattened into the result.
func definitionList(root *goquery.Selection, section igen.Section) *igen.Flags {
	flags := igen.NewFlags()
	sec := findSection(root, section)
	if sec == nil {
		return flags
	}

	sec.Find("dl").First().ChildrenFiltered("dt").Each(func(_ int, dt *goquery.Selection) {
		flagText := collapse(dt.Text())
		name := flagName(dt, flagText)
		if name == "" {
			return
		}
		if _, dup := flags.Get(name); dup {
			return
		}
		dd := dt.NextFiltered("dd")
		flags.Set(name, igen.Flag{
			Flag:        flagText,
			Description: strings.Join(textLines(dd), " "),
		})
	})
	return flags
}

// flagName derives the key of a dt: its id without leading dashes, or the
// text before any "=" or space.
func flagName(dt *goquery.Selection, text string) string {
	name, _ := dt.Attr("id")
	if name == "" {
		name = text
		if i := strings.IndexAny(name, "= "); i >= 0 {
			name = name[:i]
		}
	}
	name = strings.Trim(name, "[]")
	return strings.TrimLeft(name, "-")
}

var blockElements = map[string]bool{
	"p": true, "div": true, "dt": true, "dd": true, "dl": true, "li": true,
	"ul": true, "ol": true, "pre": true, "br": true, "tr": true, "table": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// textLines returns the text of sel split at block elements, with
// whitespace collapsed and empty lines dropped.
func textLines(sel *goquery.Selection) []string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if blockElements[n.Data] {
				b.WriteByte('\n')
				defer b.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = collapse(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// skipHref reports whether href cannot lead to another reference page.
func skipHref(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return href == "" ||
		strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "data:")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
