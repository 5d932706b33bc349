package mock

import "github.com/Marlup/gcloud-instruction-generator"

var _ igen.PageExtractor = (*PageExtractor)(nil)

// PageExtractor is a mock implementation of igen.PageExtractor.
type PageExtractor struct {
	ExtractCommandFn func(html string) (*igen.CommandPage, error)
	ExtractFlagsFn   func(html string, section igen.Section) (*igen.Flags, error)
	ExtractRootsFn   func(html string) ([]igen.Link, error)
}

func (e *PageExtractor) ExtractCommand(html string) (*igen.CommandPage, error) {
	return e.ExtractCommandFn(html)
}

func (e *PageExtractor) ExtractFlags(html string, section igen.Section) (*igen.Flags, error) {
	return e.ExtractFlagsFn(html, section)
}

func (e *PageExtractor) ExtractRoots(html string) ([]igen.Link, error) {
	return e.ExtractRootsFn(html)
}
