package mock

import "github.com/Marlup/gcloud-instruction-generator"

var _ igen.Converter = (*Converter)(nil)

// Converter is a mock implementation of igen.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
