package mock

import "github.com/fwojciec/offerdoc"

var _ offerdoc.Converter = (*Converter)(nil)

// Converter is a mock implementation of offerdoc.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
