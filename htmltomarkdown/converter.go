// Package htmltomarkdown converts HTML product descriptions to Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/offerdoc"
)

var _ offerdoc.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown. Merchant descriptions often carry
// specification tables, so the table plugin is enabled.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms an HTML description into trimmed Markdown.
// Returns EINVALID for blank input.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", offerdoc.Errorf(offerdoc.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", offerdoc.Errorf(offerdoc.EINVALID, "convert description: %v", err)
	}
	return strings.TrimSpace(result), nil
}
