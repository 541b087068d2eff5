package offerdoc

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment, such as a description published
	// inside a JSON feed, into Markdown.
	Convert(html string) (string, error)
}
