package offerdoc

// DocumentKind identifies the syntax of a Document.
type DocumentKind string

// Document kinds.
const (
	KindMarkup DocumentKind = "markup"
	KindJSON   DocumentKind = "json"
)

// Document is a navigable, read-only view over a fetched page or a part of
// it. Paths are XPath-like for markup and slash-separated pointers for JSON.
type Document interface {
	// URL returns the address the document was fetched from.
	URL() string

	// Kind reports whether the document is markup or JSON.
	Kind() DocumentKind

	// Name returns the element name (markup) or key (JSON) at the view root.
	Name() string

	// Text returns the text content of the view root.
	Text() string

	// EvalOne returns the single non-empty value matched by path. Matches
	// whose value is empty or blank (or JSON null) are ignored before
	// counting, so a path matching one empty and one filled node yields the
	// filled one.
	// Returns ENOTFOUND if no non-empty value matches and EAMBIGUOUS if more
	// than one does.
	EvalOne(path string) (string, error)

	// EvalMany returns every non-empty value matched by path in document
	// order, trimmed. Empty and blank matches are dropped. An empty result
	// is not an error.
	EvalMany(path string) ([]string, error)

	// Nodes returns sub-views rooted at every node matched by path.
	Nodes(path string) ([]Document, error)
}
