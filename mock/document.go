package mock

import "github.com/fwojciec/offerdoc"

var _ offerdoc.Document = (*Document)(nil)

// Document is a mock implementation of offerdoc.Document.
type Document struct {
	URLFn      func() string
	KindFn     func() offerdoc.DocumentKind
	NameFn     func() string
	TextFn     func() string
	EvalOneFn  func(path string) (string, error)
	EvalManyFn func(path string) ([]string, error)
	NodesFn    func(path string) ([]offerdoc.Document, error)
}

func (d *Document) URL() string {
	return d.URLFn()
}

func (d *Document) Kind() offerdoc.DocumentKind {
	return d.KindFn()
}

func (d *Document) Name() string {
	return d.NameFn()
}

func (d *Document) Text() string {
	return d.TextFn()
}

func (d *Document) EvalOne(path string) (string, error) {
	return d.EvalOneFn(path)
}

func (d *Document) EvalMany(path string) ([]string, error) {
	return d.EvalManyFn(path)
}

func (d *Document) Nodes(path string) ([]offerdoc.Document, error) {
	return d.NodesFn(path)
}
