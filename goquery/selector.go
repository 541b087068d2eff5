// Package goquery evaluates CSS selectors over parsed HTML. Compiled
// selectors are cached per selector string for the life of the process.
package goquery

import (
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/offerdoc"
	"golang.org/x/net/html"
)

// selectors caches compiled selectors by source string.
var selectors sync.Map

// Compile returns the compiled form of selector, compiling it on first use.
// Returns EINVALID if the selector does not parse.
func Compile(selector string) (cascadia.Selector, error) {
	if sel, ok := selectors.Load(selector); ok {
		return sel.(cascadia.Selector), nil
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, offerdoc.Errorf(offerdoc.EINVALID, "invalid CSS selector %q: %v", selector, err)
	}
	actual, _ := selectors.LoadOrStore(selector, sel)
	return actual.(cascadia.Selector), nil
}

// Select returns the descendants of root matching selector in document order.
func Select(root *html.Node, selector string) ([]*html.Node, error) {
	sel, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromNode(root).FindMatcher(sel).Nodes, nil
}

// Cached reports whether selector has already been compiled.
func Cached(selector string) bool {
	_, ok := selectors.Load(selector)
	return ok
}
