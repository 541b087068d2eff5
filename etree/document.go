// Package etree implements offerdoc.Document over HTML. Pages are parsed
// with golang.org/x/net/html and mirrored into an etree element tree so
// they can be queried with XPath-like paths:
//
//	//div[@class='price']/span        element text
//	//a[@class='manual']/@href        attribute value
//	//p[2]/text()                     own text only
//	css:table.specs td.label          CSS selector
//
// Compiled paths are cached per path string and shared by all documents.
package etree

import (
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/beevik/etree"
	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

var _ offerdoc.Document = (*Document)(nil)

// Options configures how element text is rendered.
type Options struct {
	// DelimiterTags lists the tags that start a new line of text. When empty,
	// every text node is its own line.
	DelimiterTags []string
}

// tree is the parsed page shared by a document and its sub-views.
type tree struct {
	doc        *etree.Document
	nodes      map[*etree.Element]*html.Node
	elements   map[*html.Node]*etree.Element
	order      map[*etree.Element]int
	delimiters map[string]bool
}

// Document is a view rooted at one element of a parsed page.
type Document struct {
	url  string
	tree *tree
	el   *etree.Element
}

// Parse reads an HTML page, decoding it to UTF-8 according to contentType
// and the page's own meta declarations.
// Returns EINVALID if the page cannot be decoded.
func Parse(r io.Reader, contentType, url string, opts Options) (*Document, error) {
	utf8, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, offerdoc.Errorf(offerdoc.EINVALID, "decode %s: %v", url, err)
	}
	root, err := html.Parse(utf8)
	if err != nil {
		return nil, offerdoc.Errorf(offerdoc.EINVALID, "parse %s: %v", url, err)
	}
	return FromNode(root, url, opts), nil
}

// ParseString parses a UTF-8 HTML string.
func ParseString(s, url string, opts Options) (*Document, error) {
	return Parse(strings.NewReader(s), "text/html; charset=utf-8", url, opts)
}

// FromNode builds a document from an already parsed HTML tree.
func FromNode(root *html.Node, url string, opts Options) *Document {
	t := &tree{
		doc:        etree.NewDocument(),
		nodes:      make(map[*etree.Element]*html.Node),
		elements:   make(map[*html.Node]*etree.Element),
		order:      make(map[*etree.Element]int),
		delimiters: make(map[string]bool),
	}
	for _, tag := range opts.DelimiterTags {
		t.delimiters[strings.ToLower(strings.TrimSpace(tag))] = true
	}
	t.link(root, &t.doc.Element)
	t.convert(root, &t.doc.Element)
	return &Document{url: url, tree: t, el: &t.doc.Element}
}

func (t *tree) link(n *html.Node, el *etree.Element) {
	t.nodes[el] = n
	t.elements[n] = el
	t.order[el] = len(t.order)
}

// convert mirrors the element and text children of n under parent.
func (t *tree) convert(n *html.Node, parent *etree.Element) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			el := parent.CreateElement(c.Data)
			for _, a := range c.Attr {
				el.CreateAttr(a.Key, a.Val)
			}
			t.link(c, el)
			t.convert(c, el)
		case html.TextNode:
			parent.CreateText(c.Data)
		}
	}
}

// URL returns the address of the page.
func (d *Document) URL() string { return d.url }

// Kind returns offerdoc.KindMarkup.
func (d *Document) Kind() offerdoc.DocumentKind { return offerdoc.KindMarkup }

// Name returns the tag of the view root.
func (d *Document) Name() string { return d.el.Tag }

// Text returns the text content of the view root.
func (d *Document) Text() string { return d.tree.text(d.el) }

// EvalOne returns the single non-empty value matched by path.
func (d *Document) EvalOne(path string) (string, error) {
	values, err := d.EvalMany(path)
	if err != nil {
		return "", err
	}
	switch len(values) {
	case 0:
		return "", offerdoc.Errorf(offerdoc.ENOTFOUND, "%q matched nothing in %s", path, d.url)
	case 1:
		return values[0], nil
	default:
		return "", offerdoc.Errorf(offerdoc.EAMBIGUOUS, "%q matched %d values in %s", path, len(values), d.url)
	}
}

// EvalMany returns the non-empty values matched by path in document order.
func (d *Document) EvalMany(path string) ([]string, error) {
	q := parseQuery(path)
	els, err := d.selectElements(q)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(els))
	for _, el := range els {
		var v string
		switch {
		case q.attr != "":
			a := el.SelectAttr(q.attr)
			if a == nil {
				continue
			}
			v = strings.TrimSpace(a.Value)
		case q.ownText:
			v = ownText(el)
		default:
			v = d.tree.text(el)
		}
		if v != "" {
			values = append(values, v)
		}
	}
	return values, nil
}

// Nodes returns sub-views rooted at the elements matched by path.
func (d *Document) Nodes(path string) ([]offerdoc.Document, error) {
	els, err := d.selectElements(parseQuery(path))
	if err != nil {
		return nil, err
	}
	docs := make([]offerdoc.Document, 0, len(els))
	for _, el := range els {
		docs = append(docs, &Document{url: d.url, tree: d.tree, el: el})
	}
	return docs, nil
}

// query is a path split into its element selection and its value step.
type query struct {
	path    string
	css     bool
	attr    string
	ownText bool
}

func parseQuery(path string) query {
	var q query
	p := strings.TrimSpace(path)
	if rest, ok := strings.CutPrefix(p, "css:"); ok {
		q.css = true
		p = strings.TrimSpace(rest)
	}
	if rest, ok := strings.CutSuffix(p, "text()"); ok && (rest == "" || strings.HasSuffix(rest, "/")) {
		q.ownText = true
		p = strings.TrimSuffix(rest, "/")
	} else if i := strings.LastIndex(p, "@"); i >= 0 && (i == 0 || p[i-1] == '/') && !strings.ContainsAny(p[i+1:], "/[]()='\" ") {
		q.attr = p[i+1:]
		p = strings.TrimSuffix(p[:i], "/")
	}
	if p == "" {
		p = "."
	}
	q.path = p
	return q
}

func (d *Document) selectElements(q query) ([]*etree.Element, error) {
	if q.css {
		if q.path == "." {
			return []*etree.Element{d.el}, nil
		}
		nodes, err := goquery.Select(d.tree.nodes[d.el], q.path)
		if err != nil {
			return nil, err
		}
		els := make([]*etree.Element, 0, len(nodes))
		for _, n := range nodes {
			if el, ok := d.tree.elements[n]; ok {
				els = append(els, el)
			}
		}
		return els, nil
	}

	path, err := compilePath(q.path)
	if err != nil {
		return nil, err
	}
	els := d.el.FindElementsPath(path)
	sort.SliceStable(els, func(i, j int) bool {
		return d.tree.order[els[i]] < d.tree.order[els[j]]
	})
	out := els[:0]
	for i, el := range els {
		if i == 0 || el != els[i-1] {
			out = append(out, el)
		}
	}
	return out, nil
}

// paths caches compiled etree paths by source string.
var paths sync.Map

func compilePath(s string) (etree.Path, error) {
	if p, ok := paths.Load(s); ok {
		return p.(etree.Path), nil
	}
	p, err := etree.CompilePath(s)
	if err != nil {
		return etree.Path{}, offerdoc.Errorf(offerdoc.EINVALID, "invalid path %q: %v", s, err)
	}
	actual, _ := paths.LoadOrStore(s, p)
	return actual.(etree.Path), nil
}
