// Package json5 implements offerdoc.Document over JSON. Feeds are decoded
// leniently with github.com/titanous/json5, which also accepts the
// comments, trailing commas and single quotes found in hand-written
// merchant payloads.
//
// Paths are slash-separated pointers. A numeric step indexes an array,
// "last" selects the last element of the array reached so far and "*" fans
// out over every element or value:
//
//	/offers/last/price
//	/@graph/*/name
package json5

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/fwojciec/offerdoc"
	"github.com/titanous/json5"
)

var _ offerdoc.Document = (*Document)(nil)

// Document is a view rooted at one value of a decoded JSON document.
type Document struct {
	url  string
	name string
	root any
}

// Parse decodes data. Numbers keep their literal text.
// Returns EINVALID if data is not JSON.
func Parse(url string, data []byte) (*Document, error) {
	dec := json5.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, offerdoc.Errorf(offerdoc.EINVALID, "decode JSON from %s: %v", url, err)
	}
	return &Document{url: url, root: normalize(v)}, nil
}

// NewDocument wraps an already decoded value.
func NewDocument(url string, v any) *Document {
	return &Document{url: url, root: normalize(v)}
}

// normalize rewrites json5 numbers as json.Number so values marshal back to
// numbers.
func normalize(v any) any {
	switch x := v.(type) {
	case json5.Number:
		return json.Number(x.String())
	case map[string]any:
		for k, child := range x {
			x[k] = normalize(child)
		}
	case []any:
		for i, child := range x {
			x[i] = normalize(child)
		}
	}
	return v
}

// URL returns the address of the feed.
func (d *Document) URL() string { return d.url }

// Kind returns offerdoc.KindJSON.
func (d *Document) Kind() offerdoc.DocumentKind { return offerdoc.KindJSON }

// Name returns the key or index under which the view root was found.
func (d *Document) Name() string { return d.name }

// Text renders the view root.
func (d *Document) Text() string { return render(d.root) }

// Value returns the decoded view root.
func (d *Document) Value() any { return d.root }

// EvalOne returns the single value at path.
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

// EvalMany returns every non-null value at path. Scalars render as their
// literal text, objects and arrays as compact JSON.
func (d *Document) EvalMany(path string) ([]string, error) {
	matches, err := d.resolve(path)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(matches))
	for _, m := range matches {
		if s := strings.TrimSpace(render(m.value)); s != "" {
			values = append(values, s)
		}
	}
	return values, nil
}

// Nodes returns sub-views rooted at every value at path.
func (d *Document) Nodes(path string) ([]offerdoc.Document, error) {
	matches, err := d.resolve(path)
	if err != nil {
		return nil, err
	}
	docs := make([]offerdoc.Document, 0, len(matches))
	for _, m := range matches {
		docs = append(docs, &Document{url: d.url, name: m.name, root: m.value})
	}
	return docs, nil
}

type match struct {
	name  string
	value any
}

func (d *Document) resolve(path string) ([]match, error) {
	path = strings.TrimSpace(path)
	path = strings.TrimPrefix(path, ".")
	path = strings.Trim(path, "/")
	current := []match{{name: d.name, value: d.root}}
	if path == "" {
		return current, nil
	}
	for _, raw := range strings.Split(path, "/") {
		if raw == "" {
			return nil, offerdoc.Errorf(offerdoc.EINVALID, "empty step in path %q", path)
		}
		step := strings.NewReplacer("~1", "/", "~0", "~").Replace(raw)
		var next []match
		for _, m := range current {
			next = append(next, descend(m.value, step)...)
		}
		current = next
		if len(current) == 0 {
			break
		}
	}
	return current, nil
}

// descend applies one path step to v.
func descend(v any, step string) []match {
	switch x := v.(type) {
	case []any:
		switch step {
		case "*":
			out := make([]match, 0, len(x))
			for i, child := range x {
				out = append(out, match{name: strconv.Itoa(i), value: child})
			}
			return out
		case "last":
			if len(x) == 0 {
				return nil
			}
			return []match{{name: strconv.Itoa(len(x) - 1), value: x[len(x)-1]}}
		}
		i, err := strconv.Atoi(step)
		if err != nil || i < 0 || i >= len(x) {
			return nil
		}
		return []match{{name: step, value: x[i]}}
	case map[string]any:
		if step == "*" {
			keys := make([]string, 0, len(x))
			for k := range x {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			out := make([]match, 0, len(keys))
			for _, k := range keys {
				out = append(out, match{name: k, value: x[k]})
			}
			return out
		}
		child, ok := x[step]
		if !ok {
			return nil
		}
		return []match{{name: step, value: child}}
	}
	return nil
}

func render(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
