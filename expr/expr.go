// Package expr implements the extraction expression language. An expression
// is a document path followed by operations, separated by "::":
//
//	//span[@class='price']/text()::COMMA_TO_DOT::TRIM
//
// A quoted ('EUR', "EUR") or numeric head is a literal and is returned
// without reading the document.
package expr

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/fwojciec/offerdoc"
)

// Separator splits the path from its operations.
const Separator = "::"

// Expression is a parsed extraction expression.
type Expression struct {
	Raw        string
	Path       string
	Literal    string
	IsLiteral  bool
	Operations []string
}

// Parse splits raw into its path or literal and its operation names.
func Parse(raw string) Expression {
	parts := strings.Split(raw, Separator)
	x := Expression{Raw: raw, Path: strings.TrimSpace(parts[0])}
	for _, p := range parts[1:] {
		if name := strings.ToUpper(strings.TrimSpace(p)); name != "" {
			x.Operations = append(x.Operations, name)
		}
	}

	head := x.Path
	if len(head) >= 2 && (head[0] == '\'' || head[0] == '"') && head[len(head)-1] == head[0] {
		x.Literal, x.IsLiteral, x.Path = head[1:len(head)-1], true, ""
	} else if _, err := strconv.ParseFloat(head, 64); err == nil {
		x.Literal, x.IsLiteral, x.Path = head, true, ""
	}
	return x
}

// Evaluator evaluates expressions against documents. It is safe for
// concurrent use.
type Evaluator struct {
	logger *slog.Logger
}

// NewEvaluator creates an Evaluator reporting unknown operations to logger.
func NewEvaluator(logger *slog.Logger) *Evaluator {
	return &Evaluator{logger: logger}
}

// EvalOne evaluates raw to a single value. Literals are returned as is.
// Returns ENOTFOUND when nothing (or only whitespace) remains after the
// operations and EAMBIGUOUS when the path matches several values.
func (e *Evaluator) EvalOne(doc offerdoc.Document, raw string) (string, error) {
	x := Parse(raw)
	if x.IsLiteral {
		return x.Literal, nil
	}
	if x.Path == "" {
		return "", offerdoc.Errorf(offerdoc.EINVALID, "empty expression %q", raw)
	}
	v, err := doc.EvalOne(x.Path)
	if err != nil {
		return "", err
	}
	v = strings.TrimSpace(e.Apply(x, v))
	if v == "" {
		return "", offerdoc.Errorf(offerdoc.ENOTFOUND, "%q evaluated to an empty value", raw)
	}
	return v, nil
}

// EvalMany evaluates raw to every matched value. Values left empty by the
// operations are dropped.
func (e *Evaluator) EvalMany(doc offerdoc.Document, raw string) ([]string, error) {
	x := Parse(raw)
	if x.IsLiteral {
		return []string{x.Literal}, nil
	}
	if x.Path == "" {
		return nil, offerdoc.Errorf(offerdoc.EINVALID, "empty expression %q", raw)
	}
	values, err := doc.EvalMany(x.Path)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(e.Apply(x, v)); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

// Apply runs the operations of x over value in order. Unknown operations
// are logged and skipped.
func (e *Evaluator) Apply(x Expression, value string) string {
	for _, name := range x.Operations {
		op, ok := operations[name]
		if !ok {
			e.logger.Warn("unknown operation", "operation", name, "expression", x.Raw)
			continue
		}
		value = op(value)
	}
	return value
}
