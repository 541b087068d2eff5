package etree

import (
	"strings"

	"github.com/beevik/etree"
)

// skipped holds tags whose content is never part of an ancestor's text.
var skipped = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// text renders the text content of el. Without delimiter tags each text
// node becomes a line. With delimiter tags, text nodes are concatenated and
// a line starts only at a delimiter tag.
func (t *tree) text(el *etree.Element) string {
	if len(t.delimiters) == 0 {
		var lines []string
		walkText(el, true, func(s string) {
			if s = collapse(s); s != "" {
				lines = append(lines, s)
			}
		}, nil)
		return strings.Join(lines, "\n")
	}

	var b strings.Builder
	walkText(el, true, func(s string) {
		b.WriteString(strings.NewReplacer("\r", " ", "\n", " ").Replace(s))
	}, func(child *etree.Element) {
		if t.delimiters[child.Tag] {
			b.WriteByte('\n')
		}
	})
	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = collapse(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// walkText visits the character data below el in document order. enter is
// called before each descendant element is visited.
func walkText(el *etree.Element, root bool, visit func(string), enter func(*etree.Element)) {
	if !root && skipped[el.Tag] {
		return
	}
	for _, tok := range el.Child {
		switch c := tok.(type) {
		case *etree.CharData:
			visit(c.Data)
		case *etree.Element:
			if enter != nil {
				enter(c)
			}
			walkText(c, false, visit, enter)
		}
	}
}

// ownText returns the direct text children of el.
func ownText(el *etree.Element) string {
	var parts []string
	for _, tok := range el.Child {
		if c, ok := tok.(*etree.CharData); ok {
			if s := collapse(c.Data); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, " ")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
