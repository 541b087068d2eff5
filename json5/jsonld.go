package json5

import (
	"strings"

	"github.com/fwojciec/offerdoc"
	"github.com/titanous/json5"
)

var quoteEntities = strings.NewReplacer(
	"&quot;", `"`,
	"&#34;", `"`,
	"&#x22;", `"`,
	"&#039;", "'",
	"&#39;", "'",
	"\r", " ",
	"\n", " ",
	"\t", " ",
)

// Repair cleans a JSON-LD block scraped from markup: entity-escaped quotes
// are restored, raw newlines, invalid inside JSON strings, become spaces and
// anything outside the first balanced object or array that decodes is
// dropped, so CDATA markers and script noise around the block are ignored.
// Returns EINVALID if the text holds no decodable object or array.
func Repair(raw string) (string, error) {
	s := quoteEntities.Replace(raw)

	for start := 0; start < len(s); start++ {
		if s[start] != '{' && s[start] != '[' {
			continue
		}
		end := closingIndex(s, start)
		if end < 0 {
			continue
		}
		span := s[start : end+1]
		var v any
		if err := json5.Unmarshal([]byte(span), &v); err == nil {
			return span, nil
		}
	}
	return "", offerdoc.Errorf(offerdoc.EINVALID, "no JSON object in block")
}

// closingIndex returns the index of the bracket closing the one at start,
// skipping brackets inside quoted strings, or -1 if it is never closed.
func closingIndex(s string, start int) int {
	var stack []byte
	var quote byte
	for i := start; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}

// Locate returns the first candidate block containing substr, or the first
// block holding an object when substr is empty.
// Returns ENOTFOUND if no candidate qualifies.
func Locate(candidates []string, substr string) (string, error) {
	for _, c := range candidates {
		if substr == "" && strings.ContainsAny(c, "{[") {
			return c, nil
		}
		if substr != "" && strings.Contains(c, substr) {
			return c, nil
		}
	}
	if substr == "" {
		return "", offerdoc.Errorf(offerdoc.ENOTFOUND, "no JSON-LD block")
	}
	return "", offerdoc.Errorf(offerdoc.ENOTFOUND, "no JSON-LD block contains %q", substr)
}

// ParseJSONLD repairs and decodes a JSON-LD block found on the page at url.
func ParseJSONLD(url, block string) (*Document, error) {
	repaired, err := Repair(block)
	if err != nil {
		return nil, err
	}
	return Parse(url, []byte(repaired))
}
