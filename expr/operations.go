package expr

import (
	"html"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Operation is a pure string transform applied to an evaluated value.
type Operation func(string) string

var operations = map[string]Operation{
	"UPPERCASE":           strings.ToUpper,
	"LOWERCASE":           strings.ToLower,
	"CAPITALIZE":          capitalize,
	"TRIM":                strings.TrimSpace,
	"NORMALIZE_SPACE":     normalizeSpace,
	"REMOVE_STARS_PREFIX": removeStarsPrefix,
	"DATE_FROM_SENTENCE":  dateFromSentence,
	"GRADE_TO_NUMBER":     gradeToNumber,
	"DIGITS_ONLY":         digitsOnly,
	"COMMA_TO_DOT":        func(s string) string { return strings.ReplaceAll(s, ",", ".") },
	"AFTER_COLON":         afterColon,
	"REMOVE_PARENTHESES":  removeParentheses,
	"FIRST_WORD":          firstWord,
	"LAST_WORD":           lastWord,
	"PERCENT_TO_FIVE":     percentToFive,
	"HTML_UNESCAPE":       html.UnescapeString,
	"URL_DECODE":          urlDecode,
	"STRIP_QUERY":         stripQuery,
	"FIRST_LINE":          firstLine,
}

// Lookup returns the operation registered under name.
func Lookup(name string) (Operation, bool) {
	op, ok := operations[strings.ToUpper(strings.TrimSpace(name))]
	return op, ok
}

// Operations returns the names of every operation, sorted.
func Operations() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// capitalize title-cases each word. Casers are stateful, so one is built
// per call.
func capitalize(s string) string {
	return cases.Title(language.Und).String(s)
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// removeStarsPrefix turns a rating CSS class such as "stars-4" into "4".
// Leading star glyphs are dropped as well.
func removeStarsPrefix(s string) string {
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return r == '*' || r == '★' || r == '☆' || unicode.IsSpace(r)
	})
	if len(s) >= len(starsPrefix) && strings.EqualFold(s[:len(starsPrefix)], starsPrefix) {
		s = s[len(starsPrefix):]
	}
	return s
}

const starsPrefix = "stars-"

var sentenceDate = regexp.MustCompile(`\d{4}-\d{2}-\d{2}|\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}|\d{1,2}(?:er)?\s+\pL+\.?\s+\d{4}`)

// dateFromSentence returns the first date-looking token of a sentence such
// as "Reviewed in France on 12 March 2024".
func dateFromSentence(s string) string {
	if m := sentenceDate.FindString(s); m != "" {
		return m
	}
	return s
}

var grades = map[string]string{
	"A+": "10", "A": "9.5", "A-": "9",
	"B+": "8.5", "B": "8", "B-": "7.5",
	"C+": "7", "C": "6.5", "C-": "6",
	"D+": "5.5", "D": "5", "D-": "4.5",
	"E+": "4", "E": "3.5", "E-": "3",
	"F+": "2.5", "F": "2", "F-": "1.5",
}

// gradeToNumber maps a letter grade to a score out of ten. Unknown grades
// are returned unchanged.
func gradeToNumber(s string) string {
	if n, ok := grades[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return n
	}
	return s
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func afterColon(s string) string {
	if i := strings.Index(s, ":"); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

var parenthesized = regexp.MustCompile(`\s*\([^)]*\)`)

func removeParentheses(s string) string {
	return strings.TrimSpace(parenthesized.ReplaceAllString(s, ""))
}

func firstWord(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

func lastWord(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[len(fields)-1]
	}
	return ""
}

var decimal = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// percentToFive converts a percentage score to a five-point scale ("80%" is "4").
func percentToFive(s string) string {
	m := decimal.FindString(s)
	if m == "" {
		return s
	}
	v, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
	if err != nil {
		return s
	}
	return strconv.FormatFloat(v/20, 'f', -1, 64)
}

func urlDecode(s string) string {
	if decoded, err := url.QueryUnescape(s); err == nil {
		return decoded
	}
	return s
}

func stripQuery(s string) string {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		return s[:i]
	}
	return s
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
