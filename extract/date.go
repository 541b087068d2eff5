package extract

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/fwojciec/offerdoc"
)

var defaultDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"02.01.2006",
	"2 January 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// months maps localized month names to the English names time.Parse knows.
// Replacer compares in argument order, so "junio" precedes "juni".
var months = strings.NewReplacer(
	"janvier", "January", "février", "February", "fevrier", "February",
	"mars", "March", "avril", "April", "mai", "May", "juin", "June",
	"juillet", "July", "août", "August", "aout", "August",
	"septembre", "September", "octobre", "October", "novembre", "November",
	"décembre", "December", "decembre", "December",
	"enero", "January", "febrero", "February", "marzo", "March", "abril", "April",
	"mayo", "May", "junio", "June", "julio", "July", "agosto", "August",
	"septiembre", "September", "octubre", "October", "noviembre", "November",
	"diciembre", "December",
	"januar", "January", "februar", "February", "märz", "March",
	"juni", "June", "juli", "July", "oktober", "October", "dezember", "December",
)

// parseDate reads a review or question date using the provider
// conventions, falling back to dateparse for formats no layout covers.
// It returns nil when the date cannot be read.
func parseDate(p offerdoc.ProviderConfig, raw string) *time.Time {
	s := strings.TrimSpace(raw)
	for _, prefix := range p.DatePrefixes {
		if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
			s = strings.TrimSpace(s[len(prefix):])
		}
	}
	if p.DateCutToken != "" {
		if i := strings.Index(s, p.DateCutToken); i >= 0 {
			s = strings.TrimSpace(s[:i])
		}
	}

	if s == "" {
		return nil
	}

	layouts := defaultDateLayouts
	if p.DateFormat != "" {
		layouts = append([]string{p.DateFormat}, defaultDateLayouts...)
	}
	translated := strings.TrimPrefix(strings.ToLower(s), "le ")
	translated = months.Replace(strings.Replace(translated, "1er ", "1 ", 1))
	for _, candidate := range []string{s, translated} {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				t = t.UTC()
				return &t
			}
		}
	}
	for _, candidate := range []string{s, translated} {
		if t, err := dateparse.ParseIn(candidate, time.UTC); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
