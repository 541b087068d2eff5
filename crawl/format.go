package crawl

import (
	"fmt"
	"strings"

	"github.com/fwojciec/offerdoc"
)

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatPrice formats a price with two decimals followed by its currency.
func FormatPrice(p offerdoc.Price) string {
	return fmt.Sprintf("%.2f %s", p.Value, p.Currency)
}

// FormatResult summarizes a batch on one line. Zero counters other than
// Processed are left out.
func FormatResult(r *Result) string {
	parts := []string{fmt.Sprintf("%d processed", r.Processed)}
	for _, c := range []struct {
		n    int
		what string
	}{
		{r.Evicted, "evicted"},
		{r.Invalid, "invalid"},
		{r.Failed, "failed"},
		{r.Skipped, "duplicate"},
	} {
		if c.n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c.n, c.what))
		}
	}
	return strings.Join(parts, ", ")
}
