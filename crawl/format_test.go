package crawl_test

import (
	"testing"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/crawl"
	"github.com/stretchr/testify/assert"
)

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	t.Run("returns URL unchanged when shorter than max", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "https://x.com", crawl.TruncateURL("https://x.com", 50))
	})

	t.Run("keeps the end of long URLs", func(t *testing.T) {
		t.Parallel()
		result := crawl.TruncateURL("https://shop.example/catalog/dental/sonicare-9900", 20)
		assert.Equal(t, "...tal/sonicare-9900", result)
		assert.Len(t, result, 20)
	})

	t.Run("returns empty string when maxLen is not positive", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, crawl.TruncateURL("https://shop.example", 0))
		assert.Empty(t, crawl.TruncateURL("https://shop.example", -1))
	})

	t.Run("cuts without ellipsis when maxLen is tiny", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "htt", crawl.TruncateURL("https://shop.example", 3))
	})
}

func TestFormatPrice(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "129.99 EUR", crawl.FormatPrice(offerdoc.Price{Value: 129.99, Currency: "EUR"}))
	assert.Equal(t, "5.00 USD", crawl.FormatPrice(offerdoc.Price{Value: 5, Currency: "USD"}))
}

func TestFormatResult(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0 processed", crawl.FormatResult(&crawl.Result{}))
	assert.Equal(t, "3 processed, 1 evicted, 2 failed, 1 duplicate",
		crawl.FormatResult(&crawl.Result{Processed: 3, Evicted: 1, Failed: 2, Skipped: 1}))
}
