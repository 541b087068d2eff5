package bloom_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/offerdoc/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_Seen(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.001)

	assert.False(t, f.Seen("https://shop.example/p/1"))
	assert.True(t, f.Seen("https://shop.example/p/1"))
	assert.False(t, f.Seen("https://shop.example/p/2"))
}

func TestFilter_SameOfferVariants(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.001)
	f.Seen("https://shop.example/p/1")

	assert.True(t, f.Contains("https://shop.example/p/1#reviews"))
	assert.True(t, f.Contains("HTTPS://SHOP.EXAMPLE/p/1"))
	assert.True(t, f.Contains("  https://shop.example/p/1 "))
	assert.False(t, f.Contains("https://shop.example/P/1"), "paths are case sensitive")
}

func TestFilter_ContainsDoesNotRecord(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.001)

	assert.False(t, f.Contains("https://shop.example/p/1"))
	assert.False(t, f.Seen("https://shop.example/p/1"))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)
	assert.Equal(t, uint(0), f.EstimatedCount())

	for i := range 3 {
		f.Seen(fmt.Sprintf("https://shop.example/p/%d", i))
	}

	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestFilter_Concurrent(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(10000, 0.001)

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				f.Seen(fmt.Sprintf("https://shop.example/%d/%d", w, i))
			}
		}()
	}
	wg.Wait()

	for w := range 8 {
		assert.True(t, f.Contains(fmt.Sprintf("https://shop.example/%d/99", w)))
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://shop.example/p/1?x=1", bloom.Key("HTTPS://Shop.Example/p/1?x=1#top"))
}
