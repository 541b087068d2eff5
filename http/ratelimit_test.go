package http_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/offerdoc"
	offerhttp "github.com/fwojciec/offerdoc/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		host string
		want string
	}{
		{"shop.example", "shop.example"},
		{"WWW.Shop.Example", "shop.example"},
		{"shop.example:8443", "shop.example"},
		{" www.shop.example:443 ", "shop.example"},
		{"wwwshop.example", "wwwshop.example"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, offerhttp.HostKey(tt.host), tt.host)
	}
}

func TestMerchantLimiter(t *testing.T) {
	t.Parallel()

	t.Run("first request to a merchant is immediate", func(t *testing.T) {
		t.Parallel()

		l := offerhttp.NewMerchantLimiter(10)

		start := time.Now()
		require.NoError(t, l.Wait(context.Background(), "shop.example"))
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("aliases of one host share a bucket", func(t *testing.T) {
		t.Parallel()

		l := offerhttp.NewMerchantLimiter(10)
		require.NoError(t, l.Wait(context.Background(), "www.shop.example"))

		start := time.Now()
		require.NoError(t, l.Wait(context.Background(), "SHOP.example:443"))
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("merchants do not wait for each other", func(t *testing.T) {
		t.Parallel()

		l := offerhttp.NewMerchantLimiter(10)
		require.NoError(t, l.Wait(context.Background(), "shop.example"))

		start := time.Now()
		require.NoError(t, l.Wait(context.Background(), "other.example"))
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("non-positive rate disables limiting", func(t *testing.T) {
		t.Parallel()

		l := offerhttp.NewMerchantLimiter(0)

		start := time.Now()
		for range 20 {
			require.NoError(t, l.Wait(context.Background(), "shop.example"))
		}
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("canceled context stops waiting", func(t *testing.T) {
		t.Parallel()

		l := offerhttp.NewMerchantLimiter(1)
		require.NoError(t, l.Wait(context.Background(), "shop.example"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, l.Wait(ctx, "shop.example"))
	})
}

func TestLimiterFor(t *testing.T) {
	t.Parallel()

	t.Run("uses the provider rate", func(t *testing.T) {
		t.Parallel()

		ds := &offerdoc.DatasourceConfig{Name: "shop", Provider: offerdoc.ProviderConfig{RequestsPerSecond: 10}}
		l := offerhttp.LimiterFor(ds, 0)
		require.NoError(t, l.Wait(context.Background(), "shop.example"))

		start := time.Now()
		require.NoError(t, l.Wait(context.Background(), "shop.example"))
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("falls back without a provider rate", func(t *testing.T) {
		t.Parallel()

		l := offerhttp.LimiterFor(&offerdoc.DatasourceConfig{Name: "shop"}, 0)

		start := time.Now()
		require.NoError(t, l.Wait(context.Background(), "shop.example"))
		require.NoError(t, l.Wait(context.Background(), "shop.example"))
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})
}
