package slog_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/mock"
	offerslog "github.com/fwojciec/offerdoc/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFragmentStore(t *testing.T) {
	t.Parallel()

	t.Run("logs lookups", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.FragmentStore{
			FindFragmentByURLFn: func(context.Context, string) (*offerdoc.Fragment, error) {
				return nil, offerdoc.Errorf(offerdoc.ENOTFOUND, "fragment not found")
			},
		}

		store := offerslog.NewLoggingFragmentStore(inner, newLogger(&buf))
		_, err := store.FindFragmentByURL(context.Background(), "https://shop.example/p/1")

		assert.Equal(t, offerdoc.ENOTFOUND, offerdoc.ErrorCode(err))
		output := buf.String()
		assert.Contains(t, output, `msg="find fragment"`)
		assert.Contains(t, output, "found=false")
	})

	t.Run("logs saves", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		var saved *offerdoc.Fragment
		inner := &mock.FragmentStore{
			SaveFragmentFn: func(_ context.Context, f *offerdoc.Fragment) error {
				saved = f
				return nil
			},
		}
		f := offerdoc.NewFragment("https://shop.example/p/1", "shop")
		f.PriceHistory = []offerdoc.Price{{Value: 10, Currency: "EUR"}}

		store := offerslog.NewLoggingFragmentStore(inner, newLogger(&buf))
		require.NoError(t, store.SaveFragment(context.Background(), f))

		assert.Same(t, f, saved)
		output := buf.String()
		assert.Contains(t, output, `msg="save fragment"`)
		assert.Contains(t, output, "datasource=shop")
		assert.Contains(t, output, "history=1")
	})

	t.Run("logs price history size", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.FragmentStore{
			FindPriceHistoryFn: func(context.Context, string) ([]offerdoc.Price, error) {
				return []offerdoc.Price{{Value: 10, Currency: "EUR"}, {Value: 12, Currency: "EUR"}}, nil
			},
		}

		store := offerslog.NewLoggingFragmentStore(inner, newLogger(&buf))
		prices, err := store.FindPriceHistory(context.Background(), "https://shop.example/p/1")

		require.NoError(t, err)
		assert.Len(t, prices, 2)
		assert.Contains(t, buf.String(), "count=2")
	})
}

func TestLoggingIndexer_IndexFragment(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	called := false
	inner := &mock.FragmentIndexer{
		IndexFragmentFn: func(context.Context, *offerdoc.Fragment) error {
			called = true
			return nil
		},
	}

	idx := offerslog.NewLoggingIndexer(inner, newLogger(&buf))
	err := idx.IndexFragment(context.Background(), offerdoc.NewFragment("https://shop.example/p/1", "shop"))

	require.NoError(t, err)
	assert.True(t, called)
	output := buf.String()
	assert.Contains(t, output, `msg="index fragment"`)
	assert.Contains(t, output, "url=https://shop.example/p/1")
}
