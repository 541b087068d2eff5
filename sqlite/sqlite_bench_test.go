package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkSaveFragment simulates a batch writing many offers, each with a
// short price history.
func BenchmarkSaveFragment(b *testing.B) {
	b.Run("memory", func(b *testing.B) {
		benchmarkSaveFragment(b, ":memory:")
	})

	b.Run("wal_file", func(b *testing.B) {
		benchmarkSaveFragment(b, filepath.Join(b.TempDir(), "bench.db"))
	})
}

func benchmarkSaveFragment(b *testing.B, path string) {
	b.Helper()

	db := sqlite.NewDB(path)
	require.NoError(b, db.Open())
	defer db.Close()

	svc := sqlite.NewFragmentService(db)
	ctx := context.Background()
	now := time.Now().UTC()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f := offerdoc.NewFragment(fmt.Sprintf("https://shop.example/p/%d", i%500), "shop")
		f.AddName(fmt.Sprintf("Offer %d", i))
		f.PriceHistory = []offerdoc.Price{
			{Value: 10, Currency: "EUR", Timestamp: now},
			{Value: float64(i % 50), Currency: "EUR", Timestamp: now},
		}
		if err := svc.SaveFragment(ctx, f); err != nil {
			b.Fatal(err)
		}
	}
}
