package slog_test

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/extract"
	offerslog "github.com/fwojciec/offerdoc/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRegistry_Build(t *testing.T) {
	t.Parallel()

	env := extract.NewEnv(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	t.Run("logs built kinds", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := offerslog.NewLoggingRegistry(extract.NewDefaultRegistry(env), newLogger(&buf))
		ds := &offerdoc.DatasourceConfig{
			Name: "shop",
			Extractors: []offerdoc.ExtractorConfig{
				{Kind: offerdoc.ExtractorField, Field: &offerdoc.FieldConfig{Names: []string{"//h1"}}},
				{Kind: offerdoc.ExtractorResources},
			},
		}

		xs, err := r.Build(ds)

		require.NoError(t, err)
		assert.Len(t, xs, 2)
		output := buf.String()
		assert.Contains(t, output, `msg="build extractors"`)
		assert.Contains(t, output, "datasource=shop")
		assert.Contains(t, output, "kinds=\"[field resources]\"")
	})

	t.Run("logs build errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := offerslog.NewLoggingRegistry(extract.NewDefaultRegistry(env), newLogger(&buf))

		_, err := r.Build(&offerdoc.DatasourceConfig{Name: "shop", Extractors: []offerdoc.ExtractorConfig{{Kind: "magic"}}})

		assert.Equal(t, offerdoc.ECONFIG, offerdoc.ErrorCode(err))
		assert.Contains(t, buf.String(), "err=")
	})

	t.Run("delegates registration", func(t *testing.T) {
		t.Parallel()

		r := offerslog.NewLoggingRegistry(extract.NewRegistry(), newLogger(&bytes.Buffer{}))
		r.Register(offerdoc.ExtractorTable, func(offerdoc.ExtractorConfig, *offerdoc.DatasourceConfig) (offerdoc.Extractor, error) {
			return nil, nil
		})

		assert.Equal(t, []string{offerdoc.ExtractorTable}, r.Kinds())
	})
}
