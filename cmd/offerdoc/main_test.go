package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/offerdoc"
	main "github.com/fwojciec/offerdoc/cmd/offerdoc"
	"github.com/fwojciec/offerdoc/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("help shows kong output", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "test.db")
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Usage:")
		assert.Contains(t, stdout.String(), "extract")
	})

	t.Run("fails without a command", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "test.db")

		err := m.Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("lists operations without opening the database", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = "/nonexistent/dir/offerdoc.db"
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"operations"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, expr.Operations(), strings.Fields(stdout.String()))
	})

	t.Run("history reports unknown offers", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "test.db")
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"history", "https://shop.example/p/1"}, &bytes.Buffer{}, stderr)

		assert.Equal(t, offerdoc.ENOTFOUND, offerdoc.ErrorCode(err))
		assert.Contains(t, stderr.String(), "fragment not found")
	})

	t.Run("reports database errors with a hint", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = "/nonexistent/dir/offerdoc.db"
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"history", "https://shop.example/p/1"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "OFFERDOC_DB")
	})
}
