package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopYAML = `
name: shop
locale: fr
delimiterTags: [br, li]
provider:
  ratingMin: 0
  ratingMax: 10
  defaultCurrency: EUR
  referentialAliases:
    BRAND: [Marque]
extractors:
  - kind: field
    field:
      names: ["//h1"]
      price: "//span[@class='price']"
  - kind: table
    table:
      rows: "//table[@class='specs']//tr"
  - kind: deep
    deep:
      url: "//a[@class='specs']/@href"
      pageParam: page
      maxPages: 3
      extractors:
        - kind: table
          table:
            pairs: "//li"
`

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("reads yaml", func(t *testing.T) {
		t.Parallel()

		path := write(t, t.TempDir(), "shop.yaml", shopYAML)

		cfg, err := config.Load(path)

		require.NoError(t, err)
		assert.Equal(t, "shop", cfg.Name)
		assert.Equal(t, "fr", cfg.Locale)
		assert.Equal(t, []string{"br", "li"}, cfg.DelimiterTags)
		require.NotNil(t, cfg.Provider.RatingMax)
		assert.Equal(t, 10.0, *cfg.Provider.RatingMax)
		assert.Equal(t, []string{"Marque"}, cfg.Provider.ReferentialAliases["BRAND"])
		require.Len(t, cfg.Extractors, 3)
		assert.Equal(t, []string{"//h1"}, cfg.Extractors[0].Field.Names)
		require.NotNil(t, cfg.Extractors[2].Deep)
		assert.Equal(t, 3, cfg.Extractors[2].Deep.MaxPages)
		assert.Equal(t, "//li", cfg.Extractors[2].Deep.Extractors[0].Table.Pairs)
	})

	t.Run("reads json5", func(t *testing.T) {
		t.Parallel()

		path := write(t, t.TempDir(), "shop.json5", `{
			// trailing commas and comments are allowed
			name: "shop",
			extractors: [
				{kind: "rating", rating: {value: "//span[@class='avg']", types: ["USER"]}},
			],
		}`)

		cfg, err := config.Load(path)

		require.NoError(t, err)
		require.Len(t, cfg.Extractors, 1)
		assert.Equal(t, offerdoc.ExtractorRating, cfg.Extractors[0].Kind)
		assert.Equal(t, []string{"USER"}, cfg.Extractors[0].Rating.Types)
	})

	t.Run("applies local overrides", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := write(t, dir, "shop.yaml", shopYAML)
		write(t, dir, "shop.local.yaml", "locale: en\nprovider:\n  defaultCurrency: CHF\n")

		cfg, err := config.Load(path)

		require.NoError(t, err)
		assert.Equal(t, "en", cfg.Locale)
		assert.Equal(t, "CHF", cfg.Provider.DefaultCurrency)
		assert.Equal(t, "shop", cfg.Name)
		assert.Len(t, cfg.Extractors, 3)
	})

	t.Run("fills provider gaps with defaults", func(t *testing.T) {
		t.Parallel()

		path := write(t, t.TempDir(), "shop.yaml", shopYAML)

		cfg, err := config.Load(path)

		require.NoError(t, err)
		assert.Equal(t, config.DefaultProvider().DatePrefixes, cfg.Provider.DatePrefixes)
	})

	t.Run("keeps provider values over defaults", func(t *testing.T) {
		t.Parallel()

		path := write(t, t.TempDir(), "shop.yaml", "name: shop\nprovider:\n  datePrefixes: [\"Le \"]\nextractors:\n  - kind: resources\n")

		cfg, err := config.Load(path)

		require.NoError(t, err)
		assert.Equal(t, []string{"Le "}, cfg.Provider.DatePrefixes)
	})

	t.Run("rejects invalid configurations", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		tests := map[string]string{
			"noname.yaml":  "extractors:\n  - kind: field\n",
			"empty.yaml":   "name: shop\n",
			"broken.yaml":  "name: [shop\n",
			"shop.toml":    "name = 'shop'\n",
			"broken.json5": "{name: ",
		}
		for name, content := range tests {
			_, err := config.Load(write(t, dir, name, content))
			assert.Equal(t, offerdoc.ECONFIG, offerdoc.ErrorCode(err), name)
		}

		_, err := config.Load(filepath.Join(dir, "missing.yaml"))
		assert.Equal(t, offerdoc.ECONFIG, offerdoc.ErrorCode(err))
	})
}

func TestLoadAll(t *testing.T) {
	t.Parallel()

	t.Run("loads every file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		a := write(t, dir, "a.yaml", "name: a\nextractors:\n  - kind: resources\n")
		b := write(t, dir, "b.json", `{"name": "b", "extractors": [{"kind": "resources"}]}`)

		cfgs, err := config.LoadAll([]string{a, b})

		require.NoError(t, err)
		require.Len(t, cfgs, 2)
		assert.Equal(t, "a", cfgs[0].Name)
		assert.Equal(t, "b", cfgs[1].Name)
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		a := write(t, dir, "a.yaml", "name: shop\nextractors:\n  - kind: resources\n")
		b := write(t, dir, "b.yaml", "name: shop\nextractors:\n  - kind: resources\n")

		_, err := config.LoadAll([]string{a, b})

		assert.Equal(t, offerdoc.ECONFIG, offerdoc.ErrorCode(err))
	})
}

func TestLocalPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "conf/shop.local.yaml", config.LocalPath("conf/shop.yaml"))
	assert.Equal(t, "shop.local.json5", config.LocalPath("shop.json5"))
}
