package extract_test

import (
	"context"
	"testing"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/extract"
	"github.com/fwojciec/offerdoc/json5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attributes(f *offerdoc.Fragment) map[string]string {
	out := make(map[string]string)
	for _, a := range f.Attributes() {
		out[a.Name] = a.Value
	}
	return out
}

func TestTableExtractor_Rows(t *testing.T) {
	t.Parallel()

	cfg := offerdoc.TableConfig{Rows: "//table[@class='specs']//tr"}
	f := offerdoc.NewFragment(pageURL, "shop")

	err := extract.NewTableExtractor(newEnv(), cfg, datasource()).Extract(context.Background(), page(t), "fr", f)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"COULEUR": "Blanc", "MARQUE": "Philips"}, attributes(f))
}

func TestTableExtractor_RowsPromoteReferentials(t *testing.T) {
	t.Parallel()

	ds := datasource()
	ds.Provider.ReferentialAliases = map[string][]string{"BRAND": {"Marque"}}
	cfg := offerdoc.TableConfig{Rows: "//table[@class='specs']//tr"}
	f := offerdoc.NewFragment(pageURL, "shop")

	err := extract.NewTableExtractor(newEnv(), cfg, ds).Extract(context.Background(), page(t), "fr", f)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"COULEUR": "Blanc"}, attributes(f))
	assert.Equal(t, "PHILIPS", f.Referential(offerdoc.ReferentialBrand))
}

func TestTableExtractor_Pairs(t *testing.T) {
	t.Parallel()

	cfg := offerdoc.TableConfig{Pairs: "//ul[@class='features']/li"}
	f := offerdoc.NewFragment(pageURL, "shop")

	err := extract.NewTableExtractor(newEnv(), cfg, datasource()).Extract(context.Background(), page(t), "fr", f)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"BATTERY": "14 days", "MODES": "5"}, attributes(f))
}

func TestTableExtractor_Lists(t *testing.T) {
	t.Parallel()

	t.Run("zipped positionally", func(t *testing.T) {
		t.Parallel()

		cfg := offerdoc.TableConfig{
			Keys:   "//div[@class='review']/span[@class='author']",
			Values: "//div[@class='review']/span[@class='score']",
		}
		f := offerdoc.NewFragment(pageURL, "shop")

		err := extract.NewTableExtractor(newEnv(), cfg, datasource()).Extract(context.Background(), page(t), "fr", f)
		require.NoError(t, err)

		assert.Equal(t, map[string]string{"ANN": "4/5", "BOB": "2/5", "CID": "3/5"}, attributes(f))
	})

	t.Run("length mismatch adds nothing", func(t *testing.T) {
		t.Parallel()

		cfg := offerdoc.TableConfig{Keys: "//th", Values: "//td"}
		f := offerdoc.NewFragment(pageURL, "shop")

		err := extract.NewTableExtractor(newEnv(), cfg, datasource()).Extract(context.Background(), page(t), "fr", f)
		require.NoError(t, err)

		assert.Empty(t, f.Attributes())
	})
}

func TestTableExtractor_JSONRows(t *testing.T) {
	t.Parallel()

	doc, err := json5.Parse(pageURL, []byte(`{
		specs: {Color: "Black", Weight: "2 kg"},
		pairs: [{k: "Power", v: "60 W"}, {k: "Voltage", v: "230 V"}],
	}`))
	require.NoError(t, err)

	t.Run("object members", func(t *testing.T) {
		t.Parallel()

		f := offerdoc.NewFragment(pageURL, "shop")
		err := extract.NewTableExtractor(newEnv(), offerdoc.TableConfig{Rows: "/specs/*"}, datasource()).
			Extract(context.Background(), doc, "en", f)
		require.NoError(t, err)

		assert.Equal(t, map[string]string{"COLOR": "Black", "WEIGHT": "2 kg"}, attributes(f))
	})

	t.Run("key and value paths", func(t *testing.T) {
		t.Parallel()

		f := offerdoc.NewFragment(pageURL, "shop")
		cfg := offerdoc.TableConfig{Rows: "/pairs/*", Key: "/k", Value: "/v"}
		err := extract.NewTableExtractor(newEnv(), cfg, datasource()).Extract(context.Background(), doc, "en", f)
		require.NoError(t, err)

		assert.Equal(t, map[string]string{"POWER": "60 W", "VOLTAGE": "230 V"}, attributes(f))
	})
}
