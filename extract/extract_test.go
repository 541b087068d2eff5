package extract_test

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/etree"
	"github.com/fwojciec/offerdoc/extract"
	"github.com/stretchr/testify/require"
)

const pageURL = "https://shop.example/p/sonicare"

const productPage = `<!DOCTYPE html>
<html>
<head>
  <script type="application/ld+json">{"@type": "Product", "name": "Sonicare 9900", "offers": {"price": "19.90", "priceCurrency": "EUR"}}</script>
</head>
<body>
  <h1>Philips Sonicare</h1>
  <div class="crumbs"><a>Home</a><a>Dental</a></div>
  <span class="price">129,99 €</span>
  <span class="stock">En stock</span>
  <span class="warranty">2 ans</span>
  <span class="brandid">PHILIPS HX-9911</span>
  <span class="ean">8710103876410.0</span>
  <img class="gallery" src="/img/1.jpg">
  <table class="specs">
    <tr><th colspan="2">General</th></tr>
    <tr><th>Couleur :</th><td>Blanc</td></tr>
    <tr><th>Marque</th><td>Philips</td></tr>
  </table>
  <ul class="features"><li>Battery: 14 days</li><li>Modes: 5</li></ul>
  <div class="review"><h3>Great</h3><p class="body">Works well</p><span class="author">Ann</span><span class="score">4/5</span></div>
  <div class="review"><h3>Meh</h3><p class="body">Too loud</p><span class="author">Bob</span><span class="score">2/5</span></div>
  <div class="review"><p class="body">No title</p><span class="author">Cid</span><span class="score">3/5</span></div>
  <div class="avg"><span class="value">4,2</span> <span class="count">(128 avis)</span></div>
  <a href="/docs/manual.pdf?v=2">Manual</a>
  <a href="/docs/page.html">Page</a>
  <a href="https://cdn.example/energy-label.pdf">Label</a>
</body>
</html>`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEnv() extract.Env {
	return extract.NewEnv(discardLogger(), nil)
}

func page(t *testing.T) offerdoc.Document {
	t.Helper()
	doc, err := etree.ParseString(productPage, pageURL, etree.Options{})
	require.NoError(t, err)
	return doc
}

func datasource() *offerdoc.DatasourceConfig {
	return &offerdoc.DatasourceConfig{Name: "shop", Locale: "fr"}
}

func parseHTML(t *testing.T, html string) offerdoc.Document {
	t.Helper()
	doc, err := etree.ParseString(html, pageURL, etree.Options{})
	require.NoError(t, err)
	return doc
}

// bufferLogger returns a logger writing text records to the returned buffer.
func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}
