package etree_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productPage = `<!DOCTYPE html>
<html>
<head>
  <title>TV</title>
  <script type="application/ld+json">{"@type": "Product"}</script>
</head>
<body>
  <h1 class="title">  Samsung
     UE55 </h1>
  <div class="price">499,00 <span>€</span></div>
  <ul id="features">
    <li>4K</li>
    <li>HDR</li>
    <li>Smart TV</li>
  </ul>
  <table class="specs">
    <tr><th colspan="2">General</th></tr>
    <tr><th>Color</th><td>Black</td></tr>
    <tr><th>Weight</th><td>14 kg</td></tr>
  </table>
  <p class="desc">Line one<br>Line <b>two</b></p>
  <a class="manual" href="/docs/manual.pdf">Manual</a>
  <a class="manual" href="//cdn.example/spec.pdf">Spec</a>
</body>
</html>`

func parse(t *testing.T, opts etree.Options) *etree.Document {
	t.Helper()
	doc, err := etree.ParseString(productPage, "https://shop.example/p/1", opts)
	require.NoError(t, err)
	return doc
}

func TestDocument_EvalOne(t *testing.T) {
	t.Parallel()

	doc := parse(t, etree.Options{})

	tests := []struct {
		path string
		want string
	}{
		{"//h1[@class='title']", "Samsung UE55"},
		{"//div[@class='price']/text()", "499,00"},
		{"//div[@class='price']/span", "€"},
		{"/html/head/title", "TV"},
		{"//ul[@id='features']/li[2]", "HDR"},
		{"//script[@type='application/ld+json']", `{"@type": "Product"}`},
		{"css:table.specs tr:nth-child(3) td", "14 kg"},
		{"css:a.manual[href$='manual.pdf']/@href", "/docs/manual.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, err := doc.EvalOne(tt.path)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		_, err := doc.EvalOne("//span[@class='missing']")

		assert.Equal(t, offerdoc.ENOTFOUND, offerdoc.ErrorCode(err))
	})

	t.Run("ambiguous", func(t *testing.T) {
		t.Parallel()

		_, err := doc.EvalOne("//li")

		assert.Equal(t, offerdoc.EAMBIGUOUS, offerdoc.ErrorCode(err))
	})

	t.Run("invalid path", func(t *testing.T) {
		t.Parallel()

		_, err := doc.EvalOne("//li[")

		assert.Equal(t, offerdoc.EINVALID, offerdoc.ErrorCode(err))
	})
}

func TestDocument_EvalMany(t *testing.T) {
	t.Parallel()

	doc := parse(t, etree.Options{})

	t.Run("document order", func(t *testing.T) {
		t.Parallel()

		got, err := doc.EvalMany("//li")

		require.NoError(t, err)
		assert.Equal(t, []string{"4K", "HDR", "Smart TV"}, got)
	})

	t.Run("attributes", func(t *testing.T) {
		t.Parallel()

		got, err := doc.EvalMany("//a[@class='manual']/@href")

		require.NoError(t, err)
		assert.Equal(t, []string{"/docs/manual.pdf", "//cdn.example/spec.pdf"}, got)
	})

	t.Run("no match is empty", func(t *testing.T) {
		t.Parallel()

		got, err := doc.EvalMany("//video")

		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestDocument_Text(t *testing.T) {
	t.Parallel()

	t.Run("text nodes are joined with newlines", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, etree.Options{})

		got, err := doc.EvalOne("//p[@class='desc']")

		require.NoError(t, err)
		assert.Equal(t, "Line one\nLine\ntwo", got)
	})

	t.Run("delimiter tags split lines", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, etree.Options{DelimiterTags: []string{"br"}})

		got, err := doc.EvalOne("//p[@class='desc']")

		require.NoError(t, err)
		assert.Equal(t, "Line one\nLine two", got)
	})

	t.Run("scripts are left out of ancestor text", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, etree.Options{})

		got, err := doc.EvalOne("/html/head")

		require.NoError(t, err)
		assert.Equal(t, "TV", got)
	})
}

func TestDocument_Nodes(t *testing.T) {
	t.Parallel()

	doc := parse(t, etree.Options{})

	rows, err := doc.Nodes("//table[@class='specs']//tr")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	cells, err := rows[1].Nodes("./*")
	require.NoError(t, err)
	require.Len(t, cells, 2)
	assert.Equal(t, "th", cells[0].Name())
	assert.Equal(t, "Color", cells[0].Text())
	assert.Equal(t, "Black", cells[1].Text())

	value, err := rows[2].EvalOne("td")
	require.NoError(t, err)
	assert.Equal(t, "14 kg", value)
	assert.Equal(t, "https://shop.example/p/1", rows[2].URL())
	assert.Equal(t, offerdoc.KindMarkup, rows[2].Kind())
}

func TestParse_Charset(t *testing.T) {
	t.Parallel()

	latin1 := []byte("<html><body><h1>Caf\xe9</h1></body></html>")

	doc, err := etree.Parse(bytes.NewReader(latin1), "text/html; charset=iso-8859-1", "https://shop.example/", etree.Options{})
	require.NoError(t, err)

	got, err := doc.EvalOne("//h1")
	require.NoError(t, err)
	assert.Equal(t, "Café", got)
}

func TestDocument_ConcurrentEvaluation(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := etree.ParseString(productPage, "https://shop.example/p/1", etree.Options{})
			if !assert.NoError(t, err) {
				return
			}
			got, err := doc.EvalMany("//ul[@id='features']/li")
			assert.NoError(t, err)
			assert.Equal(t, "4K,HDR,Smart TV", strings.Join(got, ","))
		}()
	}
	wg.Wait()
}

func TestDocument_EmptyMatchesIgnored(t *testing.T) {
	t.Parallel()

	doc, err := etree.ParseString(`<html><body><span class="p"> </span><span class="p">12,90</span><i class="e"></i></body></html>`, "https://shop.example/p/1", etree.Options{})
	require.NoError(t, err)

	got, err := doc.EvalOne("//span[@class='p']")
	require.NoError(t, err)
	assert.Equal(t, "12,90", got)

	values, err := doc.EvalMany("//span[@class='p']")
	require.NoError(t, err)
	assert.Equal(t, []string{"12,90"}, values)

	_, err = doc.EvalOne("//i[@class='e']")
	assert.Equal(t, offerdoc.ENOTFOUND, offerdoc.ErrorCode(err))
}
