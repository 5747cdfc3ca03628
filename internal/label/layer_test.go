package label

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`Kopi & Teh`, `Kopi &amp; Teh`},
		{`<script>`, `&lt;script&gt;`},
		{`Susu "Segar"`, `Susu &quot;Segar&quot;`},
		{`D'Lite`, `D&#39;Lite`},
		{`A<B>&"C"'D'`, `A&lt;B&gt;&amp;&quot;C&quot;&#39;D&#39;`},
		{`plain name`, `plain name`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeText(tt.in))
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 45)
	assert.Len(t, truncate(long), 40)
	assert.Equal(t, "short", truncate("short"))
	assert.Len(t, truncate(strings.Repeat("a", 40)), 40)

	// multibyte names are cut on rune boundaries
	multi := strings.Repeat("é", 45)
	got := truncate(multi)
	assert.Equal(t, 40, len([]rune(got)))
}

func TestTextSectionMarkupEscaped(t *testing.T) {
	l := textSection(LayerName, `Biskuit "Manis" <Baru> & Enak`, 540, 80, nameStyle(18))

	assert.Contains(t, l.Markup, `&quot;Manis&quot; &lt;Baru&gt; &amp; Enak`)
	assert.NotContains(t, l.Markup, `<Baru>`)
	assert.Empty(t, l.MarkupDefs)
	assert.Equal(t, 540, l.Image.Bounds().Dx())
	assert.Equal(t, 80, l.Image.Bounds().Dy())
}

// Label builds run concurrently (one per inbound request), so text
// rendering must not share mutable glyph state. Run with -race.
func TestTextSectionConcurrent(t *testing.T) {
	const goroutines = 8
	const iterations = 20

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				name := fmt.Sprintf("Produk %d-%d", g, i)
				l := textSection(LayerName, name, 540, 80, nameStyle(18))
				if l.Image.Bounds().Dx() != 540 {
					t.Errorf("unexpected width %d", l.Image.Bounds().Dx())
				}
				p := textSection(LayerPrice, "Rp 12.500", 540, 80, priceStyle(28))
				if p.MarkupDefs == "" {
					t.Error("missing gradient defs")
				}
			}
		}(g)
	}
	wg.Wait()
}

func TestTextSectionGradientDefs(t *testing.T) {
	price := textSection(LayerPrice, "Rp 3.500", 540, 80, priceStyle(28))
	require.NotEmpty(t, price.MarkupDefs)
	assert.Contains(t, price.MarkupDefs, `id="priceGrad"`)
	assert.Contains(t, price.Markup, `fill="url(#priceGrad)"`)

	qty := textSection(LayerQty, "Qty: 10", 540, 60, qtyStyle(32))
	assert.Contains(t, qty.MarkupDefs, `id="qtyGrad"`)
}

func TestClamp(t *testing.T) {
	// vertical placement of the bars inside a section
	assert.Equal(t, 50, clamp(5, 95, 50))
	assert.Equal(t, 5, clamp(5, 95, -10))
	assert.Equal(t, 95, clamp(5, 95, 300))
	// upper bound below lower happens when the bars are taller than the
	// section; the floor wins
	assert.Equal(t, 5, clamp(5, -20, 3))
	assert.Equal(t, 5, clamp(5, 2, 6))
}
