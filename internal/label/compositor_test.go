package label

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidLayer(kind LayerKind, w, h int, c color.NRGBA) Layer {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return Layer{Kind: kind, Width: w, Height: h, Image: img}
}

func TestComposeOffsets(t *testing.T) {
	red := color.NRGBA{R: 0xff, A: 0xff}
	blue := color.NRGBA{B: 0xff, A: 0xff}
	layers := []Layer{
		solidLayer(LayerName, 100, 30, red),
		solidLayer(LayerPrice, 100, 20, blue),
	}

	lbl := Compose(layers, 100, 10, 1)

	assert.Equal(t, 60, lbl.Height) // 30 + 10 + 20
	assert.Equal(t, 60, lbl.UnitHeight)

	// first layer starts at y=0, second after height+padding
	assert.Equal(t, red, lbl.Image.NRGBAAt(50, 0))
	assert.Equal(t, red, lbl.Image.NRGBAAt(50, 29))
	assert.Equal(t, white, lbl.Image.NRGBAAt(50, 35))
	assert.Equal(t, blue, lbl.Image.NRGBAAt(50, 40))
	assert.Equal(t, blue, lbl.Image.NRGBAAt(50, 59))
}

func TestComposeNarrowLayerCentered(t *testing.T) {
	red := color.NRGBA{R: 0xff, A: 0xff}
	lbl := Compose([]Layer{solidLayer(LayerBarcode, 60, 20, red)}, 100, 0, 1)

	assert.Equal(t, white, lbl.Image.NRGBAAt(10, 10))
	assert.Equal(t, red, lbl.Image.NRGBAAt(50, 10))
	assert.Equal(t, white, lbl.Image.NRGBAAt(90, 10))
}

func TestComposeCopies(t *testing.T) {
	red := color.NRGBA{R: 0xff, A: 0xff}
	blue := color.NRGBA{B: 0xff, A: 0xff}
	layers := []Layer{
		solidLayer(LayerName, 100, 30, red),
		solidLayer(LayerPrice, 100, 20, blue),
	}

	lbl := Compose(layers, 100, 10, 3)

	assert.Equal(t, 3, lbl.Copies)
	assert.Equal(t, 60, lbl.UnitHeight)
	assert.Equal(t, 180, lbl.Height)

	// each copy repeats the same layout
	for _, base := range []int{0, 60, 120} {
		assert.Equal(t, red, lbl.Image.NRGBAAt(50, base))
		assert.Equal(t, blue, lbl.Image.NRGBAAt(50, base+40))
	}
}

func TestSVGExport(t *testing.T) {
	layers := []Layer{
		textSection(LayerName, `Teh <Botol> & "Kotak"`, 540, 80, nameStyle(18)),
		textSection(LayerQty, "Qty: 4", 540, 60, qtyStyle(32)),
		textSection(LayerPrice, "Rp 5.000", 540, 80, priceStyle(28)),
	}
	lbl := Compose(layers, 540, 10, 2)

	out, err := lbl.SVG()
	require.NoError(t, err)
	svg := string(out)

	assert.Contains(t, svg, `width="540" height="480"`)
	assert.Contains(t, svg, `&lt;Botol&gt; &amp; &quot;Kotak&quot;`)
	assert.NotContains(t, svg, `<Botol>`)

	// gradient defs hoisted once regardless of copies
	assert.Equal(t, 1, strings.Count(svg, `id="priceGrad"`))
	assert.Equal(t, 1, strings.Count(svg, `id="qtyGrad"`))

	// two copies of each text section
	assert.Equal(t, 2, strings.Count(svg, `&lt;Botol&gt;`))
	assert.Equal(t, 2, strings.Count(svg, `Qty: 4`))
}

func TestSVGEmbedsRasterLayers(t *testing.T) {
	red := color.NRGBA{R: 0xff, A: 0xff}
	lbl := Compose([]Layer{solidLayer(LayerPhoto, 100, 40, red)}, 100, 0, 1)

	out, err := lbl.SVG()
	require.NoError(t, err)
	assert.Contains(t, string(out), "data:image/png;base64,")
}
