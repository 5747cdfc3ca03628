package barcode

import (
	"testing"

	bc "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/ean"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rizalw/pricetag/pkg/errors"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected Symbology
	}{
		{name: "13 digits is ean13", code: "8992702000018", expected: SymbologyEAN13},
		{name: "12 digits is upca", code: "036000291452", expected: SymbologyUPCA},
		{name: "short digit string is code128", code: "10000019", expected: SymbologyCode128},
		{name: "14 digits is code128", code: "89927020000181", expected: SymbologyCode128},
		{name: "mixed alphanumeric is code128", code: "ABC-123", expected: SymbologyCode128},
		{name: "13 chars with letter is code128", code: "899270200001X", expected: SymbologyCode128},
		{name: "empty string is code128", code: "", expected: SymbologyCode128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Detect(tt.code))
		})
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(DefaultOptions(), 16, nil)
	require.NoError(t, err)
	return r
}

func TestRenderCacheHit(t *testing.T) {
	r := newTestRenderer(t)

	var calls int
	inner := r.encode
	r.encode = func(sym Symbology, code string) (bc.Barcode, error) {
		calls++
		return inner(sym, code)
	}

	first, err := r.Render("8992702000018")
	require.NoError(t, err)
	assert.Equal(t, SymbologyEAN13, first.Symbology)
	assert.Equal(t, 1, calls)

	second, err := r.Render("8992702000018")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "cache hit must not re-invoke the encoder")
	assert.Equal(t, first.PNG, second.PNG)
	// Identical backing bytes, not just equal content.
	assert.Same(t, first, second)
}

func TestRenderDimensions(t *testing.T) {
	r := newTestRenderer(t)

	rendered, err := r.Render("8992702000018")
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions().ModuleHeight, rendered.Height)
	assert.Positive(t, rendered.Width)

	img, err := rendered.Decode()
	require.NoError(t, err)
	assert.Equal(t, rendered.Width, img.Bounds().Dx())
	assert.Equal(t, rendered.Height, img.Bounds().Dy())
}

func TestRenderCode128FallbackForArbitraryText(t *testing.T) {
	r := newTestRenderer(t)

	rendered, err := r.Render("PLU-10000019")
	require.NoError(t, err)
	assert.Equal(t, SymbologyCode128, rendered.Symbology)
}

func TestRenderFailureNotCached(t *testing.T) {
	r := newTestRenderer(t)

	var calls int
	r.encode = func(sym Symbology, code string) (bc.Barcode, error) {
		calls++
		// Force a strict-symbology failure regardless of input.
		return ean.Encode("not-digits-at-all")
	}

	_, err := r.Render("8992702000018")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBarcodeRender)

	_, err = r.Render("8992702000018")
	require.Error(t, err)
	assert.Equal(t, 2, calls, "failures must not be cached")
}

func TestRenderEvictionStillCorrect(t *testing.T) {
	r, err := NewRenderer(DefaultOptions(), 2, nil)
	require.NoError(t, err)

	a, err := r.Render("8992702000018")
	require.NoError(t, err)
	_, err = r.Render("10000019")
	require.NoError(t, err)
	_, err = r.Render("10000020")
	require.NoError(t, err)

	// "8992702000018" was evicted; a re-render must produce identical bytes.
	again, err := r.Render("8992702000018")
	require.NoError(t, err)
	assert.Equal(t, a.PNG, again.PNG)
}
