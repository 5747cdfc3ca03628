package label

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// All label text is bold in every pipeline variant, so a single embedded
// typeface covers the whole package.
var (
	boldOnce sync.Once
	boldFont *sfnt.Font
)

// boldFace returns a fresh Face for each call. An opentype.Face carries
// mutable rasterizer buffers and must not be shared across goroutines, so
// concurrent label builds each get their own.
func boldFace(size float64) font.Face {
	boldOnce.Do(func() {
		f, err := opentype.Parse(gobold.TTF)
		if err != nil {
			panic("label: parse embedded font: " + err.Error())
		}
		boldFont = f
	})

	face, err := opentype.NewFace(boldFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		panic("label: create font face: " + err.Error())
	}
	return face
}
