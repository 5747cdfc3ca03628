package label

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
)

var white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// ComposedLabel is the final stacked raster plus the layer metadata needed
// for the vector export. Copies > 1 means the layer stack repeats vertically
// (bulk labels).
type ComposedLabel struct {
	Width      int
	Height     int
	UnitHeight int
	Copies     int
	Padding    int
	Layers     []Layer
	Image      *image.NRGBA
}

// Compose stacks the layers top to bottom with uniform padding between
// sections and replicates the stack copies times.
func Compose(layers []Layer, width, padding, copies int) *ComposedLabel {
	if copies < 1 {
		copies = 1
	}

	unit := 0
	for i, l := range layers {
		unit += l.Height
		if i > 0 {
			unit += padding
		}
	}

	canvas := imaging.New(width, unit*copies, white)

	for c := 0; c < copies; c++ {
		y := c * unit
		for i, l := range layers {
			if i > 0 {
				y += padding
			}
			x := (width - l.Width) / 2
			canvas = imaging.Paste(canvas, l.Image, image.Pt(x, y))
			y += l.Height
		}
	}

	return &ComposedLabel{
		Width:      width,
		Height:     unit * copies,
		UnitHeight: unit,
		Copies:     copies,
		Padding:    padding,
		Layers:     layers,
		Image:      canvas,
	}
}

// PNG encodes the composed raster.
func (c *ComposedLabel) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.Image); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
