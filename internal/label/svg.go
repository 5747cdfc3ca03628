package label

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"strings"
)

// SVG exports the label as vector markup. Text sections carry native
// <text> elements escaped at build time; raster-only sections (photo,
// barcode) are embedded as base64 PNG images.
func (c *ComposedLabel) SVG() ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		c.Width, c.Height, c.Width, c.Height)
	b.WriteString("\n")

	defs := collectDefs(c.Layers)
	if defs != "" {
		b.WriteString("<defs>")
		b.WriteString(defs)
		b.WriteString("</defs>\n")
	}

	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#ffffff"/>`+"\n", c.Width, c.Height)

	for n := 0; n < c.Copies; n++ {
		y := n * c.UnitHeight
		for i, l := range c.Layers {
			if i > 0 {
				y += c.Padding
			}
			x := (c.Width - l.Width) / 2
			if err := writeLayer(&b, l, x, y); err != nil {
				return nil, err
			}
			y += l.Height
		}
	}

	b.WriteString("</svg>\n")
	return []byte(b.String()), nil
}

// collectDefs hoists gradient definitions, once per distinct id.
func collectDefs(layers []Layer) string {
	seen := make(map[string]struct{}, 2)
	var b strings.Builder
	for _, l := range layers {
		if l.MarkupDefs == "" {
			continue
		}
		if _, ok := seen[l.MarkupDefs]; ok {
			continue
		}
		seen[l.MarkupDefs] = struct{}{}
		b.WriteString(l.MarkupDefs)
	}
	return b.String()
}

func writeLayer(b *strings.Builder, l Layer, x, y int) error {
	if l.Markup != "" {
		fmt.Fprintf(b, `<svg x="%d" y="%d" width="%d" height="%d">`, x, y, l.Width, l.Height)
		b.WriteString(l.Markup)
		b.WriteString("</svg>\n")
		return nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, l.Image); err != nil {
		return err
	}
	fmt.Fprintf(b,
		`<image x="%d" y="%d" width="%d" height="%d" href="data:image/png;base64,%s"/>`+"\n",
		x, y, l.Width, l.Height, base64.StdEncoding.EncodeToString(buf.Bytes()))
	return nil
}
