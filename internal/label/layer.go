package label

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/rizalw/pricetag/internal/barcode"
)

// maxTextLen is the display-fitting cutoff carried over from the catalog's
// label sheets: longer names are cut with a plain slice, no ellipsis.
const maxTextLen = 40

// Layer is one rendered horizontal section of a label. Layers are value
// objects consumed once by Compose; Markup holds the vector form of text
// sections (raster-only sections embed their image at export time).
type Layer struct {
	Kind   LayerKind
	Width  int
	Height int
	Image  image.Image

	Markup     string
	MarkupDefs string
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeText escapes the five XML special characters so product names cannot
// break the vector markup.
func EscapeText(s string) string {
	return xmlReplacer.Replace(s)
}

// Section styling mirrors the label sheets: bordered white sections for the
// name and barcode, gradient banners for price and quantity.
const (
	borderColor = "#333333"

	nameTextColor = "#000000"
	bannerText    = "#ffffff"

	priceGradientTop    = "#ff6b6b"
	priceGradientBottom = "#ee5a52"
	qtyGradientTop      = "#4c7dff"
	qtyGradientBottom   = "#2c5aa0"
)

type textStyle struct {
	fontSize       float64
	textColor      string
	gradientID     string
	gradientTop    string
	gradientBottom string
}

func nameStyle(size float64) textStyle {
	return textStyle{fontSize: size, textColor: nameTextColor}
}

func priceStyle(size float64) textStyle {
	return textStyle{
		fontSize:       size,
		textColor:      bannerText,
		gradientID:     "priceGrad",
		gradientTop:    priceGradientTop,
		gradientBottom: priceGradientBottom,
	}
}

func qtyStyle(size float64) textStyle {
	return textStyle{
		fontSize:       size,
		textColor:      bannerText,
		gradientID:     "qtyGrad",
		gradientTop:    qtyGradientTop,
		gradientBottom: qtyGradientBottom,
	}
}

// truncate cuts the text to maxTextLen characters with a plain slice.
func truncate(s string) string {
	runes := []rune(s)
	if len(runes) > maxTextLen {
		return string(runes[:maxTextLen])
	}
	return s
}

// textSection renders a centered single line of bold text over a solid or
// vertical-gradient background, bordered, and records its vector markup.
func textSection(kind LayerKind, text string, width, height int, st textStyle) Layer {
	text = truncate(text)

	dc := gg.NewContext(width, height)

	if st.gradientID != "" {
		grad := gg.NewLinearGradient(0, 0, 0, float64(height))
		grad.AddColorStop(0, parseHex(st.gradientTop))
		grad.AddColorStop(1, parseHex(st.gradientBottom))
		dc.SetFillStyle(grad)
	} else {
		dc.SetHexColor("#ffffff")
	}
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	dc.Fill()

	dc.SetHexColor(borderColor)
	dc.SetLineWidth(1)
	dc.DrawRectangle(0.5, 0.5, float64(width)-1, float64(height)-1)
	dc.Stroke()

	dc.SetFontFace(boldFace(st.fontSize))
	dc.SetHexColor(st.textColor)
	dc.DrawStringAnchored(text, float64(width)/2, float64(height)/2, 0.5, 0.35)

	markup, defs := textMarkup(text, width, height, st)

	return Layer{
		Kind:       kind,
		Width:      width,
		Height:     height,
		Image:      dc.Image(),
		Markup:     markup,
		MarkupDefs: defs,
	}
}

func textMarkup(text string, width, height int, st textStyle) (markup, defs string) {
	fill := "#ffffff"
	if st.gradientID != "" {
		fill = "url(#" + st.gradientID + ")"
		defs = fmt.Sprintf(
			`<linearGradient id="%s" x1="0%%" y1="0%%" x2="0%%" y2="100%%">`+
				`<stop offset="0%%" stop-color="%s"/><stop offset="100%%" stop-color="%s"/>`+
				`</linearGradient>`,
			st.gradientID, st.gradientTop, st.gradientBottom,
		)
	}

	baseline := height/2 + int(st.fontSize*0.35)
	markup = fmt.Sprintf(
		`<rect width="%d" height="%d" fill="%s" stroke="%s" stroke-width="1"/>`+
			`<text x="%d" y="%d" text-anchor="middle" font-size="%.0f" font-weight="bold" fill="%s">%s</text>`,
		width, height, fill, borderColor,
		width/2, baseline, st.fontSize, st.textColor, EscapeText(text),
	)
	return markup, defs
}

// barcodeSection centers the barcode raster inside a bordered white section,
// clamped so the bars never overflow the section bounds.
func barcodeSection(rendered *barcode.Rendered, width, height, sidePadding int, includeText bool, codeFontSize float64) (Layer, error) {
	img, err := rendered.Decode()
	if err != nil {
		return Layer{}, err
	}

	maxW := width - 2*sidePadding
	if maxW < 1 {
		maxW = 1
	}
	img = fitBarcode(img, maxW)

	bw := img.Bounds().Dx()
	bh := img.Bounds().Dy()
	left := (width - bw) / 2
	top := clamp(5, height-bh-5, (height-bh)/2)

	dc := gg.NewContext(width, height)
	dc.SetHexColor("#ffffff")
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	dc.Fill()

	dc.SetHexColor(borderColor)
	dc.SetLineWidth(1)
	dc.DrawRectangle(0.5, 0.5, float64(width)-1, float64(height)-1)
	dc.Stroke()

	dc.DrawImage(img, left, top)

	if includeText {
		dc.SetFontFace(boldFace(codeFontSize))
		dc.SetHexColor(nameTextColor)
		dc.DrawStringAnchored(rendered.Code, float64(width)/2, float64(height)-10, 0.5, 0)
	}

	return Layer{
		Kind:   LayerBarcode,
		Width:  width,
		Height: height,
		Image:  dc.Image(),
	}, nil
}

// fitBarcode downscales the bars to the printable width; already-fitting
// rasters pass through untouched so the module widths stay crisp.
func fitBarcode(img image.Image, maxW int) image.Image {
	if img.Bounds().Dx() <= maxW {
		return img
	}
	return imaging.Resize(img, maxW, 0, imaging.Lanczos)
}

func photoSection(img image.Image, width, height int) Layer {
	return Layer{
		Kind:   LayerPhoto,
		Width:  width,
		Height: height,
		Image:  img,
	}
}

// clamp bounds v to [lo, hi] with lo winning when the bars are taller than
// the section and hi drops below it.
func clamp(lo, hi, v int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// parseHex converts a #rrggbb string to a color. Inputs are package
// constants, so malformed values simply come out black.
func parseHex(s string) color.Color {
	var r, g, b uint8
	_, _ = fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b)
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}
