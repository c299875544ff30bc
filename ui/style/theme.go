package style

import (
	"image/color"

	"github.com/ebitenui/ebitenui/image"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// Theme colors
var (
	Background    = color.NRGBA{0x1a, 0x1a, 0x2e, 0xff} // Dark blue-gray
	Surface       = color.NRGBA{0x25, 0x25, 0x3a, 0xff} // Slightly lighter
	Primary       = color.NRGBA{0x4a, 0x4a, 0x8a, 0xff} // Muted purple
	PrimaryHover  = color.NRGBA{0x5a, 0x5a, 0x9a, 0xff}
	Text          = color.NRGBA{0xff, 0xff, 0xff, 0xff}
	TextSecondary = color.NRGBA{0xaa, 0xaa, 0xaa, 0xff}
	Accent        = color.NRGBA{0x4c, 0x4c, 0x99, 0xff}
	Border        = color.NRGBA{0x3a, 0x3a, 0x5a, 0xff}
	Error         = color.NRGBA{0xd0, 0x40, 0x40, 0xff}
	Black         = color.NRGBA{0x00, 0x00, 0x00, 0xff}
	Overlay       = color.NRGBA{0x00, 0x00, 0x00, 0xb0} // Darkens the tree under modals
)

// ApplyAccent replaces the accent color (focus outlines, selection, title bars).
func ApplyAccent(c color.Color) {
	Accent = color.NRGBAModel.Convert(c).(color.NRGBA)
}

// Fade scales the alpha of c by alpha in [0,1].
func Fade(c color.Color, alpha float32) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if alpha >= 1 {
		return n
	}
	if alpha <= 0 {
		n.A = 0
		return n
	}
	n.A = uint8(float32(n.A) * alpha)
	return n
}

// fontFace is the cached fallback font face
var fontFace text.Face

// FontFace returns the fallback face used before the TTF font is resident
func FontFace() text.Face {
	if fontFace == nil {
		fontFace = text.NewGoXFace(basicfont.Face7x13)
	}
	return fontFace
}

// PanelImage returns a nine-slice panel filled with c
func PanelImage(c color.Color) *image.NineSlice {
	return image.NewNineSliceColor(c)
}
