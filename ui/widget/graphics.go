package widget

import (
	"image/color"
	"time"

	"github.com/user-none/yaffe/ui/assets"
)

// Graphics is the drawing surface handed to widgets during render.
type Graphics interface {
	// Bounds is the rectangle of the container currently being rendered.
	// Children use it for text wrap widths and background draws.
	Bounds() Rect
	SetBounds(r Rect)

	// Now is the frame time.
	Now() time.Time

	FillRect(r Rect, c color.Color)
	StrokeRect(r Rect, width float32, c color.Color)

	// Panel draws a nine-slice panel background.
	Panel(r Rect, c color.Color)

	// DrawImage draws the asset for key scaled into r. It returns false while
	// the asset is still loading.
	DrawImage(r Rect, key assets.Key, alpha float32) bool

	// DrawText draws s with its top-left at x, y. A positive wrap width
	// breaks lines at word boundaries.
	DrawText(s string, x, y, size float32, c color.Color, wrap float32)
	MeasureText(s string, size, wrap float32) Size
}
