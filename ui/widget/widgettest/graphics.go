// Package widgettest provides a recording Graphics for widget tests.
package widgettest

import (
	"image/color"
	"time"
	"unicode/utf8"

	"github.com/user-none/yaffe/ui/assets"
	"github.com/user-none/yaffe/ui/widget"
)

// Op is one recorded draw call.
type Op struct {
	Kind  string // "fill", "stroke", "panel", "image", "text"
	Rect  widget.Rect
	Color color.Color
	Key   assets.Key
	Text  string
}

// Graphics records draw calls. Text measures as CharWidth per rune by the
// font size in height.
type Graphics struct {
	CharWidth float32
	Time      time.Time
	// Ready lists asset keys DrawImage reports as loaded.
	Ready map[assets.Key]bool

	Ops []Op

	bounds widget.Rect
}

// New creates a recorder with 10-unit characters.
func New() *Graphics {
	return &Graphics{CharWidth: 10, Ready: map[assets.Key]bool{}}
}

func (g *Graphics) Bounds() widget.Rect     { return g.bounds }
func (g *Graphics) SetBounds(r widget.Rect) { g.bounds = r }
func (g *Graphics) Now() time.Time          { return g.Time }

func (g *Graphics) FillRect(r widget.Rect, c color.Color) {
	g.Ops = append(g.Ops, Op{Kind: "fill", Rect: r, Color: c})
}

func (g *Graphics) StrokeRect(r widget.Rect, _ float32, c color.Color) {
	g.Ops = append(g.Ops, Op{Kind: "stroke", Rect: r, Color: c})
}

func (g *Graphics) Panel(r widget.Rect, c color.Color) {
	g.Ops = append(g.Ops, Op{Kind: "panel", Rect: r, Color: c})
}

func (g *Graphics) DrawImage(r widget.Rect, key assets.Key, _ float32) bool {
	g.Ops = append(g.Ops, Op{Kind: "image", Rect: r, Key: key})
	return g.Ready[key]
}

func (g *Graphics) DrawText(s string, x, y, size float32, c color.Color, _ float32) {
	m := g.MeasureText(s, size, 0)
	g.Ops = append(g.Ops, Op{Kind: "text", Rect: widget.Rect{X: x, Y: y, W: m.W, H: m.H}, Color: c, Text: s})
}

func (g *Graphics) MeasureText(s string, size, wrap float32) widget.Size {
	w := float32(utf8.RuneCountInString(s)) * g.CharWidth
	if wrap > 0 && w > wrap {
		lines := int(w/wrap) + 1
		return widget.Size{W: wrap, H: float32(lines) * size}
	}
	return widget.Size{W: w, H: size}
}

// Texts returns the text of every recorded DrawText call.
func (g *Graphics) Texts() []string {
	var out []string
	for _, op := range g.Ops {
		if op.Kind == "text" {
			out = append(out, op.Text)
		}
	}
	return out
}

// Reset clears recorded calls.
func (g *Graphics) Reset() {
	g.Ops = g.Ops[:0]
}
