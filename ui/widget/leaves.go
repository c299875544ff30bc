package widget

import (
	"image/color"

	"github.com/user-none/yaffe/ui/assets"
	"github.com/user-none/yaffe/ui/input"
	"github.com/user-none/yaffe/ui/style"
)

// Label draws a line or paragraph of text.
type Label struct {
	Base
	Text     string
	FontSize float32
	Color    color.Color
	Align    Justify
	// Wrap breaks text to the label's width.
	Wrap bool
}

// NewLabel creates a label with the default font size and color.
func NewLabel(text string) *Label {
	return &Label{Base: NewBase(), Text: text, FontSize: style.FontSize, Color: style.Text}
}

func (l *Label) wrapWidth() float32 {
	if l.Wrap {
		return l.bounds.W
	}
	return 0
}

// Size measures the text.
func (l *Label) Size(g Graphics) Size {
	return g.MeasureText(l.Text, l.FontSize, l.wrapWidth())
}

// Render draws the text aligned within the label's bounds.
func (l *Label) Render(g Graphics, _ ID) {
	if l.Text == "" || l.Alpha <= 0 {
		return
	}
	r := l.DrawRect()
	size := g.MeasureText(l.Text, l.FontSize, l.wrapWidth())
	x := r.X
	switch l.Align {
	case Center:
		x += (r.W - size.W) / 2
	case End:
		x += r.W - size.W
	}
	y := r.Y + (r.H-size.H)/2
	if y < r.Y {
		y = r.Y
	}
	g.DrawText(l.Text, x, y, l.FontSize, style.Fade(l.Color, l.Alpha), l.wrapWidth())
}

// Image draws an asset scaled into its bounds.
type Image struct {
	Base
	Key assets.Key
	// Fallback is drawn while Key is loading.
	Fallback assets.Key
}

// NewImage creates an image widget with the placeholder as fallback.
func NewImage(key assets.Key) *Image {
	return &Image{Base: NewBase(), Key: key, Fallback: assets.Static(assets.ImagePlaceholder)}
}

func (i *Image) Render(g Graphics, _ ID) {
	r := i.DrawRect()
	if g.DrawImage(r, i.Key, i.Alpha) {
		return
	}
	if i.Fallback != i.Key {
		g.DrawImage(r, i.Fallback, i.Alpha)
	}
}

// Checkbox is a labeled boolean toggled by Accept.
type Checkbox struct {
	Base
	Label    string
	Checked  bool
	OnChange func(ctx *Context, checked bool)
}

// NewCheckbox creates a checkbox.
func NewCheckbox(label string, checked bool) *Checkbox {
	return &Checkbox{Base: NewBase(), Label: label, Checked: checked}
}

func (c *Checkbox) Size(g Graphics) Size {
	s := g.MeasureText(c.Label, style.FontSize, 0)
	s.W += s.H + style.SmallSpacing
	return s
}

func (c *Checkbox) Action(ctx *Context, a input.Action) bool {
	if a.Kind != input.Accept {
		return false
	}
	c.Checked = !c.Checked
	if c.OnChange != nil {
		c.OnChange(ctx, c.Checked)
	}
	return true
}

func (c *Checkbox) Render(g Graphics, focused ID) {
	r := c.DrawRect()
	box := style.FontSize
	boxRect := Rect{X: r.X, Y: r.Y + (r.H-box)/2, W: box, H: box}
	g.StrokeRect(boxRect, 2, style.Text)
	if c.Checked {
		g.FillRect(boxRect.Inset(5), style.Accent)
	}
	g.DrawText(c.Label, r.X+box+style.SmallSpacing, boxRect.Y, style.FontSize, style.Text, 0)
	if focused == c.id {
		g.StrokeRect(r, style.OutlineWidth, style.Accent)
	}
}

// Button runs OnPress on Accept.
type Button struct {
	Base
	Label   string
	OnPress func(ctx *Context)
}

// NewButton creates a button.
func NewButton(label string, onPress func(ctx *Context)) *Button {
	return &Button{Base: NewBase(), Label: label, OnPress: onPress}
}

func (b *Button) Size(g Graphics) Size {
	s := g.MeasureText(b.Label, style.FontSize, 0)
	s.W += 2 * style.DefaultPadding
	s.H += 2 * style.TinySpacing
	return s
}

func (b *Button) Action(ctx *Context, a input.Action) bool {
	if a.Kind != input.Accept || b.OnPress == nil {
		return false
	}
	b.OnPress(ctx)
	return true
}

func (b *Button) Render(g Graphics, focused ID) {
	r := b.DrawRect()
	bg := style.Primary
	if focused == b.id {
		bg = style.Accent
	}
	g.Panel(r, style.Fade(bg, b.Alpha))
	size := g.MeasureText(b.Label, style.FontSize, 0)
	g.DrawText(b.Label, r.X+(r.W-size.W)/2, r.Y+(r.H-size.H)/2, style.FontSize, style.Fade(style.Text, b.Alpha), 0)
}
