package widget

import (
	"image/color"

	"github.com/user-none/yaffe/ui/assets"
	"github.com/user-none/yaffe/ui/input"
)

// Axis is a container's main axis.
type Axis uint8

const (
	Row Axis = iota
	Column
)

// Justify places children along the main axis when they do not fill it.
type Justify uint8

const (
	Start Justify = iota
	Center
	End
)

// SizingKind selects how a child's main-axis extent is computed.
type SizingKind uint8

const (
	SizeFixed SizingKind = iota
	SizePercent
	SizeFill
	SizeShrink
)

// Sizing is a child slot's sizing policy.
type Sizing struct {
	Kind SizingKind
	// Value is the extent for Fixed, the fraction for Percent, and the
	// last measured extent for Shrink.
	Value float32
}

// Fixed sizes a child to n logical units.
func Fixed(n float32) Sizing { return Sizing{Kind: SizeFixed, Value: n} }

// Percent sizes a child to fraction p of the parent's extent.
func Percent(p float32) Sizing { return Sizing{Kind: SizePercent, Value: p} }

// Fill shares the remaining extent equally with other Fill siblings.
func Fill() Sizing { return Sizing{Kind: SizeFill} }

// Shrink sizes a child to its own measured extent. hint is used until the
// child has been measured once.
func Shrink(hint float32) Sizing { return Sizing{Kind: SizeShrink, Value: hint} }

// ResolveExtents computes each child's main-axis extent. Fixed, Percent and
// Shrink are taken as given; the remainder is split equally among Fill
// children and never goes negative.
func ResolveExtents(main float32, sizings []Sizing) []float32 {
	out := make([]float32, len(sizings))
	var used float32
	fills := 0
	for i, s := range sizings {
		switch s.Kind {
		case SizeFixed, SizeShrink:
			out[i] = s.Value
		case SizePercent:
			out[i] = s.Value * main
		case SizeFill:
			fills++
			continue
		}
		used += out[i]
	}
	if fills == 0 {
		return out
	}

	share := (main - used) / float32(fills)
	if share < 0 {
		share = 0
	}
	for i, s := range sizings {
		if s.Kind == SizeFill {
			out[i] = share
		}
	}
	return out
}

// BackgroundKind selects a container background.
type BackgroundKind uint8

const (
	NoBackground BackgroundKind = iota
	SolidBackground
	PanelBackground
	ImageBackground
)

// Background is drawn behind a container's children.
type Background struct {
	Kind  BackgroundKind
	Color color.Color
	Image assets.Key
}

// Solid returns a flat color background.
func Solid(c color.Color) Background { return Background{Kind: SolidBackground, Color: c} }

// PanelOf returns a nine-slice panel background.
func PanelOf(c color.Color) Background { return Background{Kind: PanelBackground, Color: c} }

// ImageOf returns an image background.
func ImageOf(key assets.Key) Background { return Background{Kind: ImageBackground, Image: key} }

type slot struct {
	widget Widget
	sizing Sizing
}

// Container lays out its children along one axis.
type Container struct {
	Base
	Axis       Axis
	Justify    Justify
	Background Background
	Padding    float32

	// OnAction handles actions that bubble up to the container.
	OnAction func(ctx *Context, a input.Action) bool

	slots   []*slot
	extents []float32
}

// NewContainer creates an empty container.
func NewContainer(axis Axis) *Container {
	return &Container{Base: NewBase(), Axis: axis}
}

// NewContainerWithID creates an empty container with a fixed identity.
func NewContainerWithID(id ID, axis Axis) *Container {
	return &Container{Base: NewBaseWithID(id), Axis: axis}
}

// Add appends a child with the given sizing and returns the container.
func (c *Container) Add(w Widget, s Sizing) *Container {
	c.slots = append(c.slots, &slot{widget: w, sizing: s})
	return c
}

// WithBackground sets the background and returns the container.
func (c *Container) WithBackground(b Background) *Container {
	c.Background = b
	return c
}

// WithPadding sets the inner padding and returns the container.
func (c *Container) WithPadding(p float32) *Container {
	c.Padding = p
	return c
}

// Clear removes every child.
func (c *Container) Clear() {
	c.slots = nil
	c.extents = nil
}

// Children implements Parent.
func (c *Container) Children() []Widget {
	out := make([]Widget, len(c.slots))
	for i, s := range c.slots {
		out[i] = s.widget
	}
	return out
}

// Sizings returns the current sizing of each child.
func (c *Container) Sizings() []Sizing {
	out := make([]Sizing, len(c.slots))
	for i, s := range c.slots {
		out[i] = s.sizing
	}
	return out
}

// Extents returns the main-axis extents resolved by the last layout.
func (c *Container) Extents() []float32 {
	return c.extents
}

func (c *Container) content() Rect {
	return c.bounds.Inset(c.Padding)
}

func (c *Container) mainExtent(r Rect) float32 {
	if c.Axis == Row {
		return r.W
	}
	return r.H
}

// Layout resolves and assigns child rectangles without drawing.
func (c *Container) Layout() {
	inner := c.content()
	main := c.mainExtent(inner)
	c.extents = ResolveExtents(main, c.Sizings())

	var total float32
	for _, e := range c.extents {
		total += e
	}
	var origin float32
	if leftover := main - total; leftover > 0 {
		switch c.Justify {
		case Center:
			origin = leftover / 2
		case End:
			origin = leftover
		}
	}

	for i, s := range c.slots {
		e := c.extents[i]
		var r Rect
		if c.Axis == Row {
			r = Rect{X: inner.X + origin, Y: inner.Y, W: e, H: inner.H}
		} else {
			r = Rect{X: inner.X, Y: inner.Y + origin, W: inner.W, H: e}
		}
		s.widget.SetBounds(r)
		origin += e
	}
}

// Render lays out the children and draws them in order.
func (c *Container) Render(g Graphics, focused ID) {
	c.Layout()

	g.SetBounds(c.bounds)
	switch c.Background.Kind {
	case SolidBackground:
		g.FillRect(c.bounds, c.Background.Color)
	case PanelBackground:
		g.Panel(c.bounds, c.Background.Color)
	case ImageBackground:
		g.DrawImage(c.bounds, c.Background.Image, 1)
	}

	for _, s := range c.slots {
		s.widget.Render(g, focused)
		// Children that are containers publish their own bounds.
		g.SetBounds(c.bounds)

		if s.sizing.Kind == SizeShrink {
			size := s.widget.Size(g)
			if c.Axis == Row {
				s.sizing.Value = size.W
			} else {
				s.sizing.Value = size.H
			}
		}
	}
}

// Size is the sum of the children's extents along the main axis.
func (c *Container) Size(Graphics) Size {
	var main float32
	for _, e := range c.extents {
		main += e
	}
	main += 2 * c.Padding
	if c.Axis == Row {
		return Size{W: main, H: c.bounds.H}
	}
	return Size{W: c.bounds.W, H: main}
}

// Action runs OnAction when set. Actions bubble here from focused
// descendants that did not consume them.
func (c *Container) Action(ctx *Context, a input.Action) bool {
	if c.OnAction == nil {
		return false
	}
	return c.OnAction(ctx, a)
}
