// Package widget is the retained-mode widget tree: flex containers, leaf
// widgets, the focus stack, and the deferred-action queue widgets use to
// request changes they cannot make while the tree is being walked.
package widget

import (
	"math/rand/v2"
	"time"

	"github.com/user-none/yaffe/ui/anim"
	"github.com/user-none/yaffe/ui/input"
)

// ID is a widget's stable identity. It is the unit of focus and of
// animation targeting.
type ID uint64

// NoID is the zero identity; no widget carries it.
const NoID ID = 0

// NewID returns a random non-zero identity.
func NewID() ID {
	for {
		if id := ID(rand.Uint64()); id != NoID {
			return id
		}
	}
}

// Rect is a rectangle in logical units.
type Rect struct {
	X, Y float32
	W, H float32
}

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float32) Rect {
	out := Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// Offset moves r by dx, dy.
func (r Rect) Offset(dx, dy float32) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float32 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float32 { return r.Y + r.H }

// Size is a logical width and height.
type Size struct {
	W, H float32
}

// Context carries the per-frame collaborators handed to input handlers.
type Context struct {
	Deferred *Deferred
	Anims    *anim.Engine[ID]
	Now      time.Time

	// Clipboard returns the clipboard text, or "" when unavailable.
	Clipboard func() string
}

// NewContext creates a context with an empty deferred queue.
func NewContext(anims *anim.Engine[ID], now time.Time) *Context {
	return &Context{Deferred: NewDeferred(), Anims: anims, Now: now}
}

// Widget is a node of the tree.
type Widget interface {
	ID() ID
	Bounds() Rect
	SetBounds(r Rect)

	// Size is the widget's own logical size, used by Shrink slots.
	Size(g Graphics) Size

	// Render draws the widget. focused is the focus-stack top so a widget
	// can draw its focus affordance.
	Render(g Graphics, focused ID)

	// Action handles an input action and reports whether it was consumed.
	Action(ctx *Context, a input.Action) bool

	GotFocus(ctx *Context)
	LostFocus(ctx *Context)
}

// Parent is a widget that owns children.
type Parent interface {
	Widget
	Children() []Widget
}

// Base provides identity, bounds, animatable offsets, and no-op behavior.
// Leaf widgets embed it and override what they need.
type Base struct {
	id     ID
	bounds Rect

	OffsetX float32
	OffsetY float32
	Alpha   float32
}

// NewBase creates a base with a random identity.
func NewBase() Base {
	return Base{id: NewID(), Alpha: 1}
}

// NewBaseWithID creates a base with a fixed identity.
func NewBaseWithID(id ID) Base {
	return Base{id: id, Alpha: 1}
}

func (b *Base) ID() ID              { return b.id }
func (b *Base) Bounds() Rect        { return b.bounds }
func (b *Base) SetBounds(r Rect)    { b.bounds = r }
func (b *Base) Size(Graphics) Size  { return Size{W: b.bounds.W, H: b.bounds.H} }
func (b *Base) GotFocus(*Context)   {}
func (b *Base) LostFocus(*Context)  {}
func (b *Base) Render(Graphics, ID) {}

func (b *Base) Action(*Context, input.Action) bool { return false }

// DrawRect returns the bounds shifted by the animated offsets.
func (b *Base) DrawRect() Rect {
	return b.bounds.Offset(b.OffsetX, b.OffsetY)
}

// AnimatedField implements anim.Animatable.
func (b *Base) AnimatedField(f anim.Field) *float32 {
	switch f {
	case anim.OffsetX:
		return &b.OffsetX
	case anim.OffsetY:
		return &b.OffsetY
	case anim.Alpha:
		return &b.Alpha
	default:
		return nil
	}
}
