package widget

import (
	"github.com/user-none/yaffe/ui/anim"
	"github.com/user-none/yaffe/ui/input"
	"github.com/user-none/yaffe/ui/style"
)

// ListItem is anything a List can display.
type ListItem interface {
	DisplayString() string
}

// StringItem is a ListItem for plain strings.
type StringItem string

func (s StringItem) DisplayString() string { return string(s) }

// List is a vertically scrolling list with one selected row.
type List[T ListItem] struct {
	Base
	Items    []T
	Selected int // -1 for no selection
	Scroll   float32

	// OnAccept runs when Accept is pressed on a selected item.
	OnAccept func(ctx *Context, item T)
	// OnSelect runs when the selection moves.
	OnSelect func(ctx *Context, index int)
}

// NewList creates a list with the first item selected.
func NewList[T ListItem](items []T) *List[T] {
	l := &List[T]{Base: NewBase(), Items: items}
	if len(items) == 0 {
		l.Selected = -1
	}
	return l
}

// SelectedItem returns the selected item.
func (l *List[T]) SelectedItem() (T, bool) {
	var zero T
	if l.Selected < 0 || l.Selected >= len(l.Items) {
		return zero, false
	}
	return l.Items[l.Selected], true
}

// SetItems replaces the items and clamps the selection.
func (l *List[T]) SetItems(items []T) {
	l.Items = items
	switch {
	case len(items) == 0:
		l.Selected = -1
	case l.Selected < 0:
		l.Selected = 0
	case l.Selected >= len(items):
		l.Selected = len(items) - 1
	}
	l.Scroll = 0
}

func (l *List[T]) visibleRows() int {
	rows := int(l.bounds.H / style.ListRowHeight)
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (l *List[T]) move(ctx *Context, delta int) bool {
	if len(l.Items) == 0 {
		return false
	}
	next := l.Selected + delta
	if next < 0 || next >= len(l.Items) {
		return false
	}
	l.Selected = next

	// Keep the selection in view
	rows := l.visibleRows()
	top := int(l.Scroll / style.ListRowHeight)
	target := l.Scroll
	if next < top {
		target = float32(next) * style.ListRowHeight
	} else if next >= top+rows {
		target = float32(next-rows+1) * style.ListRowHeight
	}
	if target != l.Scroll && ctx.Anims != nil {
		ctx.Anims.Animate(l.id, anim.Scroll, target, style.ScrollAnimDuration)
	} else {
		l.Scroll = target
	}

	if l.OnSelect != nil {
		l.OnSelect(ctx, next)
	}
	return true
}

func (l *List[T]) Action(ctx *Context, a input.Action) bool {
	switch a.Kind {
	case input.Up:
		return l.move(ctx, -1)
	case input.Down:
		return l.move(ctx, 1)
	case input.Accept:
		item, ok := l.SelectedItem()
		if !ok || l.OnAccept == nil {
			return false
		}
		l.OnAccept(ctx, item)
		return true
	}
	return false
}

// AnimatedField adds Scroll to the base fields.
func (l *List[T]) AnimatedField(f anim.Field) *float32 {
	if f == anim.Scroll {
		return &l.Scroll
	}
	return l.Base.AnimatedField(f)
}

func (l *List[T]) Size(Graphics) Size {
	return Size{W: l.bounds.W, H: float32(len(l.Items)) * style.ListRowHeight}
}

func (l *List[T]) Render(g Graphics, focused ID) {
	r := l.DrawRect()
	first := int(l.Scroll / style.ListRowHeight)
	for i := first; i < len(l.Items); i++ {
		y := r.Y + float32(i)*style.ListRowHeight - l.Scroll
		if y >= r.Bottom() {
			break
		}
		row := Rect{X: r.X, Y: y, W: r.W, H: style.ListRowHeight}
		if i == l.Selected {
			c := style.Surface
			if focused == l.id {
				c = style.Accent
			}
			g.FillRect(row, style.Fade(c, l.Alpha))
		}
		g.DrawText(l.Items[i].DisplayString(), row.X+style.SmallSpacing, row.Y+(row.H-style.FontSize)/2,
			style.FontSize, style.Fade(style.Text, l.Alpha), 0)
	}
}
