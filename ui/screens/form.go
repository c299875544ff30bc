package screens

import (
	"github.com/user-none/yaffe/ui/input"
	"github.com/user-none/yaffe/ui/style"
	"github.com/user-none/yaffe/ui/widget"
)

// labelShare is the part of a form row taken by its label.
const labelShare = 0.35

// row is one line of a form. Its size is fixed so modals can measure their
// content before the first layout.
type row struct {
	*widget.Container
}

func (r row) Size(widget.Graphics) widget.Size {
	return widget.Size{W: r.Bounds().W, H: style.ListRowHeight + style.TinySpacing}
}

// Form is a column of labeled fields. Up and Down move focus between
// fields; everything else goes to the focused field.
type Form struct {
	*widget.Container

	fields  []widget.Widget
	current int
}

// NewForm creates an empty form.
func NewForm() *Form {
	f := &Form{Container: widget.NewContainer(widget.Column)}
	f.OnAction = f.action
	return f
}

// AddField appends a labeled row holding field and any extra widgets, such
// as a browse button, to its right. The extras follow field in the focus
// order.
func (f *Form) AddField(label string, field widget.Widget, extra ...widget.Widget) {
	line := widget.NewContainer(widget.Row)
	line.Add(widget.NewLabel(label), widget.Percent(labelShare)).
		Add(field, widget.Fill())
	for _, w := range extra {
		line.Add(widget.NewContainer(widget.Row), widget.Fixed(style.SmallSpacing)).
			Add(w, widget.Shrink(4*style.FontSize))
	}
	f.Add(row{line}, widget.Fixed(style.ListRowHeight+style.TinySpacing))
	f.fields = append(f.fields, field)
	f.fields = append(f.fields, extra...)
}

// Fields returns the focusable widgets in order.
func (f *Form) Fields() []widget.Widget {
	return f.fields
}

// First returns the identity of the first field, NoID for an empty form.
func (f *Form) First() widget.ID {
	if len(f.fields) == 0 {
		return widget.NoID
	}
	return f.fields[0].ID()
}

// Current returns the index of the focused field.
func (f *Form) Current() int {
	return f.current
}

func (f *Form) action(ctx *widget.Context, a input.Action) bool {
	next := f.current
	switch a.Kind {
	case input.Up:
		next--
	case input.Down:
		next++
	default:
		return false
	}
	if next < 0 || next >= len(f.fields) {
		return true
	}
	f.current = next
	ctx.Deferred.Revert()
	ctx.Deferred.Focus(f.fields[next].ID())
	return true
}
