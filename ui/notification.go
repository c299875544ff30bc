package ui

import (
	"time"

	"github.com/user-none/yaffe/ui/state"
	"github.com/user-none/yaffe/ui/style"
	"github.com/user-none/yaffe/ui/widget"
)

// toastMargin is the gap between toasts and the window edge.
const toastMargin = 8

// Notification draws the live toasts of the state stacked up from the
// bottom-right corner, newest at the bottom.
type Notification struct {
	st *state.State
}

// NewNotification creates the toast layer for st.
func NewNotification(st *state.State) *Notification {
	return &Notification{st: st}
}

// Draw renders the toasts that have not expired at now.
func (n *Notification) Draw(g widget.Graphics, window widget.Rect, now time.Time) {
	toasts := n.st.Toasts(now)
	padding := float32(style.SmallSpacing + style.TinySpacing)
	maxW := window.W / 2
	y := window.Bottom() - toastMargin

	for i := len(toasts) - 1; i >= 0; i-- {
		t := toasts[i]
		size := g.MeasureText(t.Text, style.SmallFontSize, maxW)
		bg := widget.Rect{
			W: size.W + padding*2,
			H: size.H + padding*2,
		}
		bg.X = window.Right() - bg.W - toastMargin
		bg.Y = y - bg.H
		if bg.Y < window.Y {
			return
		}

		// Fade out over the last half second
		alpha := float32(1)
		if left := t.Expires.Sub(now); left < 500*time.Millisecond {
			alpha = float32(left) / float32(500*time.Millisecond)
		}
		g.Panel(bg, style.Fade(style.Black, 0.6*alpha))
		g.DrawText(t.Text, bg.X+padding, bg.Y+padding, style.SmallFontSize, style.Fade(style.Text, alpha), maxW)
		y = bg.Y - style.TinySpacing
	}
}
