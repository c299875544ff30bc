package screens

import (
	"fmt"
	"maps"
	"slices"

	"github.com/user-none/yaffe/ui/anim"
	"github.com/user-none/yaffe/ui/assets"
	"github.com/user-none/yaffe/ui/state"
	"github.com/user-none/yaffe/ui/style"
	"github.com/user-none/yaffe/ui/widget"
)

// InfoPane slides in over the right of the main screen with the details of
// the selected tile. OffsetX is its slide position: 0 when shown, its
// width when hidden.
type InfoPane struct {
	widget.Base
	st *state.State
}

// offscreen is a slide position past any pane width.
const offscreen = 1 << 20

// maxPathLen is the longest file path shown before it is cut from the start.
const maxPathLen = 48

// NewInfoPane creates a hidden pane.
func NewInfoPane(st *state.State) *InfoPane {
	p := &InfoPane{Base: widget.NewBase(), st: st}
	p.OffsetX = offscreen
	return p
}

// Hidden reports whether the pane is fully off screen.
func (p *InfoPane) Hidden() bool {
	return p.OffsetX >= p.Bounds().W
}

// Slide animates the pane in or out.
func (p *InfoPane) Slide(ctx *widget.Context, show bool) {
	w := p.Bounds().W
	p.OffsetX = min(p.OffsetX, w)
	target := w
	if show {
		target = 0
	}
	if ctx.Anims == nil {
		p.OffsetX = target
		return
	}
	ctx.Anims.Animate(p.ID(), anim.OffsetX, target, style.FocusAnimDuration)
}

func tileDetails(t state.Tile) []string {
	var out []string
	if t.Released != "" {
		out = append(out, "Released: "+t.Released)
	}
	if t.Players > 0 {
		out = append(out, fmt.Sprintf("Players: %d", t.Players))
	}
	if t.GameID != 0 {
		out = append(out, "Last played: "+style.FormatLastPlayed(t.LastRun))
	}
	if t.File != "" {
		file, _ := style.TruncateStart(t.File, maxPathLen)
		out = append(out, "File: "+file)
	}
	if t.Item != nil {
		for _, k := range slices.Sorted(maps.Keys(t.Item.Metadata)) {
			if k == "rating" {
				continue
			}
			out = append(out, k+": "+t.Item.Metadata[k])
		}
	}
	return out
}

func (p *InfoPane) Render(g widget.Graphics, _ widget.ID) {
	if p.Hidden() {
		return
	}
	r := p.DrawRect()
	g.Panel(r, style.Surface)

	t, ok := p.st.SelectedTile()
	if !ok {
		return
	}
	inner := r.Inset(style.DefaultPadding)
	y := inner.Y

	artW := inner.W / 2
	art := widget.Rect{X: inner.X, Y: y, W: artW, H: artW * style.TileAspect}
	if !g.DrawImage(art, t.ImageKey(), p.Alpha) {
		g.DrawImage(art, assets.Static(assets.ImagePlaceholder), p.Alpha)
	}

	// Title and facts to the right of the boxart
	x := art.Right() + style.SmallSpacing
	w := inner.Right() - x
	g.DrawText(t.Name, x, y, style.TitleFontSize, style.Text, w)
	y += g.MeasureText(t.Name, style.TitleFontSize, w).H + style.SmallSpacing
	if img, ok := t.RatingImage(); ok {
		g.DrawImage(widget.Rect{X: x, Y: y, W: style.TitleFontSize * 2, H: style.TitleFontSize * 2}, assets.Static(img), p.Alpha)
		y += style.TitleFontSize*2 + style.SmallSpacing
	}
	for _, line := range tileDetails(t) {
		g.DrawText(line, x, y, style.SmallFontSize, style.TextSecondary, w)
		y += style.SmallFontSize + style.TinySpacing
	}

	y = max(y, art.Bottom()) + style.DefaultSpacing
	if t.Overview != "" {
		g.DrawText(t.Overview, inner.X, y, style.FontSize, style.Text, inner.W)
	}
}
