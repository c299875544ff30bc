package screens

import (
	"github.com/user-none/yaffe/ui/anim"
	"github.com/user-none/yaffe/ui/assets"
	"github.com/user-none/yaffe/ui/input"
	"github.com/user-none/yaffe/ui/state"
	"github.com/user-none/yaffe/ui/storage"
	"github.com/user-none/yaffe/ui/style"
	"github.com/user-none/yaffe/ui/widget"
)

// TileGrid shows the tiles of the selected group as a scrolling grid of
// boxart.
type TileGrid struct {
	widget.Base
	Scroll float32

	// OnLaunch runs when Accept is pressed on a tile.
	OnLaunch func(ctx *widget.Context, t state.Tile)

	st *state.State

	// group and revision detect a new listing so the scroll can snap to it.
	group    *state.Group
	revision int
}

// NewTileGrid creates a grid over the selected group of st.
func NewTileGrid(st *state.State) *TileGrid {
	return &TileGrid{Base: widget.NewBase(), st: st}
}

// Columns is the number of tiles per row.
func (t *TileGrid) Columns() int {
	n := int(t.st.Settings.I32(storage.KeyTileColumns))
	if n < 1 {
		n = 1
	}
	return n
}

// TileSize returns the width and height of one tile.
func (t *TileGrid) TileSize() (float32, float32) {
	cols := float32(t.Columns())
	w := (t.Bounds().W - (cols+1)*style.TileSpacing) / cols
	if w < 0 {
		w = 0
	}
	return w, w * style.TileAspect
}

// TileRect returns the rectangle of tile i relative to the current scroll.
func (t *TileGrid) TileRect(i int) widget.Rect {
	r := t.DrawRect()
	w, h := t.TileSize()
	cols := t.Columns()
	row, col := i/cols, i%cols
	return widget.Rect{
		X: r.X + style.TileSpacing + float32(col)*(w+style.TileSpacing),
		Y: r.Y + style.TileSpacing + float32(row)*(h+style.TileSpacing) - t.Scroll,
		W: w,
		H: h,
	}
}

// scrollFor returns the scroll offset that keeps tile i in view.
func (t *TileGrid) scrollFor(i int) float32 {
	if i < 0 {
		return 0
	}
	_, h := t.TileSize()
	rowH := h + style.TileSpacing
	top := float32(i/t.Columns()) * rowH
	bottom := top + rowH + style.TileSpacing
	view := t.Bounds().H

	s := t.Scroll
	if top < s {
		s = top
	} else if bottom > s+view {
		s = bottom - view
	}
	if s < 0 {
		s = 0
	}
	return s
}

func (t *TileGrid) move(ctx *widget.Context, g *state.Group, next int) {
	g.Select(next)
	target := t.scrollFor(next)
	if target == t.Scroll {
		return
	}
	if ctx.Anims != nil {
		ctx.Anims.Animate(t.ID(), anim.Scroll, target, style.ScrollAnimDuration)
	} else {
		t.Scroll = target
	}
}

func (t *TileGrid) Action(ctx *widget.Context, a input.Action) bool {
	g := t.st.SelectedGroup()
	if g == nil {
		return false
	}
	if a.Kind == input.Back {
		if g.Kind == state.GroupPlugin && t.st.PluginDepth() > 0 {
			ctx.Deferred.LoadPlugin(widget.PluginBack)
		} else {
			ctx.Deferred.Revert()
		}
		return true
	}

	n := g.Len()
	sel := g.Selected()
	if n == 0 {
		if a.Kind == input.Left {
			ctx.Deferred.Revert()
			return true
		}
		return false
	}
	cols := t.Columns()

	switch a.Kind {
	case input.Left:
		if sel%cols == 0 {
			ctx.Deferred.Revert()
			return true
		}
		t.move(ctx, g, sel-1)
		return true
	case input.Right:
		if sel%cols == cols-1 || sel+1 >= n {
			return true
		}
		t.move(ctx, g, sel+1)
		return true
	case input.Up:
		if sel < cols {
			return true
		}
		t.move(ctx, g, sel-cols)
		return true
	case input.Down:
		lastRow := (n - 1) / cols
		if sel/cols == lastRow {
			if g.Kind == state.GroupPlugin {
				ctx.Deferred.LoadPlugin(widget.PluginFetch)
			}
			return true
		}
		next := sel + cols
		if next >= n {
			next = n - 1
		}
		t.move(ctx, g, next)
		return true
	case input.Accept:
		tile, ok := g.SelectedTile()
		if !ok || t.OnLaunch == nil {
			return false
		}
		t.OnLaunch(ctx, tile)
		return true
	}
	return false
}

// AnimatedField adds Scroll to the base fields.
func (t *TileGrid) AnimatedField(f anim.Field) *float32 {
	if f == anim.Scroll {
		return &t.Scroll
	}
	return t.Base.AnimatedField(f)
}

func (t *TileGrid) Render(g widget.Graphics, focused widget.ID) {
	group := t.st.SelectedGroup()
	r := t.DrawRect()
	if group == nil || group.Len() == 0 {
		msg := "No items"
		if group != nil && group.Letter() != "" {
			msg = "No items starting with " + group.Letter()
		}
		size := g.MeasureText(msg, style.FontSize, 0)
		g.DrawText(msg, r.X+(r.W-size.W)/2, r.Y+(r.H-size.H)/2, style.FontSize, style.TextSecondary, 0)
		t.group, t.revision = group, -1
		return
	}

	sel := group.Selected()
	if group != t.group || group.Revision() != t.revision {
		// New listing
		t.Scroll = 0
		t.Scroll = t.scrollFor(sel)
		t.group, t.revision = group, group.Revision()
	}

	locked := t.st.Locked()
	for i, tile := range group.Tiles() {
		tr := t.TileRect(i)
		if tr.Bottom() < r.Y {
			continue
		}
		if tr.Y > r.Bottom() {
			break
		}
		t.renderTile(g, tr, tile, locked)
		if i == sel {
			c := style.Border
			if focused == t.ID() {
				c = style.Accent
			}
			g.StrokeRect(tr, style.OutlineWidth, c)
		}
	}
}

func (t *TileGrid) renderTile(g widget.Graphics, r widget.Rect, tile state.Tile, locked bool) {
	if !g.DrawImage(r, tile.ImageKey(), t.Alpha) {
		g.DrawImage(r, assets.Static(assets.ImagePlaceholder), t.Alpha)
		inner := r.Inset(style.SmallSpacing)
		g.DrawText(tile.Name, inner.X, inner.Y, style.SmallFontSize, style.Text, inner.W)
	}
	if tile.Folder {
		g.DrawImage(widget.Rect{X: r.X + style.TinySpacing, Y: r.Y + style.TinySpacing, W: style.FontSize, H: style.FontSize},
			assets.Static(assets.ImageApps), t.Alpha)
	}
	if tile.Restricted && locked {
		g.FillRect(r, style.Overlay)
	}
}
