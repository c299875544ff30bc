package screens

import (
	"github.com/user-none/yaffe/ui/assets"
	"github.com/user-none/yaffe/ui/state"
	"github.com/user-none/yaffe/ui/style"
	"github.com/user-none/yaffe/ui/widget"
)

// SearchBar shows the selected group and its active filter above the grid.
type SearchBar struct {
	widget.Base
	st *state.State
}

// NewSearchBar creates a search bar for st.
func NewSearchBar(st *state.State) *SearchBar {
	return &SearchBar{Base: widget.NewBase(), st: st}
}

// FilterText describes the active filter of the selected group.
func (b *SearchBar) FilterText() string {
	g := b.st.SelectedGroup()
	if g == nil {
		return ""
	}
	if g.Kind == state.GroupPlugin {
		cur := b.st.PluginCursor()
		if cur.Filter == "" {
			return "All"
		}
		return cur.Filter + ": " + cur.Value
	}
	if g.Letter() == "" {
		return "All"
	}
	return "Starts with " + g.Letter()
}

func (b *SearchBar) Render(g widget.Graphics, _ widget.ID) {
	r := b.DrawRect()
	g.FillRect(r, style.Surface)
	group := b.st.SelectedGroup()
	if group == nil {
		return
	}

	y := r.Y + (r.H-style.FontSize)/2
	g.DrawText(group.Name, r.X+style.DefaultPadding, y, style.FontSize, style.Text, 0)

	// Filter hint on the right: [X] <filter>
	text := b.FilterText()
	tw := g.MeasureText(text, style.FontSize, 0).W
	x := r.Right() - style.DefaultPadding - tw
	g.DrawText(text, x, y, style.FontSize, style.TextSecondary, 0)
	icon := r.H - 2*style.TinySpacing
	g.DrawImage(widget.Rect{X: x - icon - style.SmallSpacing, Y: r.Y + style.TinySpacing, W: icon, H: icon},
		assets.Static(assets.ImageButtonX), 1)
}

// hint is one button icon with its label.
type hint struct {
	icon  assets.Image
	label string
}

var mainHints = []hint{
	{assets.ImageButtonA, "Select"},
	{assets.ImageButtonB, "Back"},
	{assets.ImageButtonX, "Filter"},
	{assets.ImageButtonY, "Info"},
}

// newToolbar builds the bottom bar: button hints on the left, status on the
// right.
func newToolbar(status *widget.Label) *widget.Container {
	bar := widget.NewContainer(widget.Row).
		WithBackground(widget.Solid(style.Surface)).
		WithPadding(style.TinySpacing)
	icon := style.ToolbarHeight - 2*style.TinySpacing
	for _, h := range mainHints {
		bar.Add(widget.NewImage(assets.Static(h.icon)), widget.Fixed(icon)).
			Add(widget.NewLabel(h.label), widget.Shrink(0)).
			Add(widget.NewContainer(widget.Row), widget.Fixed(style.DefaultSpacing))
	}
	status.Align = widget.End
	status.Color = style.TextSecondary
	return bar.Add(status, widget.Fill())
}
