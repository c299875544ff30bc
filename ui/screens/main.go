package screens

import (
	"github.com/user-none/yaffe/plugins"
	"github.com/user-none/yaffe/ui/assets"
	"github.com/user-none/yaffe/ui/input"
	"github.com/user-none/yaffe/ui/modal"
	"github.com/user-none/yaffe/ui/state"
	"github.com/user-none/yaffe/ui/storage"
	"github.com/user-none/yaffe/ui/style"
	"github.com/user-none/yaffe/ui/widget"
)

// sidebarShare is the part of the window taken by the group list.
const sidebarShare = 0.2

// groupItem shows a tile group in the sidebar.
type groupItem struct {
	group *state.Group
}

func (i groupItem) DisplayString() string { return i.group.Name }

// filterItem shows a plugin filter in the filter modal. A nil filter clears
// the active one.
type filterItem struct {
	filter *plugins.Filter
}

func (i filterItem) DisplayString() string {
	if i.filter == nil {
		return "All"
	}
	return i.filter.Name
}

// Main is the root of the main screen: the group list on the left, and
// the search bar, tile grid and toolbar on the right. The info pane slides
// in over the right edge.
type Main struct {
	*widget.Container

	st      *state.State
	catalog Catalog
	cb      Callback
	picker  *Picker
	scanner *Scanner

	groups *widget.List[groupItem]
	search *SearchBar
	grid   *TileGrid
	info   *InfoPane
	status *widget.Label

	infoOpen bool
}

// NewMain builds the main screen over st.
func NewMain(st *state.State, catalog Catalog, cb Callback) *Main {
	m := &Main{
		st:      st,
		catalog: catalog,
		cb:      cb,
		picker:  NewPicker(),
		scanner: NewScanner(st, catalog, cb),
		groups:  widget.NewList[groupItem](nil),
		search:  NewSearchBar(st),
		grid:    NewTileGrid(st),
		info:    NewInfoPane(st),
		status:  widget.NewLabel(""),
	}
	m.groups.OnSelect = m.selectGroup
	m.groups.OnAccept = func(ctx *widget.Context, _ groupItem) {
		ctx.Deferred.Focus(m.grid.ID())
	}
	m.grid.OnLaunch = m.launch

	sidebar := widget.NewContainer(widget.Column).
		WithBackground(widget.Solid(style.Fade(style.Background, 0.85))).
		WithPadding(style.SmallSpacing).
		Add(m.groups, widget.Fill())
	sidebar.OnAction = func(ctx *widget.Context, a input.Action) bool {
		if a.Kind != input.Right {
			return false
		}
		ctx.Deferred.Focus(m.grid.ID())
		return true
	}

	center := widget.NewContainer(widget.Column).
		Add(m.search, widget.Fixed(style.SearchBarHeight)).
		Add(m.grid, widget.Fill()).
		Add(newToolbar(m.status), widget.Fixed(style.ToolbarHeight))

	m.Container = widget.NewContainer(widget.Row).
		WithBackground(widget.ImageOf(assets.Static(assets.ImageBackground))).
		Add(sidebar, widget.Percent(sidebarShare)).
		Add(center, widget.Fill())
	m.OnAction = m.action

	m.Sync()
	return m
}

// Scanner returns the handler of scraper results.
func (m *Main) Scanner() *Scanner { return m.scanner }

// Start focuses the group list.
func (m *Main) Start(ctx *widget.Context) {
	ctx.Deferred.Focus(m.groups.ID())
}

// Sync reloads the sidebar from the state's groups.
func (m *Main) Sync() {
	groups := m.st.Groups()
	items := make([]groupItem, len(groups))
	for i, g := range groups {
		items[i] = groupItem{group: g}
	}
	m.groups.SetItems(items)
	if len(items) > 0 {
		m.groups.Selected = m.st.SelectedGroupIndex()
	}
}

// Update runs once per frame on the UI thread.
func (m *Main) Update() {
	m.picker.Update()
}

// Children adds the info pane so focus and animation lookups reach it.
func (m *Main) Children() []widget.Widget {
	return append(m.Container.Children(), m.info)
}

func (m *Main) Render(g widget.Graphics, focused widget.ID) {
	m.status.Text = ""
	if p, name := m.st.Running(); p != nil {
		m.status.Text = "Running: " + name
	}
	m.Container.Render(g, focused)

	b := m.Bounds()
	w := b.W * m.st.Settings.F32(storage.KeyInfoPaneWidth)
	m.info.SetBounds(widget.Rect{X: b.Right() - w, Y: b.Y, W: w, H: b.H})
	g.SetBounds(m.info.Bounds())
	m.info.Render(g, focused)
}

func (m *Main) selectGroup(ctx *widget.Context, i int) {
	if !m.st.SelectGroup(i) {
		return
	}
	if g := m.st.SelectedGroup(); g.Kind == state.GroupPlugin && g.Len() == 0 {
		ctx.Deferred.LoadPlugin(widget.PluginInitialize)
	}
}

func (m *Main) action(ctx *widget.Context, a input.Action) bool {
	switch a.Kind {
	case input.Info:
		m.infoOpen = !m.infoOpen
		m.info.Slide(ctx, m.infoOpen)
	case input.Filter:
		m.filter(ctx)
	case input.ShowMenu:
		m.showMenu(ctx)
	case input.ToggleOverlay:
		if p, _ := m.st.Running(); p != nil {
			ctx.Deferred.Modal(OverlayModal(m.st))
		}
	case input.Back:
		// Nothing above the main screen
	default:
		return false
	}
	return true
}

// filter cycles the first-letter filter of emulator and recents groups and
// asks for a plugin filter on plugin groups.
func (m *Main) filter(ctx *widget.Context) {
	g := m.st.SelectedGroup()
	if g == nil {
		return
	}
	if g.Kind != state.GroupPlugin {
		m.st.CycleLetter(1)
		return
	}

	filters := m.st.PluginFilters()
	if len(filters) == 0 {
		ctx.Deferred.Toast(g.Name+" has no filters", style.ToastDuration)
		return
	}
	items := []filterItem{{}}
	for i := range filters {
		items = append(items, filterItem{filter: &filters[i]})
	}
	req, _ := modal.List("Filter", items, func(ctx *widget.Context, it filterItem) {
		if it.filter == nil {
			ctx.Deferred.LoadPlugin(widget.PluginInitialize)
			return
		}
		f := *it.filter
		var values []widget.StringItem
		for _, v := range f.Values() {
			values = append(values, widget.StringItem(v))
		}
		next, _ := modal.List(f.Name, values, func(ctx *widget.Context, v widget.StringItem) {
			if err := m.st.ApplyPluginFilter(f.Name, string(v)); err != nil {
				showError(ctx, err)
			}
		})
		ctx.Deferred.Modal(next)
	})
	ctx.Deferred.Modal(req)
}

// launch starts t, asking for the passcode first when restricted mode
// blocks it.
func (m *Main) launch(ctx *widget.Context, t state.Tile) {
	if !m.st.Allowed(t) {
		requireUnlocked(ctx, m.st, func(ctx *widget.Context) {
			m.launch(ctx, t)
		})
		return
	}
	started, err := m.st.Launch(t)
	if err != nil {
		showError(ctx, err)
		return
	}
	if started {
		ctx.Deferred.Toast("Launching "+t.Name, style.ToastDuration)
	}
}
