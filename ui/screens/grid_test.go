package screens

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user-none/yaffe/plugins"
	"github.com/user-none/yaffe/ui/input"
	"github.com/user-none/yaffe/ui/state"
	"github.com/user-none/yaffe/ui/widget"
)

// twoPagePlugin serves two pages of ten items. The first item of each page
// is a folder.
type twoPagePlugin struct{}

func (twoPagePlugin) Name() string { return "Shows" }

func (twoPagePlugin) Initialize(plugins.Settings) ([]plugins.Filter, error) { return nil, nil }

func (twoPagePlugin) LoadTiles(q plugins.Query) (plugins.Page, error) {
	n := 1
	if q.Next != "" {
		fmt.Sscanf(q.Next, "p%d", &n)
	}
	var page plugins.Page
	for i := 0; i < 10; i++ {
		it := plugins.Item{Name: fmt.Sprintf("%sshow-%d-%d", q.Path, n, i), Path: fmt.Sprintf("%s/%d-%d", q.Path, n, i)}
		if i == 0 {
			it.Kind = plugins.TileFolder
		}
		page.Items = append(page.Items, it)
	}
	if n < 2 {
		page.Next = fmt.Sprintf("p%d", n+1)
	}
	return page, nil
}

func (twoPagePlugin) SelectTile(string, string, plugins.TileType) (plugins.SelectedAction, error) {
	return plugins.SelectedAction{}, nil
}

func (twoPagePlugin) Close() error { return nil }

// loadTarget resolves plugin loads against a State and records the rest.
type loadTarget struct {
	st      *state.State
	errs    []error
	reverts int
}

func (l *loadTarget) FocusWidget(*widget.Context, widget.ID) {}
func (l *loadTarget) RevertFocus(*widget.Context)            { l.reverts++ }
func (l *loadTarget) LoadPlugin(_ *widget.Context, mode widget.PluginLoad) {
	if _, err := l.st.LoadPlugin(mode); err != nil {
		l.errs = append(l.errs, err)
	}
}
func (l *loadTarget) DisplayMessage(*widget.Context, string, string)    {}
func (l *loadTarget) DisplayModal(*widget.Context, widget.ModalRequest) {}
func (l *loadTarget) CloseModal(*widget.Context, bool)                  {}
func (l *loadTarget) Toast(*widget.Context, string, time.Duration)      {}
func (l *loadTarget) Reload(*widget.Context)                            {}

func tileNames(g *state.Group) []string {
	out := make([]string, 0, g.Len())
	for _, t := range g.Tiles() {
		out = append(out, t.Name)
	}
	return out
}

func TestTileGridPluginPaging(t *testing.T) {
	f := newFixture(t)
	host := plugins.NewHost(func(string) (plugins.Plugin, error) { return twoPagePlugin{}, nil }, nil)
	_, err := host.Load("/plugins/shows" + plugins.LibraryExt)
	require.NoError(t, err)

	st := state.New(f.st.Settings, f.db, host)
	require.NoError(t, st.LoadGroups())
	var g *state.Group
	for i, grp := range st.Groups() {
		if grp.Kind == state.GroupPlugin {
			require.True(t, st.SelectGroup(i))
			g = grp
		}
	}
	require.NotNil(t, g)
	_, err = st.LoadPlugin(widget.PluginInitialize)
	require.NoError(t, err)
	require.Equal(t, 10, g.Len())
	firstPage := tileNames(g)

	grid := NewTileGrid(st)
	grid.SetBounds(widget.Rect{W: 400, H: 600})
	require.Equal(t, 4, grid.Columns())
	target := &loadTarget{st: st}

	// Down on the last row asks for the next page
	require.True(t, g.Select(9))
	ctx := newContext()
	assert.True(t, grid.Action(ctx, press(input.Down)))
	assert.Equal(t, []widget.Intent{widget.LoadPlugin{Mode: widget.PluginFetch}}, ctx.Deferred.Pending())
	ctx.Deferred.Drain(target, ctx)
	require.Empty(t, target.errs)
	require.Equal(t, 20, g.Len())
	assert.Equal(t, firstPage, tileNames(g)[:10], "fetch appends after the first page")
	last, _ := g.Tile(19)
	assert.Equal(t, "show-2-9", last.Name)

	// Back at the top of the plugin leaves the grid
	ctx = newContext()
	assert.True(t, grid.Action(ctx, press(input.Back)))
	assert.Equal(t, []widget.Intent{widget.RevertFocus{}}, ctx.Deferred.Pending())

	folder, _ := g.Tile(0)
	require.True(t, folder.Folder)
	require.NoError(t, st.OpenFolder(folder))
	require.Equal(t, 1, st.PluginDepth())
	first, _ := g.Tile(0)
	assert.Equal(t, "/1-0show-1-0", first.Name)

	// Back inside a folder restores the previous listing
	ctx = newContext()
	assert.True(t, grid.Action(ctx, press(input.Back)))
	assert.Equal(t, []widget.Intent{widget.LoadPlugin{Mode: widget.PluginBack}}, ctx.Deferred.Pending())
	ctx.Deferred.Drain(target, ctx)
	require.Empty(t, target.errs)
	assert.Zero(t, target.reverts)
	assert.Zero(t, st.PluginDepth())
	assert.Equal(t, firstPage, tileNames(g))
}
