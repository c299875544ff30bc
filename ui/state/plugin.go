package state

import (
	"errors"
	"fmt"

	"github.com/user-none/yaffe/plugins"
	"github.com/user-none/yaffe/ui/widget"
)

// ErrNotPluginGroup is returned for plugin operations on another group kind.
var ErrNotPluginGroup = errors.New("selected group is not a plugin")

func (s *State) pluginGroup() (*Group, error) {
	g := s.SelectedGroup()
	if g == nil || g.Kind != GroupPlugin || s.host == nil {
		return nil, ErrNotPluginGroup
	}
	return g, nil
}

func (s *State) entry(g *Group) *plugins.Entry {
	entries := s.host.Entries()
	if g.Plugin < 0 || g.Plugin >= len(entries) {
		return nil
	}
	return entries[g.Plugin]
}

// LoadPlugin loads a listing of the selected plugin group. Initialize,
// Refresh and Back replace the group's tiles; Fetch appends the next page.
// It returns the number of tiles loaded. Fetch past the last page and Back
// with nothing to return to load nothing and are not errors.
func (s *State) LoadPlugin(mode widget.PluginLoad) (int, error) {
	g, err := s.pluginGroup()
	if err != nil {
		return 0, err
	}

	var page plugins.Page
	switch mode {
	case widget.PluginInitialize:
		page, err = s.host.Initialize(g.Plugin)
	case widget.PluginRefresh:
		page, err = s.host.Refresh(g.Plugin)
	case widget.PluginFetch:
		page, err = s.host.Fetch(g.Plugin)
		if errors.Is(err, plugins.ErrNoMorePages) {
			return 0, nil
		}
	case widget.PluginBack:
		var ok bool
		page, ok, err = s.host.Back(g.Plugin)
		if err == nil && !ok {
			return 0, nil
		}
	default:
		return 0, fmt.Errorf("unknown plugin load %s", mode)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load %s: %w", g.Name, err)
	}

	tiles := itemTiles(page.Items)
	if mode == widget.PluginFetch {
		g.appendTiles(tiles)
	} else {
		g.setTiles(tiles)
	}
	return len(tiles), nil
}

// PluginFilters returns the filters of the selected plugin group.
func (s *State) PluginFilters() []plugins.Filter {
	g, err := s.pluginGroup()
	if err != nil {
		return nil
	}
	if e := s.entry(g); e != nil {
		return e.Filters
	}
	return nil
}

// ApplyPluginFilter lists the selected plugin's items matching filter and
// value. The previous listing is kept for Back.
func (s *State) ApplyPluginFilter(filter, value string) error {
	g, err := s.pluginGroup()
	if err != nil {
		return err
	}
	page, err := s.host.Navigate(g.Plugin, plugins.Cursor{Filter: filter, Value: value})
	if err != nil {
		return fmt.Errorf("failed to filter %s: %w", g.Name, err)
	}
	s.replacePage(g, page)
	return nil
}

// OpenFolder lists the contents of a folder tile. The listing keeps the
// active filter.
func (s *State) OpenFolder(t Tile) error {
	g, err := s.pluginGroup()
	if err != nil {
		return err
	}
	if !t.Folder || t.Item == nil {
		return fmt.Errorf("%s is not a folder", t.Name)
	}
	var cur plugins.Cursor
	if e := s.entry(g); e != nil {
		cur = e.Cursor()
	}
	page, err := s.host.Navigate(g.Plugin, plugins.Cursor{Filter: cur.Filter, Value: cur.Value, Path: t.Item.Path})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", t.Name, err)
	}
	s.replacePage(g, page)
	return nil
}

func (s *State) replacePage(g *Group, page plugins.Page) {
	g.setTiles(itemTiles(page.Items))
}

func itemTiles(items []plugins.Item) []Tile {
	tiles := make([]Tile, len(items))
	for i, it := range items {
		tiles[i] = itemTile(it)
	}
	return tiles
}

// PluginDepth returns how many listings the selected plugin group can go
// back through. It is 0 for other group kinds.
func (s *State) PluginDepth() int {
	g, err := s.pluginGroup()
	if err != nil {
		return 0
	}
	if e := s.entry(g); e != nil {
		return e.Depth()
	}
	return 0
}

// PluginCursor returns the listing position of the selected plugin group.
func (s *State) PluginCursor() plugins.Cursor {
	g, err := s.pluginGroup()
	if err != nil {
		return plugins.Cursor{}
	}
	if e := s.entry(g); e != nil {
		return e.Cursor()
	}
	return plugins.Cursor{}
}
