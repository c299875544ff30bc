// Package state is the front-end's model: the tile groups, the selection,
// restricted mode, toasts, and the running child process. It is owned by
// the UI thread.
package state

import (
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/text/collate"

	"github.com/user-none/yaffe/plugins"
	"github.com/user-none/yaffe/ui/assets"
	"github.com/user-none/yaffe/ui/storage"
	"github.com/user-none/yaffe/ui/widget"
)

// Store is the part of the metadata database the front-end reads and
// updates. *storage.DB satisfies it.
type Store interface {
	Platforms() ([]storage.Platform, error)
	Platform(id int64) (storage.Platform, error)
	Games(platformID int64) ([]storage.Game, error)
	RecentGames(n int) ([]storage.Game, error)
	UpdateLastRun(gameID int64, at time.Time) error
}

// PluginHost is the plugin registry. *plugins.Host satisfies it.
type PluginHost interface {
	Entries() []*plugins.Entry
	Initialize(i int) (plugins.Page, error)
	Refresh(i int) (plugins.Page, error)
	Fetch(i int) (plugins.Page, error)
	Navigate(i int, to plugins.Cursor) (plugins.Page, error)
	Back(i int) (plugins.Page, bool, error)
	Select(i int, item plugins.Item) (plugins.SelectedAction, error)
}

// Toast is a transient message.
type Toast struct {
	Text    string
	Expires time.Time
}

// State holds everything the screens render from.
type State struct {
	Settings *storage.Settings

	store    Store
	host     PluginHost
	collator *collate.Collator
	now      func() time.Time

	// Spawn starts child processes. Tests replace it.
	Spawn Spawner
	// HelperPath is the helper binary used for web views.
	HelperPath string

	groups   []*Group
	selected int

	passcode string
	locked   bool

	toasts []Toast

	process     Process
	processName string

	generation uint64
	dirty      bool
}

// New creates the state. host may be nil when plugins are disabled.
func New(settings *storage.Settings, store Store, host PluginHost) *State {
	s := &State{
		Settings: settings,
		store:    store,
		host:     host,
		collator: NewCollator(),
		now:      time.Now,
		Spawn:    StartProcess,
	}
	s.passcode = settings.String(storage.KeyRestrictedPasscode)
	s.locked = s.passcode != ""
	return s
}

// SetClock replaces the time source. Used by tests.
func (s *State) SetClock(now func() time.Time) {
	s.now = now
}

// Groups returns the tile groups in display order.
func (s *State) Groups() []*Group {
	return s.groups
}

// SelectedGroupIndex returns the index of the selected group.
func (s *State) SelectedGroupIndex() int {
	return s.selected
}

// SelectedGroup returns the selected group, nil when there are none.
func (s *State) SelectedGroup() *Group {
	if s.selected < 0 || s.selected >= len(s.groups) {
		return nil
	}
	return s.groups[s.selected]
}

// SelectGroup changes the selected group.
func (s *State) SelectGroup(i int) bool {
	if i < 0 || i >= len(s.groups) {
		return false
	}
	s.selected = i
	return true
}

// SelectedTile returns the selected tile of the selected group.
func (s *State) SelectedTile() (Tile, bool) {
	g := s.SelectedGroup()
	if g == nil {
		return Tile{}, false
	}
	return g.SelectedTile()
}

// LoadGroups rebuilds the group list from the store and plugin host:
// recents first, then one group per platform, then one per plugin. The
// selection is kept on the same group when it still exists.
func (s *State) LoadGroups() error {
	platforms, err := s.store.Platforms()
	if err != nil {
		return err
	}

	prev := s.SelectedGroup()

	groups := []*Group{{Kind: GroupRecents, Name: "Recent", Icon: assets.ImageRecents}}
	for _, p := range platforms {
		groups = append(groups, &Group{Kind: GroupEmulator, Name: p.Name, Icon: assets.ImageEmulator, PlatformID: p.ID})
	}
	if s.host != nil {
		for i, e := range s.host.Entries() {
			groups = append(groups, &Group{Kind: GroupPlugin, Name: e.Plugin.Name(), Icon: assets.ImageApps, Plugin: i})
		}
	}

	s.groups = groups
	s.selected = 0
	if prev != nil {
		for i, g := range groups {
			if g.Kind == prev.Kind && g.PlatformID == prev.PlatformID && g.Plugin == prev.Plugin {
				s.selected = i
				break
			}
		}
	}

	var errs []error
	for _, g := range groups {
		if g.Kind == GroupPlugin {
			continue
		}
		if err := s.refresh(g); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Refresh reloads the selected group. Plugin groups are loaded through
// LoadPlugin instead.
func (s *State) Refresh() error {
	g := s.SelectedGroup()
	if g == nil {
		return nil
	}
	if g.Kind == GroupPlugin {
		_, err := s.LoadPlugin(widget.PluginRefresh)
		return err
	}
	return s.refresh(g)
}

// RefreshRecents reloads the recents group.
func (s *State) RefreshRecents() error {
	for _, g := range s.groups {
		if g.Kind == GroupRecents {
			return s.refresh(g)
		}
	}
	return nil
}

func (s *State) refresh(g *Group) error {
	var (
		games []storage.Game
		err   error
	)
	switch g.Kind {
	case GroupEmulator:
		games, err = s.store.Games(g.PlatformID)
	case GroupRecents:
		games, err = s.store.RecentGames(int(s.Settings.I32(storage.KeyRecentPageCount)))
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", g.Name, err)
	}

	tiles := make([]Tile, len(games))
	for i, game := range games {
		tiles[i] = gameTile(game)
	}
	if g.Kind == GroupEmulator {
		SortTiles(s.collator, tiles)
	}
	g.setTiles(tiles)
	return nil
}

// CycleLetter advances the selected group's first-letter filter by delta
// through Letters, wrapping at either end.
func (s *State) CycleLetter(delta int) string {
	g := s.SelectedGroup()
	if g == nil || g.Kind == GroupPlugin {
		return ""
	}
	cur := 0
	for i, l := range Letters {
		if l == g.letter {
			cur = i
			break
		}
	}
	n := len(Letters)
	next := ((cur+delta)%n + n) % n
	g.SetLetter(Letters[next])
	return g.letter
}

// NextGeneration starts a new scan and returns its id. Results tagged with
// an older id are stale.
func (s *State) NextGeneration() uint64 {
	s.generation++
	return s.generation
}

// Generation returns the current scan id.
func (s *State) Generation() uint64 {
	return s.generation
}

// MarkDirty requests a reload of every group on the next frame.
func (s *State) MarkDirty() {
	s.dirty = true
}

// TakeDirty reports and clears the reload request.
func (s *State) TakeDirty() bool {
	d := s.dirty
	s.dirty = false
	return d
}

// AddToast shows text for d.
func (s *State) AddToast(text string, d time.Duration) {
	log.Printf("Toast: %s", text)
	s.toasts = append(s.toasts, Toast{Text: text, Expires: s.now().Add(d)})
}

// Toasts returns the toasts that have not expired at now and drops the rest.
func (s *State) Toasts(now time.Time) []Toast {
	live := s.toasts[:0]
	for _, t := range s.toasts {
		if now.Before(t.Expires) {
			live = append(live, t)
		}
	}
	s.toasts = live
	return live
}
