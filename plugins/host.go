package plugins

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultPageSize is the item limit sent with each LoadTiles query.
const DefaultPageSize = 50

// Opener creates a plugin from a library path.
type Opener func(path string) (Plugin, error)

// SettingsFunc returns the raw settings of the plugin with the given file
// stem.
type SettingsFunc func(stem string) map[string]string

// Cursor is a position in a plugin's listings.
type Cursor struct {
	Filter string
	Value  string
	Path   string
	// Next is the token of the next page. Done marks that the last page
	// has been returned.
	Next string
	Done bool
}

// Entry is a registered plugin.
type Entry struct {
	Path    string
	Plugin  Plugin
	Filters []Filter

	cursor Cursor
	nav    []Cursor
}

// Stem is the library file name without extension. Plugin settings are
// namespaced by it.
func (e *Entry) Stem() string {
	base := filepath.Base(e.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Cursor returns the current listing position.
func (e *Entry) Cursor() Cursor {
	return e.cursor
}

// Depth is the number of listings Back can return to.
func (e *Entry) Depth() int {
	return len(e.nav)
}

// Host loads plugins and tracks their paging and navigation state. Plugin
// methods are only called from the UI goroutine; the mutex guards the
// registry against the directory watcher.
type Host struct {
	PageSize int

	mu       sync.Mutex
	open     Opener
	settings SettingsFunc
	entries  []*Entry
}

// NewHost creates a host. A nil open uses Open; a nil settings passes empty
// settings to every plugin.
func NewHost(open Opener, settings SettingsFunc) *Host {
	if open == nil {
		open = Open
	}
	return &Host{PageSize: DefaultPageSize, open: open, settings: settings}
}

// IsLibrary reports whether path has the platform's plugin extension.
func IsLibrary(path string) bool {
	return strings.EqualFold(filepath.Ext(path), LibraryExt)
}

// LoadDir loads every plugin library in dir. Plugins that fail are skipped
// and their errors returned.
func (h *Host) LoadDir(dir string) []error {
	ents, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return []error{fmt.Errorf("failed to read plugin directory: %w", err)}
	}

	var errs []error
	for _, de := range ents {
		if de.IsDir() || !IsLibrary(de.Name()) {
			continue
		}
		if _, err := h.Load(filepath.Join(dir, de.Name())); err != nil {
			log.Printf("Failed to load plugin %s: %v", de.Name(), err)
			errs = append(errs, err)
		}
	}
	return errs
}

// Load opens and initializes one plugin and registers it. A path that is
// already registered is returned as is.
func (h *Host) Load(path string) (*Entry, error) {
	e, _, err := h.Add(path)
	return e, err
}

// Add is Load that also reports whether the plugin was newly registered.
func (h *Host) Add(path string) (*Entry, bool, error) {
	h.mu.Lock()
	for _, e := range h.entries {
		if e.Path == path {
			h.mu.Unlock()
			return e, false, nil
		}
	}
	h.mu.Unlock()

	p, err := guard(filepath.Base(path), "open", func() (Plugin, error) { return h.open(path) })
	if err != nil {
		return nil, false, err
	}
	e := &Entry{Path: path, Plugin: p}

	settings := Settings{}
	if h.settings != nil {
		for k, v := range h.settings(e.Stem()) {
			settings[k] = ParseSettingValue(v)
		}
	}
	filters, err := guard(p.Name(), "initialize", func() ([]Filter, error) { return p.Initialize(settings) })
	if err != nil {
		p.Close()
		return nil, false, fmt.Errorf("failed to initialize plugin %s: %w", e.Stem(), err)
	}
	e.Filters = filters

	h.mu.Lock()
	h.entries = append(h.entries, e)
	h.mu.Unlock()
	return e, true, nil
}

// Len returns the number of registered plugins.
func (h *Host) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Entries returns the registered plugins in load order.
func (h *Host) Entries() []*Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*Entry(nil), h.entries...)
}

// Get returns the plugin at index i.
func (h *Host) Get(i int) (*Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if i < 0 || i >= len(h.entries) {
		return nil, ErrNoPlugin
	}
	return h.entries[i], nil
}

func (h *Host) load(e *Entry) (Page, error) {
	q := Query{
		Filter: e.cursor.Filter,
		Value:  e.cursor.Value,
		Path:   e.cursor.Path,
		Next:   e.cursor.Next,
		Limit:  h.PageSize,
	}
	page, err := guard(e.Plugin.Name(), "load_tiles", func() (Page, error) { return e.Plugin.LoadTiles(q) })
	if err != nil {
		return Page{}, err
	}
	e.cursor.Next = page.Next
	e.cursor.Done = page.Next == ""
	return page, nil
}

// Initialize resets plugin i to its top-level listing and loads the first
// page.
func (h *Host) Initialize(i int) (Page, error) {
	e, err := h.Get(i)
	if err != nil {
		return Page{}, err
	}
	e.cursor = Cursor{}
	e.nav = nil
	return h.load(e)
}

// Refresh reloads the first page of the current listing.
func (h *Host) Refresh(i int) (Page, error) {
	e, err := h.Get(i)
	if err != nil {
		return Page{}, err
	}
	e.cursor.Next = ""
	e.cursor.Done = false
	return h.load(e)
}

// Fetch loads the next page of the current listing. It returns
// ErrNoMorePages after the last page.
func (h *Host) Fetch(i int) (Page, error) {
	e, err := h.Get(i)
	if err != nil {
		return Page{}, err
	}
	if e.cursor.Done {
		return Page{}, ErrNoMorePages
	}
	return h.load(e)
}

// Navigate pushes the current listing and loads the first page of to.
func (h *Host) Navigate(i int, to Cursor) (Page, error) {
	e, err := h.Get(i)
	if err != nil {
		return Page{}, err
	}
	prev := e.cursor
	e.nav = append(e.nav, prev)
	e.cursor = Cursor{Filter: to.Filter, Value: to.Value, Path: to.Path}
	page, err := h.load(e)
	if err != nil {
		e.nav = e.nav[:len(e.nav)-1]
		e.cursor = prev
		return Page{}, err
	}
	return page, nil
}

// Back pops to the previous listing and reloads its first page. ok is
// false when there is no previous listing.
func (h *Host) Back(i int) (page Page, ok bool, err error) {
	e, err := h.Get(i)
	if err != nil {
		return Page{}, false, err
	}
	if len(e.nav) == 0 {
		return Page{}, false, nil
	}
	e.cursor = e.nav[len(e.nav)-1]
	e.nav = e.nav[:len(e.nav)-1]
	e.cursor.Next = ""
	e.cursor.Done = false
	page, err = h.load(e)
	return page, true, err
}

// Select resolves a chosen item.
func (h *Host) Select(i int, item Item) (SelectedAction, error) {
	e, err := h.Get(i)
	if err != nil {
		return SelectedAction{}, err
	}
	return guard(e.Plugin.Name(), "select_tile", func() (SelectedAction, error) {
		return e.Plugin.SelectTile(item.Name, item.Path, item.Kind)
	})
}

// Close releases every plugin.
func (h *Host) Close() {
	h.mu.Lock()
	entries := h.entries
	h.entries = nil
	h.mu.Unlock()

	for _, e := range entries {
		if err := e.Plugin.Close(); err != nil {
			log.Printf("Failed to close plugin %s: %v", e.Stem(), err)
		}
	}
}
