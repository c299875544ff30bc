package plugins

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlugin serves ten named items per page over the given number of pages.
type fakePlugin struct {
	name    string
	pages   int
	queries []Query
	panicOn string
	initErr error
	closed  bool
	got     Settings
}

func (f *fakePlugin) Name() string { return f.name }

func (f *fakePlugin) Initialize(s Settings) ([]Filter, error) {
	f.got = s
	if f.initErr != nil {
		return nil, f.initErr
	}
	return []Filter{{Name: "Letter", From: 'A', To: 'C'}}, nil
}

func (f *fakePlugin) LoadTiles(q Query) (Page, error) {
	if f.panicOn == "load" {
		panic("boom")
	}
	f.queries = append(f.queries, q)
	n := 1
	if q.Next != "" {
		fmt.Sscanf(q.Next, "page%d", &n)
	}
	page := Page{}
	for i := 0; i < 10; i++ {
		page.Items = append(page.Items, Item{Name: fmt.Sprintf("%s%s-%d-%d", q.Value, q.Path, n, i), Path: q.Path})
	}
	if n < f.pages {
		page.Next = fmt.Sprintf("page%d", n+1)
	}
	return page, nil
}

func (f *fakePlugin) SelectTile(name, path string, kind TileType) (SelectedAction, error) {
	if kind == TileFolder {
		return SelectedAction{}, errors.New("folders are navigated")
	}
	return SelectedAction{Kind: ActionWebview, URL: "https://example.com/" + name}, nil
}

func (f *fakePlugin) Close() error {
	f.closed = true
	return nil
}

func hostWith(p *fakePlugin) (*Host, *Entry, error) {
	h := NewHost(func(string) (Plugin, error) { return p, nil }, nil)
	e, err := h.Load("/plugins/fake" + LibraryExt)
	return h, e, err
}

func TestPluginNavigation(t *testing.T) {
	p := &fakePlugin{name: "fake", pages: 2}
	h, e, err := hostWith(p)
	require.NoError(t, err)
	require.Len(t, e.Filters, 1)
	assert.Equal(t, []string{"A", "B", "C"}, e.Filters[0].Values())

	page, err := h.Initialize(0)
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, "page2", page.Next)

	page, err = h.Navigate(0, Cursor{Filter: "Letter", Value: "B"})
	require.NoError(t, err)
	assert.Equal(t, "B-1-0", page.Items[0].Name)
	assert.Equal(t, 1, e.Depth())

	page, err = h.Fetch(0)
	require.NoError(t, err)
	assert.Equal(t, "B-2-0", page.Items[0].Name)
	assert.Empty(t, page.Next)

	_, err = h.Fetch(0)
	assert.ErrorIs(t, err, ErrNoMorePages)

	page, ok, err := h.Back(0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "-1-0", page.Items[0].Name)
	assert.Equal(t, Cursor{Next: "page2"}, e.Cursor())

	last := p.queries[len(p.queries)-1]
	assert.Equal(t, Query{Limit: DefaultPageSize}, last, "back should reload the prior listing from its first page")

	_, ok, err = h.Back(0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPluginFolderNavigation(t *testing.T) {
	p := &fakePlugin{name: "fake", pages: 1}
	h, e, err := hostWith(p)
	require.NoError(t, err)

	_, err = h.Initialize(0)
	require.NoError(t, err)
	page, err := h.Navigate(0, Cursor{Path: "/music"})
	require.NoError(t, err)
	assert.Equal(t, "/music", page.Items[0].Path)
	assert.Equal(t, "/music", e.Cursor().Path)

	// Initialize drops the navigation stack
	_, err = h.Initialize(0)
	require.NoError(t, err)
	assert.Zero(t, e.Depth())
}

func TestPluginPanicIsReported(t *testing.T) {
	p := &fakePlugin{name: "fake", pages: 1}
	h, _, err := hostWith(p)
	require.NoError(t, err)

	p.panicOn = "load"
	_, err = h.Initialize(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
	assert.Equal(t, 1, h.Len(), "a failing plugin stays registered")

	p.panicOn = ""
	_, err = h.Refresh(0)
	assert.NoError(t, err)
}

func TestPluginNavigateFailureKeepsCursor(t *testing.T) {
	p := &fakePlugin{name: "fake", pages: 1}
	h, e, err := hostWith(p)
	require.NoError(t, err)
	_, err = h.Initialize(0)
	require.NoError(t, err)

	p.panicOn = "load"
	_, err = h.Navigate(0, Cursor{Filter: "Letter", Value: "A"})
	require.Error(t, err)
	assert.Zero(t, e.Depth())
	assert.Empty(t, e.Cursor().Filter)
}

func TestPluginInitializeFailure(t *testing.T) {
	p := &fakePlugin{name: "fake", initErr: errors.New("bad api key")}
	h, _, err := hostWith(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad api key")
	assert.True(t, p.closed)
	assert.Zero(t, h.Len())
}

func TestPluginSelectAndLookup(t *testing.T) {
	p := &fakePlugin{name: "fake", pages: 1}
	h, _, err := hostWith(p)
	require.NoError(t, err)

	action, err := h.Select(0, Item{Name: "video", Kind: TileItem})
	require.NoError(t, err)
	assert.Equal(t, ActionWebview, action.Kind)
	assert.Equal(t, "https://example.com/video", action.URL)

	_, err = h.Select(0, Item{Name: "dir", Kind: TileFolder})
	assert.Error(t, err)

	_, err = h.Get(3)
	assert.ErrorIs(t, err, ErrNoPlugin)
	_, err = h.Fetch(-1)
	assert.ErrorIs(t, err, ErrNoPlugin)

	h.Close()
	assert.True(t, p.closed)
	assert.Zero(t, h.Len())
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"videos" + LibraryExt, "music" + LibraryExt, "readme.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"+LibraryExt), 0o755))

	var opened []string
	fakes := map[string]*fakePlugin{}
	h := NewHost(func(path string) (Plugin, error) {
		opened = append(opened, filepath.Base(path))
		if filepath.Base(path) == "music"+LibraryExt {
			return nil, errors.New("not a plugin")
		}
		p := &fakePlugin{name: filepath.Base(path), pages: 1}
		fakes[path] = p
		return p, nil
	}, func(stem string) map[string]string {
		return map[string]string{"server": stem + ".local", "port": "8080"}
	})

	errs := h.LoadDir(dir)
	assert.Len(t, errs, 1)
	assert.ElementsMatch(t, []string{"videos" + LibraryExt, "music" + LibraryExt}, opened)
	require.Equal(t, 1, h.Len())

	e, err := h.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "videos", e.Stem())
	got := fakes[e.Path].got
	assert.Equal(t, SettingValue{Kind: SettingString, Str: "videos.local"}, got["server"])
	assert.Equal(t, SettingValue{Kind: SettingI32, I32: 8080}, got["port"])

	// Loading the same path again returns the registered entry
	again, err := h.Load(e.Path)
	require.NoError(t, err)
	assert.Same(t, e, again)
	again, added, err := h.Add(e.Path)
	require.NoError(t, err)
	assert.False(t, added, "a known path is not new")
	assert.Same(t, e, again)
	assert.Len(t, opened, 2, "a known path is not reopened")

	_, added, err = h.Add(filepath.Join(dir, "extra"+LibraryExt))
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 2, h.Len())

	assert.Empty(t, h.LoadDir(filepath.Join(dir, "missing")))
}

func TestWatcherReportsNewLibraries(t *testing.T) {
	dir := t.TempDir()
	w, err := Watch(dir)
	require.NoError(t, err)
	defer w.Close()

	lib := filepath.Join(dir, "new"+LibraryExt)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(lib, []byte("x"), 0o644))

	var seen []string
	require.Eventually(t, func() bool {
		seen = append(seen, w.Pending()...)
		return len(seen) > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, seen, lib)
	assert.NotContains(t, seen, filepath.Join(dir, "notes.txt"))
}
