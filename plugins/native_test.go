package plugins

import (
	"runtime"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLibrary struct {
	events *[]string
}

func (l fakeLibrary) Symbol(string) (uintptr, error) { return 0, nil }

func (l fakeLibrary) Close() error {
	*l.events = append(*l.events, "unload")
	return nil
}

// cstrings hands out NUL-terminated buffers and keeps them alive.
type cstrings struct {
	bufs  [][]byte
	freed int
}

func (c *cstrings) new(s string) uintptr {
	b := append([]byte(s), 0)
	c.bufs = append(c.bufs, b)
	return uintptr(unsafe.Pointer(&b[0]))
}

func newFakeNative(t *testing.T, results map[string]string) (*nativePlugin, *[]string, *cstrings) {
	t.Helper()
	events := &[]string{}
	cs := &cstrings{}
	p := &nativePlugin{
		obj:  1,
		lib:  fakeLibrary{events: events},
		name: "native",
		fnInitialize: func(_ uintptr, settings string) uintptr {
			*events = append(*events, "init:"+settings)
			return cs.new(results["init"])
		},
		fnLoadTiles: func(_ uintptr, query string) uintptr {
			*events = append(*events, "load:"+query)
			return cs.new(results["load"])
		},
		fnSelectTile: func(_ uintptr, name, path string, kind int32) uintptr {
			return cs.new(results["select"])
		},
		fnFreeString: func(uintptr) { cs.freed++ },
		fnDestroy: func(uintptr) {
			*events = append(*events, "destroy")
		},
	}
	t.Cleanup(func() { runtime.KeepAlive(cs) })
	return p, events, cs
}

func TestNativeDecodesEnvelopes(t *testing.T) {
	p, events, cs := newFakeNative(t, map[string]string{
		"init":   `{"value":[{"name":"Genre","options":["RPG","Puzzle"]}]}`,
		"load":   `{"value":{"items":[{"name":"Zelda","path":"z","image":{"type":1,"path":"http://x/z.png"},"kind":0}],"next":"2"}}`,
		"select": `{"value":{"kind":1,"command":"mpv","args":["z"]}}`,
	})

	filters, err := p.Initialize(Settings{"key": {Kind: SettingString, Str: "abc"}})
	require.NoError(t, err)
	assert.Equal(t, []Filter{{Name: "Genre", Options: []string{"RPG", "Puzzle"}}}, filters)
	assert.Equal(t, `init:{"key":{"kind":0,"str":"abc","color":[0,0,0,0]}}`, (*events)[0])

	page, err := p.LoadTiles(Query{Filter: "Genre", Value: "RPG", Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, Image{Type: PathURL, Path: "http://x/z.png"}, page.Items[0].Image)
	assert.Equal(t, "2", page.Next)
	assert.Equal(t, `load:{"filter":"Genre","value":"RPG","limit":10}`, (*events)[1])

	action, err := p.SelectTile("Zelda", "z", TileItem)
	require.NoError(t, err)
	assert.Equal(t, SelectedAction{Kind: ActionProcess, Command: "mpv", Args: []string{"z"}}, action)

	assert.Equal(t, 3, cs.freed, "every result string is returned to the plugin")
}

func TestNativeErrors(t *testing.T) {
	p, _, _ := newFakeNative(t, map[string]string{
		"init": `{"error":"missing api key"}`,
		"load": `not json`,
	})

	_, err := p.Initialize(nil)
	assert.EqualError(t, err, "missing api key")

	_, err = p.LoadTiles(Query{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode plugin result")

	p.fnSelectTile = func(uintptr, string, string, int32) uintptr { return 0 }
	_, err = p.SelectTile("a", "b", TileItem)
	assert.EqualError(t, err, "plugin returned null")
}

func TestNativeCloseOrder(t *testing.T) {
	p, events, _ := newFakeNative(t, nil)
	require.NoError(t, p.Close())
	assert.Equal(t, []string{"destroy", "unload"}, *events)

	// Closing twice does nothing
	require.NoError(t, p.Close())
	assert.Len(t, *events, 2)
}

func TestGoString(t *testing.T) {
	cs := &cstrings{}
	assert.Equal(t, "hello", goString(cs.new("hello")))
	assert.Equal(t, "", goString(cs.new("")))
	assert.Equal(t, "", goString(0))
	runtime.KeepAlive(cs)
}
