// Package plugins hosts content providers loaded from shared libraries.
//
// A plugin library exports a small C ABI. Structured values cross the
// boundary as NUL-terminated JSON strings allocated by the plugin and
// returned to it through plugin_free_string:
//
//	void* create_plugin(void);
//	const char* plugin_name(void* p);
//	char* plugin_initialize(void* p, const char* settings);
//	char* plugin_load_tiles(void* p, const char* query);
//	char* plugin_select_tile(void* p, const char* name, const char* path, int32_t kind);
//	void plugin_free_string(char* s);
//	void plugin_destroy(void* p);
//
// Every char* result is an envelope {"value": ..., "error": "..."}. A
// non-empty error fails the call.
package plugins

import (
	"fmt"
	"strconv"
	"strings"
)

// PathType tells how an item's image path is resolved.
type PathType int32

const (
	PathFile PathType = iota
	PathURL
)

// TileType is the kind of a plugin item.
type TileType int32

const (
	// TileItem is a selectable entry. Selecting it yields a SelectedAction.
	TileItem TileType = iota
	// TileFolder opens a nested listing.
	TileFolder
)

func (t TileType) String() string {
	switch t {
	case TileItem:
		return "Item"
	case TileFolder:
		return "Folder"
	default:
		return fmt.Sprintf("TileType(%d)", int32(t))
	}
}

// ActionKind is the variant of a SelectedAction.
type ActionKind int32

const (
	ActionNone ActionKind = iota
	// ActionProcess spawns Command with Args and shows the process overlay.
	ActionProcess
	// ActionWebview opens URL in the helper's web view.
	ActionWebview
)

// SelectedAction is what the host does after a tile is chosen.
type SelectedAction struct {
	Kind    ActionKind `json:"kind"`
	Command string     `json:"command,omitempty"`
	Args    []string   `json:"args,omitempty"`
	URL     string     `json:"url,omitempty"`
}

// Image is an item's boxart location.
type Image struct {
	Type PathType `json:"type"`
	Path string   `json:"path"`
}

// Item is one tile returned by LoadTiles.
type Item struct {
	Name        string            `json:"name"`
	Path        string            `json:"path"`
	Description string            `json:"description,omitempty"`
	Image       Image             `json:"image"`
	Kind        TileType          `json:"kind"`
	Restricted  bool              `json:"restricted,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Filter is a named axis with a discrete set of values. Values come either
// from Options or from the inclusive rune range From..To.
type Filter struct {
	Name    string   `json:"name"`
	Options []string `json:"options,omitempty"`
	From    rune     `json:"from,omitempty"`
	To      rune     `json:"to,omitempty"`
}

// Values lists the filter's options in order.
func (f Filter) Values() []string {
	if len(f.Options) > 0 {
		return f.Options
	}
	if f.From == 0 || f.To < f.From {
		return nil
	}
	out := make([]string, 0, f.To-f.From+1)
	for r := f.From; r <= f.To; r++ {
		out = append(out, string(r))
	}
	return out
}

// SettingKind is the type of a plugin setting.
type SettingKind int32

const (
	SettingString SettingKind = iota
	SettingI32
	SettingF32
	SettingBool
	SettingColor
)

// SettingValue is one plugin setting as handed to Initialize.
type SettingValue struct {
	Kind  SettingKind `json:"kind"`
	Str   string      `json:"str,omitempty"`
	I32   int32       `json:"i32,omitempty"`
	F32   float32     `json:"f32,omitempty"`
	Bool  bool        `json:"bool,omitempty"`
	Color [4]float32  `json:"color"`
}

// Settings maps a plugin's setting names to values.
type Settings map[string]SettingValue

// ParseSettingValue types a raw settings-file value by its shape: an
// (r,g,b,a) tuple, a bool, an integer, a float, or else a string.
func ParseSettingValue(raw string) SettingValue {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		parts := strings.Split(s[1:len(s)-1], ",")
		if len(parts) == 4 {
			var c [4]float32
			ok := true
			for i, p := range parts {
				f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
				if err != nil {
					ok = false
					break
				}
				c[i] = float32(f)
			}
			if ok {
				return SettingValue{Kind: SettingColor, Color: c}
			}
		}
	}
	if s == "true" || s == "false" {
		return SettingValue{Kind: SettingBool, Bool: s == "true"}
	}
	if i, err := strconv.ParseInt(s, 10, 32); err == nil {
		return SettingValue{Kind: SettingI32, I32: int32(i)}
	}
	if f, err := strconv.ParseFloat(s, 32); err == nil {
		return SettingValue{Kind: SettingF32, F32: float32(f)}
	}
	return SettingValue{Kind: SettingString, Str: s}
}

// Query asks LoadTiles for one page of a listing.
type Query struct {
	Filter string `json:"filter,omitempty"`
	Value  string `json:"value,omitempty"`
	// Path is the folder being listed; empty for the top level.
	Path string `json:"path,omitempty"`
	// Next is the page token returned with the previous page.
	Next  string `json:"next,omitempty"`
	Limit int    `json:"limit"`
}

// Page is one page of items. An empty Next marks the last page.
type Page struct {
	Items []Item `json:"items"`
	Next  string `json:"next,omitempty"`
}
