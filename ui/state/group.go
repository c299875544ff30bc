package state

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/user-none/yaffe/plugins"
	"github.com/user-none/yaffe/ui/assets"
	"github.com/user-none/yaffe/ui/storage"
)

// GroupKind is the source of a tile group.
type GroupKind uint8

const (
	GroupRecents GroupKind = iota
	GroupEmulator
	GroupPlugin
)

func (k GroupKind) String() string {
	switch k {
	case GroupRecents:
		return "Recents"
	case GroupEmulator:
		return "Emulator"
	case GroupPlugin:
		return "Plugin"
	default:
		return "Unknown"
	}
}

// Tile is one selectable entry of a group.
type Tile struct {
	Name     string
	Overview string
	// Boxart is a file path or URL, empty for the placeholder.
	Boxart     string
	Rating     storage.Rating
	Restricted bool
	Players    int64
	Released   string
	LastRun    int64

	// Game tiles
	GameID     int64
	PlatformID int64
	File       string

	// Plugin tiles
	Item   *plugins.Item
	Folder bool
}

func (t Tile) DisplayString() string { return t.Name }

// ImageKey returns the asset key of the tile's boxart.
func (t Tile) ImageKey() assets.Key {
	switch {
	case t.Boxart == "":
		return assets.Static(assets.ImagePlaceholder)
	case strings.HasPrefix(t.Boxart, "http://"), strings.HasPrefix(t.Boxart, "https://"):
		return assets.URL(t.Boxart)
	default:
		return assets.File(t.Boxart)
	}
}

// RatingImage returns the sprite for the tile's rating, false when unrated.
func (t Tile) RatingImage() (assets.Image, bool) {
	switch t.Rating {
	case storage.RatingEveryone:
		return assets.ImageEveryone, true
	case storage.RatingEveryone10:
		return assets.ImageEveryone10, true
	case storage.RatingTeen:
		return assets.ImageTeen, true
	case storage.RatingMature:
		return assets.ImageMature, true
	case storage.RatingAdults:
		return assets.ImageAdults, true
	default:
		return 0, false
	}
}

func gameTile(g storage.Game) Tile {
	return Tile{
		Name:       g.Name,
		Overview:   g.Overview,
		Boxart:     g.Boxart,
		Rating:     g.Rating,
		Restricted: g.Rating.Restricted(),
		Players:    g.Players,
		Released:   g.Released,
		LastRun:    g.LastRun,
		GameID:     g.ID,
		PlatformID: g.PlatformID,
		File:       g.File,
	}
}

func itemTile(it plugins.Item) Tile {
	t := Tile{
		Name:       it.Name,
		Overview:   it.Description,
		Boxart:     it.Image.Path,
		Restricted: it.Restricted,
		Folder:     it.Kind == plugins.TileFolder,
		File:       it.Path,
	}
	if r, ok := it.Metadata["rating"]; ok {
		t.Rating = storage.ParseRating(r)
		t.Restricted = t.Restricted || t.Rating.Restricted()
	}
	t.Item = &it
	return t
}

// Group is a named collection of tiles with its own selection and
// first-letter filter.
type Group struct {
	Kind GroupKind
	Name string
	Icon assets.Image

	// PlatformID is set for emulator groups.
	PlatformID int64
	// Plugin is the host index of a plugin group.
	Plugin int

	tiles    []Tile
	view     []int
	selected int
	letter   string
	revision int
}

// Tiles returns the tiles that pass the filter.
func (g *Group) Tiles() []Tile {
	out := make([]Tile, len(g.view))
	for i, idx := range g.view {
		out[i] = g.tiles[idx]
	}
	return out
}

// Len returns the number of visible tiles.
func (g *Group) Len() int {
	return len(g.view)
}

// Tile returns visible tile i.
func (g *Group) Tile(i int) (Tile, bool) {
	if i < 0 || i >= len(g.view) {
		return Tile{}, false
	}
	return g.tiles[g.view[i]], true
}

// Selected returns the index of the selected visible tile, -1 when empty.
func (g *Group) Selected() int {
	if len(g.view) == 0 {
		return -1
	}
	return g.selected
}

// SelectedTile returns the selected tile.
func (g *Group) SelectedTile() (Tile, bool) {
	return g.Tile(g.Selected())
}

// Select moves the selection to visible tile i. It reports whether i was
// in range.
func (g *Group) Select(i int) bool {
	if i < 0 || i >= len(g.view) {
		return false
	}
	g.selected = i
	return true
}

// Letter returns the active first-letter filter, "" for none.
func (g *Group) Letter() string {
	return g.letter
}

// SetLetter filters tiles to names starting with letter, case-insensitively.
func (g *Group) SetLetter(letter string) {
	g.letter = letter
	g.selected = 0
	g.revision++
	g.applyView()
}

// Revision changes whenever the tiles are replaced or refiltered. Appended
// pages keep the revision.
func (g *Group) Revision() int {
	return g.revision
}

func (g *Group) setTiles(tiles []Tile) {
	g.tiles = tiles
	g.selected = 0
	g.revision++
	g.applyView()
}

func (g *Group) appendTiles(tiles []Tile) {
	g.tiles = append(g.tiles, tiles...)
	g.applyView()
}

func (g *Group) applyView() {
	g.view = g.view[:0]
	for i, t := range g.tiles {
		if g.letter == "" || strings.HasPrefix(strings.ToUpper(t.Name), g.letter) {
			g.view = append(g.view, i)
		}
	}
	if g.selected >= len(g.view) {
		g.selected = max(len(g.view)-1, 0)
	}
}

// NewCollator returns the tile name ordering: case-insensitive with digit
// runs compared numerically. A collator is not safe for concurrent use.
func NewCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase, collate.Numeric)
}

// SortTiles sorts tiles by name.
func SortTiles(c *collate.Collator, tiles []Tile) {
	slices.SortStableFunc(tiles, func(a, b Tile) int {
		return c.CompareString(a.Name, b.Name)
	})
}

// Letters are the first-letter filter values cycled on emulator and recents
// groups, after "" for no filter.
var Letters = func() []string {
	out := []string{""}
	for r := 'A'; r <= 'Z'; r++ {
		out = append(out, string(r))
	}
	return out
}()
