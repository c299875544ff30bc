package plugins

import (
	"errors"
	"fmt"
	"log"
)

var (
	// ErrNoPlugin is returned for an index with no registered plugin.
	ErrNoPlugin = errors.New("no such plugin")

	// ErrNoMorePages is returned by Fetch after the last page.
	ErrNoMorePages = errors.New("no more pages")
)

// Plugin is a content provider.
type Plugin interface {
	Name() string
	// Initialize configures the plugin and returns its filters.
	Initialize(settings Settings) ([]Filter, error)
	LoadTiles(q Query) (Page, error)
	SelectTile(name, path string, kind TileType) (SelectedAction, error)
	// Close releases the plugin. Native plugins destroy their object
	// before unloading the library.
	Close() error
}

// guard runs a plugin call and turns a panic into an error.
func guard[T any](name, op string, fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Plugin %s panicked in %s: %v", name, op, r)
			var zero T
			v, err = zero, fmt.Errorf("plugin %s panicked in %s: %v", name, op, r)
		}
	}()
	return fn()
}
