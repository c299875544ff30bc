package plugins

import (
	"encoding/json"
	"errors"
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
)

// maxCString bounds the length read from a plugin-owned string.
const maxCString = 16 << 20

// library is an opened shared library.
type library interface {
	Symbol(name string) (uintptr, error)
	Close() error
}

// nativePlugin calls into a shared library through purego.
//
// obj belongs to lib. Close destroys obj first; unloading lib first would
// leave destroy pointing at unmapped code.
type nativePlugin struct {
	obj  uintptr
	lib  library
	name string

	fnName       func(obj uintptr) string
	fnInitialize func(obj uintptr, settings string) uintptr
	fnLoadTiles  func(obj uintptr, query string) uintptr
	fnSelectTile func(obj uintptr, name, path string, kind int32) uintptr
	fnFreeString func(s uintptr)
	fnDestroy    func(obj uintptr)
}

// Open loads the plugin library at path and creates its plugin object.
func Open(path string) (Plugin, error) {
	lib, err := openLibrary(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load plugin library %s: %w", path, err)
	}
	p, err := bind(lib)
	if err != nil {
		lib.Close()
		return nil, fmt.Errorf("failed to bind plugin %s: %w", path, err)
	}
	return p, nil
}

func bind(lib library) (*nativePlugin, error) {
	p := &nativePlugin{lib: lib}
	var fnCreate func() uintptr
	syms := []struct {
		fn   any
		name string
	}{
		{&fnCreate, "create_plugin"},
		{&p.fnName, "plugin_name"},
		{&p.fnInitialize, "plugin_initialize"},
		{&p.fnLoadTiles, "plugin_load_tiles"},
		{&p.fnSelectTile, "plugin_select_tile"},
		{&p.fnFreeString, "plugin_free_string"},
		{&p.fnDestroy, "plugin_destroy"},
	}
	for _, s := range syms {
		addr, err := lib.Symbol(s.name)
		if err != nil {
			return nil, fmt.Errorf("missing symbol %s: %w", s.name, err)
		}
		purego.RegisterFunc(s.fn, addr)
	}

	p.obj = fnCreate()
	if p.obj == 0 {
		return nil, errors.New("create_plugin returned null")
	}
	p.name = p.fnName(p.obj)
	return p, nil
}

func (p *nativePlugin) Name() string { return p.name }

// envelope is the JSON wrapper around every structured plugin result.
type envelope struct {
	Value json.RawMessage `json:"value"`
	Error string          `json:"error"`
}

// decode reads, frees and unwraps a plugin result string into out.
func (p *nativePlugin) decode(ptr uintptr, out any) error {
	if ptr == 0 {
		return errors.New("plugin returned null")
	}
	s := goString(ptr)
	p.fnFreeString(ptr)

	var env envelope
	if err := json.Unmarshal([]byte(s), &env); err != nil {
		return fmt.Errorf("failed to decode plugin result: %w", err)
	}
	if env.Error != "" {
		return errors.New(env.Error)
	}
	if out == nil || len(env.Value) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Value, out); err != nil {
		return fmt.Errorf("failed to decode plugin value: %w", err)
	}
	return nil
}

func (p *nativePlugin) Initialize(settings Settings) ([]Filter, error) {
	data, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	var filters []Filter
	if err := p.decode(p.fnInitialize(p.obj, string(data)), &filters); err != nil {
		return nil, err
	}
	return filters, nil
}

func (p *nativePlugin) LoadTiles(q Query) (Page, error) {
	data, err := json.Marshal(q)
	if err != nil {
		return Page{}, fmt.Errorf("failed to encode query: %w", err)
	}
	var page Page
	if err := p.decode(p.fnLoadTiles(p.obj, string(data)), &page); err != nil {
		return Page{}, err
	}
	return page, nil
}

func (p *nativePlugin) SelectTile(name, path string, kind TileType) (SelectedAction, error) {
	var action SelectedAction
	if err := p.decode(p.fnSelectTile(p.obj, name, path, int32(kind)), &action); err != nil {
		return SelectedAction{}, err
	}
	return action, nil
}

func (p *nativePlugin) Close() error {
	if p.obj != 0 {
		p.fnDestroy(p.obj)
		p.obj = 0
	}
	if p.lib == nil {
		return nil
	}
	err := p.lib.Close()
	p.lib = nil
	return err
}

// goString copies a NUL-terminated C string.
func goString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	var n int
	for n < maxCString && *(*byte)(unsafe.Pointer(ptr + uintptr(n))) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
}
