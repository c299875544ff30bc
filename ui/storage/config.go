package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// DefaultSettingsPath is the settings file next to the executable.
const DefaultSettingsPath = "./settings.txt"

// Registered setting keys
const (
	KeyCacheSizeMB        = "cache_size_mb"
	KeyWorkerCount        = "worker_count"
	KeyInfoPaneWidth      = "info_pane_width"
	KeyTileColumns        = "tile_columns"
	KeyRecentPageCount    = "recent_page_count"
	KeyAccentColor        = "accent_color"
	KeyFontSize           = "font_size"
	KeyRestrictedPasscode = "restricted_passcode"
	KeyRunAtStartup       = "run_at_startup"
	KeyTheGamesDBAPIKey   = "thegamesdb_api_key"
	KeyUpdateURL          = "update_url"
)

// Kind is the type of a registered setting.
type Kind int

const (
	KindF32 Kind = iota
	KindI32
	KindBool
	KindString
	KindColor
)

// Value is a typed setting value.
type Value struct {
	Kind  Kind
	F32   float32
	I32   int32
	Bool  bool
	Str   string
	Color [4]float32 // r, g, b, a in [0,1]
}

func F32(v float32) Value      { return Value{Kind: KindF32, F32: v} }
func I32(v int32) Value        { return Value{Kind: KindI32, I32: v} }
func Bool(v bool) Value        { return Value{Kind: KindBool, Bool: v} }
func String(v string) Value    { return Value{Kind: KindString, Str: v} }
func Color(c [4]float32) Value { return Value{Kind: KindColor, Color: c} }

// Encode renders v the way it is written to the settings file.
func (v Value) Encode() string {
	switch v.Kind {
	case KindF32:
		return strconv.FormatFloat(float64(v.F32), 'f', -1, 32)
	case KindI32:
		return strconv.FormatInt(int64(v.I32), 10)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindColor:
		return fmt.Sprintf("(%.1f,%.1f,%.1f,%.1f)", v.Color[0], v.Color[1], v.Color[2], v.Color[3])
	default:
		return v.Str
	}
}

// ParseValue parses raw as a value of the given kind.
func ParseValue(kind Kind, raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	switch kind {
	case KindF32:
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q", raw)
		}
		return F32(float32(f)), nil
	case KindI32:
		i, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return Value{}, fmt.Errorf("invalid integer %q", raw)
		}
		return I32(int32(i)), nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Value{}, fmt.Errorf("invalid bool %q", raw)
		}
		return Bool(b), nil
	case KindColor:
		if !strings.HasPrefix(raw, "(") || !strings.HasSuffix(raw, ")") {
			return Value{}, fmt.Errorf("invalid color %q", raw)
		}
		parts := strings.Split(raw[1:len(raw)-1], ",")
		if len(parts) != 4 {
			return Value{}, fmt.Errorf("invalid color %q", raw)
		}
		var c [4]float32
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
			if err != nil || f < 0 || f > 1 {
				return Value{}, fmt.Errorf("invalid color %q", raw)
			}
			c[i] = float32(f)
		}
		return Color(c), nil
	default:
		return String(raw), nil
	}
}

type setting struct {
	key string
	def Value
}

// registered lists the core settings in file order.
var registered = []setting{
	{KeyCacheSizeMB, I32(64)},
	{KeyWorkerCount, I32(2)},
	{KeyInfoPaneWidth, F32(0.33)},
	{KeyTileColumns, I32(4)},
	{KeyRecentPageCount, I32(20)},
	{KeyAccentColor, Color([4]float32{0.3, 0.3, 0.6, 1.0})},
	{KeyFontSize, F32(24)},
	{KeyRestrictedPasscode, String("")},
	{KeyRunAtStartup, Bool(false)},
	{KeyTheGamesDBAPIKey, String("")},
	{KeyUpdateURL, String("")},
}

// Settings is the settings file: registered core settings plus raw plugin
// settings namespaced as "<plugin stem>:<key>".
type Settings struct {
	path string

	mu     sync.Mutex
	values map[string]Value
	plugin map[string]map[string]string
}

// DefaultSettings returns settings holding every registered default.
func DefaultSettings(path string) *Settings {
	s := &Settings{
		path:   path,
		values: make(map[string]Value, len(registered)),
		plugin: make(map[string]map[string]string),
	}
	for _, r := range registered {
		s.values[r.key] = r.def
	}
	return s
}

// LoadSettings reads the settings file. A missing file yields defaults.
// Invalid values keep their default and log a warning.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings(path)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		key, raw, ok := strings.Cut(text, "=")
		if !ok {
			log.Printf("Warning: settings line %d has no '=': %q", line, text)
			continue
		}
		key = strings.TrimSpace(key)
		raw = strings.TrimSpace(raw)

		if stem, pkey, ok := strings.Cut(key, ":"); ok {
			s.setPlugin(stem, pkey, raw)
			continue
		}
		def, ok := s.values[key]
		if !ok {
			log.Printf("Warning: unknown setting %q on line %d", key, line)
			continue
		}
		v, err := ParseValue(def.Kind, raw)
		if err != nil {
			log.Printf("Warning: setting %s: %v; using default %s", key, err, def.Encode())
			continue
		}
		s.values[key] = v
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	return s, nil
}

func (s *Settings) setPlugin(stem, key, raw string) {
	m := s.plugin[stem]
	if m == nil {
		m = make(map[string]string)
		s.plugin[stem] = m
	}
	m[key] = raw
}

// Save writes the settings file atomically.
func (s *Settings) Save() error {
	s.mu.Lock()
	var buf bytes.Buffer
	for _, r := range registered {
		fmt.Fprintf(&buf, "%s = %s\n", r.key, s.values[r.key].Encode())
	}
	stems := make([]string, 0, len(s.plugin))
	for stem := range s.plugin {
		stems = append(stems, stem)
	}
	slices.Sort(stems)
	for _, stem := range stems {
		keys := make([]string, 0, len(s.plugin[stem]))
		for k := range s.plugin[stem] {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(&buf, "%s:%s = %s\n", stem, k, s.plugin[stem][k])
		}
	}
	s.mu.Unlock()

	return AtomicWrite(s.path, buf.Bytes())
}

// Keys returns the registered keys in file order.
func (s *Settings) Keys() []string {
	out := make([]string, len(registered))
	for i, r := range registered {
		out[i] = r.key
	}
	return out
}

// Get returns the value of a registered key.
func (s *Settings) Get(key string) (Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set replaces a registered value. The kind must match the default.
func (s *Settings) Set(key string, v Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.values[key]
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	if cur.Kind != v.Kind {
		return fmt.Errorf("setting %s: wrong type", key)
	}
	s.values[key] = v
	return nil
}

// SetRaw parses raw by the key's registered kind and stores it.
func (s *Settings) SetRaw(key, raw string) error {
	cur, ok := s.Get(key)
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	v, err := ParseValue(cur.Kind, raw)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return s.Set(key, v)
}

func (s *Settings) F32(key string) float32 {
	v, _ := s.Get(key)
	return v.F32
}

func (s *Settings) I32(key string) int32 {
	v, _ := s.Get(key)
	return v.I32
}

func (s *Settings) Bool(key string) bool {
	v, _ := s.Get(key)
	return v.Bool
}

func (s *Settings) String(key string) string {
	v, _ := s.Get(key)
	return v.Str
}

// Color returns an RGBA setting as a color.
func (s *Settings) Color(key string) color.NRGBA {
	v, _ := s.Get(key)
	to8 := func(f float32) uint8 { return uint8(f*255 + 0.5) }
	return color.NRGBA{to8(v.Color[0]), to8(v.Color[1]), to8(v.Color[2]), to8(v.Color[3])}
}

// Plugin returns a copy of the raw settings of the plugin with file stem.
func (s *Settings) Plugin(stem string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.plugin[stem]))
	for k, v := range s.plugin[stem] {
		out[k] = v
	}
	return out
}

// SetPlugin stores a raw plugin setting.
func (s *Settings) SetPlugin(stem, key, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setPlugin(stem, key, raw)
}

// AtomicWrite writes data to a temp file and renames it over path.
func AtomicWrite(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
