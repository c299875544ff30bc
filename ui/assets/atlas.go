package assets

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrUnknownSprite is returned when an atlas contains a name the application
// does not know about.
var ErrUnknownSprite = errors.New("assets: unknown sprite in atlas")

// ErrMissingSprite is returned when a required sprite is absent from an atlas.
var ErrMissingSprite = errors.New("assets: required sprite missing from atlas")

// SubRect is a normalized region of a texture, in [0,1] on both axes.
type SubRect struct {
	MinX, MinY float32
	MaxX, MaxY float32
}

// AtlasEntry is one sprite record of an atlas index.
type AtlasEntry struct {
	Name string
	W, H int32
	X, Y int32
}

// SubRect normalizes the entry against the atlas dimensions.
func (e AtlasEntry) SubRect(totalW, totalH int32) SubRect {
	tw, th := float32(totalW), float32(totalH)
	return SubRect{
		MinX: float32(e.X) / tw,
		MinY: float32(e.Y) / th,
		MaxX: float32(e.X+e.W) / tw,
		MaxY: float32(e.Y+e.H) / th,
	}
}

// Atlas is the decoded index of a sprite sheet.
type Atlas struct {
	Width   int32
	Height  int32
	Entries []AtlasEntry
}

// ParseAtlas decodes the binary atlas index. All integers are little-endian:
//
//	i32 total_w, i32 total_h, i32 count
//	count × { NUL-terminated name, i32 w, i32 h, i32 x, i32 y }
func ParseAtlas(data []byte) (Atlas, error) {
	r := bytes.NewReader(data)

	var header [3]int32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return Atlas{}, fmt.Errorf("failed to read atlas header: %w", err)
	}
	a := Atlas{Width: header[0], Height: header[1]}
	count := header[2]
	if a.Width <= 0 || a.Height <= 0 {
		return Atlas{}, fmt.Errorf("invalid atlas dimensions %dx%d", a.Width, a.Height)
	}
	if count < 0 {
		return Atlas{}, fmt.Errorf("invalid atlas entry count %d", count)
	}

	a.Entries = make([]AtlasEntry, 0, count)
	for i := int32(0); i < count; i++ {
		name, err := readCString(r)
		if err != nil {
			return Atlas{}, fmt.Errorf("failed to read atlas entry %d name: %w", i, err)
		}
		var rect [4]int32
		if err := binary.Read(r, binary.LittleEndian, &rect); err != nil {
			return Atlas{}, fmt.Errorf("failed to read atlas entry %q: %w", name, err)
		}
		a.Entries = append(a.Entries, AtlasEntry{Name: name, W: rect[0], H: rect[1], X: rect[2], Y: rect[3]})
	}
	return a, nil
}

func readCString(r *bytes.Reader) (string, error) {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == 0 {
			return string(buf), nil
		}
		buf = append(buf, b)
	}
}

// Encode writes the atlas in its binary index format.
func (a Atlas) Encode() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, [3]int32{a.Width, a.Height, int32(len(a.Entries))})
	for _, e := range a.Entries {
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		binary.Write(&buf, binary.LittleEndian, [4]int32{e.W, e.H, e.X, e.Y})
	}
	return buf.Bytes()
}

// Validate checks that the atlas holds exactly the application's sprites.
func (a Atlas) Validate() error {
	seen := make(map[Image]bool, len(a.Entries))
	for _, e := range a.Entries {
		img, ok := imageForSprite(e.Name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSprite, e.Name)
		}
		seen[img] = true
	}
	for i := Image(0); i < atlasImageCount; i++ {
		if !seen[i] {
			return fmt.Errorf("%w: %s", ErrMissingSprite, spriteNames[i])
		}
	}
	return nil
}
