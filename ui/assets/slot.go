package assets

import (
	"image"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// State is the load state of a slot.
type State int32

const (
	Unloaded State = iota
	Pending
	Loaded
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "Unloaded"
	case Pending:
		return "Pending"
	case Loaded:
		return "Loaded"
	default:
		return "Invalid"
	}
}

// RawImage is decoded RGBA pixel data produced by a worker.
type RawImage struct {
	Pixels []byte
	Width  int
	Height int
}

// Handle is a GPU texture owned by the UI thread. *ebiten.Image satisfies it.
type Handle interface {
	Bounds() image.Rectangle
}

// Font is a resident font source.
type Font = *text.GoTextFaceSource

// Texture is a drawable texture or a region of one.
type Texture struct {
	Handle Handle
	// Sub is the normalized region inside Handle, nil for the whole texture.
	Sub *SubRect
	// Width and Height are the pixel size of the region.
	Width  float32
	Height float32
}

// DataKind is the variant held by Data.
type DataKind uint8

const (
	DataNone DataKind = iota
	DataRaw
	DataTexture
	DataFont
)

// Data is the payload of a loaded slot.
type Data struct {
	Kind    DataKind
	Raw     *RawImage
	Texture Texture
	Font    Font
}

// Slot is one cache entry. State transitions use compare-and-swap so that a
// single request wins the right to enqueue a load. Data is only touched by the
// UI thread.
type Slot struct {
	state       atomic.Int32
	lastRequest atomic.Int64 // unix nanoseconds
	failedAt    atomic.Int64 // unix nanoseconds, 0 when the last load succeeded

	source string
	static bool
	data   Data
	size   int64
}

// State returns the slot's current state.
func (s *Slot) State() State {
	return State(s.state.Load())
}

// Decoded reports whether the slot holds an uploaded texture.
func (s *Slot) Decoded() bool {
	return s.State() == Loaded && s.data.Kind == DataTexture
}

// Size returns the byte length accounted to the slot.
func (s *Slot) Size() int64 {
	return s.size
}

// LastRequest returns the last time the slot was requested.
func (s *Slot) LastRequest() time.Time {
	return time.Unix(0, s.lastRequest.Load())
}

func (s *Slot) cas(from, to State) bool {
	return s.state.CompareAndSwap(int32(from), int32(to))
}

func (s *Slot) touch(now time.Time) {
	s.lastRequest.Store(now.UnixNano())
}

func (s *Slot) recentlyFailed(now time.Time) bool {
	at := s.failedAt.Load()
	return at != 0 && now.Sub(time.Unix(0, at)) < RetryDelay
}

func (s *Slot) drop() {
	s.data = Data{}
	s.size = 0
}
