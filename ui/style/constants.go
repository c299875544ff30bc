package style

import "time"

// Layout constants used across screens
const (
	// Standard spacing and padding values
	DefaultPadding = 16
	DefaultSpacing = 16
	SmallSpacing   = 8
	TinySpacing    = 4
	LargeSpacing   = 24

	// Focus outline thickness
	OutlineWidth = 3

	// Scrollbar dimensions
	ScrollbarWidth = 8
)

// Font-dependent layout values (updated by ApplyFontSize)
var (
	FontSize        float32 = 24
	TitleFontSize   float32 = 32
	SmallFontSize   float32 = 18
	ListRowHeight   float32 = 40
	TitleBarHeight  float32 = 56
	ToolbarHeight   float32 = 48
	SearchBarHeight float32 = 44
)

// ApplyFontSize rescales the font-dependent layout values from a base font size.
func ApplyFontSize(size float32) {
	if size < 8 {
		size = 8
	}
	FontSize = size
	TitleFontSize = size * 4 / 3
	SmallFontSize = size * 3 / 4
	ListRowHeight = size + 16
	TitleBarHeight = TitleFontSize + 24
	ToolbarHeight = size + 24
	SearchBarHeight = size + 20
}

// Tile grid constants
const (
	TileAspect  = 1.4 // Height over width of boxart tiles
	TileSpacing = 12
)

// Gamepad navigation timing constants
const (
	NavInitialDelay  = 400 * time.Millisecond // Delay before repeat starts
	NavStartInterval = 200 * time.Millisecond // Initial repeat interval
	NavMinInterval   = 25 * time.Millisecond  // Fastest repeat (cap)
	NavAcceleration  = 20 * time.Millisecond  // Speed increase per repeat
)

// Animation and timing constants
const (
	FocusAnimDuration  = 150 * time.Millisecond
	ScrollAnimDuration = 120 * time.Millisecond
	ToastDuration      = 3 * time.Second
	HTTPTimeout        = 10 * time.Second
)
