package assets

import "fmt"

// Image enumerates the application's built-in images. The first block lives
// in the sprite atlas; the rest are standalone files in the assets directory.
type Image int

const (
	ImageError Image = iota
	ImageQuestion
	ImageArrowUp
	ImageArrowDown
	ImageButtonA
	ImageButtonB
	ImageButtonX
	ImageButtonY
	ImageApps
	ImageEmulator
	ImageRecents
	ImageSpeaker
	ImageSettings
	ImageEveryone
	ImageEveryone10
	ImageTeen
	ImageMature
	ImageAdults
	atlasImageCount
)

const (
	ImagePlaceholder = atlasImageCount + iota
	ImageBackground
)

// spriteNames maps atlas images to their entry names in atlas.tex.
var spriteNames = [atlasImageCount]string{
	ImageError:      "error.png",
	ImageQuestion:   "question.png",
	ImageArrowUp:    "arrow_up.png",
	ImageArrowDown:  "arrow_down.png",
	ImageButtonA:    "button_a.png",
	ImageButtonB:    "button_b.png",
	ImageButtonX:    "button_x.png",
	ImageButtonY:    "button_y.png",
	ImageApps:       "apps.png",
	ImageEmulator:   "emulator.png",
	ImageRecents:    "recents.png",
	ImageSpeaker:    "speaker.png",
	ImageSettings:   "settings.png",
	ImageEveryone:   "everyone.png",
	ImageEveryone10: "everyone10.png",
	ImageTeen:       "teen.png",
	ImageMature:     "mature.png",
	ImageAdults:     "adults.png",
}

// standaloneFiles maps non-atlas images to file names in the assets directory.
var standaloneFiles = map[Image]string{
	ImagePlaceholder: "placeholder.jpg",
	ImageBackground:  "background.jpg",
}

// SpriteNames returns the names every atlas must contain, in Image order.
func SpriteNames() []string {
	out := make([]string, len(spriteNames))
	copy(out, spriteNames[:])
	return out
}

// imageForSprite resolves an atlas entry name to its Image.
func imageForSprite(name string) (Image, bool) {
	for i, n := range spriteNames {
		if n == name {
			return Image(i), true
		}
	}
	return 0, false
}

// InAtlas reports whether img is served from the sprite atlas.
func (img Image) InAtlas() bool {
	return img >= 0 && img < atlasImageCount
}

func (img Image) String() string {
	if img.InAtlas() {
		return spriteNames[img]
	}
	if name, ok := standaloneFiles[img]; ok {
		return name
	}
	return fmt.Sprintf("Image(%d)", int(img))
}

// FontID enumerates resident fonts.
type FontID int

const (
	FontRegular FontID = iota
)

var fontFiles = map[FontID]string{
	FontRegular: "Roboto-Regular.ttf",
}

// KeyKind is the variant of an asset key.
type KeyKind uint8

const (
	KindStaticImage KeyKind = iota
	KindStaticFont
	KindFile
	KindURL
)

// Key identifies an asset. Keys compare by variant and payload so they can
// be used directly as map keys.
type Key struct {
	Kind  KeyKind
	Image Image
	Font  FontID
	Path  string
}

// Static returns the key of a built-in image.
func Static(img Image) Key {
	return Key{Kind: KindStaticImage, Image: img}
}

// StaticFont returns the key of a resident font.
func StaticFont(f FontID) Key {
	return Key{Kind: KindStaticFont, Font: f}
}

// File returns the key of an image on disk.
func File(path string) Key {
	return Key{Kind: KindFile, Path: path}
}

// URL returns the key of a remote image.
func URL(u string) Key {
	return Key{Kind: KindURL, Path: u}
}

// IsStatic reports whether the key names a built-in asset. Static assets are
// never evicted.
func (k Key) IsStatic() bool {
	return k.Kind == KindStaticImage || k.Kind == KindStaticFont
}

func (k Key) String() string {
	switch k.Kind {
	case KindStaticImage:
		return "static:" + k.Image.String()
	case KindStaticFont:
		return fmt.Sprintf("font:%d", int(k.Font))
	case KindFile:
		return "file:" + k.Path
	case KindURL:
		return "url:" + k.Path
	default:
		return "unknown"
	}
}
