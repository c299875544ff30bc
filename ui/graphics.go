package ui

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/user-none/yaffe/ui/assets"
	"github.com/user-none/yaffe/ui/style"
	"github.com/user-none/yaffe/ui/widget"
)

// measureCacheSize bounds the number of remembered text measurements.
const measureCacheSize = 2048

type measureKey struct {
	text string
	size float32
	wrap float32
}

// Graphics draws widgets onto an ebiten image. Textures and fonts come from
// the asset cache; text layout is memoized per string, size and wrap width.
type Graphics struct {
	screen *ebiten.Image
	cache  *assets.Cache
	now    time.Time
	bounds widget.Rect

	measures *lru.Cache[measureKey, widget.Size]
	lines    *lru.Cache[measureKey, []string]
}

// NewGraphics creates a drawing backend over cache.
func NewGraphics(cache *assets.Cache) *Graphics {
	measures, _ := lru.New[measureKey, widget.Size](measureCacheSize)
	lines, _ := lru.New[measureKey, []string](measureCacheSize)
	return &Graphics{cache: cache, measures: measures, lines: lines}
}

// Begin starts a frame on screen.
func (g *Graphics) Begin(screen *ebiten.Image, now time.Time) {
	g.screen = screen
	g.now = now
	b := screen.Bounds()
	g.bounds = widget.Rect{W: float32(b.Dx()), H: float32(b.Dy())}
}

// Purge drops every memoized measurement. Called when the font size changes.
func (g *Graphics) Purge() {
	g.measures.Purge()
	g.lines.Purge()
}

func (g *Graphics) Bounds() widget.Rect     { return g.bounds }
func (g *Graphics) SetBounds(r widget.Rect) { g.bounds = r }
func (g *Graphics) Now() time.Time          { return g.now }

func (g *Graphics) FillRect(r widget.Rect, c color.Color) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	vector.DrawFilledRect(g.screen, r.X, r.Y, r.W, r.H, c, false)
}

func (g *Graphics) StrokeRect(r widget.Rect, width float32, c color.Color) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	vector.StrokeRect(g.screen, r.X, r.Y, r.W, r.H, width, c, false)
}

func (g *Graphics) Panel(r widget.Rect, c color.Color) {
	if r.W < 1 || r.H < 1 {
		return
	}
	style.PanelImage(c).Draw(g.screen, int(r.W), int(r.H), func(opts *ebiten.DrawImageOptions) {
		opts.GeoM.Translate(float64(r.X), float64(r.Y))
	})
}

func (g *Graphics) DrawImage(r widget.Rect, key assets.Key, alpha float32) bool {
	tex, ok := g.cache.RequestImage(key)
	if !ok {
		return false
	}
	img, ok := tex.Handle.(*ebiten.Image)
	if !ok || r.W <= 0 || r.H <= 0 || tex.Width <= 0 || tex.Height <= 0 {
		return true
	}
	if tex.Sub != nil {
		b := img.Bounds()
		w, h := float32(b.Dx()), float32(b.Dy())
		img = img.SubImage(image.Rect(
			int(tex.Sub.MinX*w), int(tex.Sub.MinY*h),
			int(tex.Sub.MaxX*w), int(tex.Sub.MaxY*h),
		)).(*ebiten.Image)
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(r.W/tex.Width), float64(r.H/tex.Height))
	opts.GeoM.Translate(float64(r.X), float64(r.Y))
	opts.ColorScale.ScaleAlpha(alpha)
	opts.Filter = ebiten.FilterLinear
	g.screen.DrawImage(img, opts)
	return true
}

func (g *Graphics) face(size float32) text.Face {
	if src := g.cache.RequestFont(assets.FontRegular); src != nil {
		return &text.GoTextFace{Source: src, Size: float64(size)}
	}
	return style.FontFace()
}

func (g *Graphics) DrawText(s string, x, y, size float32, c color.Color, wrap float32) {
	if s == "" {
		return
	}
	face := g.face(size)
	opts := &text.DrawOptions{}
	opts.GeoM.Translate(float64(x), float64(y))
	opts.ColorScale.ScaleWithColor(c)
	opts.LineSpacing = float64(size)
	text.Draw(g.screen, strings.Join(g.wrapped(s, size, wrap), "\n"), face, opts)
}

func (g *Graphics) MeasureText(s string, size, wrap float32) widget.Size {
	key := measureKey{text: s, size: size, wrap: wrap}
	if m, ok := g.measures.Get(key); ok {
		return m
	}
	face := g.face(size)
	lines := g.wrapped(s, size, wrap)
	var m widget.Size
	for _, l := range lines {
		m.W = max(m.W, float32(text.Advance(l, face)))
	}
	m.H = float32(len(lines)) * size
	g.measures.Add(key, m)
	return m
}

// wrapped breaks s into lines no wider than wrap at word boundaries. A word
// wider than wrap gets a line of its own.
func (g *Graphics) wrapped(s string, size, wrap float32) []string {
	key := measureKey{text: s, size: size, wrap: wrap}
	if l, ok := g.lines.Get(key); ok {
		return l
	}

	var out []string
	face := g.face(size)
	for _, para := range strings.Split(s, "\n") {
		if wrap <= 0 {
			out = append(out, para)
			continue
		}
		var line string
		for _, word := range strings.Fields(para) {
			next := word
			if line != "" {
				next = line + " " + word
			}
			if line != "" && float32(text.Advance(next, face)) > wrap {
				out = append(out, line)
				line = word
				continue
			}
			line = next
		}
		out = append(out, line)
	}
	g.lines.Add(key, out)
	return out
}

// uploader does the GPU work of the asset cache on the UI thread.
type uploader struct{}

func (uploader) UploadTexture(raw *assets.RawImage) (assets.Handle, error) {
	if raw == nil || raw.Width <= 0 || raw.Height <= 0 {
		return nil, errors.New("invalid image size")
	}
	if len(raw.Pixels) != 4*raw.Width*raw.Height {
		return nil, fmt.Errorf("pixel data is %d bytes, want %d", len(raw.Pixels), 4*raw.Width*raw.Height)
	}
	img := ebiten.NewImage(raw.Width, raw.Height)
	img.WritePixels(raw.Pixels)
	return img, nil
}

func (uploader) ReleaseTexture(h assets.Handle) {
	if img, ok := h.(*ebiten.Image); ok {
		img.Deallocate()
	}
}

func (uploader) LoadFont(data []byte) (assets.Font, error) {
	return text.NewGoTextFaceSource(bytes.NewReader(data))
}
