// Package assets is the texture and font cache. Images load asynchronously
// through the job system: a request on a cold slot enqueues exactly one load,
// the worker decodes to raw RGBA, and the UI thread uploads the texture on the
// next request. Slots that go unused are released when the cache exceeds its
// byte budget.
package assets

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/user-none/yaffe/jobs"
	"github.com/user-none/yaffe/ui/pool"
)

const (
	// IdleThreshold is how long a slot must go unrequested before it may be evicted.
	IdleThreshold = 30 * time.Second

	// RetryDelay is how long a failed load serves the error sprite before retrying.
	RetryDelay = 10 * time.Second

	// AtlasIndexFile and AtlasImageFile are the sprite sheet files in the assets directory.
	AtlasIndexFile = "atlas.tex"
	AtlasImageFile = "atlas.png"

	mib = 1 << 20
)

// Enqueuer accepts background jobs. Enqueue reports false when the job
// was refused.
type Enqueuer interface {
	Enqueue(job jobs.Job) bool
}

// Uploader performs the GPU-side work that must happen on the UI thread.
type Uploader interface {
	UploadTexture(raw *RawImage) (Handle, error)
	ReleaseTexture(h Handle)
	LoadFont(data []byte) (Font, error)
}

// Cache maps asset keys to slots.
type Cache struct {
	mu    sync.Mutex
	slots *pool.Cache[Key, Slot]

	dir      string
	queue    Enqueuer
	uploader Uploader
	budget   int64
	now      func() time.Time

	preloaded bool
}

// NewCache creates a cache reading built-in assets from dir.
func NewCache(dir string, queue Enqueuer, uploader Uploader, budgetMB int) *Cache {
	c := &Cache{
		slots:    pool.New[Key, Slot](pool.DefaultChunkSize),
		dir:      dir,
		queue:    queue,
		uploader: uploader,
		now:      time.Now,
	}
	c.SetBudgetMB(budgetMB)

	for img, name := range standaloneFiles {
		slot, _ := c.slots.Emplace(Static(img))
		slot.source = filepath.Join(dir, name)
		slot.static = true
	}
	return c
}

// SetBudgetMB sets the eviction budget in MiB.
func (c *Cache) SetBudgetMB(mb int) {
	if mb < 1 {
		mb = 1
	}
	c.mu.Lock()
	c.budget = int64(mb) * mib
	c.mu.Unlock()
}

// SetClock replaces the time source. Used by tests.
func (c *Cache) SetClock(now func() time.Time) {
	c.now = now
}

// lookup returns the slot for key, inserting an unloaded slot for file and
// URL keys on first use.
func (c *Cache) lookup(key Key, create bool) *Slot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slot, ok := c.slots.Get(key); ok {
		return slot
	}
	if !create || key.IsStatic() {
		return nil
	}
	slot, _ := c.slots.Emplace(key)
	slot.source = key.Path
	return slot
}

// State returns the state of key's slot, Unloaded if it has never been requested.
func (c *Cache) State(key Key) State {
	slot := c.lookup(key, false)
	if slot == nil {
		return Unloaded
	}
	return slot.State()
}

// Slot returns key's slot for inspection.
func (c *Cache) Slot(key Key) (*Slot, bool) {
	slot := c.lookup(key, false)
	return slot, slot != nil
}

// RequestImage returns the texture for key, or false while it is loading.
// A cold slot enqueues exactly one load no matter how many callers race here.
func (c *Cache) RequestImage(key Key) (Texture, bool) {
	if key.Kind == KindStaticFont {
		panic("assets: RequestImage called with a font key")
	}
	slot := c.lookup(key, true)
	if slot == nil {
		panic(fmt.Sprintf("assets: static image %s is not resident", key))
	}

	now := c.now()
	slot.touch(now)

	switch slot.State() {
	case Unloaded:
		if slot.recentlyFailed(now) {
			return c.errorTexture()
		}
		if slot.cas(Unloaded, Pending) && !c.queue.Enqueue(jobs.LoadImage{Key: key, Path: slot.source}) {
			slot.state.Store(int32(Unloaded))
		}
		return Texture{}, false
	case Pending:
		return Texture{}, false
	default:
		return c.decode(key, slot)
	}
}

// RequestStatic is shorthand for RequestImage(Static(img)).
func (c *Cache) RequestStatic(img Image) (Texture, bool) {
	return c.RequestImage(Static(img))
}

// RequestFont returns a resident font. Fonts are preloaded; requesting one
// that is not resident is a programming error.
func (c *Cache) RequestFont(f FontID) Font {
	slot := c.lookup(StaticFont(f), false)
	if slot == nil || slot.State() != Loaded || slot.data.Kind != DataFont {
		panic(fmt.Sprintf("assets: font %d is not preloaded", int(f)))
	}
	slot.touch(c.now())
	return slot.data.Font
}

// decode uploads raw pixels on first render and returns the texture.
func (c *Cache) decode(key Key, slot *Slot) (Texture, bool) {
	switch slot.data.Kind {
	case DataTexture:
		return slot.data.Texture, true
	case DataRaw:
		raw := slot.data.Raw
		handle, err := c.uploader.UploadTexture(raw)
		if err != nil {
			log.Printf("Failed to upload texture %s: %v", key, err)
			slot.drop()
			slot.state.Store(int32(Unloaded))
			return Texture{}, false
		}
		slot.data = Data{
			Kind: DataTexture,
			Texture: Texture{
				Handle: handle,
				Width:  float32(raw.Width),
				Height: float32(raw.Height),
			},
		}
		return slot.data.Texture, true
	default:
		return Texture{}, false
	}
}

func (c *Cache) errorTexture() (Texture, bool) {
	slot := c.lookup(Static(ImageError), false)
	if slot == nil || slot.data.Kind != DataTexture {
		return Texture{}, false
	}
	return slot.data.Texture, true
}

// Complete applies a finished LoadImage job. It returns false for results
// that are not asset loads or no longer match a pending slot.
func (c *Cache) Complete(r jobs.Result) bool {
	job, ok := r.Job.(jobs.LoadImage)
	if !ok {
		return false
	}
	key, ok := job.Key.(Key)
	if !ok {
		return false
	}
	slot := c.lookup(key, false)
	if slot == nil || slot.State() != Pending {
		return false
	}

	if r.Err != nil {
		log.Printf("Failed to load %s: %v", key, r.Err)
		slot.failedAt.Store(c.now().UnixNano())
		slot.state.Store(int32(Unloaded))
		return true
	}

	switch v := r.Value.(type) {
	case *RawImage:
		slot.data = Data{Kind: DataRaw, Raw: v}
		slot.size = int64(len(v.Pixels))
	case []byte:
		font, err := c.uploader.LoadFont(v)
		if err != nil {
			log.Printf("Failed to parse font %s: %v", key, err)
			slot.failedAt.Store(c.now().UnixNano())
			slot.state.Store(int32(Unloaded))
			return true
		}
		slot.data = Data{Kind: DataFont, Font: font}
		slot.size = int64(len(v))
	default:
		log.Printf("Unexpected load result for %s: %T", key, r.Value)
		slot.state.Store(int32(Unloaded))
		return true
	}
	slot.failedAt.Store(0)
	slot.state.Store(int32(Loaded))
	return true
}

// LoadedBytes sums the size of loaded, non-static slots.
func (c *Cache) LoadedBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total int64
	for key, slot := range c.slots.All() {
		if key.IsStatic() || slot.State() != Loaded {
			continue
		}
		total += slot.size
	}
	return total
}

// Evict runs one eviction pass. While the loaded bytes exceed the budget,
// the least recently requested slot idle for at least IdleThreshold is
// released. At most one slot is released per call.
func (c *Cache) Evict() (Key, bool) {
	now := c.now()

	c.mu.Lock()
	var (
		total     int64
		victim    *Slot
		victimKey Key
	)
	for key, slot := range c.slots.All() {
		if key.IsStatic() || slot.static || slot.State() != Loaded {
			continue
		}
		total += slot.size
		last := slot.lastRequest.Load()
		if now.Sub(time.Unix(0, last)) < IdleThreshold {
			continue
		}
		if victim == nil || last < victim.lastRequest.Load() {
			victim = slot
			victimKey = key
		}
	}
	budget := c.budget
	c.mu.Unlock()

	if total <= budget || victim == nil {
		return Key{}, false
	}
	if !victim.cas(Loaded, Unloaded) {
		return Key{}, false
	}
	if victim.data.Kind == DataTexture && victim.data.Texture.Handle != nil {
		c.uploader.ReleaseTexture(victim.data.Texture.Handle)
	}
	victim.drop()
	return victimKey, true
}

// LoadAtlas registers one static slot per atlas entry, each sharing the
// atlas texture with its own normalized region.
func (c *Cache) LoadAtlas(index []byte, sheet *RawImage) error {
	atlas, err := ParseAtlas(index)
	if err != nil {
		return err
	}
	if err := atlas.Validate(); err != nil {
		return err
	}

	handle, err := c.uploader.UploadTexture(sheet)
	if err != nil {
		return fmt.Errorf("failed to upload atlas texture: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range atlas.Entries {
		img, _ := imageForSprite(e.Name)
		sub := e.SubRect(atlas.Width, atlas.Height)
		slot, _ := c.slots.Emplace(Static(img))
		slot.static = true
		slot.source = AtlasIndexFile
		slot.data = Data{
			Kind: DataTexture,
			Texture: Texture{
				Handle: handle,
				Sub:    &sub,
				Width:  float32(e.W),
				Height: float32(e.H),
			},
		}
		slot.state.Store(int32(Loaded))
	}
	return nil
}

// PreloadAssets loads the atlas and the default font synchronously, then
// requests the placeholder and background images. Missing atlas or font files
// are fatal to the caller. Calling it again is a no-op.
func (c *Cache) PreloadAssets() error {
	if c.preloaded {
		return nil
	}

	index, err := os.ReadFile(filepath.Join(c.dir, AtlasIndexFile))
	if err != nil {
		return fmt.Errorf("failed to read atlas index: %w", err)
	}
	sheetData, err := os.ReadFile(filepath.Join(c.dir, AtlasImageFile))
	if err != nil {
		return fmt.Errorf("failed to read atlas image: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(sheetData))
	if err != nil {
		return fmt.Errorf("failed to decode atlas image: %w", err)
	}
	if err := c.LoadAtlas(index, toRGBA(img)); err != nil {
		return err
	}

	for id, name := range fontFiles {
		data, err := os.ReadFile(filepath.Join(c.dir, name))
		if err != nil {
			return fmt.Errorf("failed to read font %s: %w", name, err)
		}
		if err := c.LoadFont(id, data); err != nil {
			return err
		}
	}

	c.RequestStatic(ImagePlaceholder)
	c.RequestStatic(ImageBackground)
	c.preloaded = true
	return nil
}

// LoadFont makes a font resident from its file bytes.
func (c *Cache) LoadFont(id FontID, data []byte) error {
	font, err := c.uploader.LoadFont(data)
	if err != nil {
		return fmt.Errorf("failed to load font %d: %w", int(id), err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	slot, _ := c.slots.Emplace(StaticFont(id))
	slot.static = true
	slot.source = fontFiles[id]
	slot.data = Data{Kind: DataFont, Font: font}
	slot.size = int64(len(data))
	slot.state.Store(int32(Loaded))
	return nil
}
