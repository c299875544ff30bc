// Package ui is the front-end's application loop. App implements
// ebiten.Game: each frame it routes job results and process events, feeds
// input to the modal stack or the main tree, drains deferred intents, steps
// animations, renders, and evicts one idle asset.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"

	"github.com/user-none/yaffe/jobs"
	"github.com/user-none/yaffe/launch"
	"github.com/user-none/yaffe/plugins"
	"github.com/user-none/yaffe/scraper"
	"github.com/user-none/yaffe/ui/anim"
	"github.com/user-none/yaffe/ui/assets"
	"github.com/user-none/yaffe/ui/modal"
	"github.com/user-none/yaffe/ui/screens"
	"github.com/user-none/yaffe/ui/state"
	"github.com/user-none/yaffe/ui/storage"
	"github.com/user-none/yaffe/ui/style"
	"github.com/user-none/yaffe/ui/widget"
	"github.com/user-none/yaffe/updater"
)

// Name is the window title.
const Name = "Yaffe"

// maxFrameStep caps the animation step after a stall.
const maxFrameStep = 100 * time.Millisecond

// Options locates the files the front-end reads at startup.
type Options struct {
	AssetsDir    string
	DBPath       string
	PluginsDir   string
	SettingsPath string
	// HelperPath is the yaffe-helper binary.
	HelperPath string
	// Workers overrides the worker_count setting when positive.
	Workers int
}

// App is the main application struct that implements ebiten.Game
type App struct {
	opts Options

	// Data
	settings *storage.Settings
	db       *storage.DB
	host     *plugins.Host
	watcher  *plugins.Watcher

	// Background work
	jobs    *jobs.System
	cache   *assets.Cache
	scraper *scraper.Client
	checker *updater.Checker
	cancel  context.CancelFunc

	// Front-end
	st     *state.State
	main   *screens.Main
	tree   *widget.Tree
	modals *modal.Stack
	anims  *anim.Engine[widget.ID]
	ctx    *widget.Context

	gfx          *Graphics
	notification *Notification
	inputManager *InputManager

	clipboardOnce sync.Once
	clipboardOK   bool

	lastFrame      time.Time
	rebuildPending bool
	exiting        bool
	startupErrors  []error
}

// NewApp loads settings, the metadata store, built-in assets and plugins.
// The returned error is fatal: a missing atlas or font, or a store that
// cannot be opened.
func NewApp(opts Options) (*App, error) {
	a := &App{opts: opts}

	settings, err := storage.LoadSettings(opts.SettingsPath)
	if err != nil {
		log.Printf("Warning: %v; using defaults", err)
		settings = storage.DefaultSettings(opts.SettingsPath)
	}
	a.settings = settings
	style.ApplyAccent(settings.Color(storage.KeyAccentColor))
	style.ApplyFontSize(settings.F32(storage.KeyFontSize))

	a.db, err = storage.OpenDB(opts.DBPath)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = int(settings.I32(storage.KeyWorkerCount))
	}
	a.jobs = jobs.New(workers)
	a.cache = assets.NewCache(opts.AssetsDir, a.jobs, uploader{}, int(settings.I32(storage.KeyCacheSizeMB)))
	a.scraper = scraper.NewClient(settings.String(storage.KeyTheGamesDBAPIKey))
	a.checker = updater.NewChecker(settings.String(storage.KeyUpdateURL))

	a.jobs.Handle(jobs.KindLoadImage, assets.NewLoader(nil).Handle)
	a.jobs.Handle(jobs.KindSearchPlatform, a.scraper.HandleSearchPlatform)
	a.jobs.Handle(jobs.KindSearchGame, a.scraper.HandleSearchGame)
	a.jobs.Handle(jobs.KindCheckUpdates, a.checker.HandleCheckUpdates)
	a.jobs.Handle(jobs.KindDownloadURL, a.checker.HandleDownloadURL)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.jobs.Start(ctx)

	if err := a.cache.PreloadAssets(); err != nil {
		a.Close()
		return nil, err
	}

	a.host = plugins.NewHost(nil, settings.Plugin)
	a.startupErrors = a.host.LoadDir(opts.PluginsDir)
	if w, err := plugins.Watch(opts.PluginsDir); err != nil {
		log.Printf("Failed to watch plugins: %v", err)
	} else {
		a.watcher = w
	}

	a.st = state.New(settings, a.db, a.host)
	a.st.HelperPath = opts.HelperPath
	if err := a.st.LoadGroups(); err != nil {
		a.startupErrors = append(a.startupErrors, err)
	}

	a.anims = anim.NewEngine[widget.ID]()
	a.modals = modal.NewStack()
	a.ctx = widget.NewContext(a.anims, time.Now())
	a.ctx.Clipboard = a.readClipboard
	a.gfx = NewGraphics(a.cache)
	a.notification = NewNotification(a.st)
	a.inputManager = NewInputManager()

	a.main = screens.NewMain(a.st, a.db, a)
	a.tree = widget.NewTree(a.main)
	a.main.Start(a.ctx)

	for _, err := range a.startupErrors {
		a.ctx.Deferred.Message("Error", err.Error())
	}
	if settings.String(storage.KeyUpdateURL) != "" {
		a.jobs.Enqueue(jobs.CheckUpdates{})
	}
	if err := launch.RunAtStartup(settings.Bool(storage.KeyRunAtStartup)); err != nil {
		log.Printf("Failed to update run at startup: %v", err)
	}
	return a, nil
}

// Close stops the workers and releases the store and plugins.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if err := a.jobs.Close(); err != nil {
		log.Printf("Failed to stop workers: %v", err)
	}
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			log.Printf("Failed to stop plugin watcher: %v", err)
		}
	}
	if a.host != nil {
		a.host.Close()
	}
	if err := a.db.Close(); err != nil {
		log.Printf("Failed to close database: %v", err)
	}
}

func (a *App) readClipboard() string {
	a.clipboardOnce.Do(func() {
		if err := clipboard.Init(); err != nil {
			log.Printf("Clipboard unavailable: %v", err)
			return
		}
		a.clipboardOK = true
	})
	if !a.clipboardOK {
		return ""
	}
	return string(clipboard.Read(clipboard.FmtText))
}

// activeTree is the tree that owns focus: the top modal's, else the main one.
func (a *App) activeTree() *widget.Tree {
	if m, ok := a.modals.Top(); ok {
		return m.Tree()
	}
	return a.tree
}

func (a *App) lookup(id widget.ID) (anim.Animatable, bool) {
	if w, ok := a.modals.Lookup(id); ok {
		return w, true
	}
	return a.tree.Lookup(id)
}

// Update implements ebiten.Game
func (a *App) Update() error {
	if a.exiting {
		return ebiten.Termination
	}
	now := time.Now()
	dt := min(now.Sub(a.lastFrame), maxFrameStep)
	if a.lastFrame.IsZero() {
		dt = 0
	}
	a.lastFrame = now
	a.ctx.Now = now

	if a.rebuildPending {
		a.rebuildPending = false
		a.rebuild()
	}

	a.processResults()
	a.pollProcess()
	a.pollPlugins()
	if a.st.TakeDirty() {
		a.reloadGroups()
	}

	for _, act := range a.inputManager.Update() {
		if !a.modals.Action(a.ctx, act) {
			a.tree.Action(a.ctx, act)
		}
	}
	a.ctx.Deferred.Drain(a, a.ctx)
	a.anims.Step(a.lookup, dt)
	a.main.Update()
	return nil
}

// Draw implements ebiten.Game
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(style.Background)
	a.gfx.Begin(screen, a.lastFrame)
	window := a.gfx.Bounds()

	a.tree.Render(a.gfx, window)
	a.modals.Render(a.gfx, window)
	a.gfx.SetBounds(window)
	a.notification.Draw(a.gfx, window, a.lastFrame)

	if key, ok := a.cache.Evict(); ok {
		log.Printf("Evicted %s", key)
	}
}

// Layout implements ebiten.Game
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// rebuild recreates the main screen after a font size change. The selected
// group and tile live in the state and survive.
func (a *App) rebuild() {
	a.gfx.Purge()
	a.main = screens.NewMain(a.st, a.db, a)
	a.tree.SetRoot(a.main)
	a.main.Start(a.ctx)
}

func (a *App) reloadGroups() {
	if err := a.st.LoadGroups(); err != nil {
		log.Printf("Failed to reload groups: %v", err)
		a.ctx.Deferred.Message("Error", err.Error())
	}
	a.main.Sync()
}

func (a *App) pollProcess() {
	if !a.st.PollProcess() {
		return
	}
	if err := a.st.RefreshRecents(); err != nil {
		log.Printf("Failed to refresh recents: %v", err)
	}
}

func (a *App) pollPlugins() {
	if a.watcher == nil {
		return
	}
	loaded := false
	for _, path := range a.watcher.Pending() {
		_, added, err := a.host.Add(path)
		if err != nil {
			log.Printf("Failed to load plugin %s: %v", filepath.Base(path), err)
			a.ctx.Deferred.Message("Plugin Error", err.Error())
			continue
		}
		loaded = loaded || added
	}
	if loaded {
		a.reloadGroups()
	}
}

// processResults routes finished jobs to their consumers.
func (a *App) processResults() {
	scanner := a.main.Scanner()
	for _, r := range a.jobs.Drain() {
		if a.cache.Complete(r) {
			continue
		}
		switch job := r.Job.(type) {
		case jobs.LoadImage:
			// A load for a slot that was evicted while the job ran
		case jobs.SearchPlatform, jobs.SearchGame:
			if r.Err != nil {
				scanner.Failed(a.ctx, r.Job, r.Err)
				continue
			}
			switch v := r.Value.(type) {
			case scraper.PlatformResult:
				scanner.PlatformFound(a.ctx, v)
			case scraper.GameResult:
				scanner.GameFound(a.ctx, v)
			}
		case jobs.CheckUpdates:
			if r.Err != nil {
				log.Printf("Failed to check for updates: %v", r.Err)
				continue
			}
			if v, ok := r.Value.(updater.Available); ok {
				screens.UpdateFound(a.ctx, v, a.updatePath(), a)
			}
		case jobs.DownloadURL:
			if r.Err != nil {
				a.ctx.Deferred.Toast(fmt.Sprintf("Update download failed: %v", r.Err), style.ToastDuration)
				continue
			}
			a.installUpdate(job.Dest)
		}
	}
}

// updatePath is where a downloaded release is staged before the helper
// moves it over the running executable.
func (a *App) updatePath() string {
	return filepath.Join(os.TempDir(), "yaffe-update")
}

// installUpdate hands the staged release to the helper and exits so the
// executable can be replaced.
func (a *App) installUpdate(patch string) {
	exe, err := os.Executable()
	if err != nil {
		a.ctx.Deferred.Message("Error", fmt.Sprintf("failed to find executable: %v", err))
		return
	}
	if _, err := launch.Start("yaffe-helper", a.opts.HelperPath, []string{"update", patch, exe}); err != nil {
		a.ctx.Deferred.Message("Error", err.Error())
		return
	}
	a.Exit()
}

// Enqueue hands a job to the worker pool.
func (a *App) Enqueue(job jobs.Job) {
	if !a.jobs.Enqueue(job) {
		log.Printf("Dropped %s job: worker pool is closed", job.Kind())
	}
}

// SettingsChanged saves the settings file and applies the new values.
func (a *App) SettingsChanged() error {
	if err := a.settings.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	style.ApplyAccent(a.settings.Color(storage.KeyAccentColor))
	if size := a.settings.F32(storage.KeyFontSize); size != style.FontSize {
		style.ApplyFontSize(size)
		a.rebuildPending = true
	}
	a.cache.SetBudgetMB(int(a.settings.I32(storage.KeyCacheSizeMB)))
	a.scraper.SetAPIKey(a.settings.String(storage.KeyTheGamesDBAPIKey))
	a.checker.SetURL(a.settings.String(storage.KeyUpdateURL))
	if err := launch.RunAtStartup(a.settings.Bool(storage.KeyRunAtStartup)); err != nil && !errors.Is(err, launch.ErrUnsupported) {
		return fmt.Errorf("failed to update run at startup: %w", err)
	}
	return nil
}

// Exit ends the application after the current frame.
func (a *App) Exit() {
	a.exiting = true
}

// widget.Target

func (a *App) FocusWidget(ctx *widget.Context, id widget.ID) {
	a.activeTree().Focus(ctx, id)
}

func (a *App) RevertFocus(ctx *widget.Context) {
	a.activeTree().RevertFocus(ctx)
}

func (a *App) LoadPlugin(ctx *widget.Context, mode widget.PluginLoad) {
	n, err := a.st.LoadPlugin(mode)
	if err != nil {
		log.Printf("Failed to load plugin listing (%s): %v", mode, err)
		a.DisplayMessage(ctx, "Plugin Error", err.Error())
		return
	}
	if mode == widget.PluginFetch && n > 0 {
		log.Printf("Fetched %d more tiles", n)
	}
}

func (a *App) DisplayMessage(ctx *widget.Context, title, text string) {
	a.modals.Push(ctx, modal.Message(title, text))
}

func (a *App) DisplayModal(ctx *widget.Context, req widget.ModalRequest) {
	a.modals.Push(ctx, req)
}

func (a *App) CloseModal(ctx *widget.Context, accepted bool) {
	a.modals.Close(ctx, accepted)
}

func (a *App) Toast(_ *widget.Context, text string, d time.Duration) {
	a.st.AddToast(text, d)
}

func (a *App) Reload(ctx *widget.Context) {
	if err := a.st.Refresh(); err != nil {
		a.DisplayMessage(ctx, "Error", err.Error())
	}
}
