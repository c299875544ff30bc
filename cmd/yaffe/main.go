// Command yaffe is a full-screen launcher for emulated games and plugin
// provided content, driven by a keyboard or gamepad.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/user-none/yaffe/ui"
	"github.com/user-none/yaffe/ui/storage"
)

func main() {
	base := exeDir()
	assetsDir := flag.String("assets", filepath.Join(base, "assets"), "directory holding the built-in atlas and font")
	dbPath := flag.String("db", filepath.Join(base, "Yaffe.db"), "path to the metadata database")
	pluginsDir := flag.String("plugins", filepath.Join(base, "plugins"), "directory of plugin libraries")
	settingsPath := flag.String("settings", filepath.Join(base, storage.DefaultSettingsPath), "path to the settings file")
	workers := flag.Int("workers", 0, "background workers (0 uses the worker_count setting)")
	windowed := flag.Bool("windowed", false, "run in a window instead of full screen")
	flag.Parse()

	helper := filepath.Join(base, "yaffe-helper")
	if runtime.GOOS == "windows" {
		helper += ".exe"
	}

	app, err := ui.NewApp(ui.Options{
		AssetsDir:    *assetsDir,
		DBPath:       *dbPath,
		PluginsDir:   *pluginsDir,
		SettingsPath: *settingsPath,
		HelperPath:   helper,
		Workers:      *workers,
	})
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	ebiten.SetWindowTitle(ui.Name)
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(640, 360, -1, -1)
	ebiten.SetFullscreen(!*windowed)
	ebiten.SetRunnableOnUnfocused(true)

	err = ebiten.RunGame(app)
	app.Close()
	if err != nil {
		log.Fatal(err)
	}
}

// exeDir is the directory of the running executable. Data files live next
// to it.
func exeDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
