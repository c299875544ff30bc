package launch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/user-none/yaffe/ui/storage"
)

func runAtStartup(enabled bool, exe string) error {
	dir, err := os.UserConfigDir()
	if err != nil {
		return fmt.Errorf("failed to find config directory: %w", err)
	}
	return writeAutostart(filepath.Join(dir, "autostart"), enabled, exe)
}

// writeAutostart creates or removes the XDG autostart entry in dir.
func writeAutostart(dir string, enabled bool, exe string) error {
	path := filepath.Join(dir, strings.ToLower(AppName)+".desktop")
	if !enabled {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove autostart entry: %w", err)
		}
		return nil
	}
	entry := fmt.Sprintf("[Desktop Entry]\nType=Application\nName=%s\nExec=%q\nX-GNOME-Autostart-enabled=true\n", AppName, exe)
	return storage.AtomicWrite(path, []byte(entry))
}
