//go:build windows

package launch

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const runKey = `Software\Microsoft\Windows\CurrentVersion\Run`

func runAtStartup(enabled bool, exe string) error {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKey, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open run key: %w", err)
	}
	defer k.Close()

	if !enabled {
		if err := k.DeleteValue(AppName); err != nil && !errors.Is(err, registry.ErrNotExist) {
			return fmt.Errorf("failed to remove run value: %w", err)
		}
		return nil
	}
	if err := k.SetStringValue(AppName, `"`+exe+`"`); err != nil {
		return fmt.Errorf("failed to set run value: %w", err)
	}
	return nil
}
