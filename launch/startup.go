package launch

import (
	"errors"
	"fmt"
	"os"
)

// ErrUnsupported is returned by RunAtStartup on platforms without a
// per-user autostart mechanism.
var ErrUnsupported = errors.New("launch: run at startup is not supported on this platform")

// AppName names the autostart entry.
const AppName = "Yaffe"

// RunAtStartup registers the running executable to start when the user
// logs in, or removes the registration.
func RunAtStartup(enabled bool) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to find executable: %w", err)
	}
	return runAtStartup(enabled, exe)
}
