package updater

import (
	"fmt"
	"io"
	"os"
	"time"
)

// installAttempts bounds how long Install waits for the old executable to
// be released by the exiting front-end.
const (
	installAttempts = 20
	installDelay    = 250 * time.Millisecond
)

// Install moves patch over app. It keeps trying while app is still held by
// the exiting front-end, and falls back to a copy when the two paths are on
// different filesystems.
func Install(patch, app string) error {
	if _, err := os.Stat(patch); err != nil {
		return fmt.Errorf("failed to find update: %w", err)
	}

	var err error
	for i := 0; i < installAttempts; i++ {
		if err = os.Rename(patch, app); err == nil {
			return os.Chmod(app, 0755)
		}
		if cerr := copyFile(patch, app); cerr == nil {
			os.Remove(patch)
			return nil
		}
		time.Sleep(installDelay)
	}
	return fmt.Errorf("failed to install update: %w", err)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
