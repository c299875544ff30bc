//go:build !linux && !windows

package launch

func runAtStartup(enabled bool, exe string) error {
	if !enabled {
		return nil
	}
	return ErrUnsupported
}
