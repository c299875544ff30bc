//go:build darwin || linux || freebsd

package plugins

import (
	"runtime"

	"github.com/ebitengine/purego"
)

// LibraryExt is the shared-library extension scanned for plugins.
var LibraryExt = func() string {
	if runtime.GOOS == "darwin" {
		return ".dylib"
	}
	return ".so"
}()

type dlLibrary struct {
	handle uintptr
}

func openLibrary(path string) (library, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, err
	}
	return &dlLibrary{handle: h}, nil
}

func (l *dlLibrary) Symbol(name string) (uintptr, error) {
	return purego.Dlsym(l.handle, name)
}

func (l *dlLibrary) Close() error {
	return purego.Dlclose(l.handle)
}
