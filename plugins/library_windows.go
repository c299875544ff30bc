//go:build windows

package plugins

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// LibraryExt is the shared-library extension scanned for plugins.
var LibraryExt = ".dll"

type dllLibrary struct {
	dll *windows.DLL
}

func openLibrary(path string) (library, error) {
	dll, err := windows.LoadDLL(path)
	if err != nil {
		return nil, fmt.Errorf("LoadDLL failed: %w", err)
	}
	return &dllLibrary{dll: dll}, nil
}

func (l *dllLibrary) Symbol(name string) (uintptr, error) {
	proc, err := l.dll.FindProc(name)
	if err != nil {
		return 0, fmt.Errorf("FindProc(%s) failed: %w", name, err)
	}
	return proc.Addr(), nil
}

func (l *dllLibrary) Close() error {
	return l.dll.Release()
}
