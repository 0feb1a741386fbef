//go:build windows

// Package locate reports the file-system path of the module that contains
// the currently executing code.
package locate

import (
	"reflect"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	hrerrors "github.com/carved4/go-hashresolve/pkg/errors"
	"github.com/carved4/go-hashresolve/pkg/resolve"
)

// anchor only exists so its code address marks this module in the loader
// list.
func anchor() {}

// CurrentModulePath returns the path of the module whose mapped range
// contains this package's code: the host executable normally, the DLL when
// the code is built into one. It fails only when the loader cannot place
// the current code in any module and the OS fallback cannot report a path,
// which indicates a corrupted host process.
func CurrentModulePath() (string, error) {
	pc := reflect.ValueOf(anchor).Pointer()

	var path string
	resolve.EnumerateModules(func(m resolve.Module) bool {
		if pc >= m.Base && pc < m.Base+uintptr(m.Size) && m.Path != "" {
			path = m.Path
			return false
		}
		return true
	})
	if path != "" {
		return path, nil
	}

	// Loader walk came up empty; ask the OS for the main image path.
	buf := make([]uint16, windows.MAX_PATH)
	for {
		n, err := windows.GetModuleFileName(0, &buf[0], uint32(len(buf)))
		if err == windows.ERROR_INSUFFICIENT_BUFFER || (err == nil && int(n) >= len(buf)) {
			buf = make([]uint16, len(buf)*2)
			continue
		}
		if err != nil || n == 0 {
			return "", errors.Wrap(hrerrors.New(hrerrors.ErrSelfLocation), "GetModuleFileName")
		}
		return windows.UTF16ToString(buf[:n]), nil
	}
}
