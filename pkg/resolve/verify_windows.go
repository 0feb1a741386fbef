//go:build windows

package resolve

import (
	"fmt"

	"github.com/Binject/debug/pe"

	hrerrors "github.com/carved4/go-hashresolve/pkg/errors"
)

type memoryReaderAt struct {
	data []byte
}

func (r *memoryReaderAt) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 || off >= int64(len(r.data)) {
		return 0, fmt.Errorf("offset out of range")
	}
	n = copy(p, r.data[off:])
	if n < len(p) {
		err = fmt.Errorf("EOF")
	}
	return n, err
}

// VerifyExports re-parses the module image with the checked PE parser and
// confirms every export found by the manual walk exists there with the
// same address. Meant for tests and diagnostics, not the resolution path.
func VerifyExports(moduleBase uintptr) error {
	view, ok := viewForModule(moduleBase)
	if !ok {
		return hrerrors.New(hrerrors.ErrMalformedImage)
	}

	file, err := pe.NewFileFromMemory(&memoryReaderAt{data: view.data})
	if err != nil {
		return fmt.Errorf("checked parse failed: %w", err)
	}
	defer file.Close()

	checked, err := file.Exports()
	if err != nil {
		return fmt.Errorf("checked export read failed: %w", err)
	}

	byName := make(map[string]uint32, len(checked))
	for _, e := range checked {
		if e.Name != "" {
			byName[e.Name] = e.VirtualAddress
		}
	}

	var mismatch error
	walkExports(view, func(e Export) bool {
		rva, ok := byName[e.Name]
		if !ok {
			mismatch = fmt.Errorf("export %q not seen by checked parser", e.Name)
			return false
		}
		if rva != e.RVA {
			mismatch = fmt.Errorf("export %q address mismatch: walker %#x, checked %#x", e.Name, e.RVA, rva)
			return false
		}
		return true
	})
	return mismatch
}
