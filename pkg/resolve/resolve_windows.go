//go:build windows

package resolve

import (
	"github.com/go-kit/log/level"

	"github.com/carved4/go-hashresolve/pkg/obf"
)

// headerProbeSize bounds the reads needed to find SizeOfImage before the
// full image view exists.
const headerProbeSize = 4096

// viewForModule builds a bounds-checked view over a loaded module. The
// headers are probed through a small fixed-size view first; only a valid
// SizeOfImage widens the window.
func viewForModule(base uintptr) (imageView, bool) {
	if base == 0 {
		return imageView{}, false
	}

	hdr := viewFromBase(base, headerProbeSize)
	if m0, o := hdr.u8(0); !o || m0 != 'M' {
		return imageView{}, false
	}
	if m1, o := hdr.u8(1); !o || m1 != 'Z' {
		return imageView{}, false
	}
	peOff, o := hdr.u32(peOffsetField)
	if !o || peOff == 0 || peOff > headerProbeSize-optHeaderDelta-sizeOfImageField-4 {
		return imageView{}, false
	}
	if s0, o := hdr.u8(peOff); !o || s0 != 'P' {
		return imageView{}, false
	}
	if s1, o := hdr.u8(peOff + 1); !o || s1 != 'E' {
		return imageView{}, false
	}

	sizeOfImage, o := hdr.u32(peOff + optHeaderDelta + sizeOfImageField)
	if !o || sizeOfImage < headerProbeSize {
		return imageView{}, false
	}
	return viewFromBase(base, sizeOfImage), true
}

// GetModuleBase returns the base address of the first loaded module whose
// lower-cased base name hashes to moduleHash, or 0 when no module matches.
// When same-named modules are loaded from different directories this picks
// the first in loader order; Resolve considers them all.
func GetModuleBase(moduleHash uint32) uintptr {
	var moduleBase uintptr
	EnumerateModules(func(m Module) bool {
		if obf.GetModuleHash(m.Name) == moduleHash {
			moduleBase = m.Base
			return false
		}
		return true
	})
	return moduleBase
}

// GetFunctionAddress walks the named exports of the module at moduleBase
// and returns the absolute address of the first export whose name hashes
// to functionHash, or 0 when none matches. A module without an export
// directory, or with malformed export metadata, simply yields no match.
func GetFunctionAddress(moduleBase uintptr, functionHash uint32) uintptr {
	view, ok := viewForModule(moduleBase)
	if !ok {
		level.Debug(getLogger()).Log("msg", "module image did not parse", "base", moduleBase)
		return 0
	}

	var addr uintptr
	walkExports(view, func(e Export) bool {
		if obf.GetHash(e.Name) == functionHash {
			addr = moduleBase + uintptr(e.RVA)
			return false
		}
		return true
	})
	return addr
}

// Resolve finds the address of the export whose name hashes to
// functionHash. A non-zero moduleHint restricts the scan to the modules
// whose name hashes to it — every same-named candidate is tried; a zero
// hint scans every loaded module in loader order. Loader order is not
// stable, so callers must pass a hint whenever identically named exports
// may exist in several modules. The zero return is the not-found sentinel,
// not an error.
func Resolve(functionHash uint32, moduleHint uint32) uintptr {
	return resolveExport(EnumerateModules, GetFunctionAddress, functionHash, moduleHint)
}

// ModuleExports returns the named exports of the module at moduleBase.
// Ordinal-only exports and forwarders are not included.
func ModuleExports(moduleBase uintptr) []Export {
	view, ok := viewForModule(moduleBase)
	if !ok {
		return nil
	}
	return parseExports(view)
}
