// Package resolve locates exported functions in loaded modules by name
// hash, walking the loader's module list and each module's export
// directory instead of going through the import table.
package resolve

import (
	"sync/atomic"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/carved4/go-hashresolve/pkg/obf"
)

// Module is one entry of the loader's module list. Base stays valid only
// as long as the module remains loaded; callers must not hold it across
// module load/unload.
type Module struct {
	Base uintptr
	Name string
	Path string
	Size uint32
}

var logger atomic.Pointer[log.Logger]

func init() {
	l := log.Logger(log.NewNopLogger())
	logger.Store(&l)
}

// SetLogger enables scan tracing. The default logger discards everything.
// Safe to call concurrently with resolution.
func SetLogger(l log.Logger) {
	if l != nil {
		logger.Store(&l)
	}
}

func getLogger() log.Logger {
	return *logger.Load()
}

// resolveExport scans the modules yielded by enumerate for an export whose
// name hashes to functionHash. A non-zero moduleHint narrows the scan to
// every module whose normalized-name hash equals the hint; same-named
// modules loaded from different directories are all candidates, in
// enumeration order. First match wins.
func resolveExport(
	enumerate func(func(Module) bool),
	getFunctionAddress func(uintptr, uint32) uintptr,
	functionHash, moduleHint uint32,
) uintptr {
	var addr uintptr
	enumerate(func(m Module) bool {
		if moduleHint != 0 && obf.GetModuleHash(m.Name) != moduleHint {
			return true
		}
		if a := getFunctionAddress(m.Base, functionHash); a != 0 {
			level.Debug(getLogger()).Log("msg", "resolved export", "module", m.Name, "hash", functionHash)
			addr = a
			return false
		}
		return true
	})
	return addr
}
