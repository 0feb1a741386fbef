package resolve

import (
	"os"
	"sync"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"

	"github.com/carved4/go-hashresolve/pkg/obf"
)

// fakeLoader drives resolveExport without a live loader list.
func fakeLoader(modules []Module) func(func(Module) bool) {
	return func(fn func(Module) bool) {
		for _, m := range modules {
			if !fn(m) {
				return
			}
		}
	}
}

func TestResolveExportTriesAllHintCandidates(t *testing.T) {
	// Two modules share a base name, loaded from different directories.
	// Only the second carries the export; the hinted scan must not stop
	// at the first name match.
	modules := []Module{
		{Base: 0x10000, Name: "dup.dll", Path: `C:\one\dup.dll`},
		{Base: 0x20000, Name: "dup.dll", Path: `C:\two\dup.dll`},
	}
	target := obf.GetHash("OnlyInSecond")
	lookup := func(base uintptr, h uint32) uintptr {
		if base == 0x20000 && h == target {
			return base + 0x1234
		}
		return 0
	}

	hint := obf.GetModuleHash("dup.dll")
	addr := resolveExport(fakeLoader(modules), lookup, target, hint)
	assert.Equal(t, uintptr(0x20000+0x1234), addr)
}

func TestResolveExportHintFiltersOtherModules(t *testing.T) {
	// A module outside the hint exports the target; the hinted scan must
	// not touch it.
	modules := []Module{
		{Base: 0x10000, Name: "other.dll"},
		{Base: 0x20000, Name: "wanted.dll"},
	}
	target := obf.GetHash("SharedName")
	var scanned []uintptr
	lookup := func(base uintptr, h uint32) uintptr {
		scanned = append(scanned, base)
		return base + 0x10
	}

	addr := resolveExport(fakeLoader(modules), lookup, target, obf.GetModuleHash("wanted.dll"))
	assert.Equal(t, uintptr(0x20000+0x10), addr)
	assert.Equal(t, []uintptr{0x20000}, scanned)
}

func TestResolveExportHintCaseInsensitive(t *testing.T) {
	modules := []Module{{Base: 0x10000, Name: "DUP.DLL"}}
	target := obf.GetHash("AnyProc")
	lookup := func(base uintptr, h uint32) uintptr { return base + 1 }

	addr := resolveExport(fakeLoader(modules), lookup, target, obf.GetModuleHash("dup.dll"))
	assert.Equal(t, uintptr(0x10001), addr)
}

func TestResolveExportUnhintedFirstMatchWins(t *testing.T) {
	modules := []Module{
		{Base: 0x10000, Name: "a.dll"},
		{Base: 0x20000, Name: "b.dll"},
	}
	target := obf.GetHash("EveryoneHasIt")
	var scanned int
	lookup := func(base uintptr, h uint32) uintptr {
		scanned++
		return base + 2
	}

	addr := resolveExport(fakeLoader(modules), lookup, target, 0)
	assert.Equal(t, uintptr(0x10002), addr)
	assert.Equal(t, 1, scanned)
}

func TestResolveExportNotFoundSentinel(t *testing.T) {
	modules := []Module{{Base: 0x10000, Name: "a.dll"}}
	lookup := func(uintptr, uint32) uintptr { return 0 }

	assert.Zero(t, resolveExport(fakeLoader(modules), lookup, obf.GetHash("missing"), 0))
	assert.Zero(t, resolveExport(fakeLoader(modules), lookup, obf.GetHash("missing"), obf.GetModuleHash("nope.dll")))
	assert.Zero(t, resolveExport(fakeLoader(nil), lookup, obf.GetHash("missing"), 0))
}

func TestSetLoggerConcurrentWithResolution(t *testing.T) {
	t.Cleanup(func() { SetLogger(log.NewNopLogger()) })

	modules := []Module{{Base: 0x10000, Name: "a.dll"}}
	target := obf.GetHash("Proc")
	lookup := func(base uintptr, h uint32) uintptr { return base + 4 }

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				SetLogger(log.NewLogfmtLogger(os.Stderr))
				SetLogger(log.NewNopLogger())
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				assert.Equal(t, uintptr(0x10004), resolveExport(fakeLoader(modules), lookup, target, 0))
			}
		}()
	}
	wg.Wait()
}
