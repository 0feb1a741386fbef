//go:build windows

// Package hashresolve resolves exported functions in loaded modules by
// name hash instead of import-table linkage. Callers precompute hashes at
// build time (tools/hash_replacer.go) so plaintext symbol names never ship
// in the binary.
package hashresolve

import (
	"syscall"

	"github.com/go-kit/log"
	"golang.org/x/sys/windows"

	hrerrors "github.com/carved4/go-hashresolve/pkg/errors"
	"github.com/carved4/go-hashresolve/pkg/locate"
	"github.com/carved4/go-hashresolve/pkg/obf"
	"github.com/carved4/go-hashresolve/pkg/resolve"
	"github.com/carved4/go-hashresolve/pkg/utils"
)

var (
	GetHash            = obf.GetHash
	GetModuleHash      = obf.GetModuleHash
	GetModuleBase      = resolve.GetModuleBase
	GetFunctionAddress = resolve.GetFunctionAddress
	Resolve            = resolve.Resolve
	EnumerateModules   = resolve.EnumerateModules
	ModuleExports      = resolve.ModuleExports
	VerifyExports      = resolve.VerifyExports
	CurrentModulePath  = locate.CurrentModulePath
	UTF16PtrFromString = utils.UTF16PtrFromString
)

// SetLogger wires one logger through every package that can log.
func SetLogger(l log.Logger) {
	obf.SetLogger(l)
	resolve.SetLogger(l)
}

// CallAddr invokes an already-resolved address. The caller vouches that
// args match the target's true signature; a mismatch is undetectable here.
func CallAddr(addr uintptr, args ...uintptr) (uintptr, error) {
	if addr == 0 {
		return 0, hrerrors.New(hrerrors.ErrFunctionNotFound)
	}
	r1, _, _ := syscall.SyscallN(addr, args...)
	return r1, nil
}

// Call resolves dllName!funcName by hash and invokes it. The module is
// loaded if it is not already in the process; the function lookup itself
// never touches GetProcAddress.
func Call(dllName, funcName string, args ...uintptr) (uintptr, error) {
	moduleBase := resolve.GetModuleBase(obf.GetModuleHash(dllName))
	if moduleBase == 0 {
		handle, err := windows.LoadLibrary(dllName)
		if err != nil {
			return 0, hrerrors.New(hrerrors.ErrModuleNotFound)
		}
		moduleBase = uintptr(handle)
	}

	funcAddr := resolve.GetFunctionAddress(moduleBase, obf.GetHash(funcName))
	if funcAddr == 0 {
		return 0, hrerrors.New(hrerrors.ErrFunctionNotFound)
	}

	return CallAddr(funcAddr, args...)
}
