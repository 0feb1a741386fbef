//go:build windows

package resolve

import (
	"unsafe"

	"github.com/carved4/go-hashresolve/pkg/utils"
)

type LIST_ENTRY struct {
	Flink *LIST_ENTRY
	Blink *LIST_ENTRY
}

type UNICODE_STRING struct {
	Length        uint16
	MaximumLength uint16
	Buffer        *uint16
}

type LDR_DATA_TABLE_ENTRY struct {
	InLoadOrderLinks           LIST_ENTRY
	InMemoryOrderLinks         LIST_ENTRY
	InInitializationOrderLinks LIST_ENTRY
	DllBase                    uintptr
	EntryPoint                 uintptr
	SizeOfImage                uintptr
	FullDllName                UNICODE_STRING
	BaseDllName                UNICODE_STRING
}

type PEB_LDR_DATA struct {
	Length                          uint32
	Initialized                     uint32
	SsHandle                        uintptr
	InLoadOrderModuleList           LIST_ENTRY
	InMemoryOrderModuleList         LIST_ENTRY
	InInitializationOrderModuleList LIST_ENTRY
}

type PEB struct {
	Reserved1              [2]byte
	BeingDebugged          byte
	Reserved2              byte
	Reserved3              [2]uintptr
	Ldr                    *PEB_LDR_DATA
	ProcessParameters      uintptr
	Reserved4              [3]uintptr
	AtlThunkSListPtr       uintptr
	Reserved5              uintptr
	Reserved6              uint32
	Reserved7              uintptr
	Reserved8              uint32
	AtlThunkSListPtr32     uint32
	Reserved9              [45]uintptr
	Reserved10             [96]byte
	PostProcessInitRoutine uintptr
	Reserved11             [128]byte
	Reserved12             [1]uintptr
	SessionId              uint32
}

//go:nosplit
//go:noinline
func GetPEB() uintptr

// GetCurrentProcessPEB returns the current process PEB, or nil when the
// loader data is not yet initialized.
func GetCurrentProcessPEB() *PEB {
	pebAddr := GetPEB()
	if pebAddr == 0 {
		return nil
	}

	peb := (*PEB)(unsafe.Pointer(pebAddr))
	if peb.Ldr == nil {
		return nil
	}
	return peb
}

// maxLoaderEntries bounds the list walk in case the loader list is
// corrupted into a non-terminating cycle.
const maxLoaderEntries = 1024

// EnumerateModules walks the loader's in-load-order module list, calling
// fn for each module until fn returns false or the list wraps. The walk is
// read-only; ordering follows the loader and is not a stable contract.
func EnumerateModules(fn func(Module) bool) {
	peb := GetCurrentProcessPEB()
	if peb == nil {
		return
	}

	head := &peb.Ldr.InLoadOrderModuleList
	current := head.Flink

	for n := 0; current != nil && current != head && n < maxLoaderEntries; n++ {
		entry := (*LDR_DATA_TABLE_ENTRY)(unsafe.Pointer(current))
		if entry.DllBase != 0 {
			m := Module{
				Base: entry.DllBase,
				Name: utils.UTF16BufToString(entry.BaseDllName.Buffer, int(entry.BaseDllName.Length/2)),
				Path: utils.UTF16BufToString(entry.FullDllName.Buffer, int(entry.FullDllName.Length/2)),
				Size: uint32(entry.SizeOfImage),
			}
			if !fn(m) {
				return
			}
		}
		current = current.Flink
	}
}
