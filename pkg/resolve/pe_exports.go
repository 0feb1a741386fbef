package resolve

// Export directory parsing over an imageView. The walker only yields
// exports reachable by name: ordinal-only entries have no name to hash and
// forwarders resolve to a symbol in another module, not a callable address
// in this one.

// Export is one named, non-forwarded symbol from a module's export
// directory. RVA is relative to the module base.
type Export struct {
	Name    string
	RVA     uint32
	Ordinal uint32
}

const (
	// maxExportCount caps the name/function counts read from the header
	// so a hostile image cannot drive an unbounded walk.
	maxExportCount = 0x10000
	// maxExportNameLength bounds a single export name read.
	maxExportNameLength = 512

	peOffsetField    = 0x3C
	optHeaderDelta   = 24 // NT signature (4) + COFF header (20)
	sizeOfImageField = 56 // offset into the optional header, PE32 and PE32+
)

// exportDirectoryRange locates the export data directory. Returns ok=false
// when the image has no export directory or the headers do not parse; the
// caller treats both as an empty export set.
func exportDirectoryRange(v imageView) (rva, size uint32, ok bool) {
	if m0, o := v.u8(0); !o || m0 != 'M' {
		return 0, 0, false
	}
	if m1, o := v.u8(1); !o || m1 != 'Z' {
		return 0, 0, false
	}

	peOff, o := v.u32(peOffsetField)
	if !o {
		return 0, 0, false
	}
	if s0, o := v.u8(peOff); !o || s0 != 'P' {
		return 0, 0, false
	}
	if s1, o := v.u8(peOff + 1); !o || s1 != 'E' {
		return 0, 0, false
	}

	optStart := peOff + optHeaderDelta
	magic, o := v.u16(optStart)
	if !o {
		return 0, 0, false
	}

	// DataDirectory starts at offset 96 for PE32, 112 for PE32+; the
	// export entry is index 0.
	var ddOff uint32
	switch magic {
	case 0x10b:
		ddOff = 96
	case 0x20b:
		ddOff = 112
	default:
		return 0, 0, false
	}

	dd := optStart + ddOff
	exportRVA, o := v.u32(dd)
	if !o {
		return 0, 0, false
	}
	exportSize, o := v.u32(dd + 4)
	if !o {
		return 0, 0, false
	}
	if exportRVA == 0 || exportSize == 0 {
		return 0, 0, false
	}
	return exportRVA, exportSize, true
}

// walkExports iterates the named exports of the image, calling fn for each
// until fn returns false or the table is exhausted. Malformed metadata
// (any offset outside the image) stops the walk for this module; entries
// already yielded stand.
func walkExports(v imageView, fn func(Export) bool) {
	exportRVA, exportSize, ok := exportDirectoryRange(v)
	if !ok {
		return
	}

	// IMAGE_EXPORT_DIRECTORY field offsets:
	//   16 Base, 20 NumberOfFunctions, 24 NumberOfNames,
	//   28 AddressOfFunctions, 32 AddressOfNames, 36 AddressOfNameOrdinals
	base, o := v.u32(exportRVA + 16)
	if !o {
		return
	}
	numFuncs, o := v.u32(exportRVA + 20)
	if !o {
		return
	}
	numNames, o := v.u32(exportRVA + 24)
	if !o {
		return
	}
	addrFuncs, o := v.u32(exportRVA + 28)
	if !o {
		return
	}
	addrNames, o := v.u32(exportRVA + 32)
	if !o {
		return
	}
	addrOrds, o := v.u32(exportRVA + 36)
	if !o {
		return
	}

	if numNames > maxExportCount {
		numNames = maxExportCount
	}
	if numFuncs > maxExportCount {
		numFuncs = maxExportCount
	}

	for i := uint32(0); i < numNames; i++ {
		nameRVA, o := v.u32(addrNames + i*4)
		if !o {
			return
		}
		ordIndex, o := v.u16(addrOrds + i*2)
		if !o {
			return
		}
		if uint32(ordIndex) >= numFuncs {
			continue
		}
		funcRVA, o := v.u32(addrFuncs + uint32(ordIndex)*4)
		if !o {
			return
		}
		if funcRVA == 0 {
			continue
		}
		// An address inside the export directory is a forwarder RVA.
		if funcRVA >= exportRVA && funcRVA < exportRVA+exportSize {
			continue
		}
		if !v.in(funcRVA, 1) {
			return
		}
		name, o := v.cstring(nameRVA, maxExportNameLength)
		if !o {
			return
		}
		if name == "" {
			continue
		}
		if !fn(Export{Name: name, RVA: funcRVA, Ordinal: base + uint32(ordIndex)}) {
			return
		}
	}
}

// parseExports collects every named export of the image. Convenience over
// walkExports for callers that want the whole table.
func parseExports(v imageView) []Export {
	var exports []Export
	walkExports(v, func(e Export) bool {
		exports = append(exports, e)
		return true
	})
	return exports
}
