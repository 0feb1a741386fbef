package resolve

import (
	"encoding/binary"
	"unsafe"
)

// imageView is a read-only, bounds-checked window over one mapped module
// image. Every raw read the walker performs goes through these accessors;
// an offset outside the declared size fails the read instead of touching
// memory past the image.
type imageView struct {
	data []byte
}

func newImageView(data []byte) imageView {
	return imageView{data: data}
}

// viewFromBase wraps an already-mapped image. The caller vouches that
// [base, base+size) is mapped; all subsequent reads stay inside it.
func viewFromBase(base uintptr, size uint32) imageView {
	if base == 0 || size == 0 {
		return imageView{}
	}
	return imageView{data: unsafe.Slice((*byte)(unsafe.Pointer(base)), size)}
}

func (v imageView) size() uint32 {
	return uint32(len(v.data))
}

func (v imageView) in(off uint32, n uint32) bool {
	return uint64(off)+uint64(n) <= uint64(len(v.data))
}

func (v imageView) u8(off uint32) (byte, bool) {
	if !v.in(off, 1) {
		return 0, false
	}
	return v.data[off], true
}

func (v imageView) u16(off uint32) (uint16, bool) {
	if !v.in(off, 2) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(v.data[off:]), true
}

func (v imageView) u32(off uint32) (uint32, bool) {
	if !v.in(off, 4) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(v.data[off:]), true
}

// cstring copies the NUL-terminated ASCII string at off. The read is
// bounded by both the image end and max; an unterminated run up to either
// bound fails rather than returning a truncated name.
func (v imageView) cstring(off uint32, max uint32) (string, bool) {
	if !v.in(off, 1) {
		return "", false
	}
	end := uint64(off) + uint64(max)
	if end > uint64(len(v.data)) {
		end = uint64(len(v.data))
	}
	for i := uint64(off); i < end; i++ {
		if v.data[i] == 0 {
			return string(v.data[off:i]), true
		}
	}
	return "", false
}
