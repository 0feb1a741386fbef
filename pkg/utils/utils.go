// Package utils holds the narrow/wide string and byte-buffer conversions
// the resolver needs at the boundary between loader-owned memory and Go
// values. Every function returns an owned copy; nothing retains a pointer
// into the source buffer.
package utils

import (
	"errors"
	"unicode/utf16"
	"unsafe"
)

// UTF16ToString copies a NUL-terminated UTF-16 sequence into a Go string.
// A nil pointer yields the empty string.
func UTF16ToString(ptr *uint16) string {
	if ptr == nil {
		return ""
	}

	length := 0
	for tmp := ptr; *tmp != 0; tmp = (*uint16)(unsafe.Pointer(uintptr(unsafe.Pointer(tmp)) + 2)) {
		length++
	}

	return UTF16BufToString(ptr, length)
}

// UTF16BufToString copies exactly length UTF-16 code units starting at ptr.
// Used for UNICODE_STRING buffers, which carry an explicit length and are
// not always NUL-terminated.
func UTF16BufToString(ptr *uint16, length int) string {
	if ptr == nil || length <= 0 {
		return ""
	}

	slice := make([]uint16, length)
	for i := 0; i < length; i++ {
		slice[i] = *(*uint16)(unsafe.Pointer(uintptr(unsafe.Pointer(ptr)) + uintptr(i*2)))
	}

	return utf16BytesToString(slice)
}

func utf16BytesToString(b []uint16) string {
	runes := make([]rune, 0, len(b))
	for i := 0; i < len(b); i++ {
		r := rune(b[i])
		if r >= 0xD800 && r <= 0xDBFF && i+1 < len(b) {
			r2 := rune(b[i+1])
			if r2 >= 0xDC00 && r2 <= 0xDFFF {
				r = (r-0xD800)<<10 + (r2 - 0xDC00) + 0x10000
				i++
			}
		}
		runes = append(runes, r)
	}
	return string(runes)
}

// UTF16PtrFromString returns a pointer to a NUL-terminated UTF-16 copy
// of s. Fails if s itself contains a NUL, which would silently truncate.
func UTF16PtrFromString(s string) (*uint16, error) {
	for _, r := range s {
		if r == 0 {
			return nil, errors.New("string contains NUL")
		}
	}
	buf := utf16.Encode([]rune(s + "\x00"))
	return &buf[0], nil
}

// BytesToString copies length bytes of b into an owned string. Length is
// clamped to len(b).
func BytesToString(b []byte, length int) string {
	if length > len(b) {
		length = len(b)
	}
	if length <= 0 {
		return ""
	}
	return string(b[:length])
}

// CopyBytes reads n bytes starting at ptr into a fresh slice. The caller
// vouches that [ptr, ptr+n) is mapped; the read is bounded to exactly n.
func CopyBytes(ptr uintptr, n int) []byte {
	if ptr == 0 || n <= 0 {
		return nil
	}
	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
	return out
}
