package utils

import (
	"testing"
	"unicode/utf16"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUTF16RoundTrip(t *testing.T) {
	for _, s := range []string{"kernel32.dll", "C:\\Windows\\System32\\ntdll.dll", "", "héllo", "日本語"} {
		ptr, err := UTF16PtrFromString(s)
		require.NoError(t, err)
		assert.Equal(t, s, UTF16ToString(ptr))
	}
}

func TestUTF16PtrFromStringRejectsNUL(t *testing.T) {
	_, err := UTF16PtrFromString("bad\x00name")
	assert.Error(t, err)
}

func TestUTF16ToStringNil(t *testing.T) {
	assert.Equal(t, "", UTF16ToString(nil))
}

func TestUTF16BufToString(t *testing.T) {
	// UNICODE_STRING buffers are length-delimited, not NUL-terminated.
	units := utf16.Encode([]rune("ntdll.dllTRAILING"))
	got := UTF16BufToString(&units[0], 9)
	assert.Equal(t, "ntdll.dll", got)

	assert.Equal(t, "", UTF16BufToString(nil, 4))
	assert.Equal(t, "", UTF16BufToString(&units[0], 0))
}

func TestUTF16BufToStringSurrogatePair(t *testing.T) {
	units := utf16.Encode([]rune("a\U0001F600b"))
	require.Len(t, units, 4)
	assert.Equal(t, "a\U0001F600b", UTF16BufToString(&units[0], len(units)))
}

func TestBytesToString(t *testing.T) {
	b := []byte("exported_name\x00garbage")
	assert.Equal(t, "exported_name", BytesToString(b, 13))
	assert.Equal(t, string(b), BytesToString(b, 1000))
	assert.Equal(t, "", BytesToString(b, 0))
	assert.Equal(t, "", BytesToString(nil, 8))
}

func TestCopyBytes(t *testing.T) {
	src := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	got := CopyBytes(uintptr(unsafe.Pointer(&src[0])), len(src))
	require.Equal(t, src, got)

	// owned copy: mutating the source must not alias the result
	src[0] = 0
	assert.Equal(t, byte(0xDE), got[0])

	assert.Nil(t, CopyBytes(0, 4))
	assert.Nil(t, CopyBytes(uintptr(unsafe.Pointer(&src[0])), 0))
}
