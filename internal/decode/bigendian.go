// Package decode holds the leaf-level helpers every parser in this module
// builds on: bounds-checked big-endian reads and the UTF-16 downcast the
// original recovery tool used for catalog node names.
package decode

import (
	"encoding/binary"
	"fmt"
)

// ErrShortBuffer is returned whenever a read would walk off the end of buf.
// The scanner and classifier both treat it as "this isn't a real record",
// never as a fatal error.
type ErrShortBuffer struct {
	Want int
	Have int
}

func (e *ErrShortBuffer) Error() string {
	return fmt.Sprintf("short buffer: need %d bytes, have %d", e.Want, e.Have)
}

// AccessIsSafe reports whether reading up to (not including) offset access
// is within a buffer of the given length - the original's accessIsSafe.
func AccessIsSafe(length, access int) bool {
	return access <= length
}

// Uint16 reads a big-endian uint16 at off, bounds-checked.
func Uint16(buf []byte, off int) (uint16, error) {
	if !AccessIsSafe(len(buf), off+2) {
		return 0, &ErrShortBuffer{Want: off + 2, Have: len(buf)}
	}
	return binary.BigEndian.Uint16(buf[off:]), nil
}

// Uint32 reads a big-endian uint32 at off, bounds-checked.
func Uint32(buf []byte, off int) (uint32, error) {
	if !AccessIsSafe(len(buf), off+4) {
		return 0, &ErrShortBuffer{Want: off + 4, Have: len(buf)}
	}
	return binary.BigEndian.Uint32(buf[off:]), nil
}

// Uint64 reads a big-endian uint64 at off, bounds-checked.
func Uint64(buf []byte, off int) (uint64, error) {
	if !AccessIsSafe(len(buf), off+8) {
		return 0, &ErrShortBuffer{Want: off + 8, Have: len(buf)}
	}
	return binary.BigEndian.Uint64(buf[off:]), nil
}

// Int8 reads a signed byte at off, bounds-checked.
func Int8(buf []byte, off int) (int8, error) {
	if !AccessIsSafe(len(buf), off+1) {
		return 0, &ErrShortBuffer{Want: off + 1, Have: len(buf)}
	}
	return int8(buf[off]), nil
}

// UTF16LowByteDowncast decodes count big-endian UTF-16 code units starting at
// off into a string built from each unit's low byte only. This reproduces
// the original C++ tool's DecodeU16, which truncates every 16-bit code unit
// to its bottom 8 bits for use as a filesystem path component - a deliberate
// bit-for-bit compatibility choice, not proper UTF-16 transcoding.
func UTF16LowByteDowncast(buf []byte, off int, count uint16) (string, error) {
	need := off + int(count)*2
	if !AccessIsSafe(len(buf), need) {
		return "", &ErrShortBuffer{Want: need, Have: len(buf)}
	}
	out := make([]byte, count)
	for i := 0; i < int(count); i++ {
		out[i] = buf[off+i*2+1]
	}
	return string(out), nil
}
