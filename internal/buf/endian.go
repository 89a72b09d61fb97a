// Package buf contains bounds-checked helpers for addressing a shared byte
// buffer: overflow-safe range math and little-endian word access.
package buf

import "encoding/binary"

// U32LE reads a little-endian uint32 at off. ok is false when the word does
// not fit inside b.
func U32LE(b []byte, off int) (uint32, bool) {
	if !Fits(len(b), off, 4) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b[off:]), true
}

// PutU32LE writes v as a little-endian uint32 at off. It reports false and
// leaves b untouched when the word does not fit.
func PutU32LE(b []byte, off int, v uint32) bool {
	if !Fits(len(b), off, 4) {
		return false
	}
	binary.LittleEndian.PutUint32(b[off:], v)
	return true
}
