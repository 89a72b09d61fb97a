package buf

import "math"

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// Fits reports whether the range [off, off+n) lies inside a region of size bytes.
func Fits(size, off, n int) bool {
	if off < 0 || n < 0 || size < 0 {
		return false
	}
	end, ok := AddOverflowSafe(off, n)
	return ok && end <= size
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
// The result aliases b.
func Slice(b []byte, off, n int) ([]byte, bool) {
	if !Fits(len(b), off, n) {
		return nil, false
	}
	return b[off : off+n : off+n], true
}
