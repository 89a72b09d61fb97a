package format

// AlignEven returns n rounded up to the next even number. Block totals must be
// even so the low bit of the size word is free for the in-use flag.
//
// Example:
//
//	AlignEven(0) = 0
//	AlignEven(1) = 2
//	AlignEven(6) = 6
//	AlignEven(7) = 8
func AlignEven(n int) int {
	return (n + UsedFlag) &^ UsedFlag
}
