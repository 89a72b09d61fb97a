package heap

import "github.com/joshuapare/heapkit/heap/freelist"

// Errors returned by Heap methods. They are the free-list sentinels, so
// errors.Is works against either package.
var (
	ErrInsufficientCapacity = freelist.ErrInsufficientCapacity
	ErrAddressSpace         = freelist.ErrAddressSpace
	ErrInvalidAddress       = freelist.ErrInvalidAddress
	ErrNotInUse             = freelist.ErrNotInUse
	ErrNotAllocated         = freelist.ErrNotAllocated
	ErrTypeMismatch         = freelist.ErrTypeMismatch
	ErrTooLarge             = freelist.ErrTooLarge
	ErrCorrupt              = freelist.ErrCorrupt
)
