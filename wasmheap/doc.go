// Package wasmheap runs a heap inside the linear memory of a WebAssembly
// guest executed by wazero.
//
// New binds a heap.Heap to a range of an api.Memory; guest pointers are the
// managed range's base plus the heap address. HostModule instantiates a host
// module named "heap" that guests import to get malloc/free backed by that
// heap:
//
//	(import "heap" "alloc" (func $alloc (param i32) (result i32)))
//	(import "heap" "free"  (func $free  (param i32) (result i32)))
//
// alloc returns a pointer, 0 when the range is exhausted, or a negative
// status; free returns StatusOK or a negative status.
package wasmheap
