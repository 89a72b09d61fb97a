// Package region provides host buffers for a heap backed by OS pages.
//
// New returns an anonymous private mapping, useful when a heap should not
// live on the Go heap. Map returns a shared mapping of a file, so a heap's
// block chain survives in the file and can be adopted by a later process.
//
// A Region implements dirty.Flusher: pass a *dirty.Tracker as the heap's
// Options.Tracker and call Flush to msync only the pages the heap touched.
//
// On platforms without mmap both constructors fall back to an ordinary Go
// slice; Map then reads the file up front and writes it back on Flush.
package region
