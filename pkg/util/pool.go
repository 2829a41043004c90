package util

import "runtime"

// GetOptimalPoolSize returns the worker and parser pool size for CPU-bound work.
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32). Parsing spends most of its
// time in cgo, so twice the core count keeps the CPUs busy.
//
// The parser pool and the workspace worker pool must use the same size,
// otherwise workers block waiting for a parser.
func GetOptimalPoolSize() int {
	size := runtime.NumCPU() * 2
	if size < 4 {
		size = 4
	}
	if size > 32 {
		size = 32
	}
	return size
}

// GetOptimalPoolSizeWithOverride returns override when it is positive and
// GetOptimalPoolSize() otherwise.
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
