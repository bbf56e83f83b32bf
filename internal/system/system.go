package system

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
)

// DefaultWorkers sizes CPU-bound worker pools: physical cores when gopsutil
// can read them, logical CPUs otherwise.
func DefaultWorkers() int {
	n, err := cpu.Counts(false)
	if err != nil || n <= 0 {
		n = runtime.NumCPU()
	}
	return n
}

// ClampWorkers bounds a requested worker count to [1, jobs]. A non-positive
// request means DefaultWorkers.
func ClampWorkers(requested, jobs int) int {
	n := requested
	if n <= 0 {
		n = DefaultWorkers()
	}
	if jobs > 0 && n > jobs {
		n = jobs
	}
	if n < 1 {
		n = 1
	}
	return n
}
