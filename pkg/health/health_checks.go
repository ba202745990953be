package health

import (
	"fmt"
	"runtime"
)

// SimpleCheck always reports healthy. It backs the liveness probe.
func SimpleCheck(name string) CheckFunc {
	return func() Check {
		return Check{Name: name, Status: StatusHealthy}
	}
}

// SessionsCheck reports the session manager. A closed manager no longer
// accepts sessions, so it is unhealthy.
func SessionsCheck(state func() (active int, closed bool)) CheckFunc {
	return func() Check {
		active, closed := state()
		check := Check{
			Name:    "sessions",
			Details: map[string]any{"active": active},
		}
		if closed {
			check.Status = StatusUnhealthy
			check.Message = "session manager closed"
		} else {
			check.Status = StatusHealthy
			check.Message = fmt.Sprintf("%d active", active)
		}
		return check
	}
}

// GoroutineCheck degrades once the goroutine count passes limit. Each event
// stream holds goroutines, so a leak shows up here first.
func GoroutineCheck(limit int) CheckFunc {
	return goroutineCheck(limit, runtime.NumGoroutine)
}

func goroutineCheck(limit int, count func() int) CheckFunc {
	return func() Check {
		n := count()
		check := Check{
			Name:    "goroutines",
			Status:  StatusHealthy,
			Details: map[string]any{"count": n, "limit": limit},
		}
		if limit > 0 && n > limit {
			check.Status = StatusDegraded
			check.Message = "goroutine count above limit"
		}
		return check
	}
}

// MemoryCheck degrades when the live heap exceeds 90% of memory obtained
// from the OS.
func MemoryCheck() CheckFunc {
	return memoryCheck(func() (uint64, uint64) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		return m.HeapAlloc, m.Sys
	})
}

func memoryCheck(usage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		alloc, sys := usage()
		check := Check{
			Name:    "memory",
			Status:  StatusHealthy,
			Details: map[string]any{"alloc_bytes": alloc, "sys_bytes": sys},
		}
		if sys > 0 && float64(alloc)/float64(sys) > 0.9 {
			check.Status = StatusDegraded
			check.Message = "high memory usage"
		}
		return check
	}
}
