// Package sysinfo supplies the process facts the gateway reports: current
// time, uptime since start, and a memory snapshot.
package sysinfo

import (
	"runtime"
	"time"
)

// TimestampFormat is the ISO-8601 layout used for every timestamp the
// gateway emits.
const TimestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

// MemorySnapshot is a point-in-time view of the Go runtime's memory use.
type MemorySnapshot struct {
	Alloc        uint64 `json:"alloc"`
	TotalAlloc   uint64 `json:"totalAlloc"`
	Sys          uint64 `json:"sys"`
	HeapAlloc    uint64 `json:"heapAlloc"`
	HeapInuse    uint64 `json:"heapInuse"`
	NumGC        uint32 `json:"numGC"`
	NumGoroutine int    `json:"numGoroutine"`
}

// Provider is the source of time and process information.
type Provider interface {
	Now() time.Time
	Uptime() time.Duration
	Memory() MemorySnapshot
}

// Runtime reads live values from the clock and the Go runtime.
type Runtime struct {
	started time.Time
}

// NewRuntime returns a Provider whose uptime is measured from now.
func NewRuntime() *Runtime {
	return &Runtime{started: time.Now()}
}

// Started reports when the provider was created.
func (r *Runtime) Started() time.Time {
	return r.started
}

// Now returns the current time in UTC.
func (r *Runtime) Now() time.Time {
	return time.Now().UTC()
}

// Uptime returns the monotonic time elapsed since the provider was created.
func (r *Runtime) Uptime() time.Duration {
	return time.Since(r.started)
}

// Memory reads runtime.MemStats.
func (r *Runtime) Memory() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		Alloc:        m.Alloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		HeapAlloc:    m.HeapAlloc,
		HeapInuse:    m.HeapInuse,
		NumGC:        m.NumGC,
		NumGoroutine: runtime.NumGoroutine(),
	}
}

// Timestamp formats t with TimestampFormat in UTC.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}
