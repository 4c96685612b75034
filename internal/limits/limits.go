package limits

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Limits holds the configured resource ceilings and usage caps.
type Limits struct {
	CPUPercent     float64
	MemoryPercent  float64
	DiskPercent    float64
	TemperatureC   float64
	MaxAPIPerHour  int
	MaxProjectsDay int
}

// DefaultLimits returns the standard ceilings for a small always-on device.
func DefaultLimits() Limits {
	return Limits{
		CPUPercent:     80.0,
		MemoryPercent:  80.0,
		DiskPercent:    90.0,
		TemperatureC:   70.0,
		MaxAPIPerHour:  100,
		MaxProjectsDay: 5,
	}
}

// ResourceStatus is a point-in-time snapshot of system usage. It is
// recomputed on demand and never persisted.
type ResourceStatus struct {
	CPUPercent        float64
	MemoryPercent     float64
	MemoryAvailableMB float64
	DiskPercent       float64
	DiskAvailableGB   float64
	Temperature       *float64
	WithinLimits      bool
	Warnings          []string
}

// Limiter gates whether new work may start based on system resources, a
// rolling hourly API-call window, and a daily project cap. All counters are
// caller-driven; there are no background timers.
type Limiter struct {
	mu       sync.Mutex
	limits   Limits
	sampler  Sampler
	now      func() time.Time
	apiCalls []time.Time
	projects int
}

// NewLimiter creates a Limiter that samples the live system.
func NewLimiter(l Limits) *Limiter {
	return NewLimiterWithSampler(l, newSystemSampler())
}

// NewLimiterWithSampler creates a Limiter with a caller-supplied sampler.
func NewLimiterWithSampler(l Limits, s Sampler) *Limiter {
	return &Limiter{limits: l, sampler: s, now: time.Now}
}

// Limits returns the configured ceilings.
func (r *Limiter) Limits() Limits {
	return r.limits
}

// CheckResources samples current usage and compares it against the
// configured ceilings. A failed sample counts against the limits rather
// than for them.
func (r *Limiter) CheckResources() ResourceStatus {
	status := ResourceStatus{WithinLimits: true}

	cpuPct, err := r.sampler.CPUPercent()
	if err != nil {
		status.Warnings = append(status.Warnings, fmt.Sprintf("CPU sample failed: %v", err))
		status.WithinLimits = false
	} else {
		status.CPUPercent = cpuPct
		if cpuPct > r.limits.CPUPercent {
			status.Warnings = append(status.Warnings, fmt.Sprintf("CPU usage high: %.1f%%", cpuPct))
			status.WithinLimits = false
		}
	}

	memPct, memAvailMB, err := r.sampler.Memory()
	if err != nil {
		status.Warnings = append(status.Warnings, fmt.Sprintf("memory sample failed: %v", err))
		status.WithinLimits = false
	} else {
		status.MemoryPercent = memPct
		status.MemoryAvailableMB = memAvailMB
		if memPct > r.limits.MemoryPercent {
			status.Warnings = append(status.Warnings, fmt.Sprintf("memory usage high: %.1f%%", memPct))
			status.WithinLimits = false
		}
	}

	diskPct, diskAvailGB, err := r.sampler.Disk()
	if err != nil {
		status.Warnings = append(status.Warnings, fmt.Sprintf("disk sample failed: %v", err))
		status.WithinLimits = false
	} else {
		status.DiskPercent = diskPct
		status.DiskAvailableGB = diskAvailGB
		if diskPct > r.limits.DiskPercent {
			status.Warnings = append(status.Warnings, fmt.Sprintf("disk usage high: %.1f%%", diskPct))
			status.WithinLimits = false
		}
	}

	if temp, ok := r.sampler.Temperature(); ok {
		status.Temperature = &temp
		if temp > r.limits.TemperatureC {
			status.Warnings = append(status.Warnings, fmt.Sprintf("CPU temperature high: %.1f°C", temp))
			status.WithinLimits = false
		}
	}

	return status
}

// CanStartActivity reports whether new work may begin. It denies when
// resources exceed their ceilings or when the rolling count of API calls in
// the trailing hour has reached the cap. The window is pruned on every
// check; stale timestamps are dropped, never expired by a timer.
func (r *Limiter) CanStartActivity() (bool, string) {
	status := r.CheckResources()
	if !status.WithinLimits {
		return false, "resource limits exceeded: " + strings.Join(status.Warnings, ", ")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneLocked()
	if len(r.apiCalls) >= r.limits.MaxAPIPerHour {
		return false, fmt.Sprintf("API rate limit reached (%d/hour)", r.limits.MaxAPIPerHour)
	}

	return true, ""
}

// CanStartProject applies the daily project cap on top of CanStartActivity.
func (r *Limiter) CanStartProject() (bool, string) {
	r.mu.Lock()
	projects := r.projects
	r.mu.Unlock()

	if projects >= r.limits.MaxProjectsDay {
		return false, fmt.Sprintf("daily project limit reached (%d/day)", r.limits.MaxProjectsDay)
	}

	return r.CanStartActivity()
}

// RecordAPICall appends a timestamp to the rolling hourly window.
func (r *Limiter) RecordAPICall() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apiCalls = append(r.apiCalls, r.now())
}

// RecordProjectStarted increments the daily project counter.
func (r *Limiter) RecordProjectStarted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects++
}

// ResetDailyCounters clears the daily project counter. Callers invoke this
// at local midnight or on wake; the limiter never resets itself.
func (r *Limiter) ResetDailyCounters() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects = 0
}

// RecommendedFanSpeed maps the current CPU temperature to a fan duty cycle
// in percent. With no temperature reading it falls back to a low idle speed.
func (r *Limiter) RecommendedFanSpeed() int {
	temp, ok := r.sampler.Temperature()
	if !ok {
		return 30
	}

	switch {
	case temp < 40:
		return 0
	case temp < 50:
		return 30
	case temp < 60:
		return 50
	case temp < 70:
		return 75
	default:
		return 100
	}
}

func (r *Limiter) pruneLocked() {
	cutoff := r.now().Add(-time.Hour)
	kept := r.apiCalls[:0]
	for _, t := range r.apiCalls {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	r.apiCalls = kept
}
