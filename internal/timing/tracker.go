package timing

import (
	"context"
	"sort"
	"sync"
	"time"
)

type timingKey struct{}

type timingInfo struct {
	Operation string
	StartTime time.Time
}

// Tracker accumulates durations per named operation. It is safe for
// concurrent use.
type Tracker struct {
	timings map[string][]time.Duration
	mu      sync.RWMutex
	enabled bool
}

func NewTracker() *Tracker {
	return &Tracker{
		timings: make(map[string][]time.Duration),
		enabled: true,
	}
}

// StartTiming derives a context carrying the operation start time.
func (tt *Tracker) StartTiming(ctx context.Context, operation string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, timingKey{}, timingInfo{
		Operation: operation,
		StartTime: time.Now(),
	})
}

// EndTiming records and returns the time elapsed since the matching
// StartTiming. A context without a start time yields zero.
func (tt *Tracker) EndTiming(ctx context.Context) time.Duration {
	info, ok := ctx.Value(timingKey{}).(timingInfo)
	if !ok {
		return 0
	}

	duration := time.Since(info.StartTime)

	tt.mu.Lock()
	if tt.enabled {
		tt.timings[info.Operation] = append(tt.timings[info.Operation], duration)
	}
	tt.mu.Unlock()

	return duration
}

func (tt *Tracker) GetTimings(operation string) []time.Duration {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	timings := tt.timings[operation]
	if timings == nil {
		return nil
	}

	result := make([]time.Duration, len(timings))
	copy(result, timings)
	return result
}

// Operations lists every operation with at least one recorded duration.
func (tt *Tracker) Operations() []string {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	ops := make([]string, 0, len(tt.timings))
	for op := range tt.timings {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

func (tt *Tracker) GetAverageTime(operation string) time.Duration {
	timings := tt.GetTimings(operation)
	if len(timings) == 0 {
		return 0
	}

	var total time.Duration
	for _, duration := range timings {
		total += duration
	}

	return total / time.Duration(len(timings))
}

func (tt *Tracker) SetEnabled(enabled bool) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.enabled = enabled
}

func (tt *Tracker) Reset(operation string) {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	if operation == "" {
		tt.timings = make(map[string][]time.Duration)
	} else {
		delete(tt.timings, operation)
	}
}
