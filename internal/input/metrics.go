package input

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks key processing counters and latency.
type Metrics struct {
	// Event counters
	keysTotal     atomic.Uint64
	commandsTotal atomic.Uint64
	mappingsTotal atomic.Uint64
	timeouts      atomic.Uint64
	badKeys       atomic.Uint64
	panics        atomic.Uint64
	hookConsumed  atomic.Uint64

	// Latency tracking
	mu                sync.RWMutex
	keyLatencies      []time.Duration
	maxLatencySamples int
	latencyIdx        int

	// Peak latency (all time)
	peakKeyLatency atomic.Int64

	startTime time.Time
	enabled   atomic.Bool
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		keyLatencies:      make([]time.Duration, 1000),
		maxLatencySamples: 1000,
		startTime:         time.Now(),
	}
	m.enabled.Store(true)
	return m
}

// SetEnabled enables or disables metrics collection.
func (m *Metrics) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

// IsEnabled returns whether metrics collection is enabled.
func (m *Metrics) IsEnabled() bool {
	return m.enabled.Load()
}

// RecordKey records a typed key with its processing time.
func (m *Metrics) RecordKey(latency time.Duration) {
	if !m.enabled.Load() {
		return
	}

	m.keysTotal.Add(1)

	latencyNs := latency.Nanoseconds()
	for {
		current := m.peakKeyLatency.Load()
		if latencyNs <= current {
			break
		}
		if m.peakKeyLatency.CompareAndSwap(current, latencyNs) {
			break
		}
	}

	m.mu.Lock()
	m.keyLatencies[m.latencyIdx] = latency
	m.latencyIdx = (m.latencyIdx + 1) % m.maxLatencySamples
	m.mu.Unlock()
}

func (m *Metrics) add(c *atomic.Uint64) {
	if m.enabled.Load() {
		c.Add(1)
	}
}

// RecordCommand records an executed command.
func (m *Metrics) RecordCommand() { m.add(&m.commandsTotal) }

// RecordMapping records an applied mapping.
func (m *Metrics) RecordMapping() { m.add(&m.mappingsTotal) }

// RecordTimeout records an ambiguous mapping resolved by the timer.
func (m *Metrics) RecordTimeout() { m.add(&m.timeouts) }

// RecordBadKey records a key that did not form a command.
func (m *Metrics) RecordBadKey() { m.add(&m.badKeys) }

// RecordPanic records a recovered panic in a command or extension.
func (m *Metrics) RecordPanic() { m.add(&m.panics) }

// RecordHookConsumption records a key swallowed by a hook.
func (m *Metrics) RecordHookConsumption() { m.add(&m.hookConsumed) }

// MetricsSnapshot holds a point-in-time view of metrics.
type MetricsSnapshot struct {
	KeysTotal     uint64
	CommandsTotal uint64
	MappingsTotal uint64
	Timeouts      uint64
	BadKeys       uint64
	Panics        uint64
	HookConsumed  uint64

	AvgKeyLatency  time.Duration
	MaxKeyLatency  time.Duration
	P99KeyLatency  time.Duration
	PeakKeyLatency time.Duration

	KeysPerSecond float64
	Uptime        time.Duration
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	latencies := make([]time.Duration, len(m.keyLatencies))
	copy(latencies, m.keyLatencies)
	start := m.startTime
	m.mu.RUnlock()

	keys := m.keysTotal.Load()
	uptime := time.Since(start)

	snap := MetricsSnapshot{
		KeysTotal:      keys,
		CommandsTotal:  m.commandsTotal.Load(),
		MappingsTotal:  m.mappingsTotal.Load(),
		Timeouts:       m.timeouts.Load(),
		BadKeys:        m.badKeys.Load(),
		Panics:         m.panics.Load(),
		HookConsumed:   m.hookConsumed.Load(),
		PeakKeyLatency: time.Duration(m.peakKeyLatency.Load()),
		Uptime:         uptime,
	}
	if uptime > 0 {
		snap.KeysPerSecond = float64(keys) / uptime.Seconds()
	}
	snap.AvgKeyLatency, snap.MaxKeyLatency, snap.P99KeyLatency = calculateLatencyStats(latencies)
	return snap
}

// calculateLatencyStats computes average, max, and p99 of the recorded
// samples. Zero entries are unused slots.
func calculateLatencyStats(latencies []time.Duration) (avg, maxLat, p99 time.Duration) {
	valid := make([]time.Duration, 0, len(latencies))
	for _, l := range latencies {
		if l > 0 {
			valid = append(valid, l)
		}
	}
	if len(valid) == 0 {
		return 0, 0, 0
	}

	var sum time.Duration
	for _, l := range valid {
		sum += l
		if l > maxLat {
			maxLat = l
		}
	}
	avg = sum / time.Duration(len(valid))

	slices.Sort(valid)
	idx := int(float64(len(valid)) * 0.99)
	if idx >= len(valid) {
		idx = len(valid) - 1
	}
	return avg, maxLat, valid[idx]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.keysTotal.Store(0)
	m.commandsTotal.Store(0)
	m.mappingsTotal.Store(0)
	m.timeouts.Store(0)
	m.badKeys.Store(0)
	m.panics.Store(0)
	m.hookConsumed.Store(0)
	m.peakKeyLatency.Store(0)

	m.mu.Lock()
	m.keyLatencies = make([]time.Duration, m.maxLatencySamples)
	m.latencyIdx = 0
	m.startTime = time.Now()
	m.mu.Unlock()
}
