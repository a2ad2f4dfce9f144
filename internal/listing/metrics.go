package listing

import (
	"sync"
	"sync/atomic"
)

// Metrics holds lightweight counters for HTTP activity.
type Metrics struct {
	TotalRequests atomic.Int64
	NetErrors     atomic.Int64
	BytesReceived atomic.Int64

	mu         sync.Mutex
	hostCounts map[string]int64
	status2xx  int64
	status3xx  int64
	status4xx  int64
	status5xx  int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics { return &Metrics{hostCounts: make(map[string]int64)} }

// IncRequest increments per-host and total request counters.
func (m *Metrics) IncRequest(host string) {
	m.TotalRequests.Add(1)
	m.mu.Lock()
	m.hostCounts[host]++
	m.mu.Unlock()
}

// IncNetError counts a round trip that produced no response.
func (m *Metrics) IncNetError() { m.NetErrors.Add(1) }

// AddBytes accumulates downloaded payload bytes.
func (m *Metrics) AddBytes(n int64) { m.BytesReceived.Add(n) }

// IncStatus tracks status buckets.
func (m *Metrics) IncStatus(code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case code >= 200 && code < 300:
		m.status2xx++
	case code >= 300 && code < 400:
		m.status3xx++
	case code >= 400 && code < 500:
		m.status4xx++
	case code >= 500:
		m.status5xx++
	}
}

// MetricsSnapshot is a read-only copy of metrics state.
type MetricsSnapshot struct {
	TotalRequests int64
	NetErrors     int64
	BytesReceived int64
	HostCounts    map[string]int64
	Status2xx     int64
	Status3xx     int64
	Status4xx     int64
	Status5xx     int64
}

// Failures is the number of requests that did not end in a 2xx/3xx response.
func (s MetricsSnapshot) Failures() int64 { return s.NetErrors + s.Status4xx + s.Status5xx }

// Snapshot returns a copy of the metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	copyHosts := make(map[string]int64, len(m.hostCounts))
	for k, v := range m.hostCounts {
		copyHosts[k] = v
	}
	return MetricsSnapshot{
		TotalRequests: m.TotalRequests.Load(),
		NetErrors:     m.NetErrors.Load(),
		BytesReceived: m.BytesReceived.Load(),
		HostCounts:    copyHosts,
		Status2xx:     m.status2xx,
		Status3xx:     m.status3xx,
		Status4xx:     m.status4xx,
		Status5xx:     m.status5xx,
	}
}
