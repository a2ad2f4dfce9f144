package listing

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsStatusBuckets(t *testing.T) {
	m := NewMetrics()
	for _, code := range []int{200, 204, 301, 404, 429, 500, 503} {
		m.IncStatus(code)
	}
	s := m.Snapshot()
	assert.Equal(t, int64(2), s.Status2xx)
	assert.Equal(t, int64(1), s.Status3xx)
	assert.Equal(t, int64(2), s.Status4xx)
	assert.Equal(t, int64(2), s.Status5xx)

	m.IncNetError()
	assert.Equal(t, int64(5), m.Snapshot().Failures())
}

func TestMetricsSnapshotIsACopy(t *testing.T) {
	m := NewMetrics()
	m.IncRequest("a.test")
	s := m.Snapshot()
	s.HostCounts["a.test"] = 99
	assert.Equal(t, int64(1), m.Snapshot().HostCounts["a.test"], "snapshot mutation leaked into metrics")
}

func TestMetricsConcurrentAccess(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncRequest("snap.test")
			m.IncStatus(200)
			m.AddBytes(10)
		}()
	}
	wg.Wait()
	s := m.Snapshot()
	assert.Equal(t, int64(50), s.TotalRequests)
	assert.Equal(t, int64(50), s.HostCounts["snap.test"])
	assert.Equal(t, int64(50), s.Status2xx)
	assert.Equal(t, int64(500), s.BytesReceived)
}
