package serialkw

import (
	"time"

	"go.uber.org/atomic"
)

// Metrics tracks per-library keyword activity. All counters are atomic so a
// runner can snapshot them while keywords execute.
type Metrics struct {
	ReadOperations  atomic.Int64
	WriteOperations atomic.Int64
	BytesRead       atomic.Int64
	BytesWritten    atomic.Int64
	ReadErrors      atomic.Int64
	WriteErrors     atomic.Int64

	PortsAdded   atomic.Int64
	PortsDeleted atomic.Int64

	KeywordFailures atomic.Int64
	LastErrorTime   atomic.Int64

	TotalReadTime  atomic.Int64
	TotalWriteTime atomic.Int64
}

func (m *Metrics) recordRead(n int, err error, elapsed time.Duration) {
	m.ReadOperations.Add(1)
	m.BytesRead.Add(int64(n))
	m.TotalReadTime.Add(int64(elapsed))
	if err != nil {
		m.ReadErrors.Add(1)
		m.LastErrorTime.Store(time.Now().Unix())
	}
}

func (m *Metrics) recordWrite(n int, err error, elapsed time.Duration) {
	m.WriteOperations.Add(1)
	m.BytesWritten.Add(int64(n))
	m.TotalWriteTime.Add(int64(elapsed))
	if err != nil {
		m.WriteErrors.Add(1)
		m.LastErrorTime.Store(time.Now().Unix())
	}
}

func (m *Metrics) recordFailure() {
	m.KeywordFailures.Add(1)
	m.LastErrorTime.Store(time.Now().Unix())
}

// MetricsSnapshot is a plain-value copy of the counters.
type MetricsSnapshot struct {
	ReadOperations  int64
	WriteOperations int64
	BytesRead       int64
	BytesWritten    int64
	ReadErrors      int64
	WriteErrors     int64
	PortsAdded      int64
	PortsDeleted    int64
	KeywordFailures int64
	LastErrorTime   int64
	TotalReadTime   time.Duration
	TotalWriteTime  time.Duration
}

// Snapshot returns a consistent-enough view for reporting; counters keep
// moving while it is taken.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		ReadOperations:  m.ReadOperations.Load(),
		WriteOperations: m.WriteOperations.Load(),
		BytesRead:       m.BytesRead.Load(),
		BytesWritten:    m.BytesWritten.Load(),
		ReadErrors:      m.ReadErrors.Load(),
		WriteErrors:     m.WriteErrors.Load(),
		PortsAdded:      m.PortsAdded.Load(),
		PortsDeleted:    m.PortsDeleted.Load(),
		KeywordFailures: m.KeywordFailures.Load(),
		LastErrorTime:   m.LastErrorTime.Load(),
		TotalReadTime:   time.Duration(m.TotalReadTime.Load()),
		TotalWriteTime:  time.Duration(m.TotalWriteTime.Load()),
	}
}
