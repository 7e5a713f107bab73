package metrics

import (
	"log/slog"
	"sync"
	"time"
)

// Metrics accumulates counters for a single harvest run. The zero value is
// ready to use.
type Metrics struct {
	mu               sync.Mutex
	totalRequests    int
	successRequests  int
	failedRequests   int
	jokesFetched     int
	totalRequestTime time.Duration
}

type Snapshot struct {
	Requests       int
	Succeeded      int
	Failed         int
	Jokes          int
	AvgRequestTime time.Duration
}

func (m *Metrics) RecordSuccess(jokes int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalRequests++
	m.successRequests++
	m.jokesFetched += jokes
	m.totalRequestTime += duration
}

func (m *Metrics) RecordFailure(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalRequests++
	m.failedRequests++
	m.totalRequestTime += duration
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	avg := time.Duration(0)
	if m.totalRequests > 0 {
		avg = m.totalRequestTime / time.Duration(m.totalRequests)
	}

	return Snapshot{
		Requests:       m.totalRequests,
		Succeeded:      m.successRequests,
		Failed:         m.failedRequests,
		Jokes:          m.jokesFetched,
		AvgRequestTime: avg,
	}
}

func (m *Metrics) PrintMetrics(log *slog.Logger) {
	s := m.Snapshot()
	log.Info("Metrics",
		"Total Requests", s.Requests,
		"Successful Requests", s.Succeeded,
		"Failed Requests", s.Failed,
		"Jokes Fetched", s.Jokes,
		"Avg Request Time", s.AvgRequestTime,
	)
}
