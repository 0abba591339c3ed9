package agent

import (
	"sync"
	"time"
)

const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// healthySuccessRate is the minimum success rate for a healthy agent.
const healthySuccessRate = 0.8

// Metrics tracks per-agent call statistics. Safe for concurrent use.
type Metrics struct {
	mu sync.Mutex

	totalCalls      int64
	successfulCalls int64
	failedCalls     int64
	avgResponseTime time.Duration
	lastCall        time.Time
}

type MetricsSnapshot struct {
	TotalCalls      int64         `json:"total_calls"`
	SuccessfulCalls int64         `json:"successful_calls"`
	FailedCalls     int64         `json:"failed_calls"`
	AvgResponseTime time.Duration `json:"avg_response_time"`
	LastCall        time.Time     `json:"last_call"`
}

type Health struct {
	Status          string        `json:"status"`
	SuccessRate     float64       `json:"success_rate"`
	TotalCalls      int64         `json:"total_calls"`
	AvgResponseTime time.Duration `json:"avg_response_time"`
	LastCall        time.Time     `json:"last_call"`
}

// Record folds one call into the running average.
func (m *Metrics) Record(success bool, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalCalls++
	if success {
		m.successfulCalls++
	} else {
		m.failedCalls++
	}

	if m.totalCalls == 1 {
		m.avgResponseTime = elapsed
	} else {
		m.avgResponseTime = (m.avgResponseTime*time.Duration(m.totalCalls-1) + elapsed) / time.Duration(m.totalCalls)
	}
	m.lastCall = time.Now().UTC()
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MetricsSnapshot{
		TotalCalls:      m.totalCalls,
		SuccessfulCalls: m.successfulCalls,
		FailedCalls:     m.failedCalls,
		AvgResponseTime: m.avgResponseTime,
		LastCall:        m.lastCall,
	}
}

// Health reports healthy while the success rate stays at or above 0.8.
// An agent with no calls yet is healthy.
func (m *Metrics) Health() Health {
	s := m.Snapshot()

	rate := 1.0
	if s.TotalCalls > 0 {
		rate = float64(s.SuccessfulCalls) / float64(s.TotalCalls)
	}

	status := StatusHealthy
	if rate < healthySuccessRate {
		status = StatusDegraded
	}

	return Health{
		Status:          status,
		SuccessRate:     rate,
		TotalCalls:      s.TotalCalls,
		AvgResponseTime: s.AvgResponseTime,
		LastCall:        s.LastCall,
	}
}

// observe wraps an agent call so every path records exactly once.
func observe(m *Metrics, fn func() error) error {
	start := time.Now()
	err := fn()
	m.Record(err == nil, time.Since(start))
	return err
}
