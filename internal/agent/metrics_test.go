package agent

import (
	"errors"
	"testing"
	"time"
)

func TestMetricsRunningAverage(t *testing.T) {
	var m Metrics
	m.Record(true, 100*time.Millisecond)
	m.Record(true, 300*time.Millisecond)

	s := m.Snapshot()
	if s.TotalCalls != 2 || s.SuccessfulCalls != 2 {
		t.Fatalf("snapshot = %+v", s)
	}
	if s.AvgResponseTime != 200*time.Millisecond {
		t.Fatalf("AvgResponseTime = %v, want 200ms", s.AvgResponseTime)
	}
	if s.LastCall.IsZero() {
		t.Fatalf("LastCall not set")
	}
}

func TestMetricsHealthThreshold(t *testing.T) {
	var m Metrics
	// 4/5 success sits exactly on the healthy boundary
	for i := 0; i < 4; i++ {
		m.Record(true, time.Millisecond)
	}
	m.Record(false, time.Millisecond)

	h := m.Health()
	if h.Status != StatusHealthy {
		t.Fatalf("status = %q at 0.8 success rate, want healthy", h.Status)
	}
	if h.SuccessRate != 0.8 {
		t.Fatalf("SuccessRate = %v", h.SuccessRate)
	}

	m.Record(false, time.Millisecond)
	if h := m.Health(); h.Status != StatusDegraded {
		t.Fatalf("status = %q below threshold, want degraded", h.Status)
	}
}

func TestMetricsHealthWithNoCalls(t *testing.T) {
	var m Metrics
	h := m.Health()
	if h.Status != StatusHealthy || h.SuccessRate != 1.0 {
		t.Fatalf("health = %+v, want healthy with rate 1.0", h)
	}
}

func TestObserveRecordsBothOutcomes(t *testing.T) {
	var m Metrics

	if err := observe(&m, func() error { return nil }); err != nil {
		t.Fatalf("observe error: %v", err)
	}
	wantErr := errors.New("boom")
	if err := observe(&m, func() error { return wantErr }); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want boom", err)
	}

	s := m.Snapshot()
	if s.TotalCalls != 2 || s.SuccessfulCalls != 1 || s.FailedCalls != 1 {
		t.Fatalf("snapshot = %+v", s)
	}
}
