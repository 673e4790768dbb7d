package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("railtrack", reg)

	m.CheckDone("changed")
	m.CheckDone("changed")
	m.CheckDone("fetch_error")
	m.NotificationDone("changed", nil)
	m.NotificationDone("ended", errors.New("blocked"))
	m.AdmissionDone("started")
	m.FetchDone(nil, 300*time.Millisecond)
	m.BatchClaimed(7)

	if got := testutil.ToFloat64(m.Checks.WithLabelValues("changed")); got != 2 {
		t.Errorf("expected 2 changed checks, got %v", got)
	}
	if got := testutil.ToFloat64(m.Notifications.WithLabelValues("ended", "failed")); got != 1 {
		t.Errorf("expected 1 failed notification, got %v", got)
	}
	if got := testutil.ToFloat64(m.Admissions.WithLabelValues("started")); got != 1 {
		t.Errorf("expected 1 admission, got %v", got)
	}
	if got := testutil.ToFloat64(m.DueBatch); got != 7 {
		t.Errorf("expected batch gauge 7, got %v", got)
	}
	if count := testutil.CollectAndCount(m.FetchDuration); count != 1 {
		t.Errorf("expected 1 fetch histogram series, got %d", count)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.CheckDone("changed")
	m.NotificationDone("changed", nil)
	m.AdmissionDone("started")
	m.FetchDone(nil, time.Second)
	m.BatchClaimed(1)
}
