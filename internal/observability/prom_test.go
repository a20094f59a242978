package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveStoreOpCountsOnlyFailures(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	p.ObserveStoreOp("postgres", "create", nil, 5*time.Millisecond)
	p.ObserveStoreOp("postgres", "create", errors.New("connection reset"), 5*time.Millisecond)
	p.ObserveStoreOp("mongo", "pantry_list", nil, time.Millisecond)

	if got := testutil.ToFloat64(p.StoreErrors.WithLabelValues("postgres", "create")); got != 1 {
		t.Fatalf("postgres/create errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.StoreErrors.WithLabelValues("mongo", "pantry_list")); got != 0 {
		t.Fatalf("mongo/pantry_list errors = %v, want 0", got)
	}

	if got := testutil.CollectAndCount(p.StoreOpDuration); got != 3 {
		t.Fatalf("store op duration series = %d, want 3 (ok + error + ok)", got)
	}
}

func TestObserveStoreOpNilReceiver(t *testing.T) {
	var p *Prom

	// Must not panic: repos are wired with or without metrics.
	p.ObserveStoreOp("postgres", "create", errors.New("boom"), time.Millisecond)
}

func TestObserveGenAIRecordsOutcome(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	p.ObserveGenAI("recipes", "ok", 2*time.Second)
	p.ObserveGenAI("recipes", "format_error", time.Second)

	if got := testutil.ToFloat64(p.GenAIResults.WithLabelValues("recipes", "format_error")); got != 1 {
		t.Fatalf("recipes/format_error = %v, want 1", got)
	}
}
