package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestDispatchMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewDispatchMetrics(reg)

	metrics.ObserveDuration("success", 250*time.Millisecond)
	metrics.IncProcessed("success")
	metrics.IncProcessed("failure")
	metrics.IncDropped()
	metrics.IncHandlerFailure("updateOrders")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	byName := map[string]*dto.MetricFamily{}
	for _, fam := range families {
		byName[fam.GetName()] = fam
	}

	processed, ok := byName["transfers_processed_total"]
	if !ok {
		t.Fatal("expected transfers_processed_total family")
	}
	if len(processed.GetMetric()) != 2 {
		t.Fatalf("expected 2 outcome series, got %d", len(processed.GetMetric()))
	}

	dropped, ok := byName["transfers_dropped_total"]
	if !ok {
		t.Fatal("expected transfers_dropped_total family")
	}
	if got := dropped.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected 1 dropped transfer, got %v", got)
	}

	failures, ok := byName["transfer_handler_failures_total"]
	if !ok {
		t.Fatal("expected transfer_handler_failures_total family")
	}
	if got := failures.GetMetric()[0].GetLabel()[0].GetValue(); got != "updateOrders" {
		t.Fatalf("unexpected handler label %q", got)
	}

	if _, ok := byName["transfer_dispatch_duration_seconds"]; !ok {
		t.Fatal("expected duration histogram family")
	}
}

func TestDispatchMetricsNilReceiverSafe(t *testing.T) {
	var metrics *DispatchMetrics
	metrics.IncDropped()
	metrics.IncProcessed("success")
	metrics.IncHandlerFailure("x")
	metrics.ObserveDuration("success", time.Second)

	empty := NewDispatchMetrics(nil)
	empty.IncDropped()
}
