package otel

import (
	"context"
	"sync"
	"testing"

	portalAuth "github.com/leanda/portalAuth"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type fakeSource struct {
	mu       sync.RWMutex
	snapshot portalAuth.MetricsSnapshot
	dropped  uint64
}

func (f *fakeSource) MetricsSnapshot() portalAuth.MetricsSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := portalAuth.MetricsSnapshot{
		Counters:   make(map[portalAuth.MetricID]uint64, len(f.snapshot.Counters)),
		Histograms: make(map[portalAuth.MetricID][]uint64, len(f.snapshot.Histograms)),
	}
	for k, v := range f.snapshot.Counters {
		out.Counters[k] = v
	}
	for k, buckets := range f.snapshot.Histograms {
		out.Histograms[k] = append([]uint64(nil), buckets...)
	}
	return out
}

func (f *fakeSource) AuditDropped() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dropped
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				out[m.Name] = data.DataPoints[0].Value
			case metricdata.Gauge[int64]:
				out[m.Name] = data.DataPoints[0].Value
			}
		}
	}
	return out
}

func TestExporterRegistersAndCollects(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("portal-test")

	src := &fakeSource{
		snapshot: portalAuth.MetricsSnapshot{
			Counters: map[portalAuth.MetricID]uint64{
				portalAuth.MetricLoginSuccess: 3,
			},
			Histograms: map[portalAuth.MetricID][]uint64{
				portalAuth.MetricAuthorizeLatency: {1, 1, 1, 1, 1, 1, 1, 1},
			},
		},
		dropped: 1,
	}

	exp, err := NewExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewExporterFromSource failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	got := collect(t, reader)
	if got["portal_login_success_total"] != 3 {
		t.Fatalf("expected login success 3, got %d", got["portal_login_success_total"])
	}
	if got["portal_authorize_latency_seconds_bucket_le_0_01"] != 2 {
		t.Fatalf("expected cumulative bucket 2, got %d", got["portal_authorize_latency_seconds_bucket_le_0_01"])
	}
	if got["portal_authorize_latency_seconds_count"] != 8 {
		t.Fatalf("expected histogram count 8, got %d", got["portal_authorize_latency_seconds_count"])
	}
	if got["portal_audit_dropped_total"] != 1 {
		t.Fatalf("expected audit dropped 1, got %d", got["portal_audit_dropped_total"])
	}
}

func TestExporterRejectsNilInputs(t *testing.T) {
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	meter := provider.Meter("portal-test")

	if _, err := NewExporterFromSource(meter, nil); err != ErrNilSource {
		t.Fatalf("expected ErrNilSource, got %v", err)
	}
	if _, err := NewExporterFromSource(nil, &fakeSource{}); err != ErrNilMeter {
		t.Fatalf("expected ErrNilMeter, got %v", err)
	}
	if _, err := NewExporter(meter, nil); err != ErrNilSource {
		t.Fatalf("expected ErrNilSource for nil engine, got %v", err)
	}
}

func TestExporterConcurrentCollectNoPanic(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("portal-test")

	src := &fakeSource{
		snapshot: portalAuth.MetricsSnapshot{
			Counters:   map[portalAuth.MetricID]uint64{portalAuth.MetricLoginSuccess: 1},
			Histograms: map[portalAuth.MetricID][]uint64{},
		},
	}

	exp, err := NewExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewExporterFromSource failed: %v", err)
	}
	defer exp.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			src.mu.Lock()
			src.snapshot.Counters[portalAuth.MetricLoginSuccess] = v
			src.mu.Unlock()

			var rm metricdata.ResourceMetrics
			_ = reader.Collect(context.Background(), &rm)
		}(uint64(i + 1))
	}
	wg.Wait()
}
