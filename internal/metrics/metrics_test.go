package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestCollectorRecordsTicks(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	c.Accepted("iss", 0.265, 2)
	c.Tick("iss", ResultMalformed)
	c.Tick("iss", ResultMalformed)

	if got := testutil.ToFloat64(c.Ticks.WithLabelValues("iss", ResultOK)); got != 1 {
		t.Errorf("orbit_ticks_total{result=ok} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.Ticks.WithLabelValues("iss", ResultMalformed)); got != 2 {
		t.Errorf("orbit_ticks_total{result=malformed} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.Speed.WithLabelValues("iss")); got != 0.265 {
		t.Errorf("orbit_speed_km_per_second = %v, want 0.265", got)
	}
	if got := testutil.ToFloat64(c.Samples.WithLabelValues("iss")); got != 2 {
		t.Errorf("orbit_trajectory_samples = %v, want 2", got)
	}
}

func TestCollectorObserveFetch(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	c.ObserveFetch("iss", 120*time.Millisecond)

	if count := histogramSampleCount(t, reg, "orbit_fetch_duration_seconds", map[string]string{"object": "iss"}); count != 1 {
		t.Errorf("orbit_fetch_duration_seconds sample_count = %d, want 1", count)
	}
}

func TestCollectorRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	second, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("second NewCollector: %v", err)
	}

	first.Dropped()
	second.Dropped()
	if got := testutil.ToFloat64(first.PublishDropped); got != 2 {
		t.Errorf("orbit_publish_dropped_total = %v, want 2 (shared collector)", got)
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.Tick("iss", ResultOK)
	c.Accepted("iss", 1, 1)
	c.ObserveFetch("iss", time.Second)
	c.Dropped()
	if c.Handler() == nil {
		t.Error("Handler() on nil collector returned nil")
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	c.Accepted("iss", 7.5, 10)
	c.ObserveFetch("iss", time.Millisecond)
	c.Dropped()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"orbit_ticks_total",
		"orbit_speed_km_per_second",
		"orbit_trajectory_samples",
		"orbit_fetch_duration_seconds",
		"orbit_publish_dropped_total",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("expected %q in /metrics output", metric)
		}
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	families, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
