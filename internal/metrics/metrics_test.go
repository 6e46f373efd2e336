package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordProvisionSuccess_IncrementsCounter は成功カウンタが増加することを検証する。
func TestRecordProvisionSuccess_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordProvisionSuccess()
	c.RecordProvisionSuccess()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "arcade_provision_success_total" {
			found = true
			if len(mf.GetMetric()) != 1 {
				t.Fatalf("expected 1 metric, got %d", len(mf.GetMetric()))
			}
			val := mf.GetMetric()[0].GetCounter().GetValue()
			if val != 2 {
				t.Errorf("provision_success_total = %v, want 2", val)
			}
		}
	}
	if !found {
		t.Error("arcade_provision_success_total metric not found")
	}
}

// TestRecordProvisionFailure_IncrementsCounterWithLabel は失敗カウンタがコード別に増加することを検証する。
func TestRecordProvisionFailure_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordProvisionFailure("USERNAME_EXHAUSTED")
	c.RecordProvisionFailure("USERNAME_EXHAUSTED")
	c.RecordProvisionFailure("PERSIST_FAILED")

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "arcade_provision_fail_total" {
			found = true
			if len(mf.GetMetric()) != 2 {
				t.Fatalf("expected 2 label combinations, got %d", len(mf.GetMetric()))
			}
			for _, m := range mf.GetMetric() {
				label := m.GetLabel()[0].GetValue()
				val := m.GetCounter().GetValue()
				switch label {
				case "USERNAME_EXHAUSTED":
					if val != 2 {
						t.Errorf("provision_fail_total{code=USERNAME_EXHAUSTED} = %v, want 2", val)
					}
				case "PERSIST_FAILED":
					if val != 1 {
						t.Errorf("provision_fail_total{code=PERSIST_FAILED} = %v, want 1", val)
					}
				default:
					t.Errorf("unexpected label value: %s", label)
				}
			}
		}
	}
	if !found {
		t.Error("arcade_provision_fail_total metric not found")
	}
}

// TestRecordCompensation_IncrementsCounter は補償カウンタが増加することを検証する。
func TestRecordCompensation_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordCompensation()
	c.RecordCompensation()
	c.RecordCompensation()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "arcade_compensation_total" {
			found = true
			val := mf.GetMetric()[0].GetCounter().GetValue()
			if val != 3 {
				t.Errorf("compensation_total = %v, want 3", val)
			}
		}
	}
	if !found {
		t.Error("arcade_compensation_total metric not found")
	}
}

// TestRecordOrphanedIdentity_IncrementsCounter は孤立アイデンティティカウンタが増加することを検証する。
func TestRecordOrphanedIdentity_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordOrphanedIdentity()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "arcade_orphaned_identity_total" {
			found = true
			val := mf.GetMetric()[0].GetCounter().GetValue()
			if val != 1 {
				t.Errorf("orphaned_identity_total = %v, want 1", val)
			}
		}
	}
	if !found {
		t.Error("arcade_orphaned_identity_total metric not found")
	}
}

// TestRecordProvisionLatency_ObservesHistogram はレイテンシのヒストグラムに値が記録されることを検証する。
func TestRecordProvisionLatency_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordProvisionLatency(100 * time.Millisecond)
	c.RecordProvisionLatency(2 * time.Second)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "arcade_provision_latency_seconds" {
			found = true
			h := mf.GetMetric()[0].GetHistogram()
			if h.GetSampleCount() != 2 {
				t.Errorf("sample_count = %d, want 2", h.GetSampleCount())
			}
			// 合計は0.1 + 2.0 = 2.1秒
			if h.GetSampleSum() < 2.0 || h.GetSampleSum() > 2.2 {
				t.Errorf("sample_sum = %v, want ~2.1", h.GetSampleSum())
			}
		}
	}
	if !found {
		t.Error("arcade_provision_latency_seconds metric not found")
	}
}

// TestMetricsHandler_ReturnsPrometheusFormat は/metricsエンドポイントがPrometheus形式で返すことを検証する。
func TestMetricsHandler_ReturnsPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	// いくつかのメトリクスを記録
	c.RecordProvisionSuccess()
	c.RecordProvisionFailure("IDENTITY_CREATE_FAILED")
	c.RecordCompensation()
	c.RecordOrphanedIdentity()
	c.RecordProvisionLatency(500 * time.Millisecond)

	handler := Handler(reg)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	// Prometheus形式のメトリクスが含まれていることを確認
	expectedMetrics := []string{
		"arcade_provision_success_total",
		"arcade_provision_fail_total",
		"arcade_compensation_total",
		"arcade_orphaned_identity_total",
		"arcade_provision_latency_seconds",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(bodyStr, metric) {
			t.Errorf("response body does not contain %q", metric)
		}
	}
}

// TestCollector_ImplementsMetricsCollectorInterface はCollectorがMetricsCollectorインターフェースを実装することを検証する。
func TestCollector_ImplementsMetricsCollectorInterface(t *testing.T) {
	reg := prometheus.NewRegistry()
	var _ MetricsCollector = NewCollector(reg)
}
