package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func scrape(t *testing.T, m *MetricsRegistry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("Failed to read metrics: %v", err)
	}
	return string(body)
}

func TestNewMetricsRegistry_Independent(t *testing.T) {
	a := NewMetricsRegistry()
	b := NewMetricsRegistry()

	a.CapacityRejectionsTotal.Inc()

	if !strings.Contains(scrape(t, a), "kjhub_capacity_rejections_total 1") {
		t.Error("Expected one rejection on a")
	}
	if !strings.Contains(scrape(t, b), "kjhub_capacity_rejections_total 0") {
		t.Error("Expected registries to be independent")
	}
}

func TestHandler_ExposesBusinessMetrics(t *testing.T) {
	m := NewMetricsRegistry()
	m.NotificationsTotal.WithLabelValues("approval", "ok").Inc()

	out := scrape(t, m)
	if !strings.Contains(out, `kjhub_notifications_total{result="ok",type="approval"} 1`) {
		t.Errorf("Expected notification counter in output, got:\n%s", out)
	}
}
