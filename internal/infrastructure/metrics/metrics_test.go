package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findMetricFamily(families []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func findMetricByLabels(family *dto.MetricFamily, labels map[string]string) *dto.Metric {
	for _, m := range family.GetMetric() {
		matched := 0
		for _, l := range m.GetLabel() {
			if v, ok := labels[l.GetName()]; ok && v == l.GetValue() {
				matched++
			}
		}
		if matched == len(labels) {
			return m
		}
	}
	return nil
}

func TestGeneratorMetrics_ObserveNamingCall(t *testing.T) {
	exporter := NewExporter("", false)
	m := NewGeneratorMetrics(exporter.Registry())

	m.ObserveNamingCall("beauty", "ok", 120*time.Millisecond)
	m.ObserveNamingCall("beauty", "ok", 80*time.Millisecond)
	m.ObserveNamingCall("clothing", "network", 10*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.namingCalls.WithLabelValues("beauty", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.namingCalls.WithLabelValues("clothing", "network")))

	families, err := exporter.Gather()
	require.NoError(t, err)
	hist := findMetricFamily(families, "ordergen_naming_call_duration_seconds")
	require.NotNil(t, hist)
	assert.Equal(t, dto.MetricType_HISTOGRAM, hist.GetType())
	beauty := findMetricByLabels(hist, map[string]string{"category": "beauty"})
	require.NotNil(t, beauty)
	assert.Equal(t, uint64(2), beauty.GetHistogram().GetSampleCount())
}

func TestGeneratorMetrics_NamingSummary(t *testing.T) {
	m := NewGeneratorMetrics(NewExporter("", false).Registry())

	assert.Equal(t, 0, m.NamingSummary().Calls)

	m.ObserveNamingCall("beauty", "ok", time.Millisecond)
	m.ObserveNamingCall("outdoor gear", "ok", time.Millisecond)
	m.ObserveNamingCall("beauty", "schema", time.Millisecond)

	summary := m.NamingSummary()
	assert.Equal(t, 3, summary.Calls)
	assert.Equal(t, 2, summary.ByResult["ok"])
	assert.Equal(t, 1, summary.ByResult["schema"])
}

func TestGeneratorMetrics_ObserveRun(t *testing.T) {
	m := NewGeneratorMetrics(NewExporter("", false).Registry())

	m.ObserveRun(20, 20, 118, false, 3*time.Second)
	m.ObserveRun(5, 5, 30, true, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("failed")))
	assert.Equal(t, 25.0, testutil.ToFloat64(m.records.WithLabelValues("orders")))
	assert.Equal(t, 25.0, testutil.ToFloat64(m.records.WithLabelValues("invoices")))
	assert.Equal(t, 148.0, testutil.ToFloat64(m.rows))
	assert.Equal(t, 1, testutil.CollectAndCount(m.runDuration))
}

func TestHTTPMetrics_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewHTTPMetrics(NewExporter("", false).Registry())

	router := gin.New()
	router.Use(m.Middleware())
	router.POST("/generate_product", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"product_name": "Bath Towel"})
	})

	for range 3 {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/generate_product", nil))
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues("POST", "/generate_product", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
}

func TestExporter_Handler(t *testing.T) {
	exporter := NewExporter("", true)
	m := NewGeneratorMetrics(exporter.Registry())
	m.ObserveNamingCall("electronics", "ok", time.Millisecond)

	w := httptest.NewRecorder()
	exporter.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `ordergen_naming_calls_total{category="electronics",outcome="ok"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestExporter_StartStop(t *testing.T) {
	exporter := NewExporter("/metrics", false)
	NewGeneratorMetrics(exporter.Registry()).ObserveRun(1, 1, 2, false, time.Second)

	require.NoError(t, exporter.Start("127.0.0.1:0"))
	assert.True(t, exporter.IsRunning())
	require.NoError(t, exporter.Start("127.0.0.1:0"), "second start is a no-op")

	resp, err := http.Get("http://" + exporter.Addr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "ordergen_runs_total"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, exporter.Stop(ctx))
	assert.False(t, exporter.IsRunning())
	assert.NoError(t, exporter.LastError())
	require.NoError(t, exporter.Stop(ctx))
}
