package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// GeneratorMetrics records naming calls and pipeline runs
type GeneratorMetrics struct {
	namingCalls    *prometheus.CounterVec
	namingDuration *prometheus.HistogramVec
	runs           *prometheus.CounterVec
	records        *prometheus.CounterVec
	rows           prometheus.Counter
	runDuration    prometheus.Histogram
}

// NewGeneratorMetrics creates and registers the generator collectors
func NewGeneratorMetrics(reg prometheus.Registerer) *GeneratorMetrics {
	m := &GeneratorMetrics{
		namingCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "naming_calls_total",
				Help:      "Product naming calls by category and outcome (ok, network, status, schema, unknown).",
			},
			[]string{"category", "outcome"},
		),
		namingDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "naming_call_duration_seconds",
				Help:      "Duration of product naming calls in seconds.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"category"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "runs_total",
				Help:      "Completed generation runs by confirmation render result.",
			},
			[]string{"render"},
		),
		records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "records_generated_total",
				Help:      "Generated orders and invoices.",
			},
			[]string{"kind"},
		),
		rows: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "rows_exported_total",
				Help:      "Flattened rows written across both tables.",
			},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of a whole generation run in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
			},
		),
	}

	reg.MustRegister(m.namingCalls, m.namingDuration, m.runs, m.records, m.rows, m.runDuration)
	return m
}

// ObserveNamingCall records one naming call
func (m *GeneratorMetrics) ObserveNamingCall(category, outcome string, elapsed time.Duration) {
	m.namingCalls.WithLabelValues(category, outcome).Inc()
	m.namingDuration.WithLabelValues(category).Observe(elapsed.Seconds())
}

// ObserveRun records a finished run
func (m *GeneratorMetrics) ObserveRun(orders, invoices, rows int, renderFailed bool, elapsed time.Duration) {
	render := "ok"
	if renderFailed {
		render = "failed"
	}
	m.runs.WithLabelValues(render).Inc()
	m.records.WithLabelValues("orders").Add(float64(orders))
	m.records.WithLabelValues("invoices").Add(float64(invoices))
	m.rows.Add(float64(rows))
	m.runDuration.Observe(elapsed.Seconds())
}

// NamingSummary totals naming calls by outcome
type NamingSummary struct {
	Calls    int
	ByResult map[string]int
}

// NamingSummary reads the naming call counters back
func (m *GeneratorMetrics) NamingSummary() NamingSummary {
	summary := NamingSummary{ByResult: make(map[string]int)}

	ch := make(chan prometheus.Metric, 64)
	go func() {
		m.namingCalls.Collect(ch)
		close(ch)
	}()

	for metric := range ch {
		var pb dto.Metric
		if err := metric.Write(&pb); err != nil || pb.GetCounter() == nil {
			continue
		}
		n := int(pb.GetCounter().GetValue())
		for _, label := range pb.GetLabel() {
			if label.GetName() == "outcome" {
				summary.ByResult[label.GetValue()] += n
			}
		}
		summary.Calls += n
	}
	return summary
}
