// Package metrics exposes Prometheus metrics for the generator and the naming service.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Namespace prefixes every metric name
const Namespace = "ordergen"

// Exporter owns a private registry and optionally serves it over HTTP.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Exporter struct {
	mu       sync.RWMutex
	registry *prometheus.Registry
	path     string

	server    *http.Server
	ln        net.Listener
	running   bool
	lastError error
}

// NewExporter creates an exporter serving path (default /metrics). Go runtime
// and process collectors are registered when withRuntime is set.
func NewExporter(path string, withRuntime bool) *Exporter {
	if path == "" {
		path = "/metrics"
	}
	registry := prometheus.NewRegistry()
	if withRuntime {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return &Exporter{registry: registry, path: path}
}

// Registry returns the registry metrics are registered with
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Path returns the metrics endpoint path
func (e *Exporter) Path() string {
	return e.path
}

// Handler returns the HTTP handler for the metrics endpoint
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Start serves the registry on addr (e.g. ":9102") in the background
func (e *Exporter) Start(addr string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return nil
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("starting metrics exporter: %w", err)
	}
	e.ln = ln

	mux := http.NewServeMux()
	mux.Handle(e.path, e.Handler())
	e.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := e.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.mu.Lock()
			e.lastError = err
			e.mu.Unlock()
		}
	}()

	e.running = true
	return nil
}

// Addr returns the bound listen address, or "" when not running
func (e *Exporter) Addr() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.ln == nil {
		return ""
	}
	return e.ln.Addr().String()
}

// Stop shuts the HTTP server down
func (e *Exporter) Stop(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return nil
	}
	e.running = false
	return e.server.Shutdown(ctx)
}

// IsRunning returns whether the exporter is serving
func (e *Exporter) IsRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// LastError returns the last error from the HTTP server, if any
func (e *Exporter) LastError() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastError
}

// Gather collects all metric families from the registry
func (e *Exporter) Gather() ([]*dto.MetricFamily, error) {
	return e.registry.Gather()
}
