package router

import (
	"net/http"

	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/logger"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	prefix     string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithPrefix mounts every registrar under prefix (e.g. "/api")
func WithPrefix(prefix string) RouterOption {
	return func(r *Router) {
		r.prefix = prefix
	}
}

// NewRouter creates a new Router instance. Routes are mounted at the root by default.
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	group := r.engine.Group(r.prefix)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(group)
	}
}

// EngineConfig configures the middleware chain of the HTTP engine
type EngineConfig struct {
	Logger      *zap.Logger
	Tracing     middleware.TracingConfig
	MaxBodySize int64
	// Metrics records per-route request metrics when set
	Metrics gin.HandlerFunc
	// MetricsHandler is exposed at MetricsPath when set
	MetricsHandler http.Handler
	MetricsPath    string
}

// NewEngine creates a gin engine with the standard middleware chain:
// request id, tracing, request logging, panic recovery, metrics and body limit.
func NewEngine(cfg EngineConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(
		middleware.RequestID(),
		middleware.Tracing(cfg.Tracing),
		middleware.SpanAttributes(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
	)
	if cfg.Metrics != nil {
		engine.Use(cfg.Metrics)
	}
	engine.Use(middleware.BodyLimit(cfg.MaxBodySize))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"detail": "Method Not Allowed"})
	})

	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(cfg.MetricsHandler))
	}
	return engine
}
