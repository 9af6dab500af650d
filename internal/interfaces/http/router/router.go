// Package router assembles the gin engine: middleware chain and routes.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quotedesk/backend/internal/infrastructure/logger"
	"github.com/quotedesk/backend/internal/interfaces/http/handler"
	"github.com/quotedesk/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
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

// Setup registers all routes under /api/<version>
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// DomainGroup collects the routes of one resource under a common prefix
type DomainGroup struct {
	prefix string
	routes []routeDefinition
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(prefix string) *DomainGroup {
	return &DomainGroup{prefix: prefix}
}

func (dg *DomainGroup) add(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodGet, path, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodPost, path, handlers)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodPut, path, handlers)
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodDelete, path, handlers)
}

// RegisterRoutes implements RouteRegistrar interface
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

// Handlers holds every endpoint handler the API serves
type Handlers struct {
	Health     *handler.HealthHandler
	Quotes     *handler.QuoteHandler
	SalesNotes *handler.SalesNoteHandler
	Pricing    *handler.PricingHandler
}

// Config controls the middleware chain
type Config struct {
	Logger         *zap.Logger
	TokenValidator middleware.TokenValidator
	CORS           middleware.CORSConfig
	MaxBodySize    int64
	Tracing        middleware.TracingConfig
}

// New builds the engine. Health is served unauthenticated both at /health
// and /api/v1/health; every other route requires a bearer token.
func New(cfg Config, h Handlers) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger),
		logger.Recovery(cfg.Logger),
		middleware.CORSWithConfig(cfg.CORS),
	)
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	engine.Use(middleware.TracingWithConfig(cfg.Tracing))

	engine.GET("/health", h.Health.Health)
	engine.GET("/api/v1/health", h.Health.Health)

	r := NewRouter(engine)
	r.Register(authenticated(cfg))
	r.Register(quoteRoutes(h.Quotes))
	r.Register(salesNoteRoutes(h.SalesNotes))
	r.Register(pricingRoutes(h.Pricing))
	r.Setup()

	return engine
}

// authenticated installs JWT authentication on the whole API group. It is
// registered first so the middleware precedes every route.
func authenticated(cfg Config) RouteRegistrar {
	return registrarFunc(func(rg *gin.RouterGroup) {
		rg.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			Validator: cfg.TokenValidator,
			Logger:    cfg.Logger,
		}), middleware.SpanEnricher())
	})
}

type registrarFunc func(rg *gin.RouterGroup)

func (f registrarFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }

func quoteRoutes(h *handler.QuoteHandler) *DomainGroup {
	return NewDomainGroup("/quotes").
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.GetByID).
		DELETE("/:id", h.Delete).
		POST("/:id/items", h.AddItem).
		PUT("/:id/items/:item_id", h.UpdateItem).
		DELETE("/:id/items/:item_id", h.RemoveItem).
		PUT("/:id/pricing", h.UpdatePricing).
		POST("/:id/extend-validity", h.ExtendValidity).
		POST("/:id/send", h.Send).
		POST("/:id/accept", h.Accept).
		POST("/:id/reject", h.Reject).
		POST("/:id/convert", h.Convert).
		GET("/:id/projection", h.Projection)
}

func salesNoteRoutes(h *handler.SalesNoteHandler) *DomainGroup {
	return NewDomainGroup("/sales-notes").
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.GetByID).
		DELETE("/:id", h.Delete).
		POST("/:id/items", h.AddItem).
		PUT("/:id/items/:item_id", h.UpdateItem).
		DELETE("/:id/items/:item_id", h.RemoveItem).
		POST("/:id/items/:item_id/invoiced", h.RecordInvoicedQuantity).
		PUT("/:id/pricing", h.UpdatePricing).
		PUT("/:id/terms", h.UpdateTerms).
		POST("/:id/confirm", h.Confirm).
		POST("/:id/cancel", h.Cancel).
		GET("/:id/payment-status", h.PaymentStatus).
		GET("/:id/projection", h.Projection)
}

func pricingRoutes(h *handler.PricingHandler) *DomainGroup {
	return NewDomainGroup("").
		POST("/totals/preview", h.PreviewTotals).
		GET("/sequences/:type/:prefix", h.PeekSequence)
}
