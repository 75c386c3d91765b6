package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/storefront/platform/internal/config"
	"github.com/storefront/platform/internal/http/handlers"
	"github.com/storefront/platform/internal/http/middlewares"
	"github.com/storefront/platform/internal/observability"
)

// Deps is what every service router needs regardless of its routes.
type Deps struct {
	Log      *slog.Logger
	Config   config.Config
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
	Checks   []handlers.Check
	Draining func() bool
}

// newBase builds the engine shared by every service: middleware stack,
// /health, /healthz, /readyz, /metrics and the JSON 404. The returned group is
// /api/v1 with rate limiting and the JSON body rules applied.
func newBase(d Deps) (*gin.Engine, *gin.RouterGroup) {
	if d.Config.Env != "dev" && gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(gin.CustomRecovery(func(ctx *gin.Context, rec any) {
		d.Log.ErrorContext(ctx.Request.Context(), "panic recovered", "panic", rec)
		handlers.RespondInternal(ctx, "Internal server error")
		ctx.Abort()
	}))
	r.Use(otelgin.Middleware(d.Config.Service))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders(d.Config.IsProd()))
	r.Use(middlewares.CORSMiddleware(corsOrigins(d.Config.CORSOrigins)))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	health := handlers.NewHealthHandler(d.Config.Service, d.Log, d.Draining, d.Checks...)
	r.GET("/health", health.Health)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	r.NoRoute(handlers.NotFound)

	api := r.Group("/api/v1")
	if d.Config.RateLimitMax > 0 {
		limiter := middlewares.NewRateLimiter(d.Config.RateLimitMax, d.Config.RateLimitWindow)
		api.Use(limiter.RateLimiterMiddleware(middlewares.KeyByIP))
	}
	api.Use(
		middlewares.MaxBodyBytes(d.Config.MaxBodyBytes),
		middlewares.RequireJSON(),
	)

	return r, api
}

// no configured origins means any origin, as the services always allowed
func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func NewUserRouter(d Deps, svc handlers.AccountService, verifier middlewares.TokenVerifier) *gin.Engine {
	r, api := newBase(d)

	users := handlers.NewUsersHandler(svc)
	authMW := middlewares.NewAuthMiddleware(verifier, d.Log)

	g := api.Group("/users")
	g.POST("/register", users.Register)
	g.POST("/login", users.Login)
	g.GET("/profile", authMW.RequireAuth(), users.Profile)

	return r
}

func NewCatalogRouter(d Deps, catalog handlers.ProductReader) *gin.Engine {
	r, api := newBase(d)

	products := handlers.NewProductsHandler(catalog)

	api.GET("/products", products.ListProducts)
	api.GET("/products/:id", products.GetProductByID)

	return r
}

func NewNotificationRouter(d Deps) *gin.Engine {
	r, api := newBase(d)

	api.GET("/notifications", handlers.NewNotificationsHandler().List)

	return r
}

// NewFrontendRouter serves the shell's index; it has no dependencies to
// check and no /api group routes.
func NewFrontendRouter(d Deps) *gin.Engine {
	r, _ := newBase(d)

	r.GET("/", handlers.NewFrontendHandler(d.Config.APIURL).Index)

	return r
}
