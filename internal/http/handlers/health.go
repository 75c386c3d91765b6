package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Check pings one dependency.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthHandler struct {
	service  string
	checks   []Check
	draining func() bool
	started  time.Time
	timeout  time.Duration
	log      *slog.Logger
	now      func() time.Time
}

// NewHealthHandler: draining may be nil.
func NewHealthHandler(service string, log *slog.Logger, draining func() bool, checks ...Check) *HealthHandler {
	if draining == nil {
		draining = func() bool { return false }
	}

	return &HealthHandler{
		service:  service,
		checks:   checks,
		draining: draining,
		started:  time.Now(),
		timeout:  2 * time.Second,
		log:      log,
		now:      time.Now,
	}
}

// Healthz is liveness only: the process is up and serving.
func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz is for load balancers: 503 once shutdown has begun or when a
// dependency is down.
func (h *HealthHandler) Readyz(ctx *gin.Context) {
	if h.draining() {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 500*time.Millisecond)
	defer cancel()

	for _, c := range h.checks {
		if err := c.Ping(cctx); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "check": c.Name})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Health pings every dependency and reports 503 when any of them fails.
func (h *HealthHandler) Health(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	results := make(gin.H, len(h.checks))

	for _, c := range h.checks {
		err := c.Ping(cctx)
		if err != nil {
			h.log.ErrorContext(cctx, "health check failed", "check", c.Name, "err", err)
			results[c.Name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[c.Name] = "ok"
	}

	now := h.now()
	body := gin.H{
		"status":    "healthy",
		"service":   h.service,
		"timestamp": now.UTC().Format(time.RFC3339Nano),
		"uptime":    now.Sub(h.started).Seconds(),
	}
	if len(results) > 0 {
		body["checks"] = results
	}
	if status != http.StatusOK {
		body["status"] = "unhealthy"
	}

	ctx.JSON(status, body)
}
