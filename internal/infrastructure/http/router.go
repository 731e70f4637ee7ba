// Package http serves the optional local ops listener: health probes and the
// Prometheus metrics recorded by the access layer. Long-running console
// deployments (kiosks, shared terminals) enable it via CONSOLE_OPS_ADDR.
package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/auditax/console/internal/core/ports"
	"github.com/auditax/console/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(store ports.Storage) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("console_ops"))

	// --- Health probes ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(store)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – is the storage backend up?

	// --- Metrics (default registry: includes the access-layer counters) ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
