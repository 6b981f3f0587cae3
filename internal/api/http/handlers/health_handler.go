package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const probeTimeout = 2 * time.Second

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency names one backing service of the storefront. Optional
// dependencies only degrade features (carts, shared rate limits) and are
// reported without failing readiness.
type Dependency struct {
	Name     string
	Pinger   Pinger
	Optional bool
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	deps        []Dependency
	started     time.Time
}

func NewHealthHandler(serviceName, version string, deps ...Dependency) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, deps: deps, started: time.Now()}
}

func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}

func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), probeTimeout)
	defer cancel()

	report := make(fiber.Map, len(h.deps))
	ready := true
	for _, dep := range h.deps {
		if dep.Pinger == nil {
			continue
		}
		if err := dep.Pinger.Ping(ctx); err != nil {
			report[dep.Name] = err.Error()
			if !dep.Optional {
				ready = false
			}
			continue
		}
		report[dep.Name] = "ok"
	}

	if !ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   "one or more dependencies unavailable",
			"code":    "DEPENDENCY_UNAVAILABLE",
			"details": report,
		})
	}
	return c.JSON(fiber.Map{"status": "ready", "dependencies": report})
}
