package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const healthCheckTimeout = 3 * time.Second

// Check probes one dependency.
type Check func(ctx context.Context) error

type PoolStatsFunc func() *redis.PoolStats

type HealthHandler struct {
	version   string
	checks    map[string]Check
	poolStats PoolStatsFunc
}

// NewHealthHandler reports each named check. poolStats may be nil when
// Redis is not in use.
func NewHealthHandler(version string, checks map[string]Check, poolStats PoolStatsFunc) *HealthHandler {
	return &HealthHandler{version: version, checks: checks, poolStats: poolStats}
}

func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "ok"
	services := fiber.Map{}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			status = "degraded"
			services[name] = err.Error()
			continue
		}
		services[name] = "connected"
	}

	body := fiber.Map{
		"status":   status,
		"version":  h.version,
		"services": services,
	}
	if h.poolStats != nil {
		if ps := h.poolStats(); ps != nil {
			body["redis_pool"] = fiber.Map{
				"hits":        ps.Hits,
				"misses":      ps.Misses,
				"timeouts":    ps.Timeouts,
				"total_conns": ps.TotalConns,
				"idle_conns":  ps.IdleConns,
				"stale_conns": ps.StaleConns,
			}
		}
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(body)
}
