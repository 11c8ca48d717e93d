package handlers

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: connection refused") }

	tests := []struct {
		name       string
		checks     map[string]Check
		poolStats  PoolStatsFunc
		wantStatus int
		wantState  string
	}{
		{
			name:       "all up",
			checks:     map[string]Check{"database": ok, "redis": ok},
			poolStats:  func() *redis.PoolStats { return &redis.PoolStats{Hits: 3} },
			wantStatus: fiber.StatusOK,
			wantState:  "ok",
		},
		{
			name:       "redis down",
			checks:     map[string]Check{"database": ok, "redis": down},
			wantStatus: fiber.StatusServiceUnavailable,
			wantState:  "degraded",
		},
		{
			name:       "no dependencies",
			wantStatus: fiber.StatusOK,
			wantState:  "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/health", NewHealthHandler("test", tt.checks, tt.poolStats).HealthCheck)

			resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body := decodeBody(t, resp)
			assert.Equal(t, tt.wantState, body["status"])
			assert.Equal(t, "test", body["version"])
			if tt.poolStats != nil {
				assert.Contains(t, body, "redis_pool")
			}
		})
	}
}
