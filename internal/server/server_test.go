package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"devin/internal/config"
	"devin/internal/middleware"
	"devin/internal/models"
	"devin/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicInHandlerReturnsJSONError(t *testing.T) {
	srv := &Server{config: &config.Config{Env: "test"}}
	app := srv.NewFiberApp()
	srv.SetupMiddleware(app)

	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("something went sideways")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, models.CodeInternal, body.Code)
	assert.NotEmpty(t, body.Error)
}

func TestMetricsEndpointServesRegistry(t *testing.T) {
	srv := &Server{
		config:         &config.Config{Env: "test"},
		promMiddleware: middleware.InitMetrics("devin-test"),
	}
	app := srv.NewFiberApp()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	// Domain counters live in the default registry, so the scrape
	// endpoint must surface them alongside the HTTP metrics.
	observability.RepliesCreated.Inc()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "devin_replies_created_total")
}
