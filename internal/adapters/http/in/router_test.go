package in

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrrabbitte/pooly/common/mlog"
	"github.com/mrrabbitte/pooly/internal/bootstrap"
	"github.com/mrrabbitte/pooly/internal/config"
)

func newTestGraph(t *testing.T) *bootstrap.Graph {
	t.Helper()

	cfg := &config.PoolyConfig{
		KVPath:           filepath.Join(t.TempDir(), "pooly.db"),
		InitializeAPIKey: "init-secret",
	}

	graph, err := bootstrap.Build(cfg, &mlog.NoneLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = graph.Close() })

	return graph
}

func TestNewInitApp_HealthAndVersion(t *testing.T) {
	app := NewInitApp(newTestGraph(t))

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/version", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestNewInitApp_SecretsGroupRequiresInitKey(t *testing.T) {
	app := NewInitApp(newTestGraph(t))

	req := httptest.NewRequest("POST", "/secrets/clear", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("POST", "/secrets/clear", nil)
	req.Header.Set("Authorization", "init-secret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestNewAPIApp_HealthAndVersion(t *testing.T) {
	app := NewAPIApp(newTestGraph(t))

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestNewAPIApp_AdminRoutesRequireBearerAuth(t *testing.T) {
	app := NewAPIApp(newTestGraph(t))

	resp, err := app.Test(httptest.NewRequest("GET", "/connections", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestNewAPIApp_ClientRoutesRequireBearerAuth(t *testing.T) {
	app := NewAPIApp(newTestGraph(t))

	resp, err := app.Test(httptest.NewRequest("POST", "/query", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
