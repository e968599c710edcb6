package in

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonhttp "github.com/mrrabbitte/pooly/common/net/http"
	domainaccess "github.com/mrrabbitte/pooly/internal/domain/access"
	"github.com/mrrabbitte/pooly/internal/domain/storage"
	serviceaccess "github.com/mrrabbitte/pooly/internal/services/access"
)

func newTestLiteralAccessService(t *testing.T) *serviceaccess.LiteralConnectionIdAccessEntryService {
	t.Helper()

	mgr := newTestSecretsManager(t)

	dao := storage.NewUpdatableDao[domainaccess.LiteralConnectionIdAccessEntry, domainaccess.SetCommand[string]](
		storage.NewTypedDao[domainaccess.LiteralConnectionIdAccessEntry](
			storage.NewEncryptedDao(storage.NewSimpleDao(newMemKeyValueStore()), mgr)))

	return serviceaccess.NewLiteralConnectionIdAccessEntryService(dao)
}

func newCrudTestApp(svc *serviceaccess.LiteralConnectionIdAccessEntryService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return commonhttp.WithError(c, err)
		},
	})

	registerCrudRoutes[domainaccess.LiteralConnectionIdAccessEntry, domainaccess.SetCommand[string]](
		app, "/entries", "id", svc)

	return app
}

func TestCrudRoutes_CreateThenGet(t *testing.T) {
	svc := newTestLiteralAccessService(t)
	app := newCrudTestApp(svc)

	body := `{"client_id":"client-1","connection_ids":{"conn-1":{}}}`
	req := httptest.NewRequest("POST", "/entries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest("GET", "/entries/client-1", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCrudRoutes_GetMissingReturnsNotFound(t *testing.T) {
	svc := newTestLiteralAccessService(t)
	app := newCrudTestApp(svc)

	req := httptest.NewRequest("GET", "/entries/missing", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCrudRoutes_ErrorResponseCarriesCorrelationID(t *testing.T) {
	svc := newTestLiteralAccessService(t)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return commonhttp.WithError(c, err)
		},
	})
	app.Use(commonhttp.WithCorrelationID())
	registerCrudRoutes[domainaccess.LiteralConnectionIdAccessEntry, domainaccess.SetCommand[string]](
		app, "/entries", "id", svc)

	req := httptest.NewRequest("GET", "/entries/missing", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	sentCorrelationID := resp.Header.Get("X-Correlation-Id")
	require.NotEmpty(t, sentCorrelationID)

	var body commonhttp.ResponseError
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, sentCorrelationID, body.CorrelationID)
}

func TestCrudRoutes_ListReturnsCreatedIds(t *testing.T) {
	svc := newTestLiteralAccessService(t)
	app := newCrudTestApp(svc)

	_, err := svc.Create(domainaccess.LiteralConnectionIdAccessEntry{
		ClientID:      "client-1",
		ConnectionIDs: map[string]struct{}{"conn-1": {}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/entries", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCrudRoutes_DeleteRemovesUpdatedEntry(t *testing.T) {
	svc := newTestLiteralAccessService(t)
	app := newCrudTestApp(svc)

	created, err := svc.Create(domainaccess.LiteralConnectionIdAccessEntry{
		ClientID:      "client-1",
		ConnectionIDs: map[string]struct{}{"conn-1": {}},
	})
	require.NoError(t, err)

	updated, err := svc.Update("client-1", domainaccess.SetCommand[string]{
		CmdType:  domainaccess.Add,
		HeaderV:  created.Header,
		Elements: map[string]struct{}{"conn-2": {}},
	})
	require.NoError(t, err)
	assert.True(t, updated.Value.Contains("conn-2"))

	req := httptest.NewRequest("DELETE", "/entries/client-1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	_, found, err := svc.Get("client-1")
	require.NoError(t, err)
	assert.False(t, found)
}
