package in

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	commonhttp "github.com/mrrabbitte/pooly/common/net/http"
	"github.com/mrrabbitte/pooly/internal/domain/query"
	servicequery "github.com/mrrabbitte/pooly/internal/services/query"
)

type fakeDenyingAccessControl struct{}

func (fakeDenyingAccessControl) IsAllowed(string, string) (bool, error) {
	return false, nil
}

func newQueryTestApp(svc *servicequery.QueryService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return commonhttp.WithError(c, err)
		},
	})

	app.Post("/query", queryHandler(svc))
	app.Post("/bulk", bulkHandler(svc))

	return app
}

func TestQueryHandler_ForbiddenConnectionProducesMsgpackError(t *testing.T) {
	svc := servicequery.NewQueryService(fakeDenyingAccessControl{}, nil)
	app := newQueryTestApp(svc)

	raw, err := msgpack.Marshal(query.Request{ConnectionID: "conn-1", Query: "select 1"})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/query", bytes.NewReader(raw))
	req.Header.Set("Content-Type", msgpackContentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, msgpackContentType, resp.Header.Get(fiber.HeaderContentType))
}

func TestBulkHandler_ForbiddenConnectionProducesMsgpackError(t *testing.T) {
	svc := servicequery.NewQueryService(fakeDenyingAccessControl{}, nil)
	app := newQueryTestApp(svc)

	raw, err := msgpack.Marshal(query.BulkRequest{
		ConnectionID: "conn-1",
		Queries:      []query.StatementBody{{Query: "select 1"}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/bulk", bytes.NewReader(raw))
	req.Header.Set("Content-Type", msgpackContentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestQueryHandler_MalformedBodyProducesMsgpackError(t *testing.T) {
	svc := servicequery.NewQueryService(fakeDenyingAccessControl{}, nil)
	app := newQueryTestApp(svc)

	req := httptest.NewRequest("POST", "/query", bytes.NewReader([]byte("not-msgpack")))
	req.Header.Set("Content-Type", msgpackContentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.NotEqual(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, msgpackContentType, resp.Header.Get(fiber.HeaderContentType))
}
