package in

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vmihailenco/msgpack/v5"

	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
	"github.com/mrrabbitte/pooly/internal/domain/query"
	servicequery "github.com/mrrabbitte/pooly/internal/services/query"
)

const msgpackContentType = "application/msgpack"

// queryHandler decodes a msgpack query.Request, executes it as the calling
// client, and responds with a msgpack query.Response (or ErrorResponse).
func queryHandler(svc *servicequery.QueryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req query.Request

		if err := msgpack.Unmarshal(c.Body(), &req); err != nil {
			return writeQueryError(c, poolyerrors.WrapReadUtfError(err))
		}

		resp, err := svc.Query(c.UserContext(), roleTokenFrom(c).ClientID, req)
		if err != nil {
			return writeQueryError(c, err)
		}

		return writeMsgpack(c, resp)
	}
}

// bulkHandler decodes a msgpack query.BulkRequest, runs it transactionally
// as the calling client, and responds with a msgpack query.BulkResponse (or
// ErrorResponse).
func bulkHandler(svc *servicequery.QueryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req query.BulkRequest

		if err := msgpack.Unmarshal(c.Body(), &req); err != nil {
			return writeQueryError(c, poolyerrors.WrapReadUtfError(err))
		}

		resp, err := svc.BulkTx(c.UserContext(), roleTokenFrom(c).ClientID, req)
		if err != nil {
			return writeQueryError(c, err)
		}

		return writeMsgpack(c, resp)
	}
}

func writeMsgpack(c *fiber.Ctx, payload any) error {
	raw, err := msgpack.Marshal(payload)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, msgpackContentType)

	return c.Status(fiber.StatusOK).Send(raw)
}

// writeQueryError reports err as a msgpack ErrorResponse carrying the
// request's correlation id, at the HTTP status err's Code() reports (500
// if err isn't in pooly's taxonomy).
func writeQueryError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	if coded, ok := err.(poolyerrors.CodedError); ok {
		status = coded.Code()
	}

	raw, marshalErr := msgpack.Marshal(query.ErrorResponse{
		Message:       err.Error(),
		ErrorType:     poolyerrors.ErrorType(err),
		CorrelationID: c.Get(headerCorrelationID),
	})
	if marshalErr != nil {
		return marshalErr
	}

	c.Set(fiber.HeaderContentType, msgpackContentType)

	return c.Status(status).Send(raw)
}
