package http

import (
	"errors"

	"github.com/mrrabbitte/pooly/common"
	"github.com/gofiber/fiber/v2"
)

// ResponseError is a struct used to return errors to the client.
type ResponseError struct {
	Code          int    `json:"code,omitempty"`
	Title         string `json:"title,omitempty"`
	Message       string `json:"message,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Error returns the message of the ResponseError.
func (r ResponseError) Error() string {
	return r.Message
}

// ValidationKnownFieldsError records an error that occurred during a validation of known fields.
type ValidationKnownFieldsError struct {
	Title         string           `json:"title,omitempty"`
	Code          string           `json:"code,omitempty"`
	Message       string           `json:"message,omitempty"`
	Fields        FieldValidations `json:"fields,omitempty"`
	CorrelationID string           `json:"correlation_id,omitempty"`
}

// Error returns the error message for a ValidationKnownFieldsError.
func (r ValidationKnownFieldsError) Error() string {
	return r.Message
}

// FieldValidations is a map of known fields and their validation errors.
type FieldValidations map[string]string

// ValidationUnknownFieldsError records a request body carrying fields the target
// struct doesn't recognize.
type ValidationUnknownFieldsError struct {
	Title         string        `json:"title,omitempty"`
	Code          string        `json:"code,omitempty"`
	Message       string        `json:"message,omitempty"`
	Fields        UnknownFields `json:"fields,omitempty"`
	CorrelationID string        `json:"correlation_id,omitempty"`
}

// Error returns the error message for a ValidationUnknownFieldsError.
func (r ValidationUnknownFieldsError) Error() string {
	return r.Message
}

// UnknownFields is a map of unknown fields and their error messages.
type UnknownFields map[string]any

// CodedError is implemented by every error in pooly's taxonomy (storage,
// secrets, auth, query, wildcard, rate-limit, initialization) so the boundary
// can map it to an HTTP status without knowing the concrete type.
type CodedError interface {
	error
	Code() int
}

// WithError maps an error to an HTTP response. The common package's error
// types and the validation error types map to their matching statuses,
// errors implementing CodedError report their own status, and everything
// else widens to a 500.
func WithError(c *fiber.Ctx, err error) error {
	switch e := err.(type) {
	case common.EntityNotFoundError:
		return NotFound(c, e.Code, e.Title, e.Message)
	case common.EntityConflictError:
		return Conflict(c, e.Code, e.Title, e.Message)
	case common.ValidationError:
		return BadRequest(c, ValidationKnownFieldsError{
			Code:          e.Code,
			Title:         e.Title,
			Message:       e.Message,
			CorrelationID: c.Get(headerCorrelationID),
		})
	case common.UnprocessableOperationError:
		return UnprocessableEntity(c, e.Code, e.Title, e.Message)
	case common.UnauthorizedError:
		return Unauthorized(c, e.Code, e.Title, e.Message)
	case common.ForbiddenError:
		return Forbidden(c, e.Code, e.Title, e.Message)
	case ValidationKnownFieldsError:
		if e.CorrelationID == "" {
			e.CorrelationID = c.Get(headerCorrelationID)
		}

		return BadRequest(c, e)
	case ValidationUnknownFieldsError:
		if e.CorrelationID == "" {
			e.CorrelationID = c.Get(headerCorrelationID)
		}

		return BadRequest(c, e)
	case ResponseError:
		return JSONResponseError(c, e)
	case CodedError:
		return respondWithStatus(c, e.Code(), "", e.Error())
	default:
		var iErr common.InternalServerError

		_ = errors.As(common.ValidateInternalError(err, ""), &iErr)

		return InternalServerError(c, iErr.Code, iErr.Title, iErr.Message)
	}
}
