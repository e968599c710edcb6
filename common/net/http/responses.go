package http

import (
	"github.com/gofiber/fiber/v2"
)

func respondWithStatus(c *fiber.Ctx, status int, title, message string) error {
	return c.Status(status).JSON(ResponseError{
		Code:          status,
		Title:         title,
		Message:       message,
		CorrelationID: c.Get(headerCorrelationID),
	})
}

// OK writes a 200 response with the given payload.
func OK(c *fiber.Ctx, payload any) error {
	return c.Status(fiber.StatusOK).JSON(payload)
}

// Created writes a 201 response with the given payload.
func Created(c *fiber.Ctx, payload any) error {
	return c.Status(fiber.StatusCreated).JSON(payload)
}

// NoContent writes a 204 response with no body.
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// BadRequest writes a 400 response carrying the given error payload.
func BadRequest(c *fiber.Ctx, payload any) error {
	return c.Status(fiber.StatusBadRequest).JSON(payload)
}

// Unauthorized writes a 401 response.
func Unauthorized(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ResponseError{
		Code:          fiber.StatusUnauthorized,
		Title:         title,
		Message:       message,
		CorrelationID: c.Get(headerCorrelationID),
	})
}

// Forbidden writes a 403 response.
func Forbidden(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(ResponseError{
		Code:          fiber.StatusForbidden,
		Title:         title,
		Message:       message,
		CorrelationID: c.Get(headerCorrelationID),
	})
}

// NotFound writes a 404 response.
func NotFound(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(ResponseError{
		Code:          fiber.StatusNotFound,
		Title:         title,
		Message:       message,
		CorrelationID: c.Get(headerCorrelationID),
	})
}

// Conflict writes a 409 response.
func Conflict(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusConflict).JSON(ResponseError{
		Code:          fiber.StatusConflict,
		Title:         title,
		Message:       message,
		CorrelationID: c.Get(headerCorrelationID),
	})
}

// UnprocessableEntity writes a 422 response.
func UnprocessableEntity(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ResponseError{
		Code:          fiber.StatusUnprocessableEntity,
		Title:         title,
		Message:       message,
		CorrelationID: c.Get(headerCorrelationID),
	})
}

// InternalServerError writes a 500 response.
func InternalServerError(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(ResponseError{
		Code:          fiber.StatusInternalServerError,
		Title:         title,
		Message:       message,
		CorrelationID: c.Get(headerCorrelationID),
	})
}

// JSONResponseError writes a ResponseError using its own Code as the HTTP status.
func JSONResponseError(c *fiber.Ctx, r ResponseError) error {
	status := r.Code
	if status == 0 {
		status = fiber.StatusInternalServerError
	}

	if r.CorrelationID == "" {
		r.CorrelationID = c.Get(headerCorrelationID)
	}

	return c.Status(status).JSON(r)
}
