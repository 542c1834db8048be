package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/restaurante-pos/internal/application/dto"
	"github.com/jhoicas/restaurante-pos/internal/domain"
)

// errorMapping estado HTTP y código de cada error de dominio, en orden de prioridad.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrActiveOrderExists, fiber.StatusConflict, "ACTIVE_ORDER_EXISTS"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrInUse, fiber.StatusConflict, "IN_USE"},
	{domain.ErrTableUnavailable, fiber.StatusConflict, "TABLE_UNAVAILABLE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrNoChanges, fiber.StatusUnprocessableEntity, "NO_CHANGES"},
	{domain.ErrEmptyOrder, fiber.StatusUnprocessableEntity, "EMPTY_ORDER"},
	{domain.ErrInvalidTransition, fiber.StatusUnprocessableEntity, "INVALID_TRANSITION"},
}

// writeError traduce un error de los casos de uso a la respuesta HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var active *domain.ActiveOrderError
	if errors.As(err, &active) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "ACTIVE_ORDER_EXISTS",
			Message: domain.ErrActiveOrderExists.Error(),
			OrderID: active.OrderID,
		})
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func validation(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
}
