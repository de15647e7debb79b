package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/stockpilot/internal/application/dto"
	"github.com/jhoicas/stockpilot/internal/domain"
)

// statusFor traduce el tipo de error de dominio a status HTTP.
func statusFor(kind string) int {
	switch kind {
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindUnauthorized:
		return fiber.StatusUnauthorized
	case domain.KindForbidden:
		return fiber.StatusForbidden
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindDuplicateSKU, domain.KindConflict, domain.KindInsufficientStock:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError escribe dto.ErrorResponse con el código de domain.KindOf(err).
// Los fallos de almacenamiento e internos no exponen el detalle.
func respondError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	status := statusFor(kind)
	msg := err.Error()
	if kind == domain.KindStorage || kind == domain.KindInternal {
		msg = "error interno del servidor"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: kind, Message: msg})
}

// paramID lee un parámetro de ruta que debe ser UUID.
func paramID(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if err := uuid.Validate(id); err != nil {
		return "", fmt.Errorf("%w: %s no es un UUID válido", domain.ErrValidation, name)
	}
	return id, nil
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// ErrorHandler es el manejador de errores de la app Fiber (rutas inexistentes, panics recuperados, etc.).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := domain.KindInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = domain.KindNotFound
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			code = domain.KindValidation
		case fiber.StatusRequestEntityTooLarge:
			code = "BODY_TOO_LARGE"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return respondError(c, err)
}
