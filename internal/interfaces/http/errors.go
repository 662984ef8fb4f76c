package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-kardex/internal/application/dto"
	"github.com/jhoicas/Inventario-kardex/internal/domain"
)

// Códigos de error expuestos en ErrorResponse.Code.
const (
	CodeNotFound               = "NOT_FOUND"
	CodeValidation             = "VALIDATION_ERROR"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodeInsufficientValidStock = "INSUFFICIENT_VALID_STOCK"
	CodeBadRequest             = "BAD_REQUEST"
	CodeInternal               = "INTERNAL_ERROR"
)

// responder traduce errores de dominio a respuestas HTTP. Los errores no clasificados se registran.
type responder struct {
	log zerolog.Logger
}

func (r responder) fail(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		r.log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		msg = "error interno del servidor"
	}
	return writeError(c, status, code, msg)
}

func classify(err error) (int, string) {
	var de *domain.Error
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		if errors.As(err, &de) && de.Expired {
			return fiber.StatusBadRequest, CodeInsufficientValidStock
		}
		return fiber.StatusBadRequest, CodeInsufficientStock
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, CodeValidation
	default:
		return fiber.StatusInternalServerError, CodeInternal
	}
}

func writeError(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{
		Error:       utils.StatusMessage(status),
		UserMessage: msg,
		Status:      status,
		Code:        code,
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return writeError(c, fiber.StatusBadRequest, CodeBadRequest, msg)
}

// queryDate lee un parámetro opcional "YYYY-MM-DD".
func queryDate(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := dto.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// queryInt lee un entero opcional; def si no viene.
func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " debe ser un entero")
	}
	return n, nil
}

func pageFrom(c *fiber.Ctx) (dto.PageRequest, error) {
	var p dto.PageRequest
	var err error
	if p.Limit, err = queryInt(c, "limit", 0); err != nil {
		return p, err
	}
	if p.Offset, err = queryInt(c, "offset", 0); err != nil {
		return p, err
	}
	return p, nil
}
