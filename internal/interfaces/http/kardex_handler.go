package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-kardex/internal/application/dto"
	"github.com/jhoicas/Inventario-kardex/internal/application/kardex"
	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
)

// KardexHandler maneja las peticiones HTTP del kardex y sus reportes.
type KardexHandler struct {
	responder
	uc *kardex.KardexUseCase
}

// NewKardexHandler construye el handler.
func NewKardexHandler(uc *kardex.KardexUseCase, log zerolog.Logger) *KardexHandler {
	return &KardexHandler{responder: responder{log: log}, uc: uc}
}

// Create godoc
// @Summary      Registrar movimiento de kardex
// @Tags         kardex
// @Accept       json
// @Produce      json
// @Param        body  body  dto.KardexRequest  true  "typeMovement (INCOME|OUTCOME), productId, quantity, unitPrice, movementDate"
// @Success      201   {object}  dto.KardexResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /kardex [post]
func (h *KardexHandler) Create(c *fiber.Ctx) error {
	var in dto.KardexRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido: "+err.Error())
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar movimientos (más recientes primero)
// @Tags         kardex
// @Produce      json
// @Param        limit   query  int  false  "Máximo de resultados (1-100, por defecto 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.KardexResponse
// @Router       /kardex [get]
func (h *KardexHandler) List(c *fiber.Ctx) error {
	page, err := pageFrom(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener movimiento por ID
// @Tags         kardex
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.KardexResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /kardex/{id} [get]
func (h *KardexHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar movimiento
// @Tags         kardex
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del movimiento"
// @Param        body  body  dto.KardexUpdateRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.KardexResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /kardex/{id} [put]
func (h *KardexHandler) Update(c *fiber.Ctx) error {
	var in dto.KardexUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido: "+err.Error())
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar movimiento
// @Tags         kardex
// @Param        id   path  string  true  "ID del movimiento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /kardex/{id} [delete]
func (h *KardexHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListByProduct godoc
// @Summary      Historial de un producto (cronológico)
// @Tags         kardex
// @Produce      json
// @Param        productId  path  string  true  "Código del producto"
// @Success      200  {array}  dto.KardexResponse
// @Router       /kardex/product/{productId} [get]
func (h *KardexHandler) ListByProduct(c *fiber.Ctx) error {
	out, err := h.uc.ListByProduct(c.UserContext(), c.Params("productId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Between godoc
// @Summary      Movimientos entre fechas
// @Tags         kardex
// @Produce      json
// @Param        startDate  query  string  true   "YYYY-MM-DD (inclusive)"
// @Param        endDate    query  string  true   "YYYY-MM-DD (inclusive)"
// @Param        type       query  string  false  "INCOME | OUTCOME"
// @Success      200  {array}   dto.KardexResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /kardex/between [get]
func (h *KardexHandler) Between(c *fiber.Ctx) error {
	from, to, ok, err := dateRange(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if !ok {
		return badRequest(c, "startDate y endDate son requeridos")
	}
	typ := entity.MovementType(c.Query("type"))
	if typ != "" && !typ.Valid() {
		return badRequest(c, "type debe ser INCOME u OUTCOME")
	}
	out, err := h.uc.ListBetweenDates(c.UserContext(), *from, *to, typ)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// MostSold godoc
// @Summary      Productos más vendidos
// @Description  Sin fechas usa el último mes. limit por defecto 10.
// @Tags         kardex
// @Produce      json
// @Param        limit      query  int     false  "Cantidad de productos"
// @Param        startDate  query  string  false  "YYYY-MM-DD"
// @Param        endDate    query  string  false  "YYYY-MM-DD"
// @Success      200  {array}   dto.TopSoldProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /kardex/most-sold [get]
func (h *KardexHandler) MostSold(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return badRequest(c, err.Error())
	}
	from, to, _, err := dateRange(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	out, err := h.uc.GetMostSoldProductsReport(c.UserContext(), limit, from, to)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// EarningsReport godoc
// @Summary      Reporte de ganancias
// @Description  Ventas, costos, utilidad neta, top 10 por ingreso y ventas por categoría. Sin fechas usa el último mes.
// @Tags         kardex
// @Produce      json
// @Param        startDate  query  string  false  "YYYY-MM-DD"
// @Param        endDate    query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.EarningsReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /kardex/earnings-report [get]
func (h *KardexHandler) EarningsReport(c *fiber.Ctx) error {
	from, to, _, err := dateRange(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	out, err := h.uc.EarningsBetweenDatesDetailsProducts(c.UserContext(), from, to)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// EarningsReportPDF godoc
// @Summary      Reporte de ganancias en PDF
// @Tags         kardex
// @Produce      application/pdf
// @Param        startDate  query  string  false  "YYYY-MM-DD"
// @Param        endDate    query  string  false  "YYYY-MM-DD"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /kardex/earnings-report/pdf [get]
func (h *KardexHandler) EarningsReportPDF(c *fiber.Ctx) error {
	from, to, _, err := dateRange(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	body, err := h.uc.EarningsReportPDF(c.UserContext(), from, to)
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="reporte-ganancias.pdf"`)
	return c.Send(body)
}

// dateRange lee startDate/endDate; ok indica que ambos vinieron.
func dateRange(c *fiber.Ctx) (from, to *time.Time, ok bool, err error) {
	if from, err = queryDate(c, "startDate"); err != nil {
		return nil, nil, false, err
	}
	if to, err = queryDate(c, "endDate"); err != nil {
		return nil, nil, false, err
	}
	return from, to, from != nil && to != nil, nil
}
