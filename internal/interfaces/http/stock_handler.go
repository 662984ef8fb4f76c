package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-kardex/internal/application/dto"
	"github.com/jhoicas/Inventario-kardex/internal/application/stock"
)

// StockHandler maneja las peticiones HTTP de lotes de stock.
type StockHandler struct {
	responder
	uc *stock.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.StockUseCase, log zerolog.Logger) *StockHandler {
	return &StockHandler{responder: responder{log: log}, uc: uc}
}

// Create godoc
// @Summary      Crear lote de stock
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockRequest  true  "productId, quantity, purchaseUnitCost, providerId, purchaseDate, expiryDate"
// @Success      201   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /stock [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	var in dto.StockRequest
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
// @Summary      Listar lotes
// @Tags         stock
// @Produce      json
// @Param        limit   query  int  false  "Máximo de resultados (1-100, por defecto 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}   dto.StockResponse
// @Router       /stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
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
// @Summary      Obtener lote por ID
// @Tags         stock
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /stock/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar lote
// @Description  Solo se aplican los campos presentes; el costo total se recalcula.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del lote"
// @Param        body  body  dto.StockUpdateRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /stock/{id} [put]
func (h *StockHandler) Update(c *fiber.Ctx) error {
	var in dto.StockUpdateRequest
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
// @Summary      Eliminar lote
// @Tags         stock
// @Param        id   path  string  true  "ID del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /stock/{id} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListByProduct godoc
// @Summary      Lotes de un producto (orden de consumo)
// @Tags         stock
// @Produce      json
// @Param        productId  path  string  true  "Código del producto"
// @Success      200  {array}  dto.StockResponse
// @Router       /stock/product/{productId} [get]
func (h *StockHandler) ListByProduct(c *fiber.Ctx) error {
	out, err := h.uc.ListByProduct(c.UserContext(), c.Params("productId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Increment godoc
// @Summary      Sumar unidades al lote más antiguo
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockQuantityRequest  true  "productId, quantity"
// @Success      200   {object}  dto.StockResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /stock/increment [put]
func (h *StockHandler) Increment(c *fiber.Ctx) error {
	var in dto.StockQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido: "+err.Error())
	}
	out, err := h.uc.IncrementQuantity(c.UserContext(), in.ProductID, in.Quantity)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Decrement godoc
// @Summary      Descontar unidades por orden de vencimiento
// @Description  Consume lotes vigentes del más próximo a vencer al más lejano. El precio de venta debe
// @Description  estar dentro de la banda permitida respecto del costo de cada lote tocado.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockDecrementRequest  true  "productId, quantity, unitPrice"
// @Success      200   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /stock/decrement [put]
func (h *StockHandler) Decrement(c *fiber.Ctx) error {
	var in dto.StockDecrementRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido: "+err.Error())
	}
	out, err := h.uc.DecrementQuantity(c.UserContext(), in.ProductID, in.Quantity, in.UnitPrice)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// UpdateQuantity godoc
// @Summary      Fijar la cantidad del lote más antiguo
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockQuantityRequest  true  "productId, quantity"
// @Success      200   {object}  dto.StockResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /stock/quantity [put]
func (h *StockHandler) UpdateQuantity(c *fiber.Ctx) error {
	var in dto.StockQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido: "+err.Error())
	}
	out, err := h.uc.UpdateQuantity(c.UserContext(), in.ProductID, in.Quantity)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Total godoc
// @Summary      Stock vigente, vencido y total de un producto
// @Tags         stock
// @Produce      json
// @Param        productId  query  string  true  "Código del producto"
// @Success      200  {object}  dto.StockTotalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /stock/total [get]
func (h *StockHandler) Total(c *fiber.Ctx) error {
	productID := c.Query("productId")
	if productID == "" {
		return badRequest(c, "productId es requerido")
	}
	out, err := h.uc.GetTotalStock(c.UserContext(), productID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Expired godoc
// @Summary      Unidades vencidas de un producto
// @Tags         stock
// @Produce      json
// @Param        productId  path  string  true  "Código del producto"
// @Success      200  {integer}  int
// @Router       /stock/expired/{productId} [get]
func (h *StockHandler) Expired(c *fiber.Ctx) error {
	n, err := h.uc.GetExpiredStock(c.UserContext(), c.Params("productId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(n)
}

// Valid godoc
// @Summary      Unidades vigentes de un producto
// @Tags         stock
// @Produce      json
// @Param        productId  path  string  true  "Código del producto"
// @Success      200  {integer}  int
// @Router       /stock/valid/{productId} [get]
func (h *StockHandler) Valid(c *fiber.Ctx) error {
	n, err := h.uc.GetStockWithoutExpiringDate(c.UserContext(), c.Params("productId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(n)
}

// Threshold godoc
// @Summary      Productos por debajo de un umbral
// @Tags         stock
// @Produce      json
// @Param        threshold  query  int     true   "Umbral de unidades"
// @Param        category   query  string  false  "Nombre exacto de la categoría"
// @Success      200  {array}   dto.ProductStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /stock/threshold [get]
func (h *StockHandler) Threshold(c *fiber.Ctx) error {
	if c.Query("threshold") == "" {
		return badRequest(c, "threshold es requerido")
	}
	threshold, err := queryInt(c, "threshold", 0)
	if err != nil {
		return badRequest(c, err.Error())
	}
	out, err := h.uc.CheckStockThreshold(c.UserContext(), threshold, c.Query("category"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Status godoc
// @Summary      Estado de inventario por producto
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InventoryStatusRequest  true  "Umbral de LOW_STOCK por producto"
// @Success      200   {array}  dto.InventoryStatusResponse
// @Router       /stock/status [post]
func (h *StockHandler) Status(c *fiber.Ctx) error {
	var in dto.InventoryStatusRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "cuerpo inválido: "+err.Error())
		}
	}
	out, err := h.uc.GetInventoryStatus(c.UserContext(), in.Thresholds)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Valuation godoc
// @Summary      Valorización del stock vigente (costo promedio ponderado)
// @Tags         stock
// @Produce      json
// @Param        productId  path  string  true  "Código del producto"
// @Success      200  {object}  dto.StockValuationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /stock/valuation/{productId} [get]
func (h *StockHandler) Valuation(c *fiber.Ctx) error {
	out, err := h.uc.GetValuation(c.UserContext(), c.Params("productId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
