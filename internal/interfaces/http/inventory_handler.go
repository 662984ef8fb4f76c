package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-kardex/internal/application/dto"
	"github.com/jhoicas/Inventario-kardex/internal/application/inventory"
)

// InventoryHandler recibe las compras y ventas confirmadas por otros servicios.
type InventoryHandler struct {
	responder
	uc *inventory.ManagementInventoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.ManagementInventoryUseCase, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{responder: responder{log: log}, uc: uc}
}

// RegisterPurchase godoc
// @Summary      Registrar compra
// @Description  Crea el lote y el movimiento INCOME en una misma transacción.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseInventoryRequest  true  "quantity, purchaseUnitCost, providerId, productId, expiryDate"
// @Success      201   {object}  dto.InventoryRegistrationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /inventory/register-purchase [post]
func (h *InventoryHandler) RegisterPurchase(c *fiber.Ctx) error {
	var in dto.PurchaseInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido: "+err.Error())
	}
	out, err := h.uc.RegisterInputInventory(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RegisterSale godoc
// @Summary      Registrar venta
// @Description  Descuenta stock por orden de vencimiento y crea el movimiento OUTCOME. Si algo falla no queda ningún cambio.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleInventoryRequest  true  "quantity, unitPrice, productId"
// @Success      201   {object}  dto.InventoryRegistrationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /inventory/register-sale [post]
func (h *InventoryHandler) RegisterSale(c *fiber.Ctx) error {
	var in dto.SaleInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido: "+err.Error())
	}
	out, err := h.uc.RegisterOutputInventory(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
