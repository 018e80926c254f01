package handler

import (
	"go-stock-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type StockHandler struct {
	service service.StockService
}

func NewStockHandler(s service.StockService) *StockHandler {
	return &StockHandler{service: s}
}

// getUserID extracts the authenticated user's ID from the JWT context
// (set by the auth middleware).
func getUserID(c *fiber.Ctx) *uuid.UUID {
	raw, ok := c.Locals("user_id").(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// Restock handles stock-in: creates the product on first restock, otherwise
// adds to its quantity.
// POST /api/v1/products
func (h *StockHandler) Restock(c *fiber.Ctx) error {
	var req service.RestockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.Restock(&req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Stock updated", "data": product})
}

// GET /api/v1/products
func (h *StockHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// PUT /api/v1/products/:name
func (h *StockHandler) EditProduct(c *fiber.Ctx) error {
	name := paramName(c, "name")

	var req service.EditProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.EditProduct(name, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// DELETE /api/v1/products/:name
func (h *StockHandler) DeleteProduct(c *fiber.Ctx) error {
	name := paramName(c, "name")

	if err := h.service.DeleteProduct(name); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product removed"})
}

// Withdraw decrements stock and logs the movement.
// POST /api/v1/withdrawals
func (h *StockHandler) Withdraw(c *fiber.Ctx) error {
	var req service.WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	movement, err := h.service.Withdraw(&req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Withdrawal recorded", "data": movement})
}

// GET /api/v1/movements
func (h *StockHandler) GetMovements(c *fiber.Ctx) error {
	movements, err := h.service.GetMovements()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movements)
}

// DELETE /api/v1/movements
func (h *StockHandler) ClearMovements(c *fiber.Ctx) error {
	if err := h.service.ClearMovements(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Movement history cleared"})
}

// RecordSale is the checkout endpoint.
// POST /api/v1/sales
func (h *StockHandler) RecordSale(c *fiber.Ctx) error {
	var req service.SaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.service.RecordSale(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Sale recorded", "data": sale})
}

// GET /api/v1/sales
func (h *StockHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.service.GetSales()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sales)
}
