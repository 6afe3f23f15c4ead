package handler

import (
	"go-inventory-api/internal/apperr"
	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	service service.InventoryService
}

func NewProductHandler(s service.InventoryService) *ProductHandler {
	return &ProductHandler{service: s}
}

// GetProducts lists the caller's products
// GET /api/v1/products?name=&category=&store=&price=&search=&ordering=
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	verr := &apperr.ValidationError{}
	filter := repository.ProductFilter{
		Name:       c.Query("name"),
		CategoryID: queryUUID(c, verr, "category"),
		StoreID:    queryUUID(c, verr, "store"),
		Search:     c.Query("search"),
		Ordering:   c.Query("ordering"),
	}
	if raw := c.Query("price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			verr.Add("price", "decimal", "must be a decimal number")
		} else {
			filter.Price = &price
		}
	}
	if err := verr.OrNil(); err != nil {
		return writeError(c, err)
	}

	products, err := h.service.ListProducts(c.UserContext(), middleware.ActorFrom(c), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(model.ToProductResponses(products))
}

// GetProduct
// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	product, err := h.service.GetProduct(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(product.ToResponse())
}

// CreateProduct
// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	product, err := h.service.CreateProduct(c.UserContext(), middleware.ActorFrom(c), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product.ToResponse())
}

// UpdateProduct applies a partial update; PUT and PATCH behave the same.
// PATCH /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req service.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	product, err := h.service.UpdateProduct(c.UserContext(), middleware.ActorFrom(c), id, &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(product.ToResponse())
}

// DeleteProduct
// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.service.DeleteProduct(c.UserContext(), middleware.ActorFrom(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetLowStock lists products at or below their reorder level
// GET /api/v1/products/low-stock
func (h *ProductHandler) GetLowStock(c *fiber.Ctx) error {
	products, err := h.service.ListLowStock(c.UserContext(), middleware.ActorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(model.ToProductResponses(products))
}

// GetChangeHistory returns the product's change records, newest first
// GET /api/v1/products/:id/history
func (h *ProductHandler) GetChangeHistory(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	changes, err := h.service.GetChangeHistory(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(changes)
}
