package handler

import (
	"go-inventory-api/internal/apperr"
	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ChangeHandler serves the inventory change log and stock movements.
type ChangeHandler struct {
	service service.InventoryService
}

func NewChangeHandler(s service.InventoryService) *ChangeHandler {
	return &ChangeHandler{service: s}
}

// GetChanges
// GET /api/v1/changes?product=&reason=&from=&to=
func (h *ChangeHandler) GetChanges(c *fiber.Ctx) error {
	verr := &apperr.ValidationError{}
	filter := repository.ChangeFilter{
		ProductID: queryUUID(c, verr, "product"),
		Reason:    model.ChangeReason(c.Query("reason")),
		From:      queryTime(c, verr, "from", false),
		To:        queryTime(c, verr, "to", true),
	}
	if err := verr.OrNil(); err != nil {
		return writeError(c, err)
	}

	changes, err := h.service.ListChanges(c.UserContext(), middleware.ActorFrom(c), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(changes)
}

// GetChange
// GET /api/v1/changes/:id
func (h *ChangeHandler) GetChange(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	change, err := h.service.GetChange(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(change)
}

// CreateChange records a SALE, RESTOCK, RETURN or ADJUSTMENT
// POST /api/v1/changes
func (h *ChangeHandler) CreateChange(c *fiber.Ctx) error {
	var req service.RecordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	change, err := h.service.RecordChange(c.UserContext(), middleware.ActorFrom(c), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(change)
}
