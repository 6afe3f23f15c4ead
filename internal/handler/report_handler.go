package handler

import (
	"strconv"

	"go-inventory-api/internal/apperr"
	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// queryOptionalInt returns nil when the parameter is absent.
func queryOptionalInt(c *fiber.Ctx, verr *apperr.ValidationError, name string) *int {
	if c.Query(name) == "" {
		return nil
	}
	n := queryInt(c, verr, name, 0)
	return &n
}

func queryInt(c *fiber.Ctx, verr *apperr.ValidationError, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		verr.Add(name, "int", "must be an integer")
		return fallback
	}
	return n
}

// GetInventoryReport
// GET /api/v1/products/report?as_of=&window_days=
func (h *ReportHandler) GetInventoryReport(c *fiber.Ctx) error {
	verr := &apperr.ValidationError{}
	asOf := queryTime(c, verr, "as_of", true)
	window := queryOptionalInt(c, verr, "window_days")
	if err := verr.OrNil(); err != nil {
		return writeError(c, err)
	}

	report, err := h.service.GetInventoryReport(c.UserContext(), middleware.ActorFrom(c), asOf, window)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report.ToResponse())
}

// GetStockMovement returns stock movement data for charts
// Query params: days (default 7)
func (h *ReportHandler) GetStockMovement(c *fiber.Ctx) error {
	verr := &apperr.ValidationError{}
	days := queryInt(c, verr, "days", 7)
	if err := verr.OrNil(); err != nil {
		return writeError(c, err)
	}

	data, err := h.service.GetStockMovement(c.UserContext(), middleware.ActorFrom(c), days)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}
