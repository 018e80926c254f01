package handler

import (
	"go-stock-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GET /api/v1/reports/low-stock
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	products, err := h.reportService.LowStock()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// GET /api/v1/reports/expiry
func (h *ReportHandler) Expiry(c *fiber.Ctx) error {
	items, err := h.reportService.ExpiringSoon()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// GET /api/v1/reports/revenue
func (h *ReportHandler) Revenue(c *fiber.Ctx) error {
	revenue, err := h.reportService.RevenueByDay()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(revenue)
}

// GET /api/v1/reports/top-sellers?limit=10
func (h *ReportHandler) TopSellers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	sellers, err := h.reportService.TopSellers(limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sellers)
}

// GET /api/v1/reports/bottom-sellers?limit=10
func (h *ReportHandler) BottomSellers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	sellers, err := h.reportService.BottomSellers(limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sellers)
}

// GET /api/v1/reports/average-ticket
func (h *ReportHandler) AverageTicket(c *fiber.Ctx) error {
	avg, err := h.reportService.AverageTicket()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"average_ticket": avg})
}

// GET /api/v1/dashboard/stats
func (h *ReportHandler) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.reportService.DashboardStats()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
