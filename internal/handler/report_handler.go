package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/patriciaayrah/order-management-system/internal/service"
	"github.com/patriciaayrah/order-management-system/pkg/logger"
	"go.uber.org/zap"
)

// ReportHandler serves the dashboard report endpoint.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler wires the report endpoint.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Get handles building and returning the dashboard report
func (h *ReportHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)

	snapshot, err := h.reports.BuildReport()
	if err != nil {
		log.Error("Report generation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Failed to generate report.",
		})
	}

	log.Info("Report generated successfully",
		zap.Int64("total_orders", snapshot.OrdersSummary.Total),
		zap.Float64("total_revenue", snapshot.Revenue.TotalRevenue))
	return c.JSON(http.StatusOK, snapshot)
}
