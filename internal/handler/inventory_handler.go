package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/patriciaayrah/order-management-system/internal/repository"
	"github.com/patriciaayrah/order-management-system/internal/service"
	"github.com/patriciaayrah/order-management-system/pkg/logger"
	"go.uber.org/zap"
)

// StockUpdateRequest sets a product's stock to an absolute quantity.
type StockUpdateRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  *int `json:"quantity"`
}

// InventoryHandler serves the inventory log endpoints and manual stock
// edits.
type InventoryHandler struct {
	logs   repository.InventoryLogRepository
	ledger *service.StockLedger
}

// NewInventoryHandler wires the inventory endpoints.
func NewInventoryHandler(logs repository.InventoryLogRepository, ledger *service.StockLedger) *InventoryHandler {
	return &InventoryHandler{logs: logs, ledger: ledger}
}

// List handles retrieving the full audit trail
func (h *InventoryHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	entries, err := h.logs.List()
	if err != nil {
		log.Error("Failed to list inventory logs", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve inventory logs",
		})
	}

	log.Info("Inventory logs retrieved successfully", zap.Int("count", len(entries)))
	return c.JSON(http.StatusOK, entries)
}

// Get handles retrieving one product's audit trail, newest first
func (h *InventoryHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	productID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Inventory not found"})
	}

	entries, err := h.logs.ListByProduct(productID)
	if err != nil {
		log.Error("Failed to list inventory logs",
			zap.Uint("product_id", productID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve inventory logs",
		})
	}

	return c.JSON(http.StatusOK, entries)
}

// Create handles a manual corrective stock edit. The body carries the new
// absolute quantity; the ledger derives the change type and writes the
// audit entry.
func (h *InventoryHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req StockUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	v := service.NewValidationError()
	if req.ProductID == 0 {
		v.Add("product_id", "The product_id field is required.")
	}
	if req.Quantity == nil {
		v.Add("quantity", "The quantity field is required.")
	}
	if v.HasErrors() {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"success": false,
			"errors":  v.Errors,
		})
	}

	change, err := h.ledger.SetStock(req.ProductID, *req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			log.Warn("Product not found for stock update", zap.Uint("product_id", req.ProductID))
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
		}
		log.Error("Failed to update stock",
			zap.Uint("product_id", req.ProductID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Failed to update stock.",
		})
	}

	log.Info("Stock updated successfully",
		zap.Uint("product_id", req.ProductID),
		zap.String("change_type", change.ChangeType),
		zap.Int("quantity_change", change.QuantityChange))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Stock updated successfully.",
		"data": echo.Map{
			"product":         change.Product,
			"change_type":     change.ChangeType,
			"quantity_change": change.QuantityChange,
		},
	})
}
