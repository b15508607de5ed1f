package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/patriciaayrah/order-management-system/internal/service"
	"github.com/patriciaayrah/order-management-system/pkg/logger"
	"go.uber.org/zap"
)

// OrderHandler serves the order endpoints.
type OrderHandler struct {
	orders *service.OrderService
}

// NewOrderHandler wires the order endpoints.
func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles retrieving all orders as aggregated views
func (h *OrderHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	views, err := h.orders.List()
	if err != nil {
		log.Error("Failed to list orders", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve orders",
		})
	}

	log.Info("Orders retrieved successfully", zap.Int("count", len(views)))
	return c.JSON(http.StatusOK, views)
}

// Create handles submitting an order transition. The same endpoint serves
// creation, confirmation and cancellation; the status field decides.
func (h *OrderHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req service.SubmitOrderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	order, err := h.orders.Submit(&req)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			log.Warn("Order validation failed",
				zap.String("status", req.Status),
				zap.Int("fields", len(validationErr.Errors)))
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"success": false,
				"message": "Validation failed.",
				"errors":  validationErr.Errors,
			})
		}
		log.Error("Failed to process order",
			zap.String("status", req.Status),
			zap.String("order_number", req.OrderNumber),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Failed to process order.",
		})
	}

	log.Info("Order processed successfully",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", order.Status))
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Order processed successfully.",
		"data":    order,
	})
}

// Get handles retrieving one logical order by its order number
func (h *OrderHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	orderNumber := c.Param("id")

	view, err := h.orders.Get(orderNumber)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			log.Warn("Order not found", zap.String("order_number", orderNumber))
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Order not found"})
		}
		log.Error("Failed to retrieve order",
			zap.String("order_number", orderNumber),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve order",
		})
	}

	return c.JSON(http.StatusOK, view)
}
