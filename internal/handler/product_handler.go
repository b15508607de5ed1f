package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/patriciaayrah/order-management-system/internal/model"
	"github.com/patriciaayrah/order-management-system/internal/repository"
	"github.com/patriciaayrah/order-management-system/internal/service"
	"github.com/patriciaayrah/order-management-system/pkg/logger"
	"github.com/patriciaayrah/order-management-system/prometheus"
	"go.uber.org/zap"
)

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
}

// ProductHandler serves the product catalog endpoints.
type ProductHandler struct {
	products repository.ProductRepository
	ledger   *service.StockLedger
}

// NewProductHandler wires the product endpoints.
func NewProductHandler(products repository.ProductRepository, ledger *service.StockLedger) *ProductHandler {
	return &ProductHandler{products: products, ledger: ledger}
}

// List handles retrieving all products
func (h *ProductHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	products, err := h.products.List()
	if err != nil {
		log.Error("Failed to list products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve products",
		})
	}

	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// Get handles retrieving a single product by ID
func (h *ProductHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
	}

	product, err := h.products.Find(id)
	if err != nil {
		log.Warn("Product not found", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
	}

	return c.JSON(http.StatusOK, product)
}

// Create handles creating a new product. The opening stock quantity lands in
// the inventory log as the product's initial stock.
func (h *ProductHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	v := service.NewValidationError()
	if req.Name == "" {
		v.Add("name", "The name field is required.")
	} else {
		count, err := h.products.CountByName(req.Name, 0)
		if err != nil {
			log.Error("Failed to check product name", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "Failed to create product",
			})
		}
		if count > 0 {
			v.Add("name", "The name has already been taken.")
		}
	}
	if req.Description == "" {
		v.Add("description", "The description field is required.")
	}
	if req.Price < 0 {
		v.Add("price", "The price must be at least 0.")
	}
	if req.StockQuantity < 0 {
		v.Add("stock_quantity", "The stock_quantity must be at least 0.")
	}
	if v.HasErrors() {
		log.Warn("Product validation failed", zap.Int("fields", len(v.Errors)))
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"success": false,
			"errors":  v.Errors,
		})
	}

	product := model.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	}
	if err := h.products.Create(&product); err != nil {
		log.Error("Failed to create product",
			zap.String("name", req.Name),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create product",
		})
	}

	if err := h.ledger.RecordInitialStock(&product); err != nil {
		log.Error("Failed to log initial stock",
			zap.Uint("product_id", product.ID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create product",
		})
	}

	prometheus.RecordProductOperation("create")
	log.Info("Product created successfully",
		zap.String("product_id", strconv.FormatUint(uint64(product.ID), 10)),
		zap.String("name", product.Name),
		zap.Int("stock_quantity", product.StockQuantity))
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    product,
	})
}

// Update handles editing an existing product. Stock is excluded on purpose,
// stock changes go through the inventory endpoints so they hit the ledger.
func (h *ProductHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "product not found"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	product, err := h.products.Find(id)
	if err != nil {
		log.Warn("Product not found for update", zap.Uint("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"message": "product not found"})
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Price != 0 {
		product.Price = req.Price
	}

	if err := h.products.Update(product); err != nil {
		log.Error("Failed to update product",
			zap.Uint("product_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update product",
		})
	}

	prometheus.RecordProductOperation("update")
	log.Info("Product updated successfully",
		zap.Uint("product_id", id),
		zap.String("name", product.Name))
	return c.JSON(http.StatusOK, product)
}

// Delete handles removing a product
func (h *ProductHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "product not found"})
	}

	if err := h.products.Delete(id); err != nil {
		if err == repository.ErrNotFound {
			log.Warn("Product not found for deletion", zap.Uint("product_id", id))
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "product not found"})
		}
		log.Error("Failed to delete product",
			zap.Uint("product_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete product",
		})
	}

	prometheus.RecordProductOperation("delete")
	log.Info("Product deleted successfully", zap.Uint("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "product deleted"})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
