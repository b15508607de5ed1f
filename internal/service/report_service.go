package service

import (
	"sort"
	"time"

	"github.com/patriciaayrah/order-management-system/internal/model"
	"github.com/patriciaayrah/order-management-system/internal/repository"
	"github.com/patriciaayrah/order-management-system/prometheus"
)

// Products with less stock than this show up in the low-stock list.
const lowStockThreshold = 5

// ReportProduct is the trimmed product shape used in the report's inventory
// lists.
type ReportProduct struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	StockQuantity int    `json:"stock_quantity"`
}

// OrdersSummary counts stored order rows by status. Rows, not logical
// orders: an order with two status rows contributes to two buckets.
type OrdersSummary struct {
	Total     int64 `json:"total"`
	Created   int64 `json:"created"`
	Confirmed int64 `json:"confirmed"`
	Cancelled int64 `json:"cancelled"`
}

// Revenue holds the revenue figures of the report.
type Revenue struct {
	TotalRevenue float64 `json:"total_revenue"`
}

// InventoryOverview summarizes product stock health.
type InventoryOverview struct {
	TotalProducts      int64           `json:"total_products"`
	LowStockCount      int             `json:"low_stock_count"`
	LowStockProducts   []ReportProduct `json:"low_stock_products"`
	OutOfStockCount    int             `json:"out_of_stock_count"`
	OutOfStockProducts []ReportProduct `json:"out_of_stock_products"`
}

// ReportSnapshot is the dashboard report body.
type ReportSnapshot struct {
	OrdersSummary OrdersSummary     `json:"orders_summary"`
	Revenue       Revenue           `json:"revenue"`
	Inventory     InventoryOverview `json:"inventory"`
}

// ReportService computes summary counts and sums over orders and products.
type ReportService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
}

// NewReportService wires the reporting aggregator.
func NewReportService(orders repository.OrderRepository, products repository.ProductRepository) *ReportService {
	return &ReportService{orders: orders, products: products}
}

// BuildReport assembles the dashboard snapshot.
func (s *ReportService) BuildReport() (*ReportSnapshot, error) {
	start := time.Now()

	summary, err := s.ordersSummary()
	if err != nil {
		return nil, err
	}

	revenue, err := s.totalRevenue()
	if err != nil {
		return nil, err
	}

	inventory, err := s.inventoryOverview()
	if err != nil {
		return nil, err
	}

	prometheus.ReportGenerationDuration.Observe(time.Since(start).Seconds())

	return &ReportSnapshot{
		OrdersSummary: *summary,
		Revenue:       Revenue{TotalRevenue: revenue},
		Inventory:     *inventory,
	}, nil
}

func (s *ReportService) ordersSummary() (*OrdersSummary, error) {
	total, err := s.orders.Count()
	if err != nil {
		return nil, operationFailed("order count", err)
	}
	created, err := s.orders.CountByStatus(model.OrderStatusCreated)
	if err != nil {
		return nil, operationFailed("order count", err)
	}
	confirmed, err := s.orders.CountByStatus(model.OrderStatusConfirmed)
	if err != nil {
		return nil, operationFailed("order count", err)
	}
	cancelled, err := s.orders.CountByStatus(model.OrderStatusCancelled)
	if err != nil {
		return nil, operationFailed("order count", err)
	}
	return &OrdersSummary{
		Total:     total,
		Created:   created,
		Confirmed: confirmed,
		Cancelled: cancelled,
	}, nil
}

// totalRevenue sums the totals of logical orders that reached confirmation
// and were never cancelled. An order confirmed and later cancelled
// contributes nothing.
func (s *ReportService) totalRevenue() (float64, error) {
	rows, err := s.orders.List()
	if err != nil {
		return 0, operationFailed("order list", err)
	}

	groups := make(map[string][]model.Order)
	for _, row := range rows {
		groups[row.OrderNumber] = append(groups[row.OrderNumber], row)
	}

	var revenue float64
	for _, group := range groups {
		hasConfirmed := false
		hasCancelled := false
		for _, row := range group {
			switch row.Status {
			case model.OrderStatusConfirmed:
				hasConfirmed = true
			case model.OrderStatusCancelled:
				hasCancelled = true
			}
		}
		if !hasConfirmed || hasCancelled {
			continue
		}
		// The group counts once, at its current snapshot's total.
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].UpdatedAt.Equal(group[j].UpdatedAt) {
				return group[i].ID < group[j].ID
			}
			return group[i].UpdatedAt.Before(group[j].UpdatedAt)
		})
		revenue += group[len(group)-1].TotalAmount
	}
	return revenue, nil
}

func (s *ReportService) inventoryOverview() (*InventoryOverview, error) {
	total, err := s.products.Count()
	if err != nil {
		return nil, operationFailed("product count", err)
	}
	lowStock, err := s.products.ListStockBelow(lowStockThreshold)
	if err != nil {
		return nil, operationFailed("low stock query", err)
	}
	outOfStock, err := s.products.ListOutOfStock()
	if err != nil {
		return nil, operationFailed("out of stock query", err)
	}
	return &InventoryOverview{
		TotalProducts:      total,
		LowStockCount:      len(lowStock),
		LowStockProducts:   reportProducts(lowStock),
		OutOfStockCount:    len(outOfStock),
		OutOfStockProducts: reportProducts(outOfStock),
	}, nil
}

func reportProducts(products []model.Product) []ReportProduct {
	out := make([]ReportProduct, 0, len(products))
	for _, p := range products {
		out = append(out, ReportProduct{
			ID:            p.ID,
			Name:          p.Name,
			StockQuantity: p.StockQuantity,
		})
	}
	return out
}
