package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/patriciaayrah/order-management-system/internal/model"
	"github.com/patriciaayrah/order-management-system/internal/repository"
	"github.com/patriciaayrah/order-management-system/pkg/logger"
	"github.com/patriciaayrah/order-management-system/prometheus"
	"go.uber.org/zap"
)

// OrderItemRequest is one requested line item.
type OrderItemRequest struct {
	ProductID uint    `json:"product_id"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// SubmitOrderRequest is the inbound payload for every order transition.
// TotalAmount is accepted but never trusted; the stored total is recomputed
// from the items. OrderNumber is optional: confirming or cancelling an
// existing order should carry the original number so the new row joins the
// same timeline.
type SubmitOrderRequest struct {
	Status      string             `json:"status"`
	TotalAmount float64            `json:"total_amount"`
	OrderNumber string             `json:"order_number"`
	Items       []OrderItemRequest `json:"items"`
}

// OrderStatusEntry is one step of a logical order's status timeline.
type OrderStatusEntry struct {
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderView is one logical order: the earliest stored row of its group with
// the current status and updated_at applied, the items of every row in the
// group flattened together, and the full status timeline.
type OrderView struct {
	ID          uint               `json:"id"`
	OrderNumber string             `json:"order_number"`
	Status      string             `json:"status"`
	TotalAmount float64            `json:"total_amount"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Items       []model.OrderItem  `json:"order_item"`
	Statuses    []OrderStatusEntry `json:"statuses"`
}

// OrderService runs the order lifecycle: validation, totals, persistence and
// dispatch to the stock ledger. Status transitions never mutate an existing
// order row, they insert a new one under the same order number.
type OrderService struct {
	orders   repository.OrderRepository
	items    repository.OrderItemRepository
	products repository.ProductRepository
	ledger   *StockLedger
}

// NewOrderService wires the lifecycle engine.
func NewOrderService(orders repository.OrderRepository, items repository.OrderItemRepository, products repository.ProductRepository, ledger *StockLedger) *OrderService {
	return &OrderService{
		orders:   orders,
		items:    items,
		products: products,
		ledger:   ledger,
	}
}

// Submit validates and persists one order transition.
//
// Writes are sequential without a surrounding transaction: an order row that
// was inserted before a later step fails stays inserted. Two concurrent
// confirmations of the same product can also both read the same
// pre-deduction stock.
func (s *OrderService) Submit(req *SubmitOrderRequest) (*model.Order, error) {
	log := logger.GetLogger()

	if err := s.validate(req); err != nil {
		return nil, err
	}

	orderNumber := req.OrderNumber
	if orderNumber == "" {
		generated, err := s.GenerateOrderNumber()
		if err != nil {
			return nil, err
		}
		orderNumber = generated
	}

	// Recalculate the total from the items; the caller-supplied value is
	// ignored to keep stored totals consistent with the line items.
	var computedTotal float64
	for _, item := range req.Items {
		computedTotal += item.UnitPrice * float64(item.Quantity)
	}

	order := &model.Order{
		OrderNumber: orderNumber,
		Status:      req.Status,
		TotalAmount: computedTotal,
	}
	if err := s.orders.Create(order); err != nil {
		return nil, operationFailed("order insert", err)
	}

	orderItems := make([]model.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		orderItems = append(orderItems, model.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	switch order.Status {
	case model.OrderStatusCreated:
		// Stock is only conceptually reserved until confirmation.
		if err := s.items.BulkInsert(orderItems); err != nil {
			return nil, operationFailed("order item insert", err)
		}
	case model.OrderStatusConfirmed:
		if err := s.ledger.DeductForConfirmation(orderItems); err != nil {
			return nil, err
		}
	case model.OrderStatusCancelled:
		if err := s.ledger.RestoreForCancellation(orderItems); err != nil {
			return nil, err
		}
	}

	prometheus.RecordOrderOperation(order.Status)
	log.Info("Order processed",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", order.Status),
		zap.Float64("total_amount", order.TotalAmount),
		zap.Int("items", len(req.Items)))

	return order, nil
}

// GenerateOrderNumber produces ORD-{YYYYMMDD}-{seq} where seq is the latest
// order row id plus one, zero-padded to four digits.
//
// Known limitation: the read-then-increment is not collision-free when two
// submissions without an order number race each other.
func (s *OrderService) GenerateOrderNumber() (string, error) {
	latestID, err := s.orders.LatestID()
	if err != nil {
		return "", operationFailed("order number generation", err)
	}
	date := time.Now().Format("20060102")
	return fmt.Sprintf("ORD-%s-%04d", date, latestID+1), nil
}

// Get returns the aggregate view of one logical order.
func (s *OrderService) Get(orderNumber string) (*OrderView, error) {
	rows, err := s.orders.FindByOrderNumber(orderNumber)
	if err != nil {
		return nil, operationFailed("order lookup", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	views := aggregate(rows)
	return &views[0], nil
}

// List returns the aggregate view of every logical order, ordered by the
// creation time of each order's earliest row.
func (s *OrderService) List() ([]OrderView, error) {
	rows, err := s.orders.List()
	if err != nil {
		return nil, operationFailed("order list", err)
	}
	return aggregate(rows), nil
}

// aggregate collapses stored status rows into one view per order number.
func aggregate(rows []model.Order) []OrderView {
	groups := make(map[string][]model.Order)
	numbers := make([]string, 0)
	for _, row := range rows {
		if _, seen := groups[row.OrderNumber]; !seen {
			numbers = append(numbers, row.OrderNumber)
		}
		groups[row.OrderNumber] = append(groups[row.OrderNumber], row)
	}

	views := make([]OrderView, 0, len(numbers))
	for _, number := range numbers {
		views = append(views, aggregateGroup(groups[number]))
	}

	// Order groups by the creation time of each group's earliest row.
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].ID < views[j].ID
		}
		return views[i].CreatedAt.Before(views[j].CreatedAt)
	})
	return views
}

func aggregateGroup(rows []model.Order) OrderView {
	// Chronological timeline; id breaks ties because rows written in one
	// request can share a timestamp.
	sorted := make([]model.Order, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].UpdatedAt.Equal(sorted[j].UpdatedAt) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].UpdatedAt.Before(sorted[j].UpdatedAt)
	})

	// The representative row is the first inserted one; the current
	// snapshot is the latest.
	representative := sorted[0]
	for _, row := range sorted {
		if row.ID < representative.ID {
			representative = row
		}
	}
	current := sorted[len(sorted)-1]

	view := OrderView{
		ID:          representative.ID,
		OrderNumber: representative.OrderNumber,
		Status:      current.Status,
		TotalAmount: representative.TotalAmount,
		CreatedAt:   representative.CreatedAt,
		UpdatedAt:   current.UpdatedAt,
		Items:       make([]model.OrderItem, 0),
		Statuses:    make([]OrderStatusEntry, 0, len(sorted)),
	}
	for _, row := range sorted {
		view.Items = append(view.Items, row.Items...)
		view.Statuses = append(view.Statuses, OrderStatusEntry{
			Status:    row.Status,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return view
}

// validate checks the full request shape and the referential integrity of
// every item, reporting all offending fields at once.
func (s *OrderService) validate(req *SubmitOrderRequest) error {
	v := NewValidationError()

	switch req.Status {
	case "":
		v.Add("status", "The status field is required.")
	case model.OrderStatusCreated, model.OrderStatusConfirmed, model.OrderStatusCancelled:
	default:
		v.Add("status", "The selected status is invalid.")
	}

	if req.TotalAmount < 0 {
		v.Add("total_amount", "The total_amount must be at least 0.")
	}

	if len(req.Items) == 0 {
		v.Add("items", "The items field is required.")
	}

	for i, item := range req.Items {
		if item.ProductID == 0 {
			v.Add(fmt.Sprintf("items.%d.product_id", i), fmt.Sprintf("The items.%d.product_id field is required.", i))
		} else if _, err := s.products.Find(item.ProductID); err != nil {
			if err == repository.ErrNotFound {
				v.Add(fmt.Sprintf("items.%d.product_id", i), fmt.Sprintf("The selected items.%d.product_id is invalid.", i))
			} else {
				return operationFailed("product lookup", err)
			}
		}
		if item.UnitPrice < 0 {
			v.Add(fmt.Sprintf("items.%d.unit_price", i), fmt.Sprintf("The items.%d.unit_price must be at least 0.", i))
		}
		if item.Quantity < 1 {
			v.Add(fmt.Sprintf("items.%d.quantity", i), fmt.Sprintf("The items.%d.quantity must be at least 1.", i))
		}
	}

	if v.HasErrors() {
		return v
	}
	return nil
}
