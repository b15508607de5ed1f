package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/patriciaayrah/order-management-system/internal/model"
	"github.com/patriciaayrah/order-management-system/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderLifecycleEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Widget", 10)

	// Step 1: create. Total must be recomputed, stock untouched, no log.
	body := fmt.Sprintf(`{"status":"created","total_amount":1,"items":[{"product_id":%d,"unit_price":100,"quantity":2}]}`, product.ID)
	c, rec := env.jsonRequest(http.MethodPost, "/api/orders", body)
	require.NoError(t, env.orders.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			OrderNumber string  `json:"order_number"`
			Status      string  `json:"status"`
			TotalAmount float64 `json:"total_amount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.Equal(t, "Order processed successfully.", created.Message)
	assert.Equal(t, model.OrderStatusCreated, created.Data.Status)
	assert.InDelta(t, 200, created.Data.TotalAmount, 0.001)
	assert.Regexp(t, `^ORD-\d{8}-0001$`, created.Data.OrderNumber)

	var after model.Product
	require.NoError(t, env.db.First(&after, product.ID).Error)
	assert.Equal(t, 10, after.StockQuantity)

	var logCount int64
	require.NoError(t, env.db.Model(&model.InventoryLog{}).Count(&logCount).Error)
	assert.EqualValues(t, 0, logCount)

	// Step 2: confirm under the same order number. Stock drops, one log
	// entry appears, a second row joins the timeline.
	body = fmt.Sprintf(`{"status":"confirmed","total_amount":200,"order_number":%q,"items":[{"product_id":%d,"unit_price":100,"quantity":2}]}`,
		created.Data.OrderNumber, product.ID)
	c, rec = env.jsonRequest(http.MethodPost, "/api/orders", body)
	require.NoError(t, env.orders.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NoError(t, env.db.First(&after, product.ID).Error)
	assert.Equal(t, 8, after.StockQuantity)

	var entries []model.InventoryLog
	require.NoError(t, env.db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ChangeTypeDeduction, entries[0].ChangeType)
	assert.Equal(t, -2, entries[0].QuantityChange)

	// Step 3: the aggregate view reports the confirmed state with a
	// two-entry timeline.
	c, rec = env.jsonRequest(http.MethodGet, "/api/orders/"+created.Data.OrderNumber, "")
	c.SetParamNames("id")
	c.SetParamValues(created.Data.OrderNumber)
	require.NoError(t, env.orders.Get(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var view service.OrderView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, model.OrderStatusConfirmed, view.Status)
	require.Len(t, view.Statuses, 2)
	assert.Equal(t, model.OrderStatusCreated, view.Statuses[0].Status)
	assert.Equal(t, model.OrderStatusConfirmed, view.Statuses[1].Status)
	require.Len(t, view.Items, 1)
}

func TestOrderCreateValidationEnvelope(t *testing.T) {
	env := newTestEnv(t)

	c, rec := env.jsonRequest(http.MethodPost, "/api/orders", `{"status":"shipped","total_amount":10,"items":[]}`)
	require.NoError(t, env.orders.Create(c))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Success bool                `json:"success"`
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Validation failed.", resp.Message)
	assert.Contains(t, resp.Errors, "status")
	assert.Contains(t, resp.Errors, "items")
}

func TestOrderGetNotFound(t *testing.T) {
	env := newTestEnv(t)

	c, rec := env.jsonRequest(http.MethodGet, "/api/orders/ORD-NOPE", "")
	c.SetParamNames("id")
	c.SetParamValues("ORD-NOPE")
	require.NoError(t, env.orders.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderListAggregates(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Widget", 10)

	body := fmt.Sprintf(`{"status":"created","total_amount":0,"items":[{"product_id":%d,"unit_price":5,"quantity":1}]}`, product.ID)
	c, rec := env.jsonRequest(http.MethodPost, "/api/orders", body)
	require.NoError(t, env.orders.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = env.jsonRequest(http.MethodGet, "/api/orders", "")
	require.NoError(t, env.orders.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var views []service.OrderView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, model.OrderStatusCreated, views[0].Status)
	assert.Len(t, views[0].Statuses, 1)
}
