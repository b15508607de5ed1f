package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/patriciaayrah/order-management-system/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportEndpoint(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Widget", 3)

	// One confirmed, never cancelled order worth 200.
	body := fmt.Sprintf(`{"status":"created","total_amount":0,"items":[{"product_id":%d,"unit_price":100,"quantity":2}]}`, product.ID)
	c, rec := env.jsonRequest(http.MethodPost, "/api/orders", body)
	require.NoError(t, env.orders.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Data struct {
			OrderNumber string `json:"order_number"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	body = fmt.Sprintf(`{"status":"confirmed","total_amount":0,"order_number":%q,"items":[{"product_id":%d,"unit_price":100,"quantity":2}]}`,
		created.Data.OrderNumber, product.ID)
	c, rec = env.jsonRequest(http.MethodPost, "/api/orders", body)
	require.NoError(t, env.orders.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = env.jsonRequest(http.MethodGet, "/api/reports", "")
	require.NoError(t, env.reports.Get(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot service.ReportSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.EqualValues(t, 2, snapshot.OrdersSummary.Total)
	assert.EqualValues(t, 1, snapshot.OrdersSummary.Created)
	assert.EqualValues(t, 1, snapshot.OrdersSummary.Confirmed)
	assert.InDelta(t, 200, snapshot.Revenue.TotalRevenue, 0.001)

	// Confirmation dropped stock from 3 to 1, which is below the low-stock
	// threshold.
	assert.EqualValues(t, 1, snapshot.Inventory.TotalProducts)
	require.Equal(t, 1, snapshot.Inventory.LowStockCount)
	assert.Equal(t, 1, snapshot.Inventory.LowStockProducts[0].StockQuantity)
	assert.Equal(t, 0, snapshot.Inventory.OutOfStockCount)
}
