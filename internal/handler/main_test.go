package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/patriciaayrah/order-management-system/internal/model"
	"github.com/patriciaayrah/order-management-system/internal/repository"
	"github.com/patriciaayrah/order-management-system/internal/service"
	"github.com/patriciaayrah/order-management-system/pkg/config"
	"github.com/patriciaayrah/order-management-system/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	prometheus.InitMetrics(&config.Config{
		Metrics: config.MetricsConfig{Prefix: "handlertest"},
	})
	os.Exit(m.Run())
}

type testEnv struct {
	db        *gorm.DB
	e         *echo.Echo
	products  *ProductHandler
	orders    *OrderHandler
	inventory *InventoryHandler
	reports   *ReportHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&model.Product{}, &model.Order{}, &model.OrderItem{}, &model.InventoryLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	logRepo := repository.NewInventoryLogRepository(db)

	ledger := service.NewStockLedger(productRepo, logRepo)
	orderService := service.NewOrderService(orderRepo, orderItemRepo, productRepo, ledger)
	reportService := service.NewReportService(orderRepo, productRepo)

	return &testEnv{
		db:        db,
		e:         echo.New(),
		products:  NewProductHandler(productRepo, ledger),
		orders:    NewOrderHandler(orderService),
		inventory: NewInventoryHandler(logRepo, ledger),
		reports:   NewReportHandler(reportService),
	}
}

// jsonRequest builds an echo context carrying a JSON body.
func (env *testEnv) jsonRequest(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return env.e.NewContext(req, rec), rec
}

func (env *testEnv) seedProduct(t *testing.T, name string, stock int) *model.Product {
	t.Helper()
	product := &model.Product{Name: name, Description: "test product", Price: 10, StockQuantity: stock}
	require.NoError(t, env.db.Create(product).Error)
	return product
}
