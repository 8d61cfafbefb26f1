package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"bakery-pos-api/handlers"
	"bakery-pos-api/middleware"
	"bakery-pos-api/models"
	"bakery-pos-api/notifier"
	"bakery-pos-api/routes"
	"bakery-pos-api/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testSecret = []byte("test-secret")

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	token  string
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{},
		&models.Order{}, &models.OrderLine{}, &models.Payment{},
		&models.OrderStatusHistory{}, &models.TicketCounter{},
	))

	log := zap.NewNop()
	orderService := services.NewOrderService(db, log)
	paymentService := services.NewPaymentService(db, notifier.Noop{}, log)

	r := gin.New()
	routes.SetupRoutes(r, routes.Dependencies{
		Auth:      handlers.NewAuthHandler(db, testSecret),
		Orders:    handlers.NewOrderHandler(orderService, paymentService),
		Catalog:   handlers.NewCatalogHandler(db),
		Reports:   handlers.NewReportHandler(db),
		JWTSecret: testSecret,
	})

	attendant := models.User{Name: "Ana", Email: "ana@bakery.test", PasswordHash: "x", Role: models.RoleAttendant}
	require.NoError(t, db.Create(&attendant).Error)
	token, err := middleware.GenerateToken(&attendant, testSecret)
	require.NoError(t, err)

	return &testEnv{router: r, db: db, token: token}
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func seedBread(t *testing.T, db *gorm.DB, stock int) *models.Product {
	t.Helper()
	bread := &models.Product{
		Name:           "bread",
		UnitPrice:      decimal.RequireFromString("0.80"),
		AvailableStock: stock,
		Active:         true,
	}
	require.NoError(t, db.Create(bread).Error)
	return bread
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	env := setupEnv(t)
	bread := seedBread(t, env.db, 5)

	// Create
	w := env.request(t, http.MethodPost, "/api/orders", gin.H{
		"customer_name": "Maria",
		"items":         []gin.H{{"product_id": bread.ID, "quantity": 3}},
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	orderID := created.Order.ID
	assert.Equal(t, 1, created.Order.TicketNumber)
	assert.Equal(t, models.StatusPending, created.Order.Status)

	// Pay with cash
	w = env.request(t, http.MethodPost, fmt.Sprintf("/api/orders/%s/pay", orderID), gin.H{
		"method":          "CASH",
		"amount_tendered": "5.00",
	}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, env.db.Preload("Payment").First(&order, "id = ?", orderID).Error)
	assert.Equal(t, models.StatusReady, order.Status)
	require.NotNil(t, order.Payment)
	assert.True(t, order.Payment.ChangeDue.Equal(decimal.RequireFromString("2.60")))

	var breadRow models.Product
	require.NoError(t, env.db.First(&breadRow, bread.ID).Error)
	assert.Equal(t, 2, breadRow.AvailableStock)

	// Paying again conflicts
	w = env.request(t, http.MethodPost, fmt.Sprintf("/api/orders/%s/pay", orderID), gin.H{
		"method": "PIX",
	}, true)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// Ready queue is publicly readable
	w = env.request(t, http.MethodGet, "/api/orders/ready", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var ready struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ready))
	assert.Equal(t, 1, ready.Count)

	// Deliver
	w = env.request(t, http.MethodPatch, fmt.Sprintf("/api/orders/%s/deliver", orderID), nil, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Delivering twice conflicts
	w = env.request(t, http.MethodPatch, fmt.Sprintf("/api/orders/%s/deliver", orderID), nil, true)
	assert.Equal(t, http.StatusConflict, w.Code)

	// A delivered order cannot be cancelled
	w = env.request(t, http.MethodPatch, fmt.Sprintf("/api/orders/%s/cancel", orderID), nil, true)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPayInsufficientStockOverHTTP(t *testing.T) {
	env := setupEnv(t)
	bread := seedBread(t, env.db, 5)

	w := env.request(t, http.MethodPost, "/api/orders", gin.H{
		"items": []gin.H{{"product_id": bread.ID, "quantity": 10}},
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = env.request(t, http.MethodPost, fmt.Sprintf("/api/orders/%s/pay", created.Order.ID), gin.H{
		"method":          "CASH",
		"amount_tendered": "10.00",
	}, true)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "bread")

	var breadRow models.Product
	require.NoError(t, env.db.First(&breadRow, bread.ID).Error)
	assert.Equal(t, 5, breadRow.AvailableStock)
}

func TestCreateOrderRejectsBadRequests(t *testing.T) {
	env := setupEnv(t)

	// Missing items fails binding validation
	w := env.request(t, http.MethodPost, "/api/orders", gin.H{"customer_name": "Maria"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown product
	w = env.request(t, http.MethodPost, "/api/orders", gin.H{
		"items": []gin.H{{"product_id": 999, "quantity": 1}},
	}, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderEndpointsRequireAuth(t *testing.T) {
	env := setupEnv(t)

	w := env.request(t, http.MethodPost, "/api/orders", gin.H{
		"items": []gin.H{{"product_id": 1, "quantity": 1}},
	}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request(t, http.MethodGet, "/api/orders", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUnknownOrderReturns404(t *testing.T) {
	env := setupEnv(t)
	w := env.request(t, http.MethodGet, "/api/orders/does-not-exist", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
