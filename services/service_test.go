package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"bakery-pos-api/models"
	"bakery-pos-api/notifier"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every pooled connection to ":memory:" would get its own database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderLine{},
		&models.Payment{},
		&models.OrderStatusHistory{},
		&models.TicketCounter{},
	))

	attendant := models.User{Name: "Ana", Email: "ana@bakery.test", PasswordHash: "x", Role: models.RoleAttendant}
	require.NoError(t, db.Create(&attendant).Error)
	return db
}

func newServices(t *testing.T, db *gorm.DB, n notifier.Notifier) (*OrderService, *PaymentService) {
	t.Helper()
	log := zap.NewNop()
	return NewOrderService(db, log), NewPaymentService(db, n, log)
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:           name,
		UnitPrice:      decimal.RequireFromString(price),
		AvailableStock: stock,
		Active:         true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func productStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, id).Error)
	return product.AvailableStock
}

// recordingNotifier captures broadcasts for assertions
type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	Topic string
	Event notifier.Event
}

func (r *recordingNotifier) Broadcast(ctx context.Context, topic string, event notifier.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Topic: topic, Event: event})
	return nil
}

func (r *recordingNotifier) byTopic(topic string) []notifier.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notifier.Event
	for _, e := range r.events {
		if e.Topic == topic {
			out = append(out, e.Event)
		}
	}
	return out
}

// failingNotifier simulates a dead push channel
type failingNotifier struct{}

func (failingNotifier) Broadcast(ctx context.Context, topic string, event notifier.Event) error {
	return errors.New("channel down")
}
