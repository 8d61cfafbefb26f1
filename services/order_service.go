package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"bakery-pos-api/apperrors"
	"bakery-pos-api/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateOrderRequest struct {
	CustomerName string                   `json:"customer_name"`
	Items        []CreateOrderLineRequest `json:"items"`
}

type CreateOrderLineRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// OrderService owns order creation and the read paths consumed by the
// queue/display collaborators.
type OrderService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewOrderService(db *gorm.DB, log *zap.Logger) *OrderService {
	return &OrderService{db: db, log: log.Named("orders")}
}

// CreateOrder validates the requested lines, snapshots product names and
// prices, allocates the day's next ticket number and persists the order as
// PENDING. Stock is not touched here; it is only decremented at settlement.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest, attendantID uint) (*models.Order, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	orderID := uuid.NewString()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lines []models.OrderLine
		total := decimal.Zero

		for _, reqItem := range req.Items {
			var product models.Product
			if err := tx.First(&product, reqItem.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFound("product", strconv.FormatUint(uint64(reqItem.ProductID), 10))
				}
				return err
			}
			if !product.Active {
				return apperrors.Validation(fmt.Sprintf("product '%s' is not available", product.Name))
			}
			line := models.OrderLine{
				ProductID: product.ID,
				Quantity:  reqItem.Quantity,
				UnitPrice: product.UnitPrice,
				Name:      product.Name,
			}
			total = total.Add(line.Subtotal())
			lines = append(lines, line)
		}

		ticket, err := allocateTicketNumber(tx, time.Now().Format("2006-01-02"))
		if err != nil {
			return err
		}

		order := models.Order{
			ID:           orderID,
			TicketNumber: ticket,
			CustomerName: req.CustomerName,
			Status:       models.StatusPending,
			Total:        total,
			AttendantID:  attendantID,
			Items:        lines,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		history := models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  models.StatusPending,
			ChangedBy: attendantID,
			Note:      "Order created",
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.log.Info("order created",
		zap.String("order_id", order.ID),
		zap.Int("ticket", order.TicketNumber),
		zap.String("total", order.Total.String()))
	return order, nil
}

func validateOrderRequest(req CreateOrderRequest) error {
	if len(req.Items) == 0 {
		return apperrors.ValidationFields("order must have at least one item",
			map[string]string{"items": "must not be empty"})
	}
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return apperrors.ValidationFields("item quantity must be positive",
				map[string]string{fmt.Sprintf("items[%d].quantity", i): "must be greater than zero"})
		}
	}
	return nil
}

// GetOrder fetches one order with lines, payment and attendant.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		Preload("Attendant").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, err
	}
	return &order, nil
}

// ListOrders returns all orders, newest first, optionally filtered by status.
func (s *OrderService) ListOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	query := s.db.WithContext(ctx).Preload("Items").Preload("Payment")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListReady returns READY orders oldest first — the counter queue and the
// customer display consume this.
func (s *OrderService) ListReady(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).Preload("Items").
		Where("status = ?", models.StatusReady).
		Order("updated_at asc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
