package services

import (
	"context"
	"errors"
	"strconv"

	"bakery-pos-api/apperrors"
	"bakery-pos-api/models"
	"bakery-pos-api/notifier"
	"bakery-pos-api/statemachine"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SettlePaymentRequest struct {
	Method         models.PaymentMethod `json:"method"`
	AmountTendered decimal.Decimal      `json:"amount_tendered"`
}

// PaymentService orchestrates settlement, delivery and cancellation. The
// settlement transaction is the only place stock is decremented.
type PaymentService struct {
	db       *gorm.DB
	notifier notifier.Notifier
	log      *zap.Logger
}

func NewPaymentService(db *gorm.DB, n notifier.Notifier, log *zap.Logger) *PaymentService {
	return &PaymentService{db: db, notifier: n, log: log.Named("payments")}
}

// SettlePayment accepts payment for a PENDING order: inside one transaction it
// re-checks the order status, decrements stock for every line (all-or-nothing),
// records the payment and flips the order to READY. After commit the ready
// queue and customer display are notified best-effort.
func (s *PaymentService) SettlePayment(ctx context.Context, orderID string, req SettlePaymentRequest, changedBy uint) (*models.Order, error) {
	if !models.ValidPaymentMethod(req.Method) {
		return nil, apperrors.ValidationFields("unknown payment method",
			map[string]string{"method": "must be one of CASH, CREDIT_CARD, DEBIT_CARD, PIX"})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("order", orderID)
			}
			return err
		}
		if err := statemachine.CanTransition(order.Status, models.StatusReady); err != nil {
			return err
		}

		tendered := req.AmountTendered
		change := decimal.Zero
		if req.Method == models.MethodCash {
			if tendered.LessThan(order.Total) {
				return apperrors.ValidationFields("insufficient amount tendered",
					map[string]string{"amount_tendered": "must be at least the order total of " + order.Total.String()})
			}
			change = tendered.Sub(order.Total)
		} else {
			// Non-cash methods settle exactly the order total
			tendered = order.Total
		}

		for _, line := range order.Items {
			if err := decrementStock(tx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		// Conditional flip guards against a concurrent settlement that won the
		// race after our read: exactly one transaction moves PENDING to READY.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, models.StatusPending).
			Update("status", models.StatusReady)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.InvalidState("order is not payable", string(models.StatusReady))
		}

		payment := models.Payment{
			OrderID:        orderID,
			Method:         req.Method,
			AmountTendered: tendered,
			ChangeDue:      change,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		history := models.OrderStatusHistory{
			OrderID:    orderID,
			FromStatus: models.StatusPending,
			ToStatus:   models.StatusReady,
			ChangedBy:  changedBy,
			Note:       "Payment accepted (" + string(req.Method) + ")",
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}

	order, err := s.reload(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.log.Info("payment settled",
		zap.String("order_id", order.ID),
		zap.Int("ticket", order.TicketNumber),
		zap.String("method", string(req.Method)))

	s.broadcastReady(ctx, order)
	return order, nil
}

// MarkDelivered hands a READY order over to the customer and announces its
// removal from the queue.
func (s *PaymentService) MarkDelivered(ctx context.Context, orderID string, changedBy uint) (*models.Order, error) {
	err := s.transition(ctx, orderID, models.StatusReady, models.StatusDelivered, changedBy, "Order delivered to customer")
	if err != nil {
		return nil, err
	}

	order, err := s.reload(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.log.Info("order delivered", zap.String("order_id", order.ID), zap.Int("ticket", order.TicketNumber))

	s.broadcastDelivered(ctx, order)
	return order, nil
}

// CancelOrder cancels a PENDING order. No stock was committed yet, so there is
// nothing to release and no display update to send.
func (s *PaymentService) CancelOrder(ctx context.Context, orderID string, changedBy uint) (*models.Order, error) {
	err := s.transition(ctx, orderID, models.StatusPending, models.StatusCancelled, changedBy, "Order cancelled")
	if err != nil {
		return nil, err
	}

	order, err := s.reload(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.log.Info("order cancelled", zap.String("order_id", order.ID))
	return order, nil
}

// transition applies a guarded status change inside a transaction and records
// the audit trail row.
func (s *PaymentService) transition(ctx context.Context, orderID string, from, to models.OrderStatus, changedBy uint, note string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("order", orderID)
			}
			return err
		}
		if err := statemachine.CanTransition(order.Status, to); err != nil {
			return err
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, from).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost a race with a concurrent transition on the same order
			return apperrors.InvalidState("order status changed concurrently", string(order.Status))
		}

		history := models.OrderStatusHistory{
			OrderID:    orderID,
			FromStatus: from,
			ToStatus:   to,
			ChangedBy:  changedBy,
			Note:       note,
		}
		return tx.Create(&history).Error
	})
}

// decrementStock is the stock ledger write: decrement-if-sufficient, guarded
// by the WHERE clause so available_stock can never go below zero. Only callers
// holding the settlement transaction handle may use it.
func decrementStock(tx *gorm.DB, productID uint, quantity int) error {
	var product models.Product
	if err := tx.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("product", strconv.FormatUint(uint64(productID), 10))
		}
		return err
	}

	res := tx.Model(&models.Product{}).
		Where("id = ? AND available_stock >= ?", productID, quantity).
		Update("available_stock", gorm.Expr("available_stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &apperrors.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   quantity,
			Available:   product.AvailableStock,
		}
	}
	return nil
}

func (s *PaymentService) reload(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		First(&order, "id = ?", orderID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// broadcastReady announces a settled order. Failures are logged, never
// propagated: payment already succeeded and must not be retried for a lost
// notification.
func (s *PaymentService) broadcastReady(ctx context.Context, order *models.Order) {
	queueEvent := notifier.Event{Type: notifier.EventOrderReady, Payload: order}
	if err := s.notifier.Broadcast(ctx, notifier.TopicQueue, queueEvent); err != nil {
		s.log.Warn("queue broadcast failed", zap.String("order_id", order.ID), zap.Error(err))
	}

	displayEvent := notifier.Event{Type: notifier.EventOrderReady, Payload: map[string]interface{}{
		"order_id":      order.ID,
		"ticket_number": order.TicketNumber,
		"customer_name": order.CustomerName,
	}}
	if err := s.notifier.Broadcast(ctx, notifier.TopicDisplay, displayEvent); err != nil {
		s.log.Warn("display broadcast failed", zap.String("order_id", order.ID), zap.Error(err))
	}
}

func (s *PaymentService) broadcastDelivered(ctx context.Context, order *models.Order) {
	event := notifier.Event{Type: notifier.EventOrderDelivered, Payload: map[string]interface{}{
		"order_id":      order.ID,
		"ticket_number": order.TicketNumber,
	}}
	for _, topic := range []string{notifier.TopicQueue, notifier.TopicDisplay} {
		if err := s.notifier.Broadcast(ctx, topic, event); err != nil {
			s.log.Warn("broadcast failed", zap.String("topic", topic), zap.String("order_id", order.ID), zap.Error(err))
		}
	}
}
