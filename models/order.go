package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents all possible states of a POS order
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusReady     OrderStatus = "READY"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// PaymentMethod enumerates the accepted tender types
type PaymentMethod string

const (
	MethodCash       PaymentMethod = "CASH"
	MethodCreditCard PaymentMethod = "CREDIT_CARD"
	MethodDebitCard  PaymentMethod = "DEBIT_CARD"
	MethodPix        PaymentMethod = "PIX"
)

// ValidPaymentMethod reports whether m is one of the accepted tender types.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCash, MethodCreditCard, MethodDebitCard, MethodPix:
		return true
	}
	return false
}

type Order struct {
	ID            string               `json:"id" gorm:"primaryKey;size:36"`
	TicketNumber  int                  `json:"ticket_number" gorm:"not null"` // per-day customer-facing number
	CustomerName  string               `json:"customer_name"`
	Status        OrderStatus          `json:"status" gorm:"not null;default:'PENDING'"`
	Total         decimal.Decimal      `json:"total" gorm:"type:decimal(10,2);not null"`
	AttendantID   uint                 `json:"attendant_id" gorm:"not null"`
	Attendant     *User                `json:"attendant,omitempty" gorm:"foreignKey:AttendantID"`
	Items         []OrderLine          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	Payment       *Payment             `json:"payment,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type OrderLine struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   string          `json:"order_id" gorm:"not null;size:36;index"`
	ProductID uint            `json:"product_id" gorm:"not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"` // snapshot price at time of order
	Name      string          `json:"name"`                                          // snapshot name
}

// Subtotal is unit price times quantity.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LinesTotal sums the line subtotals. Order.Total must always equal this.
func (o *Order) LinesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Items {
		total = total.Add(l.Subtotal())
	}
	return total
}

type Payment struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	OrderID        string          `json:"order_id" gorm:"not null;size:36;uniqueIndex"`
	Method         PaymentMethod   `json:"method" gorm:"not null"`
	AmountTendered decimal.Decimal `json:"amount_tendered" gorm:"type:decimal(10,2);not null"`
	ChangeDue      decimal.Decimal `json:"change_due" gorm:"type:decimal(10,2);not null"`
	CreatedAt      time.Time       `json:"created_at"`
}

// OrderStatusHistory tracks every status change — audit trail
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    string      `json:"order_id" gorm:"not null;size:36;index"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID who triggered the transition
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}

// TicketCounter holds the last allocated display number for one day.
// Day is the server-local date in YYYY-MM-DD form; the counter restarts at 1
// on the first order of each day.
type TicketCounter struct {
	Day        string `json:"day" gorm:"primaryKey;size:10"`
	LastNumber int    `json:"last_number" gorm:"not null"`
}
