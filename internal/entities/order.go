package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending         OrderStatus = "pending"
	OrderAwaitingPayment OrderStatus = "awaiting_payment"
	OrderPaid            OrderStatus = "paid"
	OrderProcessing      OrderStatus = "processing"
	OrderCompleted       OrderStatus = "completed"
	OrderCancelled       OrderStatus = "cancelled"
	OrderRefunded        OrderStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentUnpaid    PaymentStatus = "unpaid"
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment statuses reachable from each status through checkout and reconciliation.
// Failed, refunded and staff-driven moves are outside this table.
var paymentTransitions = map[PaymentStatus]map[PaymentStatus]bool{
	PaymentUnpaid: {
		PaymentUnpaid:  true,
		PaymentPending: true,
	},
	PaymentPending: {
		PaymentUnpaid:    true,
		PaymentPending:   true,
		PaymentCompleted: true,
	},
	PaymentCompleted: {},
	PaymentFailed:    {},
	PaymentRefunded:  {},
}

func (s PaymentStatus) CanMoveTo(next PaymentStatus) bool {
	return paymentTransitions[s][next]
}

// Open reports whether checkout may still act on an order in this payment status.
func (s PaymentStatus) Open() bool {
	return s == PaymentUnpaid || s == PaymentPending
}

type Payment struct {
	Status    PaymentStatus
	InvoiceID string
	PaymentID string
	URL       string
	PaidAt    *time.Time
}

type Order struct {
	ID        int64
	Customer  Customer
	ProductID int64
	Product   Product
	Quantity  int
	Total     decimal.Decimal
	Status    OrderStatus
	Notes     string
	Payment   Payment
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MaxOrderTotal is the largest total the orders table can store.
var MaxOrderTotal = decimal.RequireFromString("9999999999.99")

func OrderTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Move applies a payment transition together with the order status that goes
// with it.
func (o *Order) Move(payment PaymentStatus, status OrderStatus) error {
	if !o.Payment.Status.CanMoveTo(payment) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Payment.Status, payment)
	}
	o.Payment.Status = payment
	o.Status = status
	return nil
}

// Price binds the order to p and recomputes the total.
func (o *Order) Price(p Product) {
	o.Product = p
	o.ProductID = p.ID
	o.Total = OrderTotal(p.Price, o.Quantity)
}
