package entities_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stirlingv/honey-biz/internal/entities"
)

func TestOrder_Price(t *testing.T) {
	testCases := []struct {
		name      string
		unitPrice string
		quantity  int
		want      string
	}{
		{name: "three jars", unitPrice: "12.00", quantity: 3, want: "36.00"},
		{name: "single", unitPrice: "9.99", quantity: 1, want: "9.99"},
		{name: "no float drift", unitPrice: "0.10", quantity: 3, want: "0.30"},
		{name: "many", unitPrice: "19.95", quantity: 7, want: "139.65"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			product := entities.Product{ID: 4, Price: decimal.RequireFromString(tc.unitPrice)}
			order := entities.Order{Quantity: tc.quantity}

			order.Price(product)

			assert.True(t, order.Total.Equal(decimal.RequireFromString(tc.want)), "got %s", order.Total)
			assert.Equal(t, int64(4), order.ProductID)
		})
	}
}

func TestOrder_PriceHoldsForAllQuantities(t *testing.T) {
	price := decimal.RequireFromString("12.34")
	for qty := 1; qty <= 500; qty++ {
		order := entities.Order{Quantity: qty}
		order.Price(entities.Product{Price: price})

		want := decimal.NewFromInt(int64(1234 * qty)).Shift(-2)
		if !order.Total.Equal(want) {
			t.Fatalf("quantity %d: total %s, want %s", qty, order.Total, want)
		}
	}
}

func TestPaymentStatus_Open(t *testing.T) {
	assert.True(t, entities.PaymentUnpaid.Open())
	assert.True(t, entities.PaymentPending.Open())
	assert.False(t, entities.PaymentCompleted.Open())
	assert.False(t, entities.PaymentFailed.Open())
	assert.False(t, entities.PaymentRefunded.Open())
}

func TestPaymentStatus_CanMoveTo(t *testing.T) {
	assert.True(t, entities.PaymentUnpaid.CanMoveTo(entities.PaymentPending))
	assert.True(t, entities.PaymentPending.CanMoveTo(entities.PaymentCompleted))
	assert.False(t, entities.PaymentUnpaid.CanMoveTo(entities.PaymentCompleted))
	assert.False(t, entities.PaymentCompleted.CanMoveTo(entities.PaymentPending))
	assert.False(t, entities.PaymentRefunded.CanMoveTo(entities.PaymentUnpaid))
}

func TestOrder_Move(t *testing.T) {
	o := entities.Order{Status: entities.OrderPending, Payment: entities.Payment{Status: entities.PaymentUnpaid}}

	require.NoError(t, o.Move(entities.PaymentPending, entities.OrderAwaitingPayment))
	assert.Equal(t, entities.OrderAwaitingPayment, o.Status)

	require.NoError(t, o.Move(entities.PaymentCompleted, entities.OrderPaid))
	assert.Equal(t, entities.PaymentCompleted, o.Payment.Status)

	err := o.Move(entities.PaymentUnpaid, entities.OrderPending)
	assert.ErrorIs(t, err, entities.ErrInvalidTransition)
	assert.Equal(t, entities.OrderPaid, o.Status)
}
