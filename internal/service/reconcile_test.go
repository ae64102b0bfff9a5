package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/stirlingv/honey-biz/internal/entities"
	"github.com/stirlingv/honey-biz/internal/invoicing"
	"github.com/stirlingv/honey-biz/internal/service"
	mocks "github.com/stirlingv/honey-biz/internal/service/mocks"
)

func TestReconcileService_Reconcile(t *testing.T) {
	type MockBehavior func(repo *mocks.MockReconcileRepo, client *mocks.MockInvoicer, sessions *mocks.MockSessionProvider)

	pending := openOrder()
	pending.Status = entities.OrderAwaitingPayment
	pending.Payment.Status = entities.PaymentPending
	pending.Payment.InvoiceID = "130"

	completed := pending
	completed.Payment.Status = entities.PaymentCompleted

	fifty := decimal.NewFromInt(50)
	checkErr := &invoicing.QueryError{Op: "status", Err: errors.New("503")}

	testCases := []struct {
		name         string
		payment      service.InvoicePayment
		mockBehavior MockBehavior
		wantErr      error
	}{
		{
			name:    "paid in full",
			payment: service.InvoicePayment{InvoiceID: "130", RealmID: "123", PaymentID: "p-9"},
			mockBehavior: func(repo *mocks.MockReconcileRepo, client *mocks.MockInvoicer, sessions *mocks.MockSessionProvider) {
				repo.On("GetOrderByInvoiceID", mock.Anything, "130").Return(pending, nil).Once()
				sessions.On("Session", mock.Anything).Return(qbSession, true, nil).Once()
				client.On("CheckPaymentStatus", mock.Anything, "130", qbSession).
					Return(invoicing.NewPaymentStatus(decimal.Zero, fifty), nil).Once()
				repo.On("MarkPaid", mock.Anything, "130", "p-9", mock.AnythingOfType("time.Time")).Return(true, nil).Once()
			},
		},
		{
			name:    "partial payment",
			payment: service.InvoicePayment{InvoiceID: "130"},
			mockBehavior: func(repo *mocks.MockReconcileRepo, client *mocks.MockInvoicer, sessions *mocks.MockSessionProvider) {
				repo.On("GetOrderByInvoiceID", mock.Anything, "130").Return(pending, nil).Once()
				sessions.On("Session", mock.Anything).Return(qbSession, true, nil).Once()
				client.On("CheckPaymentStatus", mock.Anything, "130", qbSession).
					Return(invoicing.NewPaymentStatus(decimal.NewFromInt(20), fifty), nil).Once()
			},
		},
		{
			name:    "unknown invoice",
			payment: service.InvoicePayment{InvoiceID: "999"},
			mockBehavior: func(repo *mocks.MockReconcileRepo, client *mocks.MockInvoicer, sessions *mocks.MockSessionProvider) {
				repo.On("GetOrderByInvoiceID", mock.Anything, "999").Return(entities.Order{}, entities.ErrOrderNotFound).Once()
			},
		},
		{
			name:    "already paid",
			payment: service.InvoicePayment{InvoiceID: "130"},
			mockBehavior: func(repo *mocks.MockReconcileRepo, client *mocks.MockInvoicer, sessions *mocks.MockSessionProvider) {
				repo.On("GetOrderByInvoiceID", mock.Anything, "130").Return(completed, nil).Once()
			},
		},
		{
			name:    "not connected",
			payment: service.InvoicePayment{InvoiceID: "130"},
			mockBehavior: func(repo *mocks.MockReconcileRepo, client *mocks.MockInvoicer, sessions *mocks.MockSessionProvider) {
				repo.On("GetOrderByInvoiceID", mock.Anything, "130").Return(pending, nil).Once()
				sessions.On("Session", mock.Anything).Return(invoicing.Session{}, false, nil).Once()
			},
			wantErr: service.ErrNoSession,
		},
		{
			name:    "other company",
			payment: service.InvoicePayment{InvoiceID: "130", RealmID: "999"},
			mockBehavior: func(repo *mocks.MockReconcileRepo, client *mocks.MockInvoicer, sessions *mocks.MockSessionProvider) {
				repo.On("GetOrderByInvoiceID", mock.Anything, "130").Return(pending, nil).Once()
				sessions.On("Session", mock.Anything).Return(qbSession, true, nil).Once()
			},
		},
		{
			name:    "status lookup fails",
			payment: service.InvoicePayment{InvoiceID: "130"},
			mockBehavior: func(repo *mocks.MockReconcileRepo, client *mocks.MockInvoicer, sessions *mocks.MockSessionProvider) {
				repo.On("GetOrderByInvoiceID", mock.Anything, "130").Return(pending, nil).Once()
				sessions.On("Session", mock.Anything).Return(qbSession, true, nil).Once()
				client.On("CheckPaymentStatus", mock.Anything, "130", qbSession).Return(invoicing.PaymentStatus{}, checkErr).Once()
			},
			wantErr: checkErr,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := mocks.NewMockReconcileRepo(t)
			client := mocks.NewMockInvoicer(t)
			sessions := mocks.NewMockSessionProvider(t)
			tc.mockBehavior(repo, client, sessions)

			svc := service.NewReconcileService(logger, repo, client, sessions, time.Second)

			err := svc.Reconcile(context.Background(), tc.payment)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
