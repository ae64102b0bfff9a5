package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stirlingv/honey-biz/internal/entities"
	"github.com/stirlingv/honey-biz/internal/invoicing"
	"github.com/stirlingv/honey-biz/pkg/utils"
)

var ErrNoSession = errors.New("invoicing integration is not connected")

type ReconcileRepo interface {
	GetOrderByInvoiceID(ctx context.Context, invoiceID string) (entities.Order, error)
	MarkPaid(ctx context.Context, invoiceID, paymentID string, paidAt time.Time) (bool, error)
}

type PaymentChecker interface {
	CheckPaymentStatus(ctx context.Context, invoiceID string, s invoicing.Session) (invoicing.PaymentStatus, error)
}

// InvoicePayment reports activity on a provider invoice.
type InvoicePayment struct {
	InvoiceID string
	RealmID   string
	PaymentID string
}

type reconcileService struct {
	logger      *slog.Logger
	repo        ReconcileRepo
	client      PaymentChecker
	sessions    SessionProvider
	callTimeout time.Duration
	now         func() time.Time
}

func NewReconcileService(logger *slog.Logger, repo ReconcileRepo, client PaymentChecker, sessions SessionProvider, callTimeout time.Duration) *reconcileService {
	if callTimeout <= 0 {
		callTimeout = 15 * time.Second
	}
	return &reconcileService{
		logger:      logger.With(slog.String("service", "reconcile")),
		repo:        repo,
		client:      client,
		sessions:    sessions,
		callTimeout: callTimeout,
		now:         time.Now,
	}
}

// Reconcile marks the order behind p paid once the provider reports a zero
// balance. Unknown invoices and orders that are not awaiting payment are skipped.
func (s *reconcileService) Reconcile(ctx context.Context, p InvoicePayment) error {
	logger := s.logger.With(slog.String("invoice_id", p.InvoiceID))

	order, err := s.repo.GetOrderByInvoiceID(ctx, p.InvoiceID)
	if errors.Is(err, entities.ErrOrderNotFound) {
		logger.Info("no order for invoice, skipping")
		return nil
	}
	if err != nil {
		return err
	}
	if !order.Payment.Status.CanMoveTo(entities.PaymentCompleted) {
		logger.Debug("order is not awaiting payment, skipping", slog.String("payment_status", string(order.Payment.Status)))
		return nil
	}

	session, ok, err := s.sessions.Session(ctx)
	if err != nil {
		return fmt.Errorf("failed to load invoicing session: %w", err)
	}
	if !ok {
		return ErrNoSession
	}
	if p.RealmID != "" && p.RealmID != session.RealmID {
		logger.Warn("payment for another company, skipping", slog.String("realm_id", p.RealmID))
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	status, err := s.client.CheckPaymentStatus(callCtx, p.InvoiceID, session)
	cancel()
	if err != nil {
		return err
	}

	if status.Status != invoicing.StatusPaid {
		logger.Info("invoice not fully paid",
			slog.String("status", string(status.Status)),
			slog.String("balance", status.Balance.StringFixed(2)),
		)
		return nil
	}

	var marked bool
	err = utils.Retry(utils.RetryConfig{InitialDelay: 100 * time.Millisecond, MaxAttempts: 3}, func() error {
		var err error
		marked, err = s.repo.MarkPaid(ctx, p.InvoiceID, p.PaymentID, s.now())
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}
	if marked {
		logger.Info("order paid", slog.Int64("order_id", order.ID), slog.String("amount", status.PaidAmount.StringFixed(2)))
	}
	return nil
}
