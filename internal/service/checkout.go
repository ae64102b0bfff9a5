package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/stirlingv/honey-biz/internal/entities"
	"github.com/stirlingv/honey-biz/internal/invoicing"
)

type CheckoutRepo interface {
	GetOrderByID(ctx context.Context, id int64) (entities.Order, error)
	ClaimCheckout(ctx context.Context, orderID int64, staleBefore time.Time) (bool, error)
	AttachInvoice(ctx context.Context, orderID int64, invoiceID string) (bool, error)
	SetPaymentURL(ctx context.Context, orderID int64, invoiceID, url string) (bool, error)
	MarkManual(ctx context.Context, orderID int64) (bool, error)
}

type Invoicer interface {
	CreateInvoice(ctx context.Context, order entities.Order, product entities.Product, s invoicing.Session) (invoicing.Invoice, error)
	PaymentLink(ctx context.Context, invoiceID string, s invoicing.Session) (string, error)
}

type SessionProvider interface {
	Session(ctx context.Context) (invoicing.Session, bool, error)
}

type Outcome string

const (
	// OutcomeRedirect sends the customer to the provider's payment page.
	OutcomeRedirect       Outcome = "redirect"
	OutcomeInvoiceEmailed Outcome = "invoice_emailed"
	// OutcomeManual means online payment is unavailable and staff follow up.
	OutcomeManual Outcome = "manual"
	// OutcomeManualWarning is OutcomeManual after a failed provider call.
	OutcomeManualWarning    Outcome = "manual_warning"
	OutcomeAlreadyProcessed Outcome = "already_processed"
)

var outcomeMessages = map[Outcome]string{
	OutcomeRedirect:         "Redirecting you to our secure payment page.",
	OutcomeInvoiceEmailed:   "Order placed successfully! An invoice has been emailed to you.",
	OutcomeManual:           "Order placed successfully! We will contact you with payment details.",
	OutcomeManualWarning:    "Your order was received, but online payment is unavailable right now. We will contact you with payment details.",
	OutcomeAlreadyProcessed: "This order has already been processed.",
}

func (o Outcome) Message() string {
	return outcomeMessages[o]
}

var checkoutOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "honey_biz",
	Subsystem: "checkout",
	Name:      "outcomes_total",
	Help:      "Checkout attempts by outcome.",
}, []string{"outcome"})

type CheckoutResult struct {
	Outcome    Outcome
	Order      entities.Order
	PaymentURL string
}

type checkoutService struct {
	logger      *slog.Logger
	repo        CheckoutRepo
	client      Invoicer
	sessions    SessionProvider
	callTimeout time.Duration
	now         func() time.Time
}

// NewCheckoutService builds the checkout flow. A nil client means the
// invoicing integration is not configured and every checkout is manual.
func NewCheckoutService(logger *slog.Logger, repo CheckoutRepo, client Invoicer, sessions SessionProvider, callTimeout time.Duration) *checkoutService {
	if callTimeout <= 0 {
		callTimeout = 15 * time.Second
	}
	return &checkoutService{
		logger:      logger.With(slog.String("service", "checkout")),
		repo:        repo,
		client:      client,
		sessions:    sessions,
		callTimeout: callTimeout,
		now:         time.Now,
	}
}

func (s *checkoutService) Review(ctx context.Context, orderID int64) (entities.Order, error) {
	return s.repo.GetOrderByID(ctx, orderID)
}

// Process hands an open order to the invoicing provider. Provider failures
// never surface as errors: they end in one of the manual outcomes.
func (s *checkoutService) Process(ctx context.Context, orderID int64) (CheckoutResult, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return CheckoutResult{}, err
	}

	res, err := s.process(ctx, order)
	if err != nil {
		return CheckoutResult{}, err
	}
	checkoutOutcomes.WithLabelValues(string(res.Outcome)).Inc()
	s.logger.Info("checkout processed",
		slog.Int64("order_id", orderID),
		slog.String("outcome", string(res.Outcome)),
	)
	return res, nil
}

func (s *checkoutService) process(ctx context.Context, order entities.Order) (CheckoutResult, error) {
	logger := s.logger.With(slog.Int64("order_id", order.ID))

	if !order.Payment.Status.Open() {
		return CheckoutResult{Outcome: OutcomeAlreadyProcessed, Order: order}, nil
	}

	if s.client == nil {
		return CheckoutResult{Outcome: OutcomeManual, Order: order}, nil
	}

	session, ok, err := s.sessions.Session(ctx)
	if err != nil {
		logger.Error("failed to load invoicing session", slog.Any("error", err))
	}
	if !ok {
		return CheckoutResult{Outcome: OutcomeManual, Order: order}, nil
	}

	invoiceID := order.Payment.InvoiceID
	if invoiceID == "" {
		// A claim older than two call timeouts belongs to a request that died
		// before releasing it.
		claimed, err := s.repo.ClaimCheckout(ctx, order.ID, s.now().Add(-2*s.callTimeout))
		if err != nil {
			return CheckoutResult{}, fmt.Errorf("failed to claim order: %w", err)
		}
		if !claimed {
			logger.Info("checkout already in progress")
			current, err := s.repo.GetOrderByID(ctx, order.ID)
			if err != nil {
				return CheckoutResult{}, err
			}
			return CheckoutResult{Outcome: OutcomeAlreadyProcessed, Order: current}, nil
		}

		inv, err := s.createInvoice(ctx, order, session)
		if err != nil {
			logger.Warn("invoice creation failed, falling back to manual processing", slog.Any("error", err))
			if _, err := s.repo.MarkManual(ctx, order.ID); err != nil {
				logger.Error("failed to mark order for manual processing", slog.Any("error", err))
			}
			if err := order.Move(entities.PaymentUnpaid, entities.OrderPending); err != nil {
				logger.Error("unexpected payment state", slog.Any("error", err))
			}
			return CheckoutResult{Outcome: OutcomeManualWarning, Order: order}, nil
		}

		attached, err := s.repo.AttachInvoice(ctx, order.ID, inv.ID)
		if err != nil {
			return CheckoutResult{}, fmt.Errorf("failed to attach invoice %s: %w", inv.ID, err)
		}
		if !attached {
			logger.Warn("order changed during checkout", slog.String("invoice_id", inv.ID))
			current, err := s.repo.GetOrderByID(ctx, order.ID)
			if err != nil {
				return CheckoutResult{}, err
			}
			return CheckoutResult{Outcome: OutcomeAlreadyProcessed, Order: current}, nil
		}

		invoiceID = inv.ID
		if err := order.Move(entities.PaymentPending, entities.OrderAwaitingPayment); err != nil {
			logger.Error("unexpected payment state", slog.Any("error", err))
		}
		order.Payment.InvoiceID = invoiceID
		logger.Info("invoice created", slog.String("invoice_id", invoiceID))
	}

	url := s.paymentLink(ctx, logger, invoiceID, session)
	if url == "" {
		return CheckoutResult{Outcome: OutcomeInvoiceEmailed, Order: order}, nil
	}

	if _, err := s.repo.SetPaymentURL(ctx, order.ID, invoiceID, url); err != nil {
		logger.Error("failed to save payment url", slog.Any("error", err))
	}
	order.Payment.URL = url
	return CheckoutResult{Outcome: OutcomeRedirect, Order: order, PaymentURL: url}, nil
}

func (s *checkoutService) createInvoice(ctx context.Context, order entities.Order, session invoicing.Session) (invoicing.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.client.CreateInvoice(ctx, order, order.Product, session)
}

// paymentLink returns "" when the invoice has no link or the lookup fails.
func (s *checkoutService) paymentLink(ctx context.Context, logger *slog.Logger, invoiceID string, session invoicing.Session) string {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	url, err := s.client.PaymentLink(ctx, invoiceID, session)
	if err != nil {
		logger.Warn("payment link lookup failed", slog.String("invoice_id", invoiceID), slog.Any("error", err))
		return ""
	}
	return url
}
