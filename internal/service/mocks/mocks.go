// Package mocks holds testify mocks of the service dependencies.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/stirlingv/honey-biz/internal/entities"
	"github.com/stirlingv/honey-biz/internal/invoicing"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

func register(m *mock.Mock, t testingT) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

type MockShopRepo struct{ mock.Mock }

func NewMockShopRepo(t testingT) *MockShopRepo {
	m := &MockShopRepo{}
	register(&m.Mock, t)
	return m
}

func (m *MockShopRepo) ListProducts(ctx context.Context, inStockOnly bool) ([]entities.Product, error) {
	args := m.Called(ctx, inStockOnly)
	products, _ := args.Get(0).([]entities.Product)
	return products, args.Error(1)
}

func (m *MockShopRepo) GetProduct(ctx context.Context, id int64) (entities.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.Product), args.Error(1)
}

func (m *MockShopRepo) CreateOrder(ctx context.Context, o entities.Order) (entities.Order, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *MockShopRepo) GetOrderByID(ctx context.Context, id int64) (entities.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.Order), args.Error(1)
}

type MockProductCache struct{ mock.Mock }

func NewMockProductCache(t testingT) *MockProductCache {
	m := &MockProductCache{}
	register(&m.Mock, t)
	return m
}

func (m *MockProductCache) Get(id int64) (entities.Product, bool) {
	args := m.Called(id)
	return args.Get(0).(entities.Product), args.Bool(1)
}

func (m *MockProductCache) Set(id int64, p entities.Product) {
	m.Called(id, p)
}

type MockNotifier struct{ mock.Mock }

func NewMockNotifier(t testingT) *MockNotifier {
	m := &MockNotifier{}
	register(&m.Mock, t)
	return m
}

func (m *MockNotifier) OrderCreated(ctx context.Context, o entities.Order) {
	m.Called(ctx, o)
}

func (m *MockNotifier) NucRequestCreated(ctx context.Context, r entities.NucRequest) {
	m.Called(ctx, r)
}

func (m *MockNotifier) PollinationRequestCreated(ctx context.Context, r entities.PollinationRequest) {
	m.Called(ctx, r)
}

func (m *MockNotifier) BeeRemovalRequestCreated(ctx context.Context, r entities.BeeRemovalRequest) {
	m.Called(ctx, r)
}

func (m *MockNotifier) CallbackRequestCreated(ctx context.Context, r entities.CallbackRequest) {
	m.Called(ctx, r)
}

type MockRequestRepo struct{ mock.Mock }

func NewMockRequestRepo(t testingT) *MockRequestRepo {
	m := &MockRequestRepo{}
	register(&m.Mock, t)
	return m
}

func (m *MockRequestRepo) CreateNucRequest(ctx context.Context, r entities.NucRequest) (entities.NucRequest, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(entities.NucRequest), args.Error(1)
}

func (m *MockRequestRepo) CreatePollinationRequest(ctx context.Context, r entities.PollinationRequest) (entities.PollinationRequest, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(entities.PollinationRequest), args.Error(1)
}

func (m *MockRequestRepo) CreateBeeRemovalRequest(ctx context.Context, r entities.BeeRemovalRequest) (entities.BeeRemovalRequest, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(entities.BeeRemovalRequest), args.Error(1)
}

func (m *MockRequestRepo) CreateCallbackRequest(ctx context.Context, r entities.CallbackRequest) (entities.CallbackRequest, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(entities.CallbackRequest), args.Error(1)
}

type MockTokenRepo struct{ mock.Mock }

func NewMockTokenRepo(t testingT) *MockTokenRepo {
	m := &MockTokenRepo{}
	register(&m.Mock, t)
	return m
}

func (m *MockTokenRepo) SaveToken(ctx context.Context, t entities.IntegrationToken) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTokenRepo) GetToken(ctx context.Context, realmID string) (entities.IntegrationToken, error) {
	args := m.Called(ctx, realmID)
	return args.Get(0).(entities.IntegrationToken), args.Error(1)
}

func (m *MockTokenRepo) ExpiringTokens(ctx context.Context, before time.Time) ([]entities.IntegrationToken, error) {
	args := m.Called(ctx, before)
	tokens, _ := args.Get(0).([]entities.IntegrationToken)
	return tokens, args.Error(1)
}

func (m *MockTokenRepo) DeleteToken(ctx context.Context, realmID string) error {
	return m.Called(ctx, realmID).Error(0)
}

type MockTokenRefresher struct{ mock.Mock }

func NewMockTokenRefresher(t testingT) *MockTokenRefresher {
	m := &MockTokenRefresher{}
	register(&m.Mock, t)
	return m
}

func (m *MockTokenRefresher) Refresh(ctx context.Context, refreshToken string) (invoicing.Token, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(invoicing.Token), args.Error(1)
}

type MockCheckoutRepo struct{ mock.Mock }

func NewMockCheckoutRepo(t testingT) *MockCheckoutRepo {
	m := &MockCheckoutRepo{}
	register(&m.Mock, t)
	return m
}

func (m *MockCheckoutRepo) GetOrderByID(ctx context.Context, id int64) (entities.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *MockCheckoutRepo) ClaimCheckout(ctx context.Context, orderID int64, staleBefore time.Time) (bool, error) {
	args := m.Called(ctx, orderID, staleBefore)
	return args.Bool(0), args.Error(1)
}

func (m *MockCheckoutRepo) AttachInvoice(ctx context.Context, orderID int64, invoiceID string) (bool, error) {
	args := m.Called(ctx, orderID, invoiceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCheckoutRepo) SetPaymentURL(ctx context.Context, orderID int64, invoiceID, url string) (bool, error) {
	args := m.Called(ctx, orderID, invoiceID, url)
	return args.Bool(0), args.Error(1)
}

func (m *MockCheckoutRepo) MarkManual(ctx context.Context, orderID int64) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

// MockInvoicer covers the invoicing client calls made by checkout and reconciliation.
type MockInvoicer struct{ mock.Mock }

func NewMockInvoicer(t testingT) *MockInvoicer {
	m := &MockInvoicer{}
	register(&m.Mock, t)
	return m
}

func (m *MockInvoicer) CreateInvoice(ctx context.Context, order entities.Order, product entities.Product, s invoicing.Session) (invoicing.Invoice, error) {
	args := m.Called(ctx, order, product, s)
	return args.Get(0).(invoicing.Invoice), args.Error(1)
}

func (m *MockInvoicer) PaymentLink(ctx context.Context, invoiceID string, s invoicing.Session) (string, error) {
	args := m.Called(ctx, invoiceID, s)
	return args.String(0), args.Error(1)
}

func (m *MockInvoicer) CheckPaymentStatus(ctx context.Context, invoiceID string, s invoicing.Session) (invoicing.PaymentStatus, error) {
	args := m.Called(ctx, invoiceID, s)
	return args.Get(0).(invoicing.PaymentStatus), args.Error(1)
}

type MockSessionProvider struct{ mock.Mock }

func NewMockSessionProvider(t testingT) *MockSessionProvider {
	m := &MockSessionProvider{}
	register(&m.Mock, t)
	return m
}

func (m *MockSessionProvider) Session(ctx context.Context) (invoicing.Session, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(invoicing.Session), args.Bool(1), args.Error(2)
}

type MockReconcileRepo struct{ mock.Mock }

func NewMockReconcileRepo(t testingT) *MockReconcileRepo {
	m := &MockReconcileRepo{}
	register(&m.Mock, t)
	return m
}

func (m *MockReconcileRepo) GetOrderByInvoiceID(ctx context.Context, invoiceID string) (entities.Order, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *MockReconcileRepo) MarkPaid(ctx context.Context, invoiceID, paymentID string, paidAt time.Time) (bool, error) {
	args := m.Called(ctx, invoiceID, paymentID, paidAt)
	return args.Bool(0), args.Error(1)
}
