// Package mocks holds testify mocks of the handler dependencies.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/stirlingv/honey-biz/internal/entities"
	"github.com/stirlingv/honey-biz/internal/invoicing"
	"github.com/stirlingv/honey-biz/internal/service"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

func register(m *mock.Mock, t testingT) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

type MockShopService struct{ mock.Mock }

func NewMockShopService(t testingT) *MockShopService {
	m := &MockShopService{}
	register(&m.Mock, t)
	return m
}

func (m *MockShopService) ListProducts(ctx context.Context) ([]entities.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]entities.Product)
	return products, args.Error(1)
}

func (m *MockShopService) GetProduct(ctx context.Context, id int64) (entities.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.Product), args.Error(1)
}

func (m *MockShopService) CreateOrder(ctx context.Context, order entities.Order) (entities.Order, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *MockShopService) GetOrder(ctx context.Context, id int64) (entities.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.Order), args.Error(1)
}

type MockRequestService struct{ mock.Mock }

func NewMockRequestService(t testingT) *MockRequestService {
	m := &MockRequestService{}
	register(&m.Mock, t)
	return m
}

func (m *MockRequestService) CreateNucRequest(ctx context.Context, r entities.NucRequest) (entities.NucRequest, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(entities.NucRequest), args.Error(1)
}

func (m *MockRequestService) CreatePollinationRequest(ctx context.Context, r entities.PollinationRequest) (entities.PollinationRequest, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(entities.PollinationRequest), args.Error(1)
}

func (m *MockRequestService) CreateBeeRemovalRequest(ctx context.Context, r entities.BeeRemovalRequest) (entities.BeeRemovalRequest, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(entities.BeeRemovalRequest), args.Error(1)
}

func (m *MockRequestService) CreateCallbackRequest(ctx context.Context, r entities.CallbackRequest) (entities.CallbackRequest, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(entities.CallbackRequest), args.Error(1)
}

type MockCheckoutService struct{ mock.Mock }

func NewMockCheckoutService(t testingT) *MockCheckoutService {
	m := &MockCheckoutService{}
	register(&m.Mock, t)
	return m
}

func (m *MockCheckoutService) Review(ctx context.Context, orderID int64) (entities.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *MockCheckoutService) Process(ctx context.Context, orderID int64) (service.CheckoutResult, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(service.CheckoutResult), args.Error(1)
}

type MockStateStore struct{ mock.Mock }

func NewMockStateStore(t testingT) *MockStateStore {
	m := &MockStateStore{}
	register(&m.Mock, t)
	return m
}

func (m *MockStateStore) Issue(ctx context.Context, owner string) (string, error) {
	args := m.Called(ctx, owner)
	return args.String(0), args.Error(1)
}

func (m *MockStateStore) Consume(ctx context.Context, state, owner string) error {
	return m.Called(ctx, state, owner).Error(0)
}

type MockAuthorizer struct{ mock.Mock }

func NewMockAuthorizer(t testingT) *MockAuthorizer {
	m := &MockAuthorizer{}
	register(&m.Mock, t)
	return m
}

func (m *MockAuthorizer) AuthorizationURL(state string) string {
	return m.Called(state).String(0)
}

func (m *MockAuthorizer) ExchangeCode(ctx context.Context, code, realmID string) (invoicing.Token, error) {
	args := m.Called(ctx, code, realmID)
	return args.Get(0).(invoicing.Token), args.Error(1)
}

type MockTokenStore struct{ mock.Mock }

func NewMockTokenStore(t testingT) *MockTokenStore {
	m := &MockTokenStore{}
	register(&m.Mock, t)
	return m
}

func (m *MockTokenStore) Save(ctx context.Context, t invoicing.Token) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTokenStore) Disconnect(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockPaymentReconciler struct{ mock.Mock }

func NewMockPaymentReconciler(t testingT) *MockPaymentReconciler {
	m := &MockPaymentReconciler{}
	register(&m.Mock, t)
	return m
}

func (m *MockPaymentReconciler) Reconcile(ctx context.Context, p service.InvoicePayment) error {
	return m.Called(ctx, p).Error(0)
}
