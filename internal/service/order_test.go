package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stirlingv/honey-biz/internal/entities"
	"github.com/stirlingv/honey-biz/internal/service"
	mocks "github.com/stirlingv/honey-biz/internal/service/mocks"
	txMocks "github.com/stirlingv/honey-biz/pkg/trm/mocks"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var honey = entities.Product{
	ID:      3,
	Name:    "Wildflower Honey",
	Size:    "16 oz",
	Price:   decimal.RequireFromString("12.00"),
	InStock: true,
}

func newOrder() entities.Order {
	return entities.Order{
		Customer: entities.Customer{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
			Phone:     "555-0100",
		},
		ProductID: honey.ID,
		Quantity:  3,
	}
}

func TestShopService_CreateOrder(t *testing.T) {
	type MockBehavior func(repo *mocks.MockShopRepo, cache *mocks.MockProductCache, notifier *mocks.MockNotifier, tx *txMocks.MockManager)

	dbError := errors.New("db error")
	outOfStock := honey
	outOfStock.InStock = false

	priced := func(o entities.Order) bool {
		return o.ProductID == honey.ID &&
			o.Total.Equal(decimal.RequireFromString("36.00")) &&
			o.Status == entities.OrderPending &&
			o.Payment.Status == entities.PaymentUnpaid
	}

	testCases := []struct {
		name         string
		mockBehavior MockBehavior
		wantErr      error
		wantID       int64
	}{
		{
			name: "OK",
			mockBehavior: func(repo *mocks.MockShopRepo, cache *mocks.MockProductCache, notifier *mocks.MockNotifier, tx *txMocks.MockManager) {
				cache.On("Get", honey.ID).Return(entities.Product{}, false).Once()
				repo.On("GetProduct", mock.Anything, honey.ID).Return(honey, nil).Once()
				cache.On("Set", honey.ID, honey).Return().Once()
				tx.On("Do", mock.Anything, mock.Anything).Return(nil).Once()
				repo.On("CreateOrder", mock.Anything, mock.MatchedBy(priced)).
					Return(func() entities.Order { o := newOrder(); o.Price(honey); o.ID = 42; return o }(), nil).Once()
				notifier.On("OrderCreated", mock.Anything, mock.MatchedBy(func(o entities.Order) bool { return o.ID == 42 })).Return().Once()
			},
			wantID: 42,
		},
		{
			name: "product from cache",
			mockBehavior: func(repo *mocks.MockShopRepo, cache *mocks.MockProductCache, notifier *mocks.MockNotifier, tx *txMocks.MockManager) {
				cache.On("Get", honey.ID).Return(honey, true).Once()
				tx.On("Do", mock.Anything, mock.Anything).Return(nil).Once()
				repo.On("CreateOrder", mock.Anything, mock.MatchedBy(priced)).Return(entities.Order{ID: 7}, nil).Once()
				notifier.On("OrderCreated", mock.Anything, mock.Anything).Return().Once()
			},
			wantID: 7,
		},
		{
			name: "product not found",
			mockBehavior: func(repo *mocks.MockShopRepo, cache *mocks.MockProductCache, notifier *mocks.MockNotifier, tx *txMocks.MockManager) {
				cache.On("Get", honey.ID).Return(entities.Product{}, false).Once()
				repo.On("GetProduct", mock.Anything, honey.ID).Return(entities.Product{}, entities.ErrProductNotFound).Once()
			},
			wantErr: entities.ErrProductNotFound,
		},
		{
			name: "out of stock",
			mockBehavior: func(repo *mocks.MockShopRepo, cache *mocks.MockProductCache, notifier *mocks.MockNotifier, tx *txMocks.MockManager) {
				cache.On("Get", honey.ID).Return(outOfStock, true).Once()
			},
			wantErr: entities.ErrProductOutOfStock,
		},
		{
			name: "insert fails",
			mockBehavior: func(repo *mocks.MockShopRepo, cache *mocks.MockProductCache, notifier *mocks.MockNotifier, tx *txMocks.MockManager) {
				cache.On("Get", honey.ID).Return(honey, true).Once()
				tx.On("Do", mock.Anything, mock.Anything).Return(nil).Once()
				repo.On("CreateOrder", mock.Anything, mock.Anything).Return(entities.Order{}, dbError).Once()
			},
			wantErr: dbError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := mocks.NewMockShopRepo(t)
			cache := mocks.NewMockProductCache(t)
			notifier := mocks.NewMockNotifier(t)
			tx := txMocks.NewMockManager(t)

			tc.mockBehavior(repo, cache, notifier, tx)

			svc := service.NewShopService(logger, tx, repo, cache, notifier)

			order, err := svc.CreateOrder(context.Background(), newOrder())

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				notifier.AssertNotCalled(t, "OrderCreated", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, order.ID)
			assert.Equal(t, honey, order.Product)
		})
	}
}

func TestShopService_CreateOrder_TotalBound(t *testing.T) {
	priciest := honey
	priciest.Price = decimal.RequireFromString("9999.99")

	testCases := []struct {
		name      string
		quantity  int
		wantErr   error
		wantTotal string
	}{
		{
			name:      "largest form order fits",
			quantity:  1000,
			wantTotal: "9999990.00",
		},
		{
			name:     "total past column limit",
			quantity: 2_000_000,
			wantErr:  entities.ErrOrderTotalTooLarge,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := mocks.NewMockShopRepo(t)
			cache := mocks.NewMockProductCache(t)
			notifier := mocks.NewMockNotifier(t)
			tx := txMocks.NewMockManager(t)

			cache.On("Get", honey.ID).Return(priciest, true).Once()
			if tc.wantErr == nil {
				tx.On("Do", mock.Anything, mock.Anything).Return(nil).Once()
				repo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o entities.Order) bool {
					return o.Total.StringFixed(2) == tc.wantTotal
				})).Return(entities.Order{ID: 1, Total: decimal.RequireFromString(tc.wantTotal)}, nil).Once()
				notifier.On("OrderCreated", mock.Anything, mock.Anything).Return().Once()
			}

			svc := service.NewShopService(logger, tx, repo, cache, notifier)

			o := newOrder()
			o.Quantity = tc.quantity
			created, err := svc.CreateOrder(context.Background(), o)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantTotal, created.Total.StringFixed(2))
		})
	}
}

func TestShopService_GetOrder(t *testing.T) {
	order := entities.Order{ID: 42, Quantity: 1}

	testCases := []struct {
		name         string
		mockBehavior func(repo *mocks.MockShopRepo)
		want         entities.Order
		wantErr      error
	}{
		{
			name: "OK",
			mockBehavior: func(repo *mocks.MockShopRepo) {
				repo.On("GetOrderByID", mock.Anything, int64(42)).Return(order, nil).Once()
			},
			want: order,
		},
		{
			name: "not found is not retried",
			mockBehavior: func(repo *mocks.MockShopRepo) {
				repo.On("GetOrderByID", mock.Anything, int64(42)).Return(entities.Order{}, entities.ErrOrderNotFound).Once()
			},
			wantErr: entities.ErrOrderNotFound,
		},
		{
			name: "second attempt from repo",
			mockBehavior: func(repo *mocks.MockShopRepo) {
				repo.On("GetOrderByID", mock.Anything, int64(42)).Return(entities.Order{}, errors.New("conn reset")).Once()
				repo.On("GetOrderByID", mock.Anything, int64(42)).Return(order, nil).Once()
			},
			want: order,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := mocks.NewMockShopRepo(t)
			tc.mockBehavior(repo)

			svc := service.NewShopService(logger, txMocks.NewMockManager(t), repo, mocks.NewMockProductCache(t), mocks.NewMockNotifier(t))

			got, err := svc.GetOrder(context.Background(), 42)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestShopService_ListProducts(t *testing.T) {
	repo := mocks.NewMockShopRepo(t)
	repo.On("ListProducts", mock.Anything, true).Return([]entities.Product{honey}, nil).Once()

	svc := service.NewShopService(logger, txMocks.NewMockManager(t), repo, mocks.NewMockProductCache(t), mocks.NewMockNotifier(t))

	products, err := svc.ListProducts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []entities.Product{honey}, products)
}
