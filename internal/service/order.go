package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stirlingv/honey-biz/internal/entities"
	"github.com/stirlingv/honey-biz/pkg/trm"
	"github.com/stirlingv/honey-biz/pkg/utils"
)

type ShopRepo interface {
	ListProducts(ctx context.Context, inStockOnly bool) ([]entities.Product, error)
	GetProduct(ctx context.Context, id int64) (entities.Product, error)
	CreateOrder(ctx context.Context, o entities.Order) (entities.Order, error)
	GetOrderByID(ctx context.Context, id int64) (entities.Order, error)
}

type ProductCache interface {
	Get(id int64) (entities.Product, bool)
	Set(id int64, p entities.Product)
}

// Notifier alerts staff about new records. Implementations must not block.
type Notifier interface {
	OrderCreated(ctx context.Context, o entities.Order)
	NucRequestCreated(ctx context.Context, r entities.NucRequest)
	PollinationRequestCreated(ctx context.Context, r entities.PollinationRequest)
	BeeRemovalRequestCreated(ctx context.Context, r entities.BeeRemovalRequest)
	CallbackRequestCreated(ctx context.Context, r entities.CallbackRequest)
}

var readRetry = utils.RetryConfig{
	InitialDelay: 100 * time.Millisecond,
	MaxAttempts:  3,
	Multiplier:   2,
}

type shopService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      ShopRepo
	products  ProductCache
	notifier  Notifier
}

func NewShopService(logger *slog.Logger, txManager trm.Manager, repo ShopRepo, products ProductCache, notifier Notifier) *shopService {
	return &shopService{
		logger:    logger.With(slog.String("service", "shop")),
		txManager: txManager,
		repo:      repo,
		products:  products,
		notifier:  notifier,
	}
}

func (s *shopService) ListProducts(ctx context.Context) ([]entities.Product, error) {
	var products []entities.Product
	err := utils.Retry(readRetry, func() error {
		var err error
		products, err = s.repo.ListProducts(ctx, true)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *shopService) GetProduct(ctx context.Context, id int64) (entities.Product, error) {
	if p, ok := s.products.Get(id); ok {
		return p, nil
	}

	var product entities.Product
	err := utils.Retry(readRetry, func() error {
		var err error
		product, err = s.repo.GetProduct(ctx, id)
		return err
	}, entities.ErrProductNotFound)
	if err != nil {
		return entities.Product{}, err
	}

	s.products.Set(id, product)
	return product, nil
}

// CreateOrder prices and stores a new order, then alerts staff.
func (s *shopService) CreateOrder(ctx context.Context, order entities.Order) (entities.Order, error) {
	product, err := s.GetProduct(ctx, order.ProductID)
	if err != nil {
		return entities.Order{}, err
	}
	if !product.InStock {
		return entities.Order{}, entities.ErrProductOutOfStock
	}

	order.Price(product)
	if order.Total.GreaterThan(entities.MaxOrderTotal) {
		return entities.Order{}, fmt.Errorf("%w: %s", entities.ErrOrderTotalTooLarge, order.Total.StringFixed(2))
	}
	order.Status = entities.OrderPending
	order.Payment = entities.Payment{Status: entities.PaymentUnpaid}

	var created entities.Order
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		created, err = s.repo.CreateOrder(ctx, order)
		return err
	})
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to create order: %w", err)
	}
	created.Product = product

	s.logger.Info("order created",
		slog.Int64("order_id", created.ID),
		slog.String("total", created.Total.StringFixed(2)),
	)
	s.notifier.OrderCreated(ctx, created)
	return created, nil
}

func (s *shopService) GetOrder(ctx context.Context, id int64) (entities.Order, error) {
	var order entities.Order
	err := utils.Retry(readRetry, func() error {
		var err error
		order, err = s.repo.GetOrderByID(ctx, id)
		return err
	}, entities.ErrOrderNotFound)
	if err != nil {
		return entities.Order{}, err
	}
	return order, nil
}
