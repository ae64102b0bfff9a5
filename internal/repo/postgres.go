package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/stirlingv/honey-biz/internal/entities"
	"github.com/stirlingv/honey-biz/pkg/trm"
)

type postgresRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewPostgresRepo(db *sqlx.DB) *postgresRepo {
	return &postgresRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var productColumns = []string{
	"id", "name", "description", "price", "size", "in_stock", "created_at", "updated_at",
}

func (r *postgresRepo) ListProducts(ctx context.Context, inStockOnly bool) ([]entities.Product, error) {
	q := r.qb.Select(productColumns...).From("products").OrderBy("name")
	if inStockOnly {
		q = q.Where(sq.Eq{"in_stock": true})
	}
	query, args := q.MustSql()

	var products []Product
	if err := trm.From(ctx, r.db).SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}

	result := make([]entities.Product, 0, len(products))
	for _, p := range products {
		result = append(result, ProductToEntity(p))
	}
	return result, nil
}

func (r *postgresRepo) GetProduct(ctx context.Context, id int64) (entities.Product, error) {
	query, args := r.qb.Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": id}).
		MustSql()

	var product Product
	err := trm.From(ctx, r.db).GetContext(ctx, &product, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Product{}, entities.ErrProductNotFound
	}
	if err != nil {
		return entities.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return ProductToEntity(product), nil
}

// CreateOrder inserts o and returns it with the generated id and timestamps.
// The stored total is recomputed by the database from the product price.
func (r *postgresRepo) CreateOrder(ctx context.Context, o entities.Order) (entities.Order, error) {
	columns := append(customerColumns(), "product_id", "quantity", "total_price", "status", "notes", "payment_status")
	values := append(customerValues(o.Customer), o.ProductID, o.Quantity, o.Total, o.Status, o.Notes, o.Payment.Status)

	query, args := r.qb.Insert("orders").
		Columns(columns...).
		Values(values...).
		Suffix("RETURNING id, total_price, created_at, updated_at").
		MustSql()

	var row struct {
		ID         int64           `db:"id"`
		TotalPrice decimal.Decimal `db:"total_price"`
		CreatedAt  time.Time       `db:"created_at"`
		UpdatedAt  time.Time       `db:"updated_at"`
	}
	if err := trm.From(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		return entities.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	o.ID = row.ID
	o.Total = row.TotalPrice
	o.CreatedAt = row.CreatedAt
	o.UpdatedAt = row.UpdatedAt
	return o, nil
}

func (r *postgresRepo) selectOrder() sq.SelectBuilder {
	return r.qb.Select(
		"o.id", "o.first_name", "o.last_name", "o.email", "o.phone",
		"o.address", "o.city", "o.state", "o.zip_code", "o.prefer_callback",
		"o.product_id", "o.quantity", "o.total_price", "o.status", "o.notes",
		"o.payment_status", "o.qb_invoice_id", "o.qb_payment_id", "o.payment_url", "o.paid_at",
		"o.created_at", "o.updated_at",
		`p.id AS "product.id"`, `p.name AS "product.name"`, `p.description AS "product.description"`,
		`p.price AS "product.price"`, `p.size AS "product.size"`, `p.in_stock AS "product.in_stock"`,
		`p.created_at AS "product.created_at"`, `p.updated_at AS "product.updated_at"`,
	).
		From("orders o").
		Join("products p ON p.id = o.product_id")
}

func (r *postgresRepo) getOrder(ctx context.Context, where sq.Eq) (entities.Order, error) {
	query, args := r.selectOrder().Where(where).MustSql()

	var order Order
	err := trm.From(ctx, r.db).GetContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return OrderToEntity(order), nil
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id int64) (entities.Order, error) {
	return r.getOrder(ctx, sq.Eq{"o.id": id})
}

func (r *postgresRepo) GetOrderByInvoiceID(ctx context.Context, invoiceID string) (entities.Order, error) {
	return r.getOrder(ctx, sq.Eq{"o.qb_invoice_id": invoiceID})
}

var openPayment = sq.Eq{"payment_status": []string{
	string(entities.PaymentUnpaid),
	string(entities.PaymentPending),
}}

// ClaimCheckout marks an open, uninvoiced order as being checked out. A claim
// started before staleBefore is taken over. False means another checkout holds it.
func (r *postgresRepo) ClaimCheckout(ctx context.Context, orderID int64, staleBefore time.Time) (bool, error) {
	return r.compareAndSet(ctx,
		map[string]any{"checkout_started_at": sq.Expr("now()")},
		sq.And{
			sq.Eq{"id": orderID}, openPayment, sq.Eq{"qb_invoice_id": nil},
			sq.Or{sq.Eq{"checkout_started_at": nil}, sq.Lt{"checkout_started_at": staleBefore}},
		},
	)
}

// AttachInvoice records a freshly created invoice. It only applies while the
// order is open and has no invoice yet; false means another writer got there first.
func (r *postgresRepo) AttachInvoice(ctx context.Context, orderID int64, invoiceID string) (bool, error) {
	return r.compareAndSet(ctx,
		map[string]any{
			"qb_invoice_id":       invoiceID,
			"status":              entities.OrderAwaitingPayment,
			"payment_status":      entities.PaymentPending,
			"checkout_started_at": nil,
		},
		sq.And{sq.Eq{"id": orderID}, openPayment, sq.Eq{"qb_invoice_id": nil}},
	)
}

func (r *postgresRepo) SetPaymentURL(ctx context.Context, orderID int64, invoiceID, url string) (bool, error) {
	return r.compareAndSet(ctx,
		map[string]any{"payment_url": url},
		sq.And{sq.Eq{"id": orderID, "qb_invoice_id": invoiceID}, openPayment},
	)
}

// MarkManual resets an open order without an invoice to (pending, unpaid) for
// staff follow-up and releases its checkout claim.
func (r *postgresRepo) MarkManual(ctx context.Context, orderID int64) (bool, error) {
	return r.compareAndSet(ctx,
		map[string]any{
			"status":              entities.OrderPending,
			"payment_status":      entities.PaymentUnpaid,
			"checkout_started_at": nil,
		},
		sq.And{sq.Eq{"id": orderID}, openPayment, sq.Eq{"qb_invoice_id": nil}},
	)
}

func (r *postgresRepo) MarkPaid(ctx context.Context, invoiceID, paymentID string, paidAt time.Time) (bool, error) {
	return r.compareAndSet(ctx,
		map[string]any{
			"status":         entities.OrderPaid,
			"payment_status": entities.PaymentCompleted,
			"qb_payment_id":  nullString(paymentID),
			"paid_at":        paidAt,
		},
		sq.Eq{"qb_invoice_id": invoiceID, "payment_status": entities.PaymentPending},
	)
}

func (r *postgresRepo) compareAndSet(ctx context.Context, set map[string]any, where sq.Sqlizer) (bool, error) {
	query, args := r.qb.Update("orders").SetMap(set).Where(where).MustSql()

	res, err := trm.From(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}
