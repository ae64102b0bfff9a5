package repo

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stirlingv/honey-biz/internal/entities"
)

type Product struct {
	ID          int64           `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Size        string          `db:"size"`
	InStock     bool            `db:"in_stock"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

type Customer struct {
	FirstName      string `db:"first_name"`
	LastName       string `db:"last_name"`
	Email          string `db:"email"`
	Phone          string `db:"phone"`
	Address        string `db:"address"`
	City           string `db:"city"`
	State          string `db:"state"`
	ZipCode        string `db:"zip_code"`
	PreferCallback bool   `db:"prefer_callback"`
}

type Order struct {
	ID int64 `db:"id"`
	Customer

	ProductID  int64           `db:"product_id"`
	Quantity   int             `db:"quantity"`
	TotalPrice decimal.Decimal `db:"total_price"`
	Status     string          `db:"status"`
	Notes      string          `db:"notes"`

	PaymentStatus string         `db:"payment_status"`
	InvoiceID     sql.NullString `db:"qb_invoice_id"`
	PaymentID     sql.NullString `db:"qb_payment_id"`
	PaymentURL    sql.NullString `db:"payment_url"`
	PaidAt        sql.NullTime   `db:"paid_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Product Product `db:"product"`
}

// inserted is what an INSERT ... RETURNING hands back.
type inserted struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}

type IntegrationToken struct {
	RealmID      string    `db:"realm_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func ProductToEntity(p Product) entities.Product {
	return entities.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Size:        p.Size,
		InStock:     p.InStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func customerToEntity(c Customer) entities.Customer {
	return entities.Customer{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address: entities.Address{
			Street: c.Address,
			City:   c.City,
			State:  c.State,
			ZIP:    c.ZipCode,
		},
		PreferCallback: c.PreferCallback,
	}
}

func customerColumns() []string {
	return []string{
		"first_name", "last_name", "email", "phone",
		"address", "city", "state", "zip_code", "prefer_callback",
	}
}

func customerValues(c entities.Customer) []any {
	return []any{
		c.FirstName, c.LastName, c.Email, c.Phone,
		c.Address.Street, c.Address.City, c.Address.State, c.Address.ZIP, c.PreferCallback,
	}
}

func OrderToEntity(o Order) entities.Order {
	order := entities.Order{
		ID:        o.ID,
		Customer:  customerToEntity(o.Customer),
		ProductID: o.ProductID,
		Product:   ProductToEntity(o.Product),
		Quantity:  o.Quantity,
		Total:     o.TotalPrice,
		Status:    entities.OrderStatus(o.Status),
		Notes:     o.Notes,
		Payment: entities.Payment{
			Status:    entities.PaymentStatus(o.PaymentStatus),
			InvoiceID: nullStringToString(o.InvoiceID),
			PaymentID: nullStringToString(o.PaymentID),
			URL:       nullStringToString(o.PaymentURL),
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if o.PaidAt.Valid {
		paidAt := o.PaidAt.Time
		order.Payment.PaidAt = &paidAt
	}
	return order
}

func TokenToEntity(t IntegrationToken) entities.IntegrationToken {
	return entities.IntegrationToken{
		RealmID:      t.RealmID,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    t.ExpiresAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullInt32(i *int) sql.NullInt32 {
	if i == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*i), Valid: true}
}
