package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Size        string
	InStock     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Product) Label() string {
	if p.Size == "" {
		return p.Name
	}
	return p.Name + " - " + p.Size
}
