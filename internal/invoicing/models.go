package invoicing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Token is the result of an authorization code exchange or refresh.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	RealmID      string
}

// Session carries the credentials for one API call.
type Session struct {
	AccessToken string
	RealmID     string
}

type Invoice struct {
	ID        string
	DocNumber string
	Total     decimal.Decimal
}

type Status string

const (
	StatusPaid    Status = "paid"
	StatusPartial Status = "partial"
	StatusUnpaid  Status = "unpaid"
)

type PaymentStatus struct {
	Status     Status
	Balance    decimal.Decimal
	Total      decimal.Decimal
	PaidAmount decimal.Decimal
}

// NewPaymentStatus classifies an invoice by its outstanding balance.
func NewPaymentStatus(balance, total decimal.Decimal) PaymentStatus {
	ps := PaymentStatus{
		Balance:    balance,
		Total:      total,
		PaidAmount: total.Sub(balance),
	}
	switch {
	case balance.IsZero():
		ps.Status = StatusPaid
	case balance.LessThan(total):
		ps.Status = StatusPartial
	default:
		ps.Status = StatusUnpaid
	}
	return ps
}

// Wire types for the accounting API.

// amount is a decimal encoded as a bare JSON number.
type amount decimal.Decimal

func (a amount) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(a).String()), nil
}

func (a *amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	*a = amount(d)
	return nil
}

func (a *amount) value() decimal.Decimal {
	if a == nil {
		return decimal.Zero
	}
	return decimal.Decimal(*a)
}

type ref struct {
	Value string `json:"value"`
	Name  string `json:"name,omitempty"`
}

type emailAddr struct {
	Address string `json:"Address"`
}

type phoneNumber struct {
	FreeFormNumber string `json:"FreeFormNumber"`
}

type physicalAddr struct {
	Line1                  string `json:"Line1,omitempty"`
	City                   string `json:"City,omitempty"`
	CountrySubDivisionCode string `json:"CountrySubDivisionCode,omitempty"`
	PostalCode             string `json:"PostalCode,omitempty"`
}

type customer struct {
	ID               string        `json:"Id,omitempty"`
	DisplayName      string        `json:"DisplayName"`
	GivenName        string        `json:"GivenName,omitempty"`
	FamilyName       string        `json:"FamilyName,omitempty"`
	PrimaryEmailAddr *emailAddr    `json:"PrimaryEmailAddr,omitempty"`
	PrimaryPhone     *phoneNumber  `json:"PrimaryPhone,omitempty"`
	BillAddr         *physicalAddr `json:"BillAddr,omitempty"`
}

type item struct {
	ID               string `json:"Id,omitempty"`
	Name             string `json:"Name"`
	Description      string `json:"Description,omitempty"`
	Type             string `json:"Type"`
	UnitPrice        amount `json:"UnitPrice"`
	IncomeAccountRef *ref   `json:"IncomeAccountRef,omitempty"`
}

type account struct {
	ID          string `json:"Id"`
	Name        string `json:"Name"`
	AccountType string `json:"AccountType"`
}

type salesItemLineDetail struct {
	ItemRef   ref    `json:"ItemRef"`
	Qty       int    `json:"Qty"`
	UnitPrice amount `json:"UnitPrice"`
}

type line struct {
	Amount              amount              `json:"Amount"`
	Description         string              `json:"Description,omitempty"`
	DetailType          string              `json:"DetailType"`
	SalesItemLineDetail salesItemLineDetail `json:"SalesItemLineDetail"`
}

type invoice struct {
	ID          string     `json:"Id,omitempty"`
	DocNumber   string     `json:"DocNumber,omitempty"`
	CustomerRef ref        `json:"CustomerRef"`
	Line        []line     `json:"Line"`
	BillEmail   *emailAddr `json:"BillEmail,omitempty"`
	EmailStatus string     `json:"EmailStatus,omitempty"`
	TotalAmt    *amount    `json:"TotalAmt,omitempty"`
	Balance     *amount    `json:"Balance,omitempty"`
	// InvoiceLink is only present when online payments are enabled for the invoice.
	InvoiceLink *string `json:"InvoiceLink,omitempty"`
}

type queryResponse struct {
	QueryResponse struct {
		Customer []customer `json:"Customer"`
		Item     []item     `json:"Item"`
		Account  []account  `json:"Account"`
	} `json:"QueryResponse"`
}

type fault struct {
	Fault struct {
		Error []struct {
			Message string `json:"Message"`
			Detail  string `json:"Detail"`
		} `json:"Error"`
	} `json:"Fault"`
}
