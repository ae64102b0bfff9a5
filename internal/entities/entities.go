package entities

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductOutOfStock  = errors.New("product out of stock")
	ErrOrderTotalTooLarge = errors.New("order total too large")
	ErrTokenNotFound      = errors.New("integration token not found")
	ErrInvalidTransition  = errors.New("invalid payment status transition")
)

type Address struct {
	Street string
	City   string
	State  string
	ZIP    string
}

func (a Address) String() string {
	return a.Street + ", " + a.City + ", " + a.State + " " + a.ZIP
}

// Customer holds the contact block shared by orders and service requests.
type Customer struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Address        Address
	PreferCallback bool
}

func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Kind names a record type in admin links: /admin/shop/<kind>/<id>/change/.
type Kind string

const (
	KindOrder       Kind = "order"
	KindNuc         Kind = "nukerequest"
	KindPollination Kind = "pollinationrequest"
	KindBeeRemoval  Kind = "beeremovalrequest"
	KindCallback    Kind = "callbackrequest"
)

// IntegrationToken is a stored OAuth session for one provider realm.
type IntegrationToken struct {
	RealmID      string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	UpdatedAt    time.Time
}

func (t IntegrationToken) ExpiresWithin(now time.Time, d time.Duration) bool {
	return !now.Add(d).Before(t.ExpiresAt)
}
