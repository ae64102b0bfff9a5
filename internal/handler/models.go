package handler

import (
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/stirlingv/honey-biz/internal/entities"
)

const dateLayout = "2006-01-02"

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Product is a catalog entry.
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price" example:"12.00"`
	Size        string `json:"size"`
	InStock     bool   `json:"in_stock"`
}

func ProductEntityToJSON(p entities.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Size:        p.Size,
		InStock:     p.InStock,
	}
}

// Customer is the contact block of orders and service requests.
type Customer struct {
	FirstName      string `json:"first_name" validate:"required,max=100"`
	LastName       string `json:"last_name" validate:"required,max=100"`
	Email          string `json:"email" validate:"required,email,max=254"`
	Phone          string `json:"phone" validate:"required,max=20"`
	Address        string `json:"address" validate:"required"`
	City           string `json:"city" validate:"required,max=100"`
	State          string `json:"state" validate:"required,max=50"`
	ZipCode        string `json:"zip_code" validate:"required,max=10"`
	PreferCallback bool   `json:"prefer_callback"`
}

func (c Customer) toEntity() entities.Customer {
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

func customerToJSON(c entities.Customer) Customer {
	return Customer{
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address.Street,
		City:           c.Address.City,
		State:          c.Address.State,
		ZipCode:        c.Address.ZIP,
		PreferCallback: c.PreferCallback,
	}
}

// CreateOrderRequest is a honey order submission.
type CreateOrderRequest struct {
	Customer
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Quantity  int    `json:"quantity" validate:"required,gte=1,lte=1000"`
	Notes     string `json:"notes" validate:"max=2000"`
}

func (r CreateOrderRequest) toEntity() entities.Order {
	return entities.Order{
		Customer:  r.Customer.toEntity(),
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		Notes:     r.Notes,
	}
}

// Order is an order as shown to the customer.
type Order struct {
	ID            int64     `json:"id"`
	Customer      Customer  `json:"customer"`
	Product       Product   `json:"product"`
	Quantity      int       `json:"quantity"`
	Total         string    `json:"total" example:"36.00"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	PaymentURL    string    `json:"payment_url,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func OrderEntityToJSON(o entities.Order) Order {
	return Order{
		ID:            o.ID,
		Customer:      customerToJSON(o.Customer),
		Product:       ProductEntityToJSON(o.Product),
		Quantity:      o.Quantity,
		Total:         o.Total.StringFixed(2),
		Status:        string(o.Status),
		PaymentStatus: string(o.Payment.Status),
		PaymentURL:    o.Payment.URL,
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
	}
}

// OrderStatus is the public status view of an order.
type OrderStatus struct {
	ID            int64  `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	Total         string `json:"total"`
	PaidAt        string `json:"paid_at,omitempty"`
}

func OrderStatusToJSON(o entities.Order) OrderStatus {
	s := OrderStatus{
		ID:            o.ID,
		Status:        string(o.Status),
		PaymentStatus: string(o.Payment.Status),
		Total:         o.Total.StringFixed(2),
	}
	if o.Payment.PaidAt != nil {
		s.PaidAt = o.Payment.PaidAt.Format(time.RFC3339)
	}
	return s
}

type NucRequest struct {
	Customer
	Quantity            int    `json:"quantity" validate:"required,gte=1"`
	ExperienceLevel     string `json:"experience_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	PreferredPickupDate string `json:"preferred_pickup_date" validate:"omitempty,datetime=2006-01-02"`
	Notes               string `json:"notes"`
}

func (r NucRequest) toEntity() entities.NucRequest {
	req := entities.NucRequest{
		Customer:        r.Customer.toEntity(),
		Quantity:        r.Quantity,
		ExperienceLevel: r.ExperienceLevel,
		Notes:           r.Notes,
	}
	if req.ExperienceLevel == "" {
		req.ExperienceLevel = "beginner"
	}
	if d, err := time.Parse(dateLayout, r.PreferredPickupDate); err == nil {
		req.PreferredPickupDate = &d
	}
	return req
}

type PollinationRequest struct {
	Customer
	CropType           string          `json:"crop_type" validate:"required,max=100"`
	Acreage            decimal.Decimal `json:"acreage" validate:"gt=0" swaggertype:"string" example:"12.5"`
	HivesRequested     *int            `json:"num_hives_requested" validate:"omitempty,gte=1"`
	PreferredStartDate string          `json:"preferred_start_date" validate:"required,datetime=2006-01-02"`
	DurationWeeks      int             `json:"duration_weeks" validate:"required,gte=1"`
	Notes              string          `json:"notes"`
}

func (r PollinationRequest) toEntity() entities.PollinationRequest {
	start, _ := time.Parse(dateLayout, r.PreferredStartDate)
	return entities.PollinationRequest{
		Customer:           r.Customer.toEntity(),
		CropType:           r.CropType,
		Acreage:            r.Acreage,
		HivesRequested:     r.HivesRequested,
		PreferredStartDate: start,
		DurationWeeks:      r.DurationWeeks,
		Notes:              r.Notes,
	}
}

type BeeRemovalRequest struct {
	Customer
	Urgency          string `json:"urgency" validate:"omitempty,oneof=low medium high emergency"`
	PropertyType     string `json:"property_type" validate:"required,max=50"`
	BeeLocation      string `json:"bee_location" validate:"required,max=200"`
	HowLongPresent   string `json:"how_long_present" validate:"required,max=100"`
	EstimatedSize    string `json:"estimated_size" validate:"max=100"`
	HeightFromGround string `json:"height_from_ground" validate:"max=100"`
	HasBeenSprayed   bool   `json:"has_been_sprayed"`
	CanSendPhoto     bool   `json:"can_send_photo"`
	Notes            string `json:"notes"`
}

func (r BeeRemovalRequest) toEntity() entities.BeeRemovalRequest {
	return entities.BeeRemovalRequest{
		Customer:         r.Customer.toEntity(),
		Urgency:          entities.Urgency(r.Urgency),
		PropertyType:     r.PropertyType,
		BeeLocation:      r.BeeLocation,
		HowLongPresent:   r.HowLongPresent,
		EstimatedSize:    r.EstimatedSize,
		HeightFromGround: r.HeightFromGround,
		HasBeenSprayed:   r.HasBeenSprayed,
		CanSendPhoto:     r.CanSendPhoto,
		Notes:            r.Notes,
	}
}

type CallbackRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Phone    string `json:"phone" validate:"required,max=20"`
	Email    string `json:"email" validate:"omitempty,email"`
	Interest string `json:"interest" validate:"required,oneof=honey nucs pollination removal other"`
	BestTime string `json:"best_time" validate:"max=100"`
	Message  string `json:"message"`
}

func (r CallbackRequest) toEntity() entities.CallbackRequest {
	return entities.CallbackRequest{
		Name:     r.Name,
		Phone:    r.Phone,
		Email:    r.Email,
		Interest: r.Interest,
		BestTime: r.BestTime,
		Message:  r.Message,
	}
}

// Created acknowledges a stored submission.
type Created struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// CheckoutResponse is returned when checkout does not redirect.
type CheckoutResponse struct {
	Outcome string `json:"outcome"`
	Message string `json:"message"`
	Order   Order  `json:"order"`
}

// InvoicePaymentMessage is the payload of the invoice payments topic.
type InvoicePaymentMessage struct {
	InvoiceID string `json:"invoice_id" validate:"required"`
	RealmID   string `json:"realm_id"`
	PaymentID string `json:"payment_id"`
}
