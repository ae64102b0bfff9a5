package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestContacted RequestStatus = "contacted"
	RequestScheduled RequestStatus = "scheduled"
	RequestCompleted RequestStatus = "completed"
	RequestDeclined  RequestStatus = "declined"
)

type NucRequest struct {
	ID                  int64
	Customer            Customer
	Quantity            int
	ExperienceLevel     string
	PreferredPickupDate *time.Time
	Notes               string
	Status              RequestStatus
	AdminNotes          string
	CreatedAt           time.Time
}

type PollinationRequest struct {
	ID                 int64
	Customer           Customer
	CropType           string
	Acreage            decimal.Decimal
	HivesRequested     *int
	PreferredStartDate time.Time
	DurationWeeks      int
	Notes              string
	Status             RequestStatus
	AdminNotes         string
	CreatedAt          time.Time
}

type Urgency string

const (
	UrgencyLow       Urgency = "low"
	UrgencyMedium    Urgency = "medium"
	UrgencyHigh      Urgency = "high"
	UrgencyEmergency Urgency = "emergency"
)

func (u Urgency) Urgent() bool {
	return u == UrgencyHigh || u == UrgencyEmergency
}

type BeeRemovalRequest struct {
	ID               int64
	Customer         Customer
	Urgency          Urgency
	PropertyType     string
	BeeLocation      string
	HowLongPresent   string
	EstimatedSize    string
	HeightFromGround string
	HasBeenSprayed   bool
	CanSendPhoto     bool
	Notes            string
	Status           RequestStatus
	AdminNotes       string
	CreatedAt        time.Time
}

var interestLabels = map[string]string{
	"honey":       "Honey",
	"nucs":        "Nucs / Starter Colonies",
	"pollination": "Pollination Services",
	"removal":     "Bee Removal",
	"other":       "Other",
}

type CallbackRequest struct {
	ID         int64
	Name       string
	Phone      string
	Email      string
	Interest   string
	BestTime   string
	Message    string
	Status     RequestStatus
	AdminNotes string
	CreatedAt  time.Time
}

func (c CallbackRequest) InterestLabel() string {
	if label, ok := interestLabels[c.Interest]; ok {
		return label
	}
	return c.Interest
}
