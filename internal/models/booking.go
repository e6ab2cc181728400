package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

type TripType string

const (
	TripTypePrivate TripType = "private"
	TripTypeShared  TripType = "shared"
	TripTypePremium TripType = "premium"
)

type ApplicantStatus string

const (
	ApplicantStatusPending  ApplicantStatus = "pending"
	ApplicantStatusAccepted ApplicantStatus = "accepted"
	ApplicantStatusRejected ApplicantStatus = "rejected"
)

const (
	MinPassengers = 1
	MaxPassengers = 4
)

// Applicant is a driver's priced offer against a booking. Applicants live
// inside the booking aggregate and are never addressed as rows of their own.
type Applicant struct {
	DriverID uint            `json:"driverId"`
	Message  string          `json:"message"`
	Date     string          `json:"date"`
	Time     string          `json:"time"`
	Price    float64         `json:"price"`
	Status   ApplicantStatus `json:"status"`
}

// Applicants is stored as a single JSONB column so the whole offer list is
// rewritten in one persistence call.
type Applicants []Applicant

func (a Applicants) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal(Applicants{})
	}
	return json.Marshal(a)
}

func (a *Applicants) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	case nil:
		*a = Applicants{}
		return nil
	default:
		return fmt.Errorf("unsupported type for Applicants: %T", value)
	}
}

// SelectedDriver records the one driver the rider accepted.
type SelectedDriver struct {
	DriverID     uint `json:"driverId"`
	Confirmation bool `json:"confirmation"`
}

func (s SelectedDriver) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *SelectedDriver) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported type for SelectedDriver: %T", value)
	}
}

// Booking is a rider's trip request, with its driver offers embedded.
type Booking struct {
	gorm.Model
	From           string          `json:"from" gorm:"column:from_location;not null"`
	To             string          `json:"to" gorm:"column:to_location;not null"`
	Date           string          `json:"date" gorm:"not null"`
	Time           string          `json:"time" gorm:"not null"`
	Passengers     int             `json:"passengers" gorm:"not null"`
	TripType       TripType        `json:"tripType" gorm:"not null;default:'private'"`
	Notes          string          `json:"notes"`
	UserID         uint            `json:"userId" gorm:"not null;index"`
	ProfileID      *uint           `json:"profileId"`
	PriceFrom      string          `json:"priceFrom" gorm:"not null"`
	PriceTo        string          `json:"priceTo" gorm:"not null"`
	Applicants     Applicants      `json:"applicants" gorm:"type:jsonb;not null;default:'[]'"`
	SelectedDriver *SelectedDriver `json:"selectedDriver" gorm:"type:jsonb"`
	FinalPrice     *float64        `json:"finalPrice"`
	Rating         *int            `json:"rating"`
	DriverComment  string          `json:"driverComment"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}

// ValidatePassengers checks the passenger count allowed on a booking.
func ValidatePassengers(n int) error {
	if n < MinPassengers || n > MaxPassengers {
		return fmt.Errorf("%w: passengers must be between %d and %d", ErrInvalidArgument, MinPassengers, MaxPassengers)
	}
	return nil
}

// HasApplicant reports whether the driver already has an offer on the booking.
func (b *Booking) HasApplicant(driverID uint) bool {
	for _, applicant := range b.Applicants {
		if applicant.DriverID == driverID {
			return true
		}
	}
	return false
}

// Apply appends a pending offer from the driver. A driver may apply at most
// once per booking; re-application is an error, not an update.
func (b *Booking) Apply(applicant Applicant) error {
	if b.HasApplicant(applicant.DriverID) {
		return fmt.Errorf("%w: driver has already applied for this booking", ErrConflict)
	}
	applicant.Status = ApplicantStatusPending
	b.Applicants = append(b.Applicants, applicant)
	return nil
}

// AcceptOffer selects the named driver's offer. Exactly one applicant ends up
// accepted and every other one rejected; a booking accepts at most once.
func (b *Booking) AcceptOffer(driverID uint) error {
	if !b.HasApplicant(driverID) {
		return fmt.Errorf("%w: no offer from this driver", ErrInvalidArgument)
	}
	if b.SelectedDriver != nil {
		return fmt.Errorf("%w: a driver has already been selected", ErrConflict)
	}

	b.SelectedDriver = &SelectedDriver{
		DriverID:     driverID,
		Confirmation: true,
	}
	for i := range b.Applicants {
		if b.Applicants[i].DriverID == driverID {
			b.Applicants[i].Status = ApplicantStatusAccepted
		} else {
			b.Applicants[i].Status = ApplicantStatusRejected
		}
	}
	return nil
}

// OwnedBy reports whether the rider owns this booking.
func (b *Booking) OwnedBy(userID uint) bool {
	return b.UserID == userID
}
