package models

import (
	"gorm.io/gorm"
)

type DriverStatus string

const (
	DriverStatusPending  DriverStatus = "pending"
	DriverStatusApproved DriverStatus = "approved"
	DriverStatusRejected DriverStatus = "rejected"
)

// Driver is the directory record that marks a user as a registered driver.
// Booking applications are keyed by Driver.ID, not by the user id.
type Driver struct {
	gorm.Model
	UserID          uint         `json:"userId" gorm:"not null;unique"`
	LicenseNumber   string       `json:"licenseNumber" gorm:"not null"`
	YearsExperience int          `json:"yearsExperience"`
	Gender          string       `json:"gender"`
	Status          DriverStatus `json:"status" gorm:"not null;default:'pending'"`
	Rating          float64      `json:"rating" gorm:"default:0"`
	RatingCount     int          `json:"ratingCount" gorm:"default:0"`
	User            *User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name
func (Driver) TableName() string {
	return "drivers"
}
