package models

import (
	"gorm.io/gorm"
)

// Pricing is a driver's tariff. Each user may hold at most one.
type Pricing struct {
	gorm.Model
	UserID      uint    `json:"userId" gorm:"not null;unique"`
	HourlyRate  float64 `json:"hourlyRate" gorm:"not null"`
	KmRate      float64 `json:"kmRate" gorm:"not null"`
	MinimumFare float64 `json:"minimumFare" gorm:"not null"`
	User        *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name
func (Pricing) TableName() string {
	return "pricings"
}
