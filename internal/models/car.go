package models

import (
	"gorm.io/gorm"
)

// Car is a driver's registered vehicle. One car per driver, unique plate.
type Car struct {
	gorm.Model
	DriverID        uint    `json:"driverId" gorm:"not null;unique"`
	License         string  `json:"license" gorm:"unique;not null"`
	CarModel        string  `json:"model" gorm:"column:car_model;not null"`
	Year            string  `json:"year"`
	Transmission    string  `json:"transmission"`
	Insurance       string  `json:"insurance"`
	LastMaintenance string  `json:"lastMaintenance"`
	ImageURL        string  `json:"imageUrl"`
	Driver          *Driver `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
}

// TableName specifies the table name
func (Car) TableName() string {
	return "cars"
}
