package models

import (
	"gorm.io/gorm"
)

// Profile holds the public-facing details of a user account.
type Profile struct {
	gorm.Model
	UserID       uint   `json:"userId" gorm:"not null;unique"`
	Firstname    string `json:"firstname" gorm:"not null"`
	Lastname     string `json:"lastname" gorm:"not null"`
	PhoneNumber  string `json:"phoneNumber"`
	ImageProfile string `json:"imageProfile"`
	User         *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name
func (Profile) TableName() string {
	return "profiles"
}
