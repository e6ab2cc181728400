package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// DaySchedule is one day of a driver's weekly availability.
type DaySchedule struct {
	IsWorking bool    `json:"isWorking"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
}

// WeekSchedule maps weekday name to its schedule. Stored as a single JSONB
// column so the schedule is always read and written as a whole.
type WeekSchedule map[string]DaySchedule

func (w WeekSchedule) Value() (driver.Value, error) {
	return json.Marshal(w)
}

func (w *WeekSchedule) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, w)
	case string:
		return json.Unmarshal([]byte(v), w)
	case nil:
		*w = nil
		return nil
	default:
		return fmt.Errorf("unsupported type for WeekSchedule: %T", value)
	}
}

// DefaultWeekSchedule returns a full week with every day marked not working.
func DefaultWeekSchedule() WeekSchedule {
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	week := make(WeekSchedule, len(days))
	for _, day := range days {
		week[day] = DaySchedule{IsWorking: false}
	}
	return week
}

// WorkingHours is a driver's weekly availability. One record per driver.
type WorkingHours struct {
	gorm.Model
	DriverID     uint         `json:"driverId" gorm:"not null;unique"`
	WeekSchedule WeekSchedule `json:"weekSchedule" gorm:"type:jsonb"`
	Driver       *Driver      `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
}

// TableName specifies the table name
func (WorkingHours) TableName() string {
	return "working_hours"
}
