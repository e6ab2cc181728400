package database

import (
	"github.com/moride/moride-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Driver{},
		&models.Car{},
		&models.Pricing{},
		&models.WorkingHours{},
		&models.Booking{},
		&models.ChatMessage{},
	)
	if err != nil {
		return err
	}

	// Update constraint
	if db.Migrator().HasTable(&models.User{}) {
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check`)
		db.Exec(`ALTER TABLE users ADD CONSTRAINT users_role_check CHECK (role IN ('client', 'driver'))`)
	}

	if db.Migrator().HasTable(&models.Booking{}) {
		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_trip_type_check`)
		db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_trip_type_check CHECK (trip_type IN ('private', 'shared', 'premium'))`)
		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_passengers_check`)
		db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_passengers_check CHECK (passengers BETWEEN 1 AND 4)`)

		if err := db.Exec(`ALTER TABLE bookings ALTER COLUMN applicants SET DEFAULT '[]'::jsonb`).Error; err != nil {
			return err
		}
		if err := db.Exec(`UPDATE bookings SET applicants = '[]'::jsonb WHERE applicants IS NULL`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.Driver{}) {
		db.Exec(`ALTER TABLE drivers DROP CONSTRAINT IF EXISTS drivers_status_check`)
		db.Exec(`ALTER TABLE drivers ADD CONSTRAINT drivers_status_check CHECK (status IN ('pending', 'approved', 'rejected'))`)
	}

	if db.Migrator().HasTable(&models.ChatMessage{}) {
		if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_chat_messages_room_name ON chat_messages (room_name)`).Error; err != nil {
			return err
		}
	}

	return nil
}
