package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/moride/moride-backend/internal/models"
	"gorm.io/gorm"
)

// CreateBooking handles the creation of a new trip request by a rider
func CreateBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			From       string          `json:"from" binding:"required"`
			To         string          `json:"to" binding:"required"`
			Date       string          `json:"date" binding:"required"`
			Time       string          `json:"time" binding:"required"`
			Passengers int             `json:"passengers" binding:"required"`
			TripType   models.TripType `json:"tripType" binding:"omitempty,oneof=private shared premium"`
			Notes      string          `json:"notes"`
			ProfileID  *uint           `json:"profileId"`
			PriceFrom  string          `json:"priceFrom" binding:"required"`
			PriceTo    string          `json:"priceTo" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if err := models.ValidatePassengers(input.Passengers); err != nil {
			c.JSON(400, gin.H{"error": "Passengers must be between 1 and 4"})
			return
		}

		tripType := input.TripType
		if tripType == "" {
			tripType = models.TripTypePrivate
		}

		booking := models.Booking{
			From:       input.From,
			To:         input.To,
			Date:       input.Date,
			Time:       input.Time,
			Passengers: input.Passengers,
			TripType:   tripType,
			Notes:      input.Notes,
			UserID:     userId,
			ProfileID:  input.ProfileID,
			PriceFrom:  input.PriceFrom,
			PriceTo:    input.PriceTo,
			Applicants: models.Applicants{},
		}

		if err := db.Create(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create booking"})
			return
		}

		c.JSON(201, gin.H{
			"message": "Booking created successfully",
			"booking": booking,
		})
	}
}

// GetAllBookings lists every open trip request
func GetAllBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bookings []models.Booking
		if err := db.Order("created_at DESC").Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}
		c.JSON(200, bookings)
	}
}

// GetMyBookings lists the caller's own trip requests
func GetMyBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var bookings []models.Booking
		if err := db.Where("user_id = ?", userId).
			Order("created_at DESC").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}
		c.JSON(200, bookings)
	}
}

// GetBooking retrieves one booking by id
func GetBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var booking models.Booking
		if err := db.First(&booking, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}
		c.JSON(200, booking)
	}
}

// UpdateBooking updates a booking's trip fields. Only the owning rider may
// update, and only the closed field set below is accepted.
func UpdateBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			From       *string          `json:"from"`
			To         *string          `json:"to"`
			Date       *string          `json:"date"`
			Time       *string          `json:"time"`
			Passengers *int             `json:"passengers"`
			TripType   *models.TripType `json:"tripType" binding:"omitempty,oneof=private shared premium"`
			Notes      *string          `json:"notes"`
			PriceFrom  *string          `json:"priceFrom"`
			PriceTo    *string          `json:"priceTo"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var booking models.Booking
		if err := db.First(&booking, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if !booking.OwnedBy(userId) {
			c.JSON(403, gin.H{"error": "You are not allowed to update this booking"})
			return
		}

		if input.Passengers != nil {
			if err := models.ValidatePassengers(*input.Passengers); err != nil {
				c.JSON(400, gin.H{"error": "Passengers must be between 1 and 4"})
				return
			}
			booking.Passengers = *input.Passengers
		}
		if input.From != nil {
			booking.From = *input.From
		}
		if input.To != nil {
			booking.To = *input.To
		}
		if input.Date != nil {
			booking.Date = *input.Date
		}
		if input.Time != nil {
			booking.Time = *input.Time
		}
		if input.TripType != nil {
			booking.TripType = *input.TripType
		}
		if input.Notes != nil {
			booking.Notes = *input.Notes
		}
		if input.PriceFrom != nil {
			booking.PriceFrom = *input.PriceFrom
		}
		if input.PriceTo != nil {
			booking.PriceTo = *input.PriceTo
		}

		if err := db.Save(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update booking"})
			return
		}

		c.JSON(200, gin.H{
			"message": "Booking updated successfully",
			"booking": booking,
		})
	}
}

// DeleteBooking removes a booking. Only the owning rider may delete.
func DeleteBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var booking models.Booking
		if err := db.First(&booking, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if !booking.OwnedBy(userId) {
			c.JSON(403, gin.H{"error": "You are not allowed to delete this booking"})
			return
		}

		if err := db.Delete(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete booking"})
			return
		}

		c.JSON(200, gin.H{"message": "Booking deleted successfully"})
	}
}

// ApplyForBooking submits a driver's priced offer against a booking
func ApplyForBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		if c.GetString("role") != string(models.UserRoleDriver) {
			c.JSON(403, gin.H{"error": "Only drivers can apply for bookings"})
			return
		}

		var input struct {
			Message string  `json:"message" binding:"required"`
			Date    string  `json:"date" binding:"required"`
			Time    string  `json:"time" binding:"required"`
			Price   float64 `json:"price" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var booking models.Booking
		if err := db.First(&booking, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		// Resolve the caller to a driver record; only registered drivers
		// may submit offers.
		var driver models.Driver
		if err := db.Where("user_id = ?", userId).First(&driver).Error; err != nil {
			c.JSON(400, gin.H{"error": "No driver record for this user"})
			return
		}

		if err := booking.Apply(models.Applicant{
			DriverID: driver.ID,
			Message:  input.Message,
			Date:     input.Date,
			Time:     input.Time,
			Price:    input.Price,
		}); err != nil {
			c.JSON(models.StatusCode(err), gin.H{"error": "You have already applied for this booking"})
			return
		}

		if err := db.Model(&booking).Update("applicants", booking.Applicants).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to save application"})
			return
		}

		c.JSON(200, gin.H{
			"message": "Application successful",
			"booking": booking,
		})
	}
}

// AcceptOffer selects one driver's offer on a booking. The selected driver is
// written with a conditional update so that two concurrent accepts can never
// both succeed.
func AcceptOffer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			DriverID uint `json:"driverId" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var booking models.Booking
		if err := db.First(&booking, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if !booking.OwnedBy(userId) {
			c.JSON(403, gin.H{"error": "You are not allowed to modify this booking"})
			return
		}

		if err := booking.AcceptOffer(input.DriverID); err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidArgument):
				c.JSON(400, gin.H{"error": "No offer from this driver"})
			case errors.Is(err, models.ErrConflict):
				c.JSON(409, gin.H{"error": "A driver has already been selected"})
			default:
				c.JSON(500, gin.H{"error": "Failed to accept offer"})
			}
			return
		}

		result := db.Model(&models.Booking{}).
			Where("id = ? AND selected_driver IS NULL", booking.ID).
			Updates(map[string]interface{}{
				"applicants":      booking.Applicants,
				"selected_driver": booking.SelectedDriver,
			})
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to accept offer"})
			return
		}
		if result.RowsAffected == 0 {
			// Another accept won the race since we loaded the booking.
			c.JSON(409, gin.H{"error": "A driver has already been selected"})
			return
		}

		c.JSON(200, gin.H{
			"message": "Offer accepted successfully",
			"booking": booking,
		})
	}
}
