package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/moride/moride-backend/internal/models"
	"gorm.io/gorm"
)

// CreatePricing sets the caller's tariff. A user may hold at most one.
func CreatePricing(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			HourlyRate  float64 `json:"hourlyRate" binding:"required"`
			KmRate      float64 `json:"kmRate" binding:"required"`
			MinimumFare float64 `json:"minimumFare" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.HourlyRate < 0 || input.KmRate < 0 || input.MinimumFare < 0 {
			c.JSON(400, gin.H{"error": "Pricing values must be non-negative"})
			return
		}

		var existing models.Pricing
		if err := db.Where("user_id = ?", userId).First(&existing).Error; err == nil {
			c.JSON(409, gin.H{"error": "User already has a pricing record"})
			return
		}

		pricing := models.Pricing{
			UserID:      userId,
			HourlyRate:  input.HourlyRate,
			KmRate:      input.KmRate,
			MinimumFare: input.MinimumFare,
		}

		if err := db.Create(&pricing).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create pricing"})
			return
		}

		c.JSON(201, pricing)
	}
}

// GetPricingByUser retrieves a user's tariff
func GetPricingByUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var pricing models.Pricing
		if err := db.Where("user_id = ?", c.Param("userId")).First(&pricing).Error; err != nil {
			c.JSON(404, gin.H{"error": "Pricing not found"})
			return
		}
		c.JSON(200, pricing)
	}
}

// GetMyPricing retrieves the caller's tariff
func GetMyPricing(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var pricing models.Pricing
		if err := db.Where("user_id = ?", userId).First(&pricing).Error; err != nil {
			c.JSON(404, gin.H{"error": "Pricing not found"})
			return
		}
		c.JSON(200, pricing)
	}
}

// UpdatePricing updates the caller's tariff
func UpdatePricing(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			HourlyRate  *float64 `json:"hourlyRate"`
			KmRate      *float64 `json:"kmRate"`
			MinimumFare *float64 `json:"minimumFare"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.HourlyRate == nil && input.KmRate == nil && input.MinimumFare == nil {
			c.JSON(400, gin.H{"error": "No update fields provided"})
			return
		}

		var pricing models.Pricing
		if err := db.Where("user_id = ?", userId).First(&pricing).Error; err != nil {
			c.JSON(404, gin.H{"error": "Pricing not found"})
			return
		}

		if input.HourlyRate != nil {
			pricing.HourlyRate = *input.HourlyRate
		}
		if input.KmRate != nil {
			pricing.KmRate = *input.KmRate
		}
		if input.MinimumFare != nil {
			pricing.MinimumFare = *input.MinimumFare
		}

		if err := db.Save(&pricing).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update pricing"})
			return
		}

		c.JSON(200, pricing)
	}
}

// DeletePricing removes the caller's tariff
func DeletePricing(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var pricing models.Pricing
		if err := db.Where("user_id = ?", userId).First(&pricing).Error; err != nil {
			c.JSON(404, gin.H{"error": "Pricing not found"})
			return
		}

		if err := db.Delete(&pricing).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete pricing"})
			return
		}

		c.JSON(200, gin.H{"message": "Pricing deleted successfully"})
	}
}
