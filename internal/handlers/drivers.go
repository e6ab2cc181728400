package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/moride/moride-backend/internal/models"
	"gorm.io/gorm"
)

// GetAllDrivers lists every registered driver
func GetAllDrivers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var drivers []models.Driver
		if err := db.Preload("User").Find(&drivers).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch drivers"})
			return
		}
		c.JSON(200, drivers)
	}
}

// GetMyDriver retrieves the caller's driver record
func GetMyDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var driver models.Driver
		if err := db.Where("user_id = ?", userId).First(&driver).Error; err != nil {
			c.JSON(404, gin.H{"error": "No driver record for this user"})
			return
		}
		c.JSON(200, driver)
	}
}

// GetDriverByID retrieves one driver record
func GetDriverByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var driver models.Driver
		if err := db.Preload("User").First(&driver, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}
		c.JSON(200, driver)
	}
}

// ChangeRoleToDriver promotes the caller's account to the driver role
func ChangeRoleToDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		if err := db.Model(&models.User{}).Where("id = ?", userId).
			Update("role", models.UserRoleDriver).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to change role"})
			return
		}

		c.JSON(200, gin.H{"message": "Role changed to driver"})
	}
}

// CreateDriver registers the caller as a driver. One record per user.
func CreateDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		if c.GetString("role") != string(models.UserRoleDriver) {
			c.JSON(403, gin.H{"error": "Only drivers can create a driver record"})
			return
		}

		var input struct {
			LicenseNumber   string `json:"licenseNumber" binding:"required"`
			YearsExperience int    `json:"yearsExperience"`
			Gender          string `json:"gender"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var existing models.Driver
		if err := db.Where("user_id = ?", userId).First(&existing).Error; err == nil {
			c.JSON(409, gin.H{"error": "Driver record already exists for this user"})
			return
		}

		driver := models.Driver{
			UserID:          userId,
			LicenseNumber:   input.LicenseNumber,
			YearsExperience: input.YearsExperience,
			Gender:          input.Gender,
			Status:          models.DriverStatusPending,
		}

		if err := db.Create(&driver).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create driver"})
			return
		}

		c.JSON(201, driver)
	}
}

// UpdateDriver updates the caller's driver record
func UpdateDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		if c.GetString("role") != string(models.UserRoleDriver) {
			c.JSON(403, gin.H{"error": "Only drivers can update a driver record"})
			return
		}

		var input struct {
			LicenseNumber   *string `json:"licenseNumber"`
			YearsExperience *int    `json:"yearsExperience"`
			Gender          *string `json:"gender"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var driver models.Driver
		if err := db.Where("user_id = ?", userId).First(&driver).Error; err != nil {
			c.JSON(404, gin.H{"error": "No driver record for this user"})
			return
		}

		if input.LicenseNumber != nil {
			driver.LicenseNumber = *input.LicenseNumber
		}
		if input.YearsExperience != nil {
			driver.YearsExperience = *input.YearsExperience
		}
		if input.Gender != nil {
			driver.Gender = *input.Gender
		}

		if err := db.Save(&driver).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update driver"})
			return
		}

		c.JSON(200, driver)
	}
}
