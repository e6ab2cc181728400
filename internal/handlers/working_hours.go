package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/moride/moride-backend/internal/models"
	"gorm.io/gorm"
)

// CreateWorkingHours creates the caller's weekly schedule. One per driver.
func CreateWorkingHours(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driver, ok := resolveDriver(db, c)
		if !ok {
			return
		}

		var existing models.WorkingHours
		if err := db.Where("driver_id = ?", driver.ID).First(&existing).Error; err == nil {
			c.JSON(409, gin.H{"error": "Driver already has working hours"})
			return
		}

		var input struct {
			WeekSchedule models.WeekSchedule `json:"weekSchedule"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		schedule := input.WeekSchedule
		if len(schedule) == 0 {
			schedule = models.DefaultWeekSchedule()
		}

		hours := models.WorkingHours{
			DriverID:     driver.ID,
			WeekSchedule: schedule,
		}

		if err := db.Create(&hours).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create working hours"})
			return
		}

		c.JSON(201, hours)
	}
}

// GetAllWorkingHours lists every driver's schedule
func GetAllWorkingHours(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var hours []models.WorkingHours
		if err := db.Find(&hours).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch working hours"})
			return
		}
		c.JSON(200, hours)
	}
}

// GetWorkingHoursByDriver retrieves one driver's schedule
func GetWorkingHoursByDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var hours models.WorkingHours
		if err := db.Where("driver_id = ?", c.Param("driverId")).First(&hours).Error; err != nil {
			c.JSON(404, gin.H{"error": "Working hours not found"})
			return
		}
		c.JSON(200, hours)
	}
}

// GetMyWorkingHours retrieves the caller's schedule
func GetMyWorkingHours(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driver, ok := resolveDriver(db, c)
		if !ok {
			return
		}

		var hours models.WorkingHours
		if err := db.Where("driver_id = ?", driver.ID).First(&hours).Error; err != nil {
			c.JSON(404, gin.H{"error": "Working hours not found"})
			return
		}
		c.JSON(200, hours)
	}
}

// UpdateWorkingHours replaces the caller's weekly schedule
func UpdateWorkingHours(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driver, ok := resolveDriver(db, c)
		if !ok {
			return
		}

		var input struct {
			WeekSchedule models.WeekSchedule `json:"weekSchedule" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var hours models.WorkingHours
		if err := db.Where("driver_id = ?", driver.ID).First(&hours).Error; err != nil {
			c.JSON(404, gin.H{"error": "Working hours not found"})
			return
		}

		hours.WeekSchedule = input.WeekSchedule
		if err := db.Save(&hours).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update working hours"})
			return
		}

		c.JSON(200, hours)
	}
}
