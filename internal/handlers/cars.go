package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/moride/moride-backend/internal/models"
	"gorm.io/gorm"
)

// resolveDriver maps the calling user to their driver record.
func resolveDriver(db *gorm.DB, c *gin.Context) (*models.Driver, bool) {
	userId := c.GetUint("userId")

	if c.GetString("role") != string(models.UserRoleDriver) {
		c.JSON(403, gin.H{"error": "Driver role required"})
		return nil, false
	}

	var driver models.Driver
	if err := db.Where("user_id = ?", userId).First(&driver).Error; err != nil {
		c.JSON(400, gin.H{"error": "No driver record for this user"})
		return nil, false
	}
	return &driver, true
}

// CreateCar registers the caller's vehicle. One car per driver, unique plate.
func CreateCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driver, ok := resolveDriver(db, c)
		if !ok {
			return
		}

		var input struct {
			License         string `json:"license" binding:"required"`
			Model           string `json:"model" binding:"required"`
			Year            string `json:"year"`
			Transmission    string `json:"transmission"`
			Insurance       string `json:"insurance"`
			LastMaintenance string `json:"lastMaintenance"`
			ImageURL        string `json:"imageUrl"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var existing models.Car
		if err := db.Where("driver_id = ?", driver.ID).First(&existing).Error; err == nil {
			c.JSON(409, gin.H{"error": "Driver already has a registered car"})
			return
		}
		if err := db.Where("license = ?", input.License).First(&existing).Error; err == nil {
			c.JSON(409, gin.H{"error": "License plate already registered"})
			return
		}

		car := models.Car{
			DriverID:        driver.ID,
			License:         input.License,
			CarModel:        input.Model,
			Year:            input.Year,
			Transmission:    input.Transmission,
			Insurance:       input.Insurance,
			LastMaintenance: input.LastMaintenance,
			ImageURL:        input.ImageURL,
		}

		if err := db.Create(&car).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create car"})
			return
		}

		c.JSON(201, gin.H{
			"message": "Car created successfully",
			"car":     car,
		})
	}
}

// GetAllCars lists every registered car
func GetAllCars(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cars []models.Car
		if err := db.Find(&cars).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch cars"})
			return
		}
		c.JSON(200, gin.H{"cars": cars})
	}
}

// GetCar retrieves one car by id
func GetCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var car models.Car
		if err := db.First(&car, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}
		c.JSON(200, gin.H{"car": car})
	}
}

// GetCarByDriver retrieves the car registered by a driver
func GetCarByDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var car models.Car
		if err := db.Where("driver_id = ?", c.Param("driverId")).First(&car).Error; err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}
		c.JSON(200, gin.H{"car": car})
	}
}

// GetMyCar retrieves the caller's own car
func GetMyCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driver, ok := resolveDriver(db, c)
		if !ok {
			return
		}

		var car models.Car
		if err := db.Where("driver_id = ?", driver.ID).First(&car).Error; err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}
		c.JSON(200, gin.H{"car": car})
	}
}

// UpdateCar updates the caller's car
func UpdateCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driver, ok := resolveDriver(db, c)
		if !ok {
			return
		}

		var input struct {
			License         *string `json:"license"`
			Model           *string `json:"model"`
			Year            *string `json:"year"`
			Transmission    *string `json:"transmission"`
			Insurance       *string `json:"insurance"`
			LastMaintenance *string `json:"lastMaintenance"`
			ImageURL        *string `json:"imageUrl"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var car models.Car
		if err := db.First(&car, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		if car.DriverID != driver.ID {
			c.JSON(403, gin.H{"error": "You are not allowed to update this car"})
			return
		}

		if input.License != nil {
			car.License = *input.License
		}
		if input.Model != nil {
			car.CarModel = *input.Model
		}
		if input.Year != nil {
			car.Year = *input.Year
		}
		if input.Transmission != nil {
			car.Transmission = *input.Transmission
		}
		if input.Insurance != nil {
			car.Insurance = *input.Insurance
		}
		if input.LastMaintenance != nil {
			car.LastMaintenance = *input.LastMaintenance
		}
		if input.ImageURL != nil {
			car.ImageURL = *input.ImageURL
		}

		if err := db.Save(&car).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update car"})
			return
		}

		c.JSON(200, gin.H{
			"message": "Car updated successfully",
			"car":     car,
		})
	}
}

// DeleteCar removes the caller's car
func DeleteCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driver, ok := resolveDriver(db, c)
		if !ok {
			return
		}

		var car models.Car
		if err := db.First(&car, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		if car.DriverID != driver.ID {
			c.JSON(403, gin.H{"error": "You are not allowed to delete this car"})
			return
		}

		if err := db.Delete(&car).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete car"})
			return
		}

		c.JSON(200, gin.H{"message": "Car deleted successfully"})
	}
}
