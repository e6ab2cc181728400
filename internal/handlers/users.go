package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/moride/moride-backend/internal/models"
	"gorm.io/gorm"
)

// GetProfile retrieves the caller's profile
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var user models.User
		if err := db.First(&user, userId).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		var profile models.Profile
		err := db.Where("user_id = ?", userId).First(&profile).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(500, gin.H{"error": "Failed to fetch profile"})
			return
		}

		c.JSON(200, gin.H{
			"id":           user.ID,
			"email":        user.Email,
			"username":     user.Username,
			"role":         user.Role,
			"isOnline":     user.IsOnline,
			"firstname":    profile.Firstname,
			"lastname":     profile.Lastname,
			"phoneNumber":  profile.PhoneNumber,
			"imageProfile": profile.ImageProfile,
		})
	}
}

// CreateProfile creates the caller's profile. Each user has at most one.
func CreateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			Firstname    string `json:"firstname" binding:"required"`
			Lastname     string `json:"lastname" binding:"required"`
			PhoneNumber  string `json:"phoneNumber"`
			ImageProfile string `json:"imageProfile"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var existing models.Profile
		if err := db.Where("user_id = ?", userId).First(&existing).Error; err == nil {
			c.JSON(409, gin.H{"error": "Profile already exists for this user"})
			return
		}

		profile := models.Profile{
			UserID:       userId,
			Firstname:    input.Firstname,
			Lastname:     input.Lastname,
			PhoneNumber:  input.PhoneNumber,
			ImageProfile: input.ImageProfile,
		}

		if err := db.Create(&profile).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create profile"})
			return
		}

		c.JSON(201, profile)
	}
}

// UpdateProfile updates the caller's profile information
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			Firstname    *string `json:"firstname"`
			Lastname     *string `json:"lastname"`
			PhoneNumber  *string `json:"phoneNumber"`
			ImageProfile *string `json:"imageProfile"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var profile models.Profile
		if err := db.Where("user_id = ?", userId).First(&profile).Error; err != nil {
			c.JSON(404, gin.H{"error": "Profile not found"})
			return
		}

		// Update fields individually to handle empty strings properly
		if input.Firstname != nil {
			profile.Firstname = *input.Firstname
		}
		if input.Lastname != nil {
			profile.Lastname = *input.Lastname
		}
		if input.PhoneNumber != nil {
			profile.PhoneNumber = *input.PhoneNumber
		}
		if input.ImageProfile != nil {
			profile.ImageProfile = *input.ImageProfile
		}

		if err := db.Save(&profile).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update profile"})
			return
		}

		c.JSON(200, profile)
	}
}
