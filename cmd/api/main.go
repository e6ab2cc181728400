package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/moride/moride-backend/internal/database"
	"github.com/moride/moride-backend/internal/handlers"
	"github.com/moride/moride-backend/internal/middleware"
	"github.com/moride/moride-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize chat gateway
	presence := services.NewPresence()
	chatService := services.NewChatService(db)
	hub := services.NewChatHub(chatService, presence)
	go hub.Run()

	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "token"}
	r.Use(cors.New(config))

	// Routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", handlers.Register(db))
		auth.POST("/login", handlers.Login(db))
	}

	// WebSocket connection; the gateway validates the token itself
	r.GET("/ws", handlers.ChatWebSocket(hub))

	booking := r.Group("/booking")
	{
		booking.GET("", handlers.GetAllBookings(db))
		booking.GET("/:id", handlers.GetBooking(db))

		authed := booking.Group("", middleware.AuthMiddleware())
		{
			authed.POST("", handlers.CreateBooking(db))
			authed.GET("/my-booking", handlers.GetMyBookings(db))
			authed.PATCH("/:id", handlers.UpdateBooking(db))
			authed.DELETE("/:id", handlers.DeleteBooking(db))
			authed.PATCH("/:id/apply", handlers.ApplyForBooking(db))
			authed.PATCH("/:id/accepter", handlers.AcceptOffer(db))
		}
	}

	protected := r.Group("/", middleware.AuthMiddleware())
	{
		users := protected.Group("/users")
		{
			users.GET("/profile", handlers.GetProfile(db))
			users.POST("/profile", handlers.CreateProfile(db))
			users.PUT("/profile", handlers.UpdateProfile(db))
		}

		driver := protected.Group("/driver")
		{
			driver.GET("", handlers.GetAllDrivers(db))
			driver.GET("/me", handlers.GetMyDriver(db))
			driver.GET("/get/:id", handlers.GetDriverByID(db))
			driver.POST("/role", handlers.ChangeRoleToDriver(db))
			driver.POST("", handlers.CreateDriver(db))
			driver.PATCH("", handlers.UpdateDriver(db))
		}

		car := protected.Group("/car")
		{
			car.POST("", handlers.CreateCar(db))
			car.GET("", handlers.GetAllCars(db))
			car.GET("/me", handlers.GetMyCar(db))
			car.GET("/s/:id", handlers.GetCar(db))
			car.GET("/driver/:driverId", handlers.GetCarByDriver(db))
			car.PATCH("/:id", handlers.UpdateCar(db))
			car.DELETE("/:id", handlers.DeleteCar(db))
		}

		pricing := protected.Group("/pricing")
		{
			pricing.POST("", handlers.CreatePricing(db))
			pricing.GET("/me", handlers.GetMyPricing(db))
			pricing.GET("/user/:userId", handlers.GetPricingByUser(db))
			pricing.PATCH("", handlers.UpdatePricing(db))
			pricing.DELETE("", handlers.DeletePricing(db))
		}

		workingHours := protected.Group("/working-hours")
		{
			workingHours.POST("", handlers.CreateWorkingHours(db))
			workingHours.GET("", handlers.GetAllWorkingHours(db))
			workingHours.GET("/me", handlers.GetMyWorkingHours(db))
			workingHours.GET("/driver/:driverId", handlers.GetWorkingHoursByDriver(db))
			workingHours.PATCH("", handlers.UpdateWorkingHours(db))
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
