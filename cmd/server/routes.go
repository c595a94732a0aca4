package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hotelsuite/pms-backend/internal/config"
	"github.com/hotelsuite/pms-backend/internal/database"
	"github.com/hotelsuite/pms-backend/internal/handlers"
	"github.com/hotelsuite/pms-backend/internal/middleware"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/hotelsuite/pms-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
)

type routeHandlers struct {
	auth         *handlers.AuthHandler
	rooms        *handlers.RoomHandler
	reservations *handlers.ReservationHandler
	guests       *handlers.GuestHandler
	invoices     *handlers.InvoiceHandler
	services     *handlers.ServiceHandler
	staff        *handlers.StaffHandler
	hotel        *handlers.HotelHandler
	admin        *handlers.AdminHandler
}

func setupRouter(cfg *config.Config, logger *logrus.Logger, db database.DB, jwtService *jwt.Service, h routeHandlers) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	v1 := router.Group("/api/v1")
	v1.GET("/health", healthCheckHandler(db))

	// Public auth routes
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", h.auth.Login)
		authGroup.POST("/refresh", h.auth.RefreshToken)
	}

	// Everything below requires a valid access token
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(jwtService, logger))

	protected.POST("/auth/logout", h.auth.Logout)
	protected.GET("/auth/me", h.auth.GetMe)

	frontDesk := middleware.RequireRole(models.RoleAdmin, models.RoleManager)
	anyStaff := middleware.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleRestaurant)

	rooms := protected.Group("/rooms")
	{
		rooms.GET("", anyStaff, h.rooms.ListRooms)
		rooms.GET("/available", anyStaff, h.rooms.AvailableRooms)
		rooms.GET("/:id", anyStaff, h.rooms.GetRoom)
		rooms.GET("/:id/calendar", anyStaff, h.rooms.GetRoomCalendar)
		rooms.GET("/:id/reservations", frontDesk, h.rooms.GetRoomReservations)
		rooms.POST("", frontDesk, h.rooms.CreateRoom)
		rooms.PUT("/:id", frontDesk, h.rooms.UpdateRoom)
		rooms.DELETE("/:id", frontDesk, h.rooms.DeleteRoom)
	}

	reservations := protected.Group("/reservations")
	{
		reservations.GET("", anyStaff, h.reservations.ListReservations)
		reservations.GET("/today", anyStaff, h.reservations.Today)
		reservations.POST("/quote", frontDesk, h.reservations.Quote)
		reservations.POST("", frontDesk, h.reservations.CreateReservation)
		reservations.GET("/:id", anyStaff, h.reservations.GetReservation)
		reservations.PUT("/:id", frontDesk, h.reservations.UpdateReservation)
		reservations.POST("/:id/status", frontDesk, h.reservations.ChangeStatus)
		reservations.POST("/:id/invoice", frontDesk, h.invoices.GenerateInvoice)
	}

	guests := protected.Group("/guests", frontDesk)
	{
		guests.GET("", h.guests.ListGuests)
		guests.GET("/:id", h.guests.GetGuest)
		guests.PUT("/:id", h.guests.UpdateGuest)
		guests.GET("/:id/reservations", h.guests.GetGuestReservations)
	}

	invoices := protected.Group("/invoices", frontDesk)
	{
		invoices.GET("", h.invoices.ListInvoices)
		invoices.GET("/:id", h.invoices.GetInvoice)
		invoices.POST("/:id/items", h.invoices.AddItem)
		invoices.POST("/:id/payments", h.invoices.RecordPayment)
		invoices.POST("/:id/cancel", h.invoices.CancelInvoice)
	}

	catalog := protected.Group("/services")
	{
		catalog.GET("", anyStaff, h.services.ListServices)
		catalog.POST("", frontDesk, h.services.CreateService)
		catalog.PUT("/:id", frontDesk, h.services.UpdateService)
		catalog.DELETE("/:id", frontDesk, h.services.DeleteService)
	}

	orders := protected.Group("/service-orders", anyStaff)
	{
		orders.GET("", h.services.ListOrders)
		orders.POST("", h.services.PlaceOrder)
		orders.POST("/:id/status", h.services.ChangeOrderStatus)
	}

	staff := protected.Group("/staff", frontDesk)
	{
		staff.GET("", h.staff.ListStaff)
		staff.POST("", h.staff.CreateStaff)
		staff.GET("/:id", h.staff.GetStaff)
		staff.PUT("/:id", h.staff.UpdateStaff)
		staff.DELETE("/:id", h.staff.DeleteStaff)
	}

	protected.GET("/analytics/dashboard", frontDesk, h.hotel.Dashboard)

	hotel := protected.Group("/hotel", middleware.RequireHotel())
	{
		hotel.GET("", anyStaff, h.hotel.GetHotel)
		hotel.PUT("", frontDesk, h.hotel.UpdateHotel)
	}

	admin := protected.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/cron/status", h.admin.GetCronStatus)
		admin.POST("/cron/:job", h.admin.RunCronJob)
	}

	return router
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
