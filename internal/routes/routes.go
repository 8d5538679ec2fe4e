package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/findcut/internal/audit"
	"github.com/BruksfildServices01/findcut/internal/config"
	"github.com/BruksfildServices01/findcut/internal/handlers"
	infraRepo "github.com/BruksfildServices01/findcut/internal/infra/repository"
	"github.com/BruksfildServices01/findcut/internal/middleware"
	"github.com/BruksfildServices01/findcut/internal/models"
	"github.com/BruksfildServices01/findcut/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/findcut/internal/usecase/appointment"
)

func RegisterRoutes(r *gin.Engine, repo *infraRepo.Memory, cfg *config.Config, events *audit.Dispatcher) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// USE CASES - BOOKINGS
	// ======================================================
	createBookingUC := ucAppointment.NewCreateBooking(repo, events)
	updateBookingStatusUC := ucAppointment.NewUpdateBookingStatus(repo, events)
	checkAvailabilityUC := ucAppointment.NewCheckAvailability(repo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(repo, cfg.JWTSecret, events)
	meHandler := handlers.NewMeHandler(repo)
	barbershopHandler := handlers.NewBarbershopHandler(repo, events)
	serviceHandler := handlers.NewServiceHandler(repo, events)
	bookingHandler := handlers.NewBookingHandler(
		repo,
		timezone.Location(cfg.Timezone),
		createBookingUC,
		updateBookingStatusUC,
		checkAvailabilityUC,
	)

	auth := middleware.AuthMiddleware(cfg.JWTSecret)
	ownerOnly := middleware.RequireRole(models.RoleOwner)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PÚBLICO
		// ------------------------------
		api.GET("/barber-shops", barbershopHandler.List)
		api.GET("/barber-shop/:id", barbershopHandler.Get)
		api.GET("/services", serviceHandler.List)
		api.GET("/services/:id/barbers", serviceHandler.Barbers)
		api.GET("/bookings/availability", bookingHandler.Availability)

		// ------------------------------
		// PRIVADO
		// ------------------------------
		secured := api.Group("/")
		secured.Use(auth)
		{
			secured.GET("/users/me", meHandler.GetMe)
			secured.GET("/me/barber-shop", meHandler.GetMyBarbershop)

			secured.POST("/barber-shop", ownerOnly, barbershopHandler.Create)
			secured.POST("/barber-shop/invite", ownerOnly, barbershopHandler.CreateInvite)
			secured.PATCH("/barber-shop/:id", ownerOnly, barbershopHandler.Update)

			secured.POST("/services", ownerOnly, serviceHandler.Create)
			secured.PUT("/services/:id", ownerOnly, serviceHandler.Update)
			secured.DELETE("/services/:id", ownerOnly, serviceHandler.Delete)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.POST("/bookings", bookingHandler.Create)
			secured.GET("/bookings", bookingHandler.List)
			secured.PATCH("/bookings/:id", bookingHandler.UpdateStatus)
		}
	}
}
