package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"slotwise/handlers"
	"slotwise/middleware"
	"slotwise/utils"
)

// RegisterTimeslotRoutes registers the calendar endpoints.
func RegisterTimeslotRoutes(r *gin.Engine, h *handlers.TimeslotHandler) {
	api := r.Group("/api/timeslots")
	{
		// All calendar routes require a bearer credential.
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", h.GetTimeslotsHandler)
		api.POST("", h.CreateTimeslotsHandler)
		api.DELETE("", h.DeleteTimeslotHandler)
		api.PATCH("", h.MarkFixedHandler)
		api.POST("/extend", h.ExtendHandler)
		api.POST("/rebook", h.RebookHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, h *handlers.TimeslotHandler) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterTimeslotRoutes(r, h)
	RegisterHealthRoute(r)
}
