package routes

import (
	"net/http"
	"time"

	"phms/handlers"
	"phms/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAppointmentRoutes registers appointment endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.POST("", hb.CreateAppointmentHandler)
		api.GET("/id/:id", hb.GetAppointmentByIDHandler)
		api.GET("/user/:userId", hb.GetAppointmentsByUserHandler)
		api.PUT("/update/:id", hb.UpdateAppointmentHandler)
		api.PUT("/reminders/:id", hb.SetAppointmentRemindersHandler)
		api.DELETE("/delete/:id", hb.DeleteAppointmentHandler)
	}
}

// RegisterMedicationRoutes registers medication endpoints.
func RegisterMedicationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/medications")
	{
		api.POST("", hb.CreateMedicationHandler)
		api.GET("/id/:id", hb.GetMedicationByIDHandler)
		api.GET("/user/:userId", hb.GetMedicationsByUserHandler)
		api.PUT("/update/:id", hb.UpdateMedicationHandler)
		api.PUT("/reminders/:id", hb.SetMedicationRemindersHandler)
		api.DELETE("/delete/:id", hb.DeleteMedicationHandler)
	}
}

// RegisterSessionRoutes registers the session touchpoint endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/session")
	{
		api.PUT("/active-user", hb.SetActiveUserHandler)
		api.DELETE("/active-user", hb.ClearActiveUserHandler)
		api.PUT("/fcm-token/:userId", hb.UpdateFCMTokenHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"services": utils.GetHealthStatus(),
		})
	})
}

// SetupCORS configures cross-origin policy for the API.
func SetupCORS(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
}
