package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves a Zap logger from the Gin context or creates a new one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	logger, _ := zap.NewProduction()
	return logger
}

// HandlerBundle groups the endpoint handlers the router registers.
type HandlerBundle struct {
	// Appointment endpoints.
	CreateAppointmentHandler       gin.HandlerFunc
	UpdateAppointmentHandler       gin.HandlerFunc
	DeleteAppointmentHandler       gin.HandlerFunc
	GetAppointmentByIDHandler      gin.HandlerFunc
	GetAppointmentsByUserHandler   gin.HandlerFunc
	SetAppointmentRemindersHandler gin.HandlerFunc

	// Medication endpoints.
	CreateMedicationHandler       gin.HandlerFunc
	UpdateMedicationHandler       gin.HandlerFunc
	DeleteMedicationHandler       gin.HandlerFunc
	GetMedicationByIDHandler      gin.HandlerFunc
	GetMedicationsByUserHandler   gin.HandlerFunc
	SetMedicationRemindersHandler gin.HandlerFunc

	// Session endpoints.
	SetActiveUserHandler   gin.HandlerFunc
	ClearActiveUserHandler gin.HandlerFunc
	UpdateFCMTokenHandler  gin.HandlerFunc
}
