package handlers

import (
	"errors"
	"net/http"
	"strconv"

	appointmentRepo "phms/database/repository/appointment"
	"phms/models"
	"phms/services/appointment"
	"phms/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler exposes appointment CRUD over HTTP.
type AppointmentHandler struct {
	Service appointment.AppointmentService
}

func NewAppointmentHandler(svc appointment.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Service: svc}
}

func (h *AppointmentHandler) CreateAppointmentHandler(c *gin.Context) {
	logger := getLogger(c)

	var appt models.Appointment
	if err := c.ShouldBindJSON(&appt); err != nil {
		logger.Error("Invalid appointment request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	created, err := h.Service.Create(c.Request.Context(), &appt)
	if err != nil {
		logger.Error("Failed to create appointment", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create appointment", err.Error())
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *AppointmentHandler) UpdateAppointmentHandler(c *gin.Context) {
	logger := getLogger(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid appointment id", c.Param("id"))
		return
	}

	var appt models.Appointment
	if err := c.ShouldBindJSON(&appt); err != nil {
		logger.Error("Invalid appointment update request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	appt.ID = id

	updated, err := h.Service.Update(c.Request.Context(), &appt)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Appointment not found", "")
			return
		}
		logger.Error("Failed to update appointment", zap.Int("id", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update appointment", err.Error())
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *AppointmentHandler) DeleteAppointmentHandler(c *gin.Context) {
	logger := getLogger(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid appointment id", c.Param("id"))
		return
	}

	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Appointment not found", "")
			return
		}
		logger.Error("Failed to delete appointment", zap.Int("id", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete appointment", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *AppointmentHandler) GetAppointmentByIDHandler(c *gin.Context) {
	logger := getLogger(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid appointment id", c.Param("id"))
		return
	}

	appt, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Appointment not found", "")
			return
		}
		logger.Error("Failed to fetch appointment", zap.Int("id", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch appointment", err.Error())
		return
	}

	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) GetAppointmentsByUserHandler(c *gin.Context) {
	logger := getLogger(c)

	userID := c.Param("userId")
	appts, err := h.Service.GetByUser(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to fetch appointments", zap.String("userId", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch appointments", err.Error())
		return
	}

	c.JSON(http.StatusOK, appts)
}

// SetAppointmentRemindersHandler toggles the reminder master switch.
func (h *AppointmentHandler) SetAppointmentRemindersHandler(c *gin.Context) {
	logger := getLogger(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid appointment id", c.Param("id"))
		return
	}

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	appt, err := h.Service.SetReminders(c.Request.Context(), id, req.Enabled)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Appointment not found", "")
			return
		}
		logger.Error("Failed to toggle appointment reminders", zap.Int("id", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to toggle reminders", err.Error())
		return
	}

	c.JSON(http.StatusOK, appt)
}
