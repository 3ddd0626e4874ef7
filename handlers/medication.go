package handlers

import (
	"errors"
	"net/http"
	"strconv"

	medicationRepo "phms/database/repository/medication"
	"phms/models"
	"phms/services/medication"
	"phms/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MedicationHandler exposes medication CRUD over HTTP.
type MedicationHandler struct {
	Service medication.MedicationService
}

func NewMedicationHandler(svc medication.MedicationService) *MedicationHandler {
	return &MedicationHandler{Service: svc}
}

func (h *MedicationHandler) CreateMedicationHandler(c *gin.Context) {
	logger := getLogger(c)

	var med models.Medication
	if err := c.ShouldBindJSON(&med); err != nil {
		logger.Error("Invalid medication request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	created, err := h.Service.Create(c.Request.Context(), &med)
	if err != nil {
		logger.Error("Failed to create medication", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create medication", err.Error())
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *MedicationHandler) UpdateMedicationHandler(c *gin.Context) {
	logger := getLogger(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid medication id", c.Param("id"))
		return
	}

	var med models.Medication
	if err := c.ShouldBindJSON(&med); err != nil {
		logger.Error("Invalid medication update request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	med.ID = id

	updated, err := h.Service.Update(c.Request.Context(), &med)
	if err != nil {
		if errors.Is(err, medicationRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Medication not found", "")
			return
		}
		logger.Error("Failed to update medication", zap.Int("id", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update medication", err.Error())
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *MedicationHandler) DeleteMedicationHandler(c *gin.Context) {
	logger := getLogger(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid medication id", c.Param("id"))
		return
	}

	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, medicationRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Medication not found", "")
			return
		}
		logger.Error("Failed to delete medication", zap.Int("id", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete medication", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *MedicationHandler) GetMedicationByIDHandler(c *gin.Context) {
	logger := getLogger(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid medication id", c.Param("id"))
		return
	}

	med, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, medicationRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Medication not found", "")
			return
		}
		logger.Error("Failed to fetch medication", zap.Int("id", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch medication", err.Error())
		return
	}

	c.JSON(http.StatusOK, med)
}

func (h *MedicationHandler) GetMedicationsByUserHandler(c *gin.Context) {
	logger := getLogger(c)

	userID := c.Param("userId")
	meds, err := h.Service.GetByUser(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to fetch medications", zap.String("userId", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch medications", err.Error())
		return
	}

	c.JSON(http.StatusOK, meds)
}

// SetMedicationRemindersHandler toggles the reminder master switch.
func (h *MedicationHandler) SetMedicationRemindersHandler(c *gin.Context) {
	logger := getLogger(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid medication id", c.Param("id"))
		return
	}

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	med, err := h.Service.SetReminders(c.Request.Context(), id, req.Enabled)
	if err != nil {
		if errors.Is(err, medicationRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Medication not found", "")
			return
		}
		logger.Error("Failed to toggle medication reminders", zap.Int("id", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to toggle reminders", err.Error())
		return
	}

	c.JSON(http.StatusOK, med)
}
