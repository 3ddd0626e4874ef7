package medication

import (
	"context"

	medicationRepo "phms/database/repository/medication"
	"phms/models"
	"phms/services/reminder"
)

// MedicationService owns medication CRUD; mutations re-derive dose-slot
// triggers through the reminder service.
type MedicationService interface {
	Create(ctx context.Context, med *models.Medication) (*models.Medication, error)
	Update(ctx context.Context, med *models.Medication) (*models.Medication, error)
	Delete(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (*models.Medication, error)
	GetByUser(ctx context.Context, userID string) ([]models.Medication, error)
	SetReminders(ctx context.Context, id int, enabled bool) (*models.Medication, error)
}

// DefaultMedicationService is the production implementation.
type DefaultMedicationService struct {
	Repo      medicationRepo.MedicationRepository
	Reminders *reminder.Service
}
