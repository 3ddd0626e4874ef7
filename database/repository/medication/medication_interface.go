package medicationRepo

import (
	"context"
	"errors"

	"phms/models"
)

// ErrNotFound reports a medication confirmed absent from the store, as
// opposed to a transient failure to reach it.
var ErrNotFound = errors.New("medication not found")

// MedicationRepository defines persistence operations for medications.
type MedicationRepository interface {
	Create(med *models.Medication) error
	Update(med *models.Medication) error
	Delete(id int) error

	// GetByID honors the caller's context deadline.
	GetByID(ctx context.Context, id int) (*models.Medication, error)

	GetByUser(userID string) ([]models.Medication, error)
	GetWithReminders(userID string) ([]models.Medication, error)
}
