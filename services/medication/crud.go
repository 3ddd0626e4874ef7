package medication

import (
	"context"
	"fmt"
	"time"

	"phms/models"
)

func validateDoseTimes(med *models.Medication) error {
	if len(med.Times) == 0 {
		return fmt.Errorf("medication requires at least one dose time")
	}
	if len(med.Times) > models.MaxDoseSlots {
		return fmt.Errorf("medication has %d dose times, maximum is %d", len(med.Times), models.MaxDoseSlots)
	}
	for i, t := range med.Times {
		if _, err := time.Parse(models.AppointmentTimeLayout, t); err != nil {
			return fmt.Errorf("dose time %d (%q) is not HH:MM: %w", i, t, err)
		}
	}
	for _, d := range med.Weekdays {
		if d < 0 || d > 6 {
			return fmt.Errorf("weekday %d out of range", d)
		}
	}
	return nil
}

// Create stores the medication and registers one trigger per dose slot.
func (s *DefaultMedicationService) Create(ctx context.Context, med *models.Medication) (*models.Medication, error) {
	if med.UserID == "" {
		return nil, fmt.Errorf("medication requires a userId")
	}
	if err := validateDoseTimes(med); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(med); err != nil {
		return nil, err
	}

	if err := s.Reminders.SyncMedication(ctx, med); err != nil {
		return nil, fmt.Errorf("medication %d saved but reminder scheduling failed: %w", med.ID, err)
	}
	return med, nil
}

// Update rewrites the medication and re-derives its dose triggers.
func (s *DefaultMedicationService) Update(ctx context.Context, med *models.Medication) (*models.Medication, error) {
	if med.ID == 0 {
		return nil, fmt.Errorf("medication id is required for update")
	}
	if err := validateDoseTimes(med); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(med); err != nil {
		return nil, err
	}

	if err := s.Reminders.SyncMedication(ctx, med); err != nil {
		return nil, fmt.Errorf("medication %d updated but reminder scheduling failed: %w", med.ID, err)
	}
	return med, nil
}

// Delete removes the medication and cancels all possible dose triggers.
func (s *DefaultMedicationService) Delete(ctx context.Context, id int) error {
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	return s.Reminders.CancelMedicationTriggers(ctx, id)
}

func (s *DefaultMedicationService) GetByID(ctx context.Context, id int) (*models.Medication, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultMedicationService) GetByUser(ctx context.Context, userID string) ([]models.Medication, error) {
	return s.Repo.GetByUser(userID)
}

// SetReminders flips the master switch and reconciles dose triggers.
func (s *DefaultMedicationService) SetReminders(ctx context.Context, id int, enabled bool) (*models.Medication, error) {
	med, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	med.Reminders = enabled
	if err := s.Repo.Update(med); err != nil {
		return nil, err
	}

	if err := s.Reminders.SyncMedication(ctx, med); err != nil {
		return nil, fmt.Errorf("medication %d reminder toggle saved but scheduling failed: %w", id, err)
	}
	return med, nil
}
