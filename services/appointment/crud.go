package appointment

import (
	"context"
	"fmt"
	"time"

	"phms/models"
)

// Create stores the appointment and registers its reminder triggers. The
// store assigns the integer id first; an entity without an id cannot be
// scheduled.
func (s *DefaultAppointmentService) Create(ctx context.Context, appt *models.Appointment) (*models.Appointment, error) {
	if appt.UserID == "" {
		return nil, fmt.Errorf("appointment requires a userId")
	}
	if _, err := appt.StartsAt(time.Local); err != nil {
		return nil, fmt.Errorf("invalid appointment schedule: %w", err)
	}

	if err := s.Repo.Create(appt); err != nil {
		return nil, err
	}

	if err := s.Reminders.SyncAppointment(ctx, appt); err != nil {
		return nil, fmt.Errorf("appointment %d saved but reminder scheduling failed: %w", appt.ID, err)
	}
	return appt, nil
}

// Update rewrites the appointment and re-derives its triggers from scratch.
func (s *DefaultAppointmentService) Update(ctx context.Context, appt *models.Appointment) (*models.Appointment, error) {
	if appt.ID == 0 {
		return nil, fmt.Errorf("appointment id is required for update")
	}
	if _, err := appt.StartsAt(time.Local); err != nil {
		return nil, fmt.Errorf("invalid appointment schedule: %w", err)
	}

	if err := s.Repo.Update(appt); err != nil {
		return nil, err
	}

	if err := s.Reminders.SyncAppointment(ctx, appt); err != nil {
		return nil, fmt.Errorf("appointment %d updated but reminder scheduling failed: %w", appt.ID, err)
	}
	return appt, nil
}

// Delete removes the appointment and cancels all its triggers. Trigger
// cancellation does not need the entity to still exist.
func (s *DefaultAppointmentService) Delete(ctx context.Context, id int) error {
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	return s.Reminders.CancelAppointmentTriggers(ctx, id)
}

func (s *DefaultAppointmentService) GetByID(ctx context.Context, id int) (*models.Appointment, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultAppointmentService) GetByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return s.Repo.GetByUser(userID)
}

// SetReminders flips the master reminder switch and reconciles triggers:
// enabling registers the future set, disabling leaves zero registrations.
func (s *DefaultAppointmentService) SetReminders(ctx context.Context, id int, enabled bool) (*models.Appointment, error) {
	appt, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	appt.Reminders = enabled
	if err := s.Repo.Update(appt); err != nil {
		return nil, err
	}

	if err := s.Reminders.SyncAppointment(ctx, appt); err != nil {
		return nil, fmt.Errorf("appointment %d reminder toggle saved but scheduling failed: %w", id, err)
	}
	return appt, nil
}
