// File: services/reminder/service.go
package reminder

import (
	"context"
	"fmt"
	"time"

	"phms/models"

	"go.uber.org/zap"
)

// Service is the single entry point the CRUD layer uses to keep trigger
// registrations in line with entity state. Every sync cancels the entity's
// full possible id set first and only then re-derives and re-registers;
// there is no partial-update path. Cancellation is synchronous, so a stale
// trigger can never fire after its replacement schedule was installed.
type Service struct {
	Registrar Registrar
	Logger    *zap.Logger

	// now is the planning clock; tests substitute it.
	now func() time.Time
}

func NewService(registrar Registrar, logger *zap.Logger) *Service {
	return &Service{
		Registrar: registrar,
		Logger:    logger,
		now:       time.Now,
	}
}

// SyncAppointment reconciles the appointment's trigger registrations with
// its current state. Disabled reminders or a past-dated appointment leave
// zero registrations behind.
func (s *Service) SyncAppointment(ctx context.Context, appt *models.Appointment) error {
	if appt.ID == 0 {
		return fmt.Errorf("appointment without id cannot be scheduled")
	}

	if err := s.Registrar.CancelAppointment(ctx, appt.ID); err != nil {
		return err
	}

	triggers, err := PlanAppointment(appt, s.now())
	if err != nil {
		return err
	}
	if len(triggers) == 0 {
		s.Logger.Debug("Appointment planning skipped, nothing to schedule",
			zap.Int("appointmentId", appt.ID),
			zap.Bool("reminders", appt.Reminders))
		return nil
	}

	return s.register(ctx, triggers)
}

// SyncMedication reconciles the medication's dose-slot registrations.
func (s *Service) SyncMedication(ctx context.Context, med *models.Medication) error {
	if med.ID == 0 {
		return fmt.Errorf("medication without id cannot be scheduled")
	}

	if err := s.Registrar.CancelMedication(ctx, med.ID); err != nil {
		return err
	}

	triggers, err := PlanMedication(med, s.now())
	if err != nil {
		return err
	}
	if len(triggers) == 0 {
		s.Logger.Debug("Medication planning skipped, nothing to schedule",
			zap.Int("medicationId", med.ID),
			zap.Bool("reminders", med.Reminders))
		return nil
	}

	return s.register(ctx, triggers)
}

// CancelAppointmentTriggers removes all of an appointment's registrations.
// Safe to call for an already-deleted appointment.
func (s *Service) CancelAppointmentTriggers(ctx context.Context, apptID int) error {
	return s.Registrar.CancelAppointment(ctx, apptID)
}

// CancelMedicationTriggers removes all of a medication's registrations.
func (s *Service) CancelMedicationTriggers(ctx context.Context, medID int) error {
	return s.Registrar.CancelMedication(ctx, medID)
}

func (s *Service) register(ctx context.Context, triggers []models.ScheduledTrigger) error {
	for _, trigger := range triggers {
		if err := s.Registrar.Register(ctx, trigger); err != nil {
			return err
		}
		s.Logger.Info("Registered reminder trigger",
			zap.Int("triggerId", trigger.TriggerID),
			zap.Time("fireAt", trigger.FireAt),
			zap.String("kind", trigger.Payload.Kind))
	}
	return nil
}
