// File: services/reminder/bootstrap.go
package reminder

import (
	"context"
	"time"

	"phms/models"

	"go.uber.org/zap"
)

// LastUserSource reads the single persisted "last active user" key. An
// empty id means no session has ever been recorded on this deployment.
type LastUserSource interface {
	Get(ctx context.Context) (string, error)
}

// AppointmentLister and MedicationLister are the bulk read contracts the
// recovery pass uses.
type AppointmentLister interface {
	GetUpcomingWithReminders(userID string) ([]models.Appointment, error)
}

type MedicationLister interface {
	GetWithReminders(userID string) ([]models.Medication, error)
}

// Bootstrap reconstructs the full scheduling state from scratch after a
// restart, assuming nothing about which registrations survived. Because
// registration is idempotent by deterministic id, it is equally safe when
// everything survived. Runs once per worker boot, and again on every
// maintenance sweep.
type Bootstrap struct {
	LastUser     LastUserSource
	Appointments AppointmentLister
	Medications  MedicationLister
	Reminders    *Service
	Logger       *zap.Logger
}

// Run performs the recovery pass. Per-entity failures are logged and
// skipped so one bad record cannot block the rest of the schedule.
func (b *Bootstrap) Run(ctx context.Context) error {
	start := time.Now()

	userID, err := b.LastUser.Get(ctx)
	if err != nil {
		return err
	}
	if userID == "" {
		// Fresh install or fully signed-out deployment: nothing to recover.
		b.Logger.Warn("No last active user recorded, skipping reminder recovery")
		return nil
	}

	b.Logger.Info("Recovering reminder schedule", zap.String("userId", userID))

	var scheduled, failed int

	appts, err := b.Appointments.GetUpcomingWithReminders(userID)
	if err != nil {
		return err
	}
	for i := range appts {
		if err := b.Reminders.SyncAppointment(ctx, &appts[i]); err != nil {
			failed++
			b.Logger.Error("Failed to recover appointment reminders",
				zap.Int("appointmentId", appts[i].ID), zap.Error(err))
			continue
		}
		scheduled++
	}

	meds, err := b.Medications.GetWithReminders(userID)
	if err != nil {
		return err
	}
	for i := range meds {
		if err := b.Reminders.SyncMedication(ctx, &meds[i]); err != nil {
			failed++
			b.Logger.Error("Failed to recover medication reminders",
				zap.Int("medicationId", meds[i].ID), zap.Error(err))
			continue
		}
		scheduled++
	}

	b.Logger.Info("Reminder recovery finished",
		zap.String("userId", userID),
		zap.Int("entities", scheduled),
		zap.Int("failed", failed),
		zap.Duration("took", time.Since(start)))
	return nil
}
