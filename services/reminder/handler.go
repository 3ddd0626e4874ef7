// File: services/reminder/handler.go
package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmentRepo "phms/database/repository/appointment"
	medicationRepo "phms/database/repository/medication"
	"phms/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AppointmentReader and MedicationReader are the read contracts the fired
// handler re-validates against. Implementations must report confirmed
// absence with the repo package's ErrNotFound, distinct from transient
// failures.
type AppointmentReader interface {
	GetByID(ctx context.Context, id int) (*models.Appointment, error)
}

type MedicationReader interface {
	GetByID(ctx context.Context, id int) (*models.Medication, error)
}

// AlertSink is the display contract. Alert.ID is the deterministic trigger
// id, so redisplay overwrites.
type AlertSink interface {
	ShowAlert(ctx context.Context, alert models.Alert) error
}

// Handler runs when a registered trigger fires. It holds no state across
// invocations; everything it needs is in the task payload or re-fetched
// fresh. Nothing may panic or propagate uncaught out of ProcessTask: the
// queue is a host-managed context with no user-visible error surface.
type Handler struct {
	Appointments AppointmentReader
	Medications  MedicationReader
	Alerts       AlertSink
	Registrar    Registrar
	Logger       *zap.Logger

	// FetchTimeout bounds the re-validation read. It is deliberately
	// shorter than the repositories' own defaults because the handler's
	// execution budget is shorter than a user-facing request.
	FetchTimeout time.Duration

	now func() time.Time
}

func NewHandler(
	appointments AppointmentReader,
	medications MedicationReader,
	alerts AlertSink,
	registrar Registrar,
	fetchTimeout time.Duration,
	logger *zap.Logger,
) *Handler {
	if fetchTimeout <= 0 {
		fetchTimeout = 3 * time.Second
	}
	return &Handler{
		Appointments: appointments,
		Medications:  medications,
		Alerts:       alerts,
		Registrar:    registrar,
		FetchTimeout: fetchTimeout,
		Logger:       logger,
		now:          time.Now,
	}
}

// ProcessTask implements asynq.Handler. A nil return marks the trigger
// consumed; an error return lets the queue redeliver, which is reserved
// for failures where a retry can still produce the alert.
func (h *Handler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload, err := models.DecodeTriggerPayload(task.Payload())
	if err != nil {
		// Redelivery cannot fix a malformed payload.
		h.Logger.Error("Dropping undecodable reminder trigger", zap.Error(err))
		return nil
	}

	switch payload.Kind {
	case models.TriggerKindAppointment:
		return h.handleAppointment(ctx, payload.Appointment)
	case models.TriggerKindMedication:
		return h.handleMedication(ctx, payload.Medication)
	default:
		// DecodeTriggerPayload already rejects unknown kinds.
		return nil
	}
}

func (h *Handler) handleAppointment(ctx context.Context, p *models.AppointmentTriggerPayload) error {
	fctx, cancel := context.WithTimeout(ctx, h.FetchTimeout)
	appt, err := h.Appointments.GetByID(fctx, p.AppointmentID)
	cancel()

	switch {
	case errors.Is(err, appointmentRepo.ErrNotFound):
		// Deleted between scheduling and firing: stale trigger, no alert.
		h.Logger.Info("Appointment gone before its reminder fired, dropping",
			zap.Int("appointmentId", p.AppointmentID))
		return nil
	case err != nil:
		// Could not determine. Show from payload so a transient blip does
		// not silently swallow a real reminder.
		h.Logger.Warn("Appointment re-fetch failed, falling back to payload display",
			zap.Int("appointmentId", p.AppointmentID), zap.Error(err))
		return h.Alerts.ShowAlert(ctx, appointmentAlert(p, nil))
	case !appt.Reminders:
		// User disabled reminders after scheduling; the stale callback is
		// a no-op, not an error.
		h.Logger.Debug("Reminders disabled for appointment, dropping",
			zap.Int("appointmentId", p.AppointmentID))
		return nil
	}

	return h.Alerts.ShowAlert(ctx, appointmentAlert(p, appt))
}

func (h *Handler) handleMedication(ctx context.Context, p *models.MedicationTriggerPayload) error {
	fctx, cancel := context.WithTimeout(ctx, h.FetchTimeout)
	med, err := h.Medications.GetByID(fctx, p.MedicationID)
	cancel()

	switch {
	case errors.Is(err, medicationRepo.ErrNotFound):
		h.Logger.Info("Medication gone before its reminder fired, dropping",
			zap.Int("medicationId", p.MedicationID))
		return nil
	case err != nil:
		h.Logger.Warn("Medication re-fetch failed, falling back to payload display",
			zap.Int("medicationId", p.MedicationID), zap.Error(err))
		showErr := h.Alerts.ShowAlert(ctx, medicationAlert(p, nil))
		// Keep the recurrence alive from payload data; the next fire will
		// re-validate against the store again.
		h.rescheduleSlot(ctx, medFromPayload(p), p.SlotIndex)
		return showErr
	}

	// Dose slots are one-shot per occurrence: whatever happens below, the
	// planner decides whether a next occurrence exists. A disabled
	// medication plans to nothing, which retires the recurrence.
	defer h.rescheduleSlot(ctx, med, p.SlotIndex)

	if !med.Reminders {
		h.Logger.Debug("Reminders disabled for medication, dropping",
			zap.Int("medicationId", p.MedicationID))
		return nil
	}

	return h.Alerts.ShowAlert(ctx, medicationAlert(p, med))
}

// rescheduleSlot registers the next occurrence of one dose slot. Failures
// are logged, not returned: the 12h maintenance sweep repairs any gap.
func (h *Handler) rescheduleSlot(ctx context.Context, med *models.Medication, slotIndex int) {
	trigger, err := PlanMedicationSlot(med, slotIndex, h.now())
	if err != nil || trigger == nil {
		if err != nil {
			h.Logger.Error("Failed to plan next dose occurrence",
				zap.Int("medicationId", med.ID), zap.Int("slot", slotIndex), zap.Error(err))
		}
		return
	}
	if err := h.Registrar.Register(ctx, *trigger); err != nil {
		h.Logger.Error("Failed to register next dose occurrence",
			zap.Int("triggerId", trigger.TriggerID), zap.Error(err))
		return
	}
	h.Logger.Info("Registered next dose occurrence",
		zap.Int("triggerId", trigger.TriggerID), zap.Time("fireAt", trigger.FireAt))
}

// medFromPayload reconstructs the minimum medication the planner needs
// when the store could not be reached.
func medFromPayload(p *models.MedicationTriggerPayload) *models.Medication {
	times := make([]string, p.SlotIndex+1)
	times[p.SlotIndex] = p.SlotTime
	return &models.Medication{
		ID:        p.MedicationID,
		UserID:    p.UserID,
		Name:      p.Name,
		Times:     times,
		Reminders: true,
	}
}

// appointmentAlert builds the user-visible alert, preferring the freshly
// fetched entity's fields and falling back to the payload's static context.
func appointmentAlert(p *models.AppointmentTriggerPayload, appt *models.Appointment) models.Alert {
	doctor := p.DoctorName
	date := p.Date
	timeOfDay := p.Time
	reason := p.Reason
	if appt != nil {
		if appt.DoctorName != "" {
			doctor = appt.DoctorName
		}
		date = appt.Date
		timeOfDay = appt.Time
		reason = appt.Reason
	}
	if doctor == "" {
		doctor = "your doctor"
	}

	title := "Appointment tomorrow"
	if p.Offset == models.OneHourBefore {
		title = "Appointment in 1 hour"
	}

	body := fmt.Sprintf("Appointment with %s at %s on %s", doctor, timeOfDay, date)
	if reason != "" {
		body += ". Reason: " + reason
	}

	return models.Alert{
		ID:       AppointmentTriggerID(p.AppointmentID, p.Offset),
		UserID:   p.UserID,
		Title:    title,
		Body:     body,
		DeepLink: models.DeepLinkAppointments,
	}
}

func medicationAlert(p *models.MedicationTriggerPayload, med *models.Medication) models.Alert {
	name := p.Name
	dosage := p.Dosage
	instructions := p.Instructions
	if med != nil {
		name = med.Name
		dosage = med.Dosage
		instructions = med.Instructions
	}

	var body string
	if dosage != "" {
		body = fmt.Sprintf("Time to take %s of %s", dosage, name)
	} else {
		body = fmt.Sprintf("Time to take %s", name)
	}
	if instructions != "" {
		body += ". " + instructions
	}

	return models.Alert{
		ID:       MedicationTriggerID(p.MedicationID, p.SlotIndex),
		UserID:   p.UserID,
		Title:    "Medication Reminder",
		Body:     body,
		DeepLink: models.DeepLinkMedications,
	}
}
