// File: services/reminder/planner.go
package reminder

import (
	"fmt"
	"time"

	"phms/models"
)

// The planner is pure: entity + now in, triggers out. No I/O, no clocks of
// its own. Past-dated and reminders-disabled entities plan to an empty
// list, which is an expected outcome, not an error.

// PlanAppointment computes the one-day-before and one-hour-before triggers
// for an appointment. Each is included only when its fire time is strictly
// in the future relative to now. An appointment already in the past yields
// an empty plan.
func PlanAppointment(appt *models.Appointment, now time.Time) ([]models.ScheduledTrigger, error) {
	if appt == nil || appt.ID == 0 || !appt.Reminders {
		return nil, nil
	}

	startsAt, err := appt.StartsAt(now.Location())
	if err != nil {
		return nil, fmt.Errorf("appointment %d has unparseable schedule: %w", appt.ID, err)
	}

	var triggers []models.ScheduledTrigger
	offsets := []struct {
		kind   models.AppointmentTriggerKind
		offset time.Duration
	}{
		{models.OneDayBefore, 24 * time.Hour},
		{models.OneHourBefore, time.Hour},
	}

	for _, o := range offsets {
		fireAt := startsAt.Add(-o.offset)
		if !fireAt.After(now) {
			continue
		}
		triggers = append(triggers, models.ScheduledTrigger{
			TriggerID: AppointmentTriggerID(appt.ID, o.kind),
			FireAt:    fireAt,
			Payload: models.TriggerPayload{
				Kind: models.TriggerKindAppointment,
				Appointment: &models.AppointmentTriggerPayload{
					AppointmentID: appt.ID,
					UserID:        appt.UserID,
					DoctorName:    appt.DoctorName,
					Date:          appt.Date,
					Time:          appt.Time,
					Reason:        appt.Reason,
					Offset:        o.kind,
				},
			},
		})
	}

	return triggers, nil
}

// PlanMedication emits one trigger per configured dose slot, each at the
// slot's next future occurrence: today if the time of day has not yet
// passed on an active weekday, otherwise the next matching day.
func PlanMedication(med *models.Medication, now time.Time) ([]models.ScheduledTrigger, error) {
	if med == nil || med.ID == 0 || !med.Reminders {
		return nil, nil
	}

	var triggers []models.ScheduledTrigger
	for slot := range med.Times {
		trigger, err := PlanMedicationSlot(med, slot, now)
		if err != nil {
			return nil, err
		}
		if trigger != nil {
			triggers = append(triggers, *trigger)
		}
	}
	return triggers, nil
}

// PlanMedicationSlot computes the next occurrence of a single dose slot.
// The fired handler calls this to register the following day's dose, since
// queue registrations are one-shot. Returns nil when the medication has no
// schedulable occurrence (reminders off, slot missing).
func PlanMedicationSlot(med *models.Medication, slotIndex int, now time.Time) (*models.ScheduledTrigger, error) {
	if med == nil || med.ID == 0 || !med.Reminders {
		return nil, nil
	}
	if slotIndex < 0 || slotIndex >= len(med.Times) || slotIndex >= models.MaxDoseSlots {
		return nil, nil
	}

	slotTime, err := time.Parse(models.AppointmentTimeLayout, med.Times[slotIndex])
	if err != nil {
		return nil, fmt.Errorf("medication %d slot %d has unparseable time %q: %w",
			med.ID, slotIndex, med.Times[slotIndex], err)
	}

	fireAt, ok := nextOccurrence(med, slotTime.Hour(), slotTime.Minute(), now)
	if !ok {
		return nil, nil
	}

	return &models.ScheduledTrigger{
		TriggerID: MedicationTriggerID(med.ID, slotIndex),
		FireAt:    fireAt,
		Payload: models.TriggerPayload{
			Kind: models.TriggerKindMedication,
			Medication: &models.MedicationTriggerPayload{
				MedicationID: med.ID,
				UserID:       med.UserID,
				Name:         med.Name,
				Dosage:       med.Dosage,
				Instructions: med.Instructions,
				SlotIndex:    slotIndex,
				SlotTime:     med.Times[slotIndex],
			},
		},
	}, nil
}

// nextOccurrence finds the first instant strictly after now that lands on
// an active weekday at the given time of day.
func nextOccurrence(med *models.Medication, hour, minute int, now time.Time) (time.Time, bool) {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	for day := 0; day < 8; day++ {
		if candidate.After(now) && med.ActiveOn(candidate.Weekday()) {
			return candidate, true
		}
		candidate = candidate.AddDate(0, 0, 1)
	}
	// Unreachable with a sane weekday set; 8 days always covers a week.
	return time.Time{}, false
}
