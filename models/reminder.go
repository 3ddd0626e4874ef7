package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// AppointmentTriggerKind selects which of the two appointment reminders a
// trigger represents.
type AppointmentTriggerKind string

const (
	OneDayBefore  AppointmentTriggerKind = "ONE_DAY_BEFORE"
	OneHourBefore AppointmentTriggerKind = "ONE_HOUR_BEFORE"
)

// DeepLink tells the client app which screen a notification should open.
type DeepLink string

const (
	DeepLinkAppointments DeepLink = "OPEN_APPOINTMENTS"
	DeepLinkMedications  DeepLink = "OPEN_MEDICATIONS"
)

// ScheduledTrigger is one future point in time at which an alert should be
// evaluated and possibly shown. It is never persisted on its own; its
// existence is implicit in the task queue's registry.
type ScheduledTrigger struct {
	TriggerID int
	FireAt    time.Time
	Payload   TriggerPayload
}

// TriggerPayload is the tagged union carried through the deferred callback.
// Exactly one of the kind-specific members is set, matching Kind.
type TriggerPayload struct {
	Kind        string                     `json:"kind"`
	Appointment *AppointmentTriggerPayload `json:"appointment,omitempty"`
	Medication  *MedicationTriggerPayload  `json:"medication,omitempty"`
}

const (
	TriggerKindAppointment = "appointment"
	TriggerKindMedication  = "medication"
)

// AppointmentTriggerPayload carries enough static context to render an
// appointment alert even when the fire-time re-fetch is unavailable.
type AppointmentTriggerPayload struct {
	AppointmentID int                    `json:"appointmentId"`
	UserID        string                 `json:"userId"`
	DoctorName    string                 `json:"doctorName"`
	Date          string                 `json:"date"`
	Time          string                 `json:"time"`
	Reason        string                 `json:"reason"`
	Offset        AppointmentTriggerKind `json:"offset"`
}

// MedicationTriggerPayload is the dose-slot counterpart.
type MedicationTriggerPayload struct {
	MedicationID int    `json:"medicationId"`
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Instructions string `json:"instructions"`
	SlotIndex    int    `json:"slotIndex"`
	SlotTime     string `json:"slotTime"` // "15:04"
}

// DecodeFailureError marks a callback payload that could not be decoded
// into a known trigger kind. Handlers log it and abort; it is never
// retried, since redelivery cannot fix a malformed payload.
type DecodeFailureError struct {
	Reason string
}

func (e *DecodeFailureError) Error() string {
	return fmt.Sprintf("trigger payload decode failure: %s", e.Reason)
}

// DecodeTriggerPayload parses raw callback bytes into a well-formed
// payload. Unknown tags and tag/member mismatches are DecodeFailureErrors,
// so forward-incompatible payloads degrade to a logged no-op.
func DecodeTriggerPayload(raw []byte) (*TriggerPayload, error) {
	var p TriggerPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &DecodeFailureError{Reason: err.Error()}
	}

	switch p.Kind {
	case TriggerKindAppointment:
		if p.Appointment == nil {
			return nil, &DecodeFailureError{Reason: "appointment payload missing appointment member"}
		}
		switch p.Appointment.Offset {
		case OneDayBefore, OneHourBefore:
		default:
			return nil, &DecodeFailureError{Reason: fmt.Sprintf("unknown appointment offset %q", p.Appointment.Offset)}
		}
	case TriggerKindMedication:
		if p.Medication == nil {
			return nil, &DecodeFailureError{Reason: "medication payload missing medication member"}
		}
		if p.Medication.SlotIndex < 0 || p.Medication.SlotIndex >= MaxDoseSlots {
			return nil, &DecodeFailureError{Reason: fmt.Sprintf("dose slot index %d out of range", p.Medication.SlotIndex)}
		}
	default:
		return nil, &DecodeFailureError{Reason: fmt.Sprintf("unknown trigger kind %q", p.Kind)}
	}

	return &p, nil
}

// Encode serializes the payload for the task queue.
func (p *TriggerPayload) Encode() ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode trigger payload: %w", err)
	}
	return b, nil
}
