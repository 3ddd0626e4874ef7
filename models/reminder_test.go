package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTriggerPayloadAppointment(t *testing.T) {
	p := TriggerPayload{
		Kind: TriggerKindAppointment,
		Appointment: &AppointmentTriggerPayload{
			AppointmentID: 42,
			UserID:        "user-1",
			DoctorName:    "Dr. Patel",
			Date:          "2025-03-10",
			Time:          "09:00",
			Offset:        OneDayBefore,
		},
	}
	raw, err := p.Encode()
	require.NoError(t, err)

	decoded, err := DecodeTriggerPayload(raw)
	require.NoError(t, err)
	require.NotNil(t, decoded.Appointment)
	assert.Nil(t, decoded.Medication)
	assert.Equal(t, 42, decoded.Appointment.AppointmentID)
	assert.Equal(t, OneDayBefore, decoded.Appointment.Offset)
}

func TestDecodeTriggerPayloadMedication(t *testing.T) {
	p := TriggerPayload{
		Kind: TriggerKindMedication,
		Medication: &MedicationTriggerPayload{
			MedicationID: 7,
			UserID:       "user-1",
			Name:         "Metformin",
			SlotIndex:    1,
			SlotTime:     "20:00",
		},
	}
	raw, err := p.Encode()
	require.NoError(t, err)

	decoded, err := DecodeTriggerPayload(raw)
	require.NoError(t, err)
	require.NotNil(t, decoded.Medication)
	assert.Equal(t, 7, decoded.Medication.MedicationID)
	assert.Equal(t, 1, decoded.Medication.SlotIndex)
}

func TestDecodeTriggerPayloadRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `{{`},
		{"unknown kind", `{"kind":"vitals"}`},
		{"appointment without member", `{"kind":"appointment"}`},
		{"medication without member", `{"kind":"medication"}`},
		{"unknown offset", `{"kind":"appointment","appointment":{"appointmentId":1,"offset":"TWO_DAYS_BEFORE"}}`},
		{"slot index negative", `{"kind":"medication","medication":{"medicationId":1,"slotIndex":-1}}`},
		{"slot index past bound", `{"kind":"medication","medication":{"medicationId":1,"slotIndex":4}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decoded, err := DecodeTriggerPayload([]byte(tc.raw))
			require.Error(t, err)
			assert.Nil(t, decoded)

			var decodeErr *DecodeFailureError
			assert.True(t, errors.As(err, &decodeErr))
		})
	}
}
