// File: services/reminder/handler_test.go
package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	appointmentRepo "phms/database/repository/appointment"
	medicationRepo "phms/database/repository/medication"
	"phms/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAppointmentReader struct {
	appt *models.Appointment
	err  error
}

func (f *fakeAppointmentReader) GetByID(ctx context.Context, id int) (*models.Appointment, error) {
	return f.appt, f.err
}

type fakeMedicationReader struct {
	med *models.Medication
	err error
}

func (f *fakeMedicationReader) GetByID(ctx context.Context, id int) (*models.Medication, error) {
	return f.med, f.err
}

type fakeAlertSink struct {
	alerts []models.Alert
	err    error
}

func (f *fakeAlertSink) ShowAlert(ctx context.Context, alert models.Alert) error {
	f.alerts = append(f.alerts, alert)
	return f.err
}

type handlerFixture struct {
	handler   *Handler
	appts     *fakeAppointmentReader
	meds      *fakeMedicationReader
	alerts    *fakeAlertSink
	registrar *fakeRegistrar
}

func newHandlerFixture(t *testing.T, now time.Time) *handlerFixture {
	t.Helper()
	f := &handlerFixture{
		appts:     &fakeAppointmentReader{},
		meds:      &fakeMedicationReader{},
		alerts:    &fakeAlertSink{},
		registrar: newFakeRegistrar(),
	}
	f.handler = NewHandler(f.appts, f.meds, f.alerts, f.registrar, time.Second, zap.NewNop())
	f.handler.now = func() time.Time { return now }
	return f
}

func fireTask(t *testing.T, h *Handler, payload models.TriggerPayload) error {
	t.Helper()
	raw, err := payload.Encode()
	require.NoError(t, err)
	return h.ProcessTask(context.Background(), asynq.NewTask(TaskTypeReminderFire, raw))
}

func appointmentPayload(offset models.AppointmentTriggerKind) models.TriggerPayload {
	return models.TriggerPayload{
		Kind: models.TriggerKindAppointment,
		Appointment: &models.AppointmentTriggerPayload{
			AppointmentID: 42,
			UserID:        "user-1",
			DoctorName:    "Dr. Patel",
			Date:          "2025-03-10",
			Time:          "09:00",
			Reason:        "Checkup",
			Offset:        offset,
		},
	}
}

func medicationPayload(slot int) models.TriggerPayload {
	return models.TriggerPayload{
		Kind: models.TriggerKindMedication,
		Medication: &models.MedicationTriggerPayload{
			MedicationID: 7,
			UserID:       "user-1",
			Name:         "Metformin",
			Dosage:       "500mg",
			SlotIndex:    slot,
			SlotTime:     "08:00",
		},
	}
}

func TestProcessTaskDropsUndecodablePayload(t *testing.T) {
	f := newHandlerFixture(t, mustTime(t, "2025-03-09 09:00"))

	err := f.handler.ProcessTask(context.Background(),
		asynq.NewTask(TaskTypeReminderFire, []byte(`{"kind":"vitals"}`)))

	// A malformed payload is consumed, never redelivered.
	require.NoError(t, err)
	assert.Empty(t, f.alerts.alerts)
}

func TestAppointmentFireShowsAlert(t *testing.T) {
	f := newHandlerFixture(t, mustTime(t, "2025-03-09 09:00"))
	f.appts.appt = testAppointment()

	require.NoError(t, fireTask(t, f.handler, appointmentPayload(models.OneDayBefore)))

	require.Len(t, f.alerts.alerts, 1)
	alert := f.alerts.alerts[0]
	assert.Equal(t, 1042, alert.ID)
	assert.Equal(t, "user-1", alert.UserID)
	assert.Equal(t, "Appointment tomorrow", alert.Title)
	assert.Contains(t, alert.Body, "Dr. Patel")
	assert.Contains(t, alert.Body, "09:00")
	assert.Equal(t, models.DeepLinkAppointments, alert.DeepLink)
}

func TestAppointmentFireHourBeforeTitle(t *testing.T) {
	f := newHandlerFixture(t, mustTime(t, "2025-03-10 08:00"))
	f.appts.appt = testAppointment()

	require.NoError(t, fireTask(t, f.handler, appointmentPayload(models.OneHourBefore)))

	require.Len(t, f.alerts.alerts, 1)
	assert.Equal(t, 2042, f.alerts.alerts[0].ID)
	assert.Equal(t, "Appointment in 1 hour", f.alerts.alerts[0].Title)
}

func TestAppointmentFirePrefersFreshFields(t *testing.T) {
	f := newHandlerFixture(t, mustTime(t, "2025-03-09 09:00"))
	appt := testAppointment()
	appt.DoctorName = "Dr. Okafor"
	appt.Time = "10:30"
	f.appts.appt = appt

	require.NoError(t, fireTask(t, f.handler, appointmentPayload(models.OneDayBefore)))

	require.Len(t, f.alerts.alerts, 1)
	assert.Contains(t, f.alerts.alerts[0].Body, "Dr. Okafor")
	assert.Contains(t, f.alerts.alerts[0].Body, "10:30")
}

func TestAppointmentFireEntityDeleted(t *testing.T) {
	f := newHandlerFixture(t, mustTime(t, "2025-03-09 09:00"))
	f.appts.err = appointmentRepo.ErrNotFound

	// Confirmed absence: no alert, trigger consumed.
	require.NoError(t, fireTask(t, f.handler, appointmentPayload(models.OneDayBefore)))
	assert.Empty(t, f.alerts.alerts)
}

func TestAppointmentFireTransientFetchFailure(t *testing.T) {
	f := newHandlerFixture(t, mustTime(t, "2025-03-09 09:00"))
	f.appts.err = errors.New("connection reset")

	// Could not determine: fall back to payload display.
	require.NoError(t, fireTask(t, f.handler, appointmentPayload(models.OneDayBefore)))

	require.Len(t, f.alerts.alerts, 1)
	assert.Contains(t, f.alerts.alerts[0].Body, "Dr. Patel")
}

func TestAppointmentFireRemindersDisabledSinceScheduling(t *testing.T) {
	f := newHandlerFixture(t, mustTime(t, "2025-03-09 09:00"))
	appt := testAppointment()
	appt.Reminders = false
	f.appts.appt = appt

	require.NoError(t, fireTask(t, f.handler, appointmentPayload(models.OneDayBefore)))
	assert.Empty(t, f.alerts.alerts)
}

func TestMedicationFireShowsAlertAndReschedulesNextDose(t *testing.T) {
	f := newHandlerFixture(t, mustTime(t, "2025-03-10 08:00"))
	f.meds.med = testMedication()

	require.NoError(t, fireTask(t, f.handler, medicationPayload(0)))

	require.Len(t, f.alerts.alerts, 1)
	alert := f.alerts.alerts[0]
	assert.Equal(t, 3070, alert.ID)
	assert.Equal(t, "Medication Reminder", alert.Title)
	assert.Contains(t, alert.Body, "500mg")
	assert.Contains(t, alert.Body, "Metformin")
	assert.Equal(t, models.DeepLinkMedications, alert.DeepLink)

	// The recurrence stays alive: slot 0 is re-registered for tomorrow.
	next, ok := f.registrar.registered[3070]
	require.True(t, ok)
	assert.Equal(t, mustTime(t, "2025-03-11 08:00"), next.FireAt)
}

func TestMedicationFireDisabledRetiresRecurrence(t *testing.T) {
	f := newHandlerFixture(t, mustTime(t, "2025-03-10 08:00"))
	med := testMedication()
	med.Reminders = false
	f.meds.med = med

	require.NoError(t, fireTask(t, f.handler, medicationPayload(0)))

	assert.Empty(t, f.alerts.alerts)
	assert.Empty(t, f.registrar.registered)
}

func TestMedicationFireEntityDeleted(t *testing.T) {
	f := newHandlerFixture(t, mustTime(t, "2025-03-10 08:00"))
	f.meds.err = medicationRepo.ErrNotFound

	require.NoError(t, fireTask(t, f.handler, medicationPayload(0)))

	assert.Empty(t, f.alerts.alerts)
	assert.Empty(t, f.registrar.registered)
}

func TestMedicationFireTransientFetchFailure(t *testing.T) {
	f := newHandlerFixture(t, mustTime(t, "2025-03-10 08:00"))
	f.meds.err = errors.New("connection reset")

	require.NoError(t, fireTask(t, f.handler, medicationPayload(0)))

	// Payload fallback display plus a payload-derived re-registration so
	// one blip does not end the recurrence.
	require.Len(t, f.alerts.alerts, 1)
	assert.Contains(t, f.alerts.alerts[0].Body, "Metformin")

	next, ok := f.registrar.registered[3070]
	require.True(t, ok)
	assert.Equal(t, mustTime(t, "2025-03-11 08:00"), next.FireAt)
}

func TestMedicationFireRescheduleFailureIsNotFatal(t *testing.T) {
	f := newHandlerFixture(t, mustTime(t, "2025-03-10 08:00"))
	f.meds.med = testMedication()
	f.registrar.registerErr = errors.New("redis down")

	// The alert still goes out; the maintenance sweep repairs the gap.
	require.NoError(t, fireTask(t, f.handler, medicationPayload(0)))
	assert.Len(t, f.alerts.alerts, 1)
}

func TestAlertFailurePropagatesForRedelivery(t *testing.T) {
	f := newHandlerFixture(t, mustTime(t, "2025-03-09 09:00"))
	f.appts.appt = testAppointment()
	f.alerts.err = errors.New("fcm unavailable")

	err := fireTask(t, f.handler, appointmentPayload(models.OneDayBefore))
	require.Error(t, err)
}
