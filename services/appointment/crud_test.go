package appointment

import (
	"context"
	"testing"
	"time"

	"phms/models"
	"phms/services/reminder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRepo struct {
	appts   map[int]*models.Appointment
	nextID  int
	deleted []int
}

func newStubRepo() *stubRepo {
	return &stubRepo{appts: make(map[int]*models.Appointment), nextID: 1}
}

func (r *stubRepo) Create(appt *models.Appointment) error {
	appt.ID = r.nextID
	r.nextID++
	r.appts[appt.ID] = appt
	return nil
}

func (r *stubRepo) Update(appt *models.Appointment) error {
	r.appts[appt.ID] = appt
	return nil
}

func (r *stubRepo) Delete(id int) error {
	r.deleted = append(r.deleted, id)
	delete(r.appts, id)
	return nil
}

func (r *stubRepo) GetByID(ctx context.Context, id int) (*models.Appointment, error) {
	return r.appts[id], nil
}

func (r *stubRepo) GetByUser(userID string) ([]models.Appointment, error) {
	return nil, nil
}

func (r *stubRepo) GetUpcomingWithReminders(userID string) ([]models.Appointment, error) {
	return nil, nil
}

type recordingRegistrar struct {
	registered map[int]models.ScheduledTrigger
	cancelled  []int
}

func newRecordingRegistrar() *recordingRegistrar {
	return &recordingRegistrar{registered: make(map[int]models.ScheduledTrigger)}
}

func (r *recordingRegistrar) Register(ctx context.Context, trigger models.ScheduledTrigger) error {
	r.registered[trigger.TriggerID] = trigger
	return nil
}

func (r *recordingRegistrar) Cancel(ctx context.Context, triggerID int) error {
	r.cancelled = append(r.cancelled, triggerID)
	delete(r.registered, triggerID)
	return nil
}

func (r *recordingRegistrar) CancelAppointment(ctx context.Context, apptID int) error {
	for _, id := range reminder.AppointmentTriggerIDs(apptID) {
		_ = r.Cancel(ctx, id)
	}
	return nil
}

func (r *recordingRegistrar) CancelMedication(ctx context.Context, medID int) error {
	for _, id := range reminder.MedicationTriggerIDs(medID) {
		_ = r.Cancel(ctx, id)
	}
	return nil
}

func newTestService() (*DefaultAppointmentService, *stubRepo, *recordingRegistrar) {
	repo := newStubRepo()
	registrar := newRecordingRegistrar()
	return &DefaultAppointmentService{
		Repo:      repo,
		Reminders: reminder.NewService(registrar, zap.NewNop()),
	}, repo, registrar
}

// futureAppointment is scheduled two days out so both reminder offsets
// land in the future regardless of when the test runs.
func futureAppointment() *models.Appointment {
	startsAt := time.Now().Add(48 * time.Hour)
	return &models.Appointment{
		UserID:     "user-1",
		DoctorName: "Dr. Patel",
		Date:       startsAt.Format(models.AppointmentDateLayout),
		Time:       startsAt.Format(models.AppointmentTimeLayout),
		Reason:     "Checkup",
		Reminders:  true,
	}
}

func TestCreateSchedulesReminderTriggers(t *testing.T) {
	svc, repo, registrar := newTestService()

	created, err := svc.Create(context.Background(), futureAppointment())
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Contains(t, repo.appts, created.ID)

	assert.Contains(t, registrar.registered, reminder.AppointmentTriggerID(created.ID, models.OneDayBefore))
	assert.Contains(t, registrar.registered, reminder.AppointmentTriggerID(created.ID, models.OneHourBefore))
}

func TestCreateRejectsMissingUser(t *testing.T) {
	svc, repo, _ := newTestService()

	appt := futureAppointment()
	appt.UserID = ""
	_, err := svc.Create(context.Background(), appt)
	require.Error(t, err)
	assert.Empty(t, repo.appts)
}

func TestCreateRejectsUnparseableSchedule(t *testing.T) {
	svc, repo, _ := newTestService()

	appt := futureAppointment()
	appt.Date = "next tuesday"
	_, err := svc.Create(context.Background(), appt)
	require.Error(t, err)
	assert.Empty(t, repo.appts)
}

func TestCreatePastAppointmentLeavesNoTriggers(t *testing.T) {
	svc, _, registrar := newTestService()

	appt := futureAppointment()
	past := time.Now().Add(-48 * time.Hour)
	appt.Date = past.Format(models.AppointmentDateLayout)
	appt.Time = past.Format(models.AppointmentTimeLayout)

	// Saving a past appointment is allowed; it just schedules nothing.
	created, err := svc.Create(context.Background(), appt)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Empty(t, registrar.registered)
}

func TestDeleteCancelsTriggers(t *testing.T) {
	svc, repo, registrar := newTestService()

	created, err := svc.Create(context.Background(), futureAppointment())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Contains(t, repo.deleted, created.ID)
	assert.Empty(t, registrar.registered)
}

func TestSetRemindersToggle(t *testing.T) {
	svc, _, registrar := newTestService()

	created, err := svc.Create(context.Background(), futureAppointment())
	require.NoError(t, err)
	require.Len(t, registrar.registered, 2)

	appt, err := svc.SetReminders(context.Background(), created.ID, false)
	require.NoError(t, err)
	assert.False(t, appt.Reminders)
	assert.Empty(t, registrar.registered)

	appt, err = svc.SetReminders(context.Background(), created.ID, true)
	require.NoError(t, err)
	assert.True(t, appt.Reminders)
	assert.Len(t, registrar.registered, 2)
}
