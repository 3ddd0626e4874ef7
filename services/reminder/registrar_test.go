// File: services/reminder/registrar_test.go
package reminder

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"phms/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type enqueueCall struct {
	taskType  string
	payload   []byte
	taskID    string
	processAt time.Time
	queue     string
}

// fakeEnqueuer records enqueues and can refuse per queue or per task id.
type fakeEnqueuer struct {
	calls       []enqueueCall
	failQueues  map[string]error
	conflictIDs map[string]int // task id -> remaining conflict responses
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	call := enqueueCall{taskType: task.Type(), payload: task.Payload()}
	for _, opt := range opts {
		switch opt.Type() {
		case asynq.TaskIDOpt:
			call.taskID = opt.Value().(string)
		case asynq.ProcessAtOpt:
			call.processAt = opt.Value().(time.Time)
		case asynq.QueueOpt:
			call.queue = opt.Value().(string)
		}
	}
	f.calls = append(f.calls, call)

	if err, ok := f.failQueues[call.queue]; ok {
		return nil, err
	}
	if remaining, ok := f.conflictIDs[call.taskID]; ok && remaining > 0 {
		f.conflictIDs[call.taskID] = remaining - 1
		return nil, fmt.Errorf("enqueue: %w", asynq.ErrTaskIDConflict)
	}
	return &asynq.TaskInfo{ID: call.taskID, Queue: call.queue}, nil
}

type deleteCall struct {
	queue string
	id    string
}

type fakeRemover struct {
	calls []deleteCall
	errs  map[string]error // "queue/id" -> error
}

func (f *fakeRemover) DeleteTask(queue, id string) error {
	f.calls = append(f.calls, deleteCall{queue: queue, id: id})
	if err, ok := f.errs[queue+"/"+id]; ok {
		return err
	}
	return asynq.ErrTaskNotFound
}

func newTestRegistrar() (*AsynqRegistrar, *fakeEnqueuer, *fakeRemover) {
	enq := &fakeEnqueuer{}
	rem := &fakeRemover{}
	return &AsynqRegistrar{client: enq, inspector: rem, logger: zap.NewNop()}, enq, rem
}

func testTrigger(t *testing.T) models.ScheduledTrigger {
	t.Helper()
	return models.ScheduledTrigger{
		TriggerID: 1042,
		FireAt:    time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC),
		Payload: models.TriggerPayload{
			Kind: models.TriggerKindAppointment,
			Appointment: &models.AppointmentTriggerPayload{
				AppointmentID: 42,
				UserID:        "user-1",
				Offset:        models.OneDayBefore,
			},
		},
	}
}

func TestRegisterSchedulesOnCriticalQueue(t *testing.T) {
	r, enq, _ := newTestRegistrar()
	trigger := testTrigger(t)

	require.NoError(t, r.Register(context.Background(), trigger))
	require.Len(t, enq.calls, 1)

	call := enq.calls[0]
	assert.Equal(t, TaskTypeReminderFire, call.taskType)
	assert.Equal(t, "1042", call.taskID)
	assert.Equal(t, trigger.FireAt, call.processAt)
	assert.Equal(t, QueueCritical, call.queue)

	decoded, err := models.DecodeTriggerPayload(call.payload)
	require.NoError(t, err)
	assert.Equal(t, 42, decoded.Appointment.AppointmentID)
}

func TestRegisterDegradesToDefaultQueue(t *testing.T) {
	r, enq, _ := newTestRegistrar()
	enq.failQueues = map[string]error{QueueCritical: errors.New("redis refused")}

	require.NoError(t, r.Register(context.Background(), testTrigger(t)))
	require.Len(t, enq.calls, 2)
	assert.Equal(t, QueueCritical, enq.calls[0].queue)
	assert.Equal(t, QueueDefault, enq.calls[1].queue)
}

func TestRegisterFailsWhenBothQueuesRefuse(t *testing.T) {
	r, enq, _ := newTestRegistrar()
	enq.failQueues = map[string]error{
		QueueCritical: errors.New("redis refused"),
		QueueDefault:  errors.New("redis refused"),
	}

	err := r.Register(context.Background(), testTrigger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1042")
}

func TestRegisterReplacesOnIDConflict(t *testing.T) {
	r, enq, rem := newTestRegistrar()
	enq.conflictIDs = map[string]int{"1042": 1}

	require.NoError(t, r.Register(context.Background(), testTrigger(t)))

	// Conflicting id was purged from both queues, then re-enqueued.
	assert.Equal(t, []deleteCall{
		{queue: QueueCritical, id: "1042"},
		{queue: QueueDefault, id: "1042"},
	}, rem.calls)
	require.Len(t, enq.calls, 2)
	assert.Equal(t, "1042", enq.calls[1].taskID)
}

func TestCancelIsIdempotent(t *testing.T) {
	r, _, rem := newTestRegistrar()

	// Nothing registered; the remover reports not-found for every id.
	require.NoError(t, r.Cancel(context.Background(), 1042))
	require.NoError(t, r.Cancel(context.Background(), 1042))
	assert.Len(t, rem.calls, 4)
}

func TestCancelPropagatesRealErrors(t *testing.T) {
	r, _, rem := newTestRegistrar()
	rem.errs = map[string]error{QueueCritical + "/1042": errors.New("redis down")}

	err := r.Cancel(context.Background(), 1042)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1042")
}

func TestCancelAppointmentCoversBothKinds(t *testing.T) {
	r, _, rem := newTestRegistrar()

	require.NoError(t, r.CancelAppointment(context.Background(), 42))

	ids := make(map[string]bool)
	for _, c := range rem.calls {
		ids[c.id] = true
	}
	assert.True(t, ids["1042"])
	assert.True(t, ids["2042"])
}

func TestCancelMedicationCoversEverySlot(t *testing.T) {
	r, _, rem := newTestRegistrar()

	require.NoError(t, r.CancelMedication(context.Background(), 7))

	ids := make(map[string]bool)
	for _, c := range rem.calls {
		ids[c.id] = true
	}
	for _, want := range []string{"3070", "3071", "3072", "3073"} {
		assert.Truef(t, ids[want], "slot trigger %s was not cancelled", want)
	}
}
