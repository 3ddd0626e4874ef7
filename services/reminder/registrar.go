// File: services/reminder/registrar.go
package reminder

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"phms/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TaskTypeReminderFire is the task type every scheduled trigger is
// registered under.
const TaskTypeReminderFire = "reminder:fire"

// Queue names. Registrations prefer the critical queue; when Redis refuses
// an enqueue there, registration degrades to the best-effort queue rather
// than dropping the reminder.
const (
	QueueCritical = "reminders-critical"
	QueueDefault  = "reminders"
)

// handlerTimeout bounds one handler invocation at the queue layer.
const handlerTimeout = 2 * time.Minute

// Registrar is the durable interface to the deferred-callback facility.
// Register is idempotent: the deterministic trigger id is the queue's own
// dedup key, so registering the same id twice replaces the prior
// registration. Cancellation of a never-registered id is a no-op.
type Registrar interface {
	Register(ctx context.Context, trigger models.ScheduledTrigger) error
	Cancel(ctx context.Context, triggerID int) error
	CancelAppointment(ctx context.Context, apptID int) error
	CancelMedication(ctx context.Context, medID int) error
}

// taskEnqueuer and taskRemover are the slices of the asynq client and
// inspector the registrar needs. *asynq.Client and *asynq.Inspector
// satisfy them.
type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type taskRemover interface {
	DeleteTask(queue, id string) error
}

// AsynqRegistrar registers triggers as delayed asynq tasks. The
// registrations live in Redis, so they survive process death; the worker
// picks them up at fire time even if the process that registered them is
// long gone.
type AsynqRegistrar struct {
	client    taskEnqueuer
	inspector taskRemover
	logger    *zap.Logger
}

func NewAsynqRegistrar(client *asynq.Client, inspector *asynq.Inspector, logger *zap.Logger) *AsynqRegistrar {
	return &AsynqRegistrar{client: client, inspector: inspector, logger: logger}
}

// Register schedules the trigger at its absolute fire time. Delivery is
// "no earlier than" FireAt; the queue may run the task late under load.
func (r *AsynqRegistrar) Register(ctx context.Context, trigger models.ScheduledTrigger) error {
	payload, err := trigger.Payload.Encode()
	if err != nil {
		return err
	}
	task := asynq.NewTask(TaskTypeReminderFire, payload)

	if err := r.enqueue(ctx, task, trigger, QueueCritical); err != nil {
		r.logger.Warn("Reminder registration degraded to best-effort queue",
			zap.Int("triggerId", trigger.TriggerID),
			zap.Time("fireAt", trigger.FireAt),
			zap.Error(err))
		if err := r.enqueue(ctx, task, trigger, QueueDefault); err != nil {
			return fmt.Errorf("failed to register trigger %d: %w", trigger.TriggerID, err)
		}
	}
	return nil
}

func (r *AsynqRegistrar) enqueue(ctx context.Context, task *asynq.Task, trigger models.ScheduledTrigger, queue string) error {
	opts := []asynq.Option{
		asynq.TaskID(strconv.Itoa(trigger.TriggerID)),
		asynq.ProcessAt(trigger.FireAt),
		asynq.Queue(queue),
		asynq.MaxRetry(3),
		asynq.Timeout(handlerTimeout),
	}

	_, err := r.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		// Same deterministic id already live: replace, never duplicate.
		if derr := r.deleteEverywhere(trigger.TriggerID); derr != nil {
			return derr
		}
		_, err = r.client.EnqueueContext(ctx, task, opts...)
	}
	return err
}

// Cancel removes a single trigger registration. Cancelling an id with no
// live registration is not an error.
func (r *AsynqRegistrar) Cancel(ctx context.Context, triggerID int) error {
	return r.deleteEverywhere(triggerID)
}

// CancelAppointment removes every trigger the appointment could own,
// derived from the kind enum rather than a live query, so it works even
// after the appointment has been deleted from the store.
func (r *AsynqRegistrar) CancelAppointment(ctx context.Context, apptID int) error {
	return r.cancelAll(AppointmentTriggerIDs(apptID))
}

// CancelMedication removes every dose-slot trigger the medication could
// own, covering all possible slots.
func (r *AsynqRegistrar) CancelMedication(ctx context.Context, medID int) error {
	return r.cancelAll(MedicationTriggerIDs(medID))
}

func (r *AsynqRegistrar) cancelAll(triggerIDs []int) error {
	for _, id := range triggerIDs {
		if err := r.deleteEverywhere(id); err != nil {
			return err
		}
	}
	return nil
}

// deleteEverywhere removes the task id from both queues a registration may
// have landed in. Missing task or queue means there was nothing to cancel.
func (r *AsynqRegistrar) deleteEverywhere(triggerID int) error {
	id := strconv.Itoa(triggerID)
	for _, queue := range []string{QueueCritical, QueueDefault} {
		err := r.inspector.DeleteTask(queue, id)
		if err == nil ||
			errors.Is(err, asynq.ErrTaskNotFound) ||
			errors.Is(err, asynq.ErrQueueNotFound) {
			continue
		}
		return fmt.Errorf("failed to cancel trigger %d: %w", triggerID, err)
	}
	return nil
}
