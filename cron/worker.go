package cron

import (
	"context"
	"time"

	"phms/config"
	"phms/services/reminder"
	"phms/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TaskTypeMaintenanceSweep re-runs the recovery pipeline on a fixed cadence
// as a safety net for recurrences the fired handler could not re-register.
const TaskTypeMaintenanceSweep = "reminder:maintenance"

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewQueueClient returns the asynq client registrations go through.
func NewQueueClient() *asynq.Client {
	return asynq.NewClient(redisOpts())
}

// NewQueueInspector returns the inspector cancellations go through.
func NewQueueInspector() *asynq.Inspector {
	return asynq.NewInspector(redisOpts())
}

// InitReminderWorker runs the reminder worker in the background: the
// fire-time handler, the boot-time recovery pass, and the periodic
// maintenance sweep.
func InitReminderWorker(handler *reminder.Handler, bootstrap *reminder.Bootstrap) {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				reminder.QueueCritical: 6,
				reminder.QueueDefault:  3,
				"default":              1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.Handle(reminder.TaskTypeReminderFire, handler)
	mux.HandleFunc(TaskTypeMaintenanceSweep, func(ctx context.Context, _ *asynq.Task) error {
		return bootstrap.Run(ctx)
	})

	// The worker boot is the restart signal: recover the schedule once
	// before serving, assuming no prior registration survived.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := bootstrap.Run(ctx); err != nil {
			logger.Error("Reminder recovery on boot failed", zap.Error(err))
		}
	}()

	go runMaintenanceScheduler(logger)
	go monitorRedisConnection(logger)

	// Start async worker with retry logic.
	go func() {
		logger.Info("Starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("Reminder worker failed to start",
					zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))

				if attempts == maxAttempts {
					logger.Fatal("Reminder worker exhausted start attempts")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// runMaintenanceScheduler enqueues the 12-hour sweep.
func runMaintenanceScheduler(logger *zap.Logger) {
	scheduler := asynq.NewScheduler(redisOpts(), nil)

	task := asynq.NewTask(TaskTypeMaintenanceSweep, nil)
	if _, err := scheduler.Register("@every 12h", task, asynq.Queue(reminder.QueueDefault)); err != nil {
		logger.Error("Failed to register maintenance sweep", zap.Error(err))
		return
	}

	if err := scheduler.Run(); err != nil {
		logger.Error("Maintenance scheduler stopped", zap.Error(err))
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("Reminder queue Redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
