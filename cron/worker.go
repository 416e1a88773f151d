package cron

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"slotwise/config"
	"slotwise/services/recurrence"
)

const TypeHorizonSweep = "recurrence:sweep"

// InitHorizonWorker runs the async worker in background. It owns the periodic
// sweep that keeps every account's fixed slots materialized up to the rolling
// horizon, so navigation-triggered extension stays a cheap fast path.
func InitHorizonWorker(extSvc recurrence.ExtensionService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisWorkerDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeHorizonSweep, handleHorizonSweep(extSvc))

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: time.UTC})
	if _, err := scheduler.Register("@daily", asynq.NewTask(TypeHorizonSweep, nil)); err != nil {
		log.Fatalf("[HorizonWorker] failed to register sweep schedule: %v", err)
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Printf("[HorizonWorker] scheduler stopped: %v", err)
		}
	}()

	go func() {
		log.Println("[HorizonWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[HorizonWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[HorizonWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleHorizonSweep(extSvc recurrence.ExtensionService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		log.Println("[HorizonSweep] extending fixed-slot horizons for all accounts")
		return extSvc.ExtendAll(ctx)
	}
}
