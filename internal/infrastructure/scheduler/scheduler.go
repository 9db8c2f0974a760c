package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"servicemarket/pkg/logger"
)

// Job is a unit of scheduled work. It gets a context bounded by the job timeout.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
}

func New(timeout time.Duration) *Scheduler {
	cronLogger := cron.PrintfLogger(zap.NewStdLog(logger.L()))
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cronLogger), cron.WithChain(cron.SkipIfStillRunning(cronLogger))),
		timeout: timeout,
	}
}

// Add registers job under a standard five-field cron spec.
func (s *Scheduler) Add(spec, name string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		started := time.Now()
		if err := job(ctx); err != nil {
			logger.Error("scheduled job %s failed: %v", name, err)
			return
		}
		logger.Info("scheduled job %s finished in %s", name, time.Since(started))
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
