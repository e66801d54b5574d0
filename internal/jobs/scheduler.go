// Package jobs runs the periodic maintenance tasks.
package jobs

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gardenpro/landscape-api/internal/metrics"
)

const (
	ExpireEstimatesSchedule = "@hourly"
	RemindersSchedule       = "0 9 * * *"

	jobTimeout = 5 * time.Minute
)

// Task does one run of a job and reports how many records it touched.
type Task func(ctx context.Context) (int, error)

type Scheduler struct {
	cron *cron.Cron
}

// New schedules in loc. A run still in progress when the next one is due is
// skipped.
func New(loc *time.Location) *Scheduler {
	logger := cron.PrintfLogger(log.New(os.Stdout, "[cron] ", log.LstdFlags))
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
	}
}

func (s *Scheduler) Add(name, schedule string, task Task) error {
	_, err := s.cron.AddFunc(schedule, func() { run(name, task) })
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("[cron] scheduler started with %d jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs, up to ctx's deadline.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		log.Printf("[cron] stop timed out with jobs still running")
	}
}

func run(name string, task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	n, err := task(ctx)
	metrics.CronRuns.WithLabelValues(name, metrics.Result(err)).Inc()
	if err != nil {
		log.Printf("[cron][%s] failed after %s: %v", name, time.Since(start), err)
		return
	}
	log.Printf("[cron][%s] done in %s, %d records", name, time.Since(start), n)
}
