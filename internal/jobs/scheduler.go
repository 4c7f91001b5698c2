package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cvmfinance/orcr-api/pkg/logger"
)

// Job represents a background task
type Job func(ctx context.Context) error

// Scheduler runs named jobs at fixed intervals until Shutdown
type Scheduler struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stats   Stats
	statsMu sync.RWMutex
}

// Stats holds run counters across all jobs
type Stats struct {
	ActiveJobs    int   `json:"activeJobs"`
	CompletedJobs int64 `json:"completedJobs"`
	FailedJobs    int64 `json:"failedJobs"`
}

// NewScheduler creates a scheduler whose jobs stop when parent is cancelled or Shutdown is called
func NewScheduler(parent context.Context) *Scheduler {
	ctx, cancel := context.WithCancel(parent)
	return &Scheduler{ctx: ctx, cancel: cancel}
}

// ScheduleEvery runs job at fixed intervals. The first run happens after the interval.
func (s *Scheduler) ScheduleEvery(name string, interval time.Duration, job Job) {
	s.schedule(name, interval, false, job)
}

// ScheduleEveryImmediate runs job once right away, then at fixed intervals
func (s *Scheduler) ScheduleEveryImmediate(name string, interval time.Duration, job Job) {
	s.schedule(name, interval, true, job)
}

func (s *Scheduler) schedule(name string, interval time.Duration, immediate bool, job Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if immediate {
			s.run(name, job)
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.run(name, job)
			}
		}
	}()
}

func (s *Scheduler) run(name string, job Job) {
	log := logger.FromContext(s.ctx).With("job", name)

	s.track(func(st *Stats) { st.ActiveJobs++ })
	defer s.track(func(st *Stats) {
		st.ActiveJobs--
		st.CompletedJobs++
	})
	defer func() {
		if r := recover(); r != nil {
			log.Error("job panic", "panic", fmt.Sprint(r))
			s.track(func(st *Stats) { st.FailedJobs++ })
		}
	}()

	start := time.Now()
	if err := job(s.ctx); err != nil {
		log.Error("job failed", "error", err)
		s.track(func(st *Stats) { st.FailedJobs++ })
		return
	}
	log.Debug("job completed", "duration", time.Since(start))
}

// Shutdown stops scheduling and waits for running jobs to return
func (s *Scheduler) Shutdown() {
	s.cancel()
	s.wg.Wait()
}

// Stats returns a snapshot of the run counters. CompletedJobs includes failures.
func (s *Scheduler) Stats() Stats {
	s.statsMu.RLock()
	defer s.statsMu.RUnlock()
	return s.stats
}

func (s *Scheduler) track(fn func(*Stats)) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	fn(&s.stats)
}
