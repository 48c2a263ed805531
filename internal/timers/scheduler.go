// Package timers runs the periodic maintenance jobs of the bot.
package timers

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"tg-warn/internal/crash"
	"tg-warn/internal/logger"
	"tg-warn/internal/metrics"
)

// Schedule computes the first run strictly after t
type Schedule interface {
	Next(t time.Time) time.Time
}

// Every runs on multiples of the duration
type Every time.Duration

func (e Every) Next(t time.Time) time.Time {
	d := time.Duration(e)
	return t.Truncate(d).Add(d)
}

// Daily runs once a day at Hour:Minute in the clock's location
type Daily struct {
	Hour   int
	Minute int
}

func (d Daily) Next(t time.Time) time.Time {
	next := time.Date(t.Year(), t.Month(), t.Day(), d.Hour, d.Minute, 0, 0, t.Location())
	if !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Monthly runs on Day of every month. Day should not exceed 28.
type Monthly struct {
	Day    int
	Hour   int
	Minute int
}

func (m Monthly) Next(t time.Time) time.Time {
	next := time.Date(t.Year(), t.Month(), m.Day, m.Hour, m.Minute, 0, 0, t.Location())
	if !next.After(t) {
		next = time.Date(t.Year(), t.Month()+1, m.Day, m.Hour, m.Minute, 0, 0, t.Location())
	}
	return next
}

// JobFunc is one periodic job
type JobFunc func(ctx context.Context) error

type job struct {
	name     string
	schedule Schedule
	run      JobFunc
	next     time.Time
}

// Scheduler checks the registered jobs on every tick and runs the due ones
type Scheduler struct {
	clock clockwork.Clock
	tick  time.Duration

	mu     sync.Mutex
	jobs   []*job
	stopCh chan struct{}
	once   sync.Once
}

func NewScheduler(clock clockwork.Clock, tick time.Duration) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if tick <= 0 {
		tick = time.Minute
	}
	return &Scheduler{
		clock:  clock,
		tick:   tick,
		stopCh: make(chan struct{}),
	}
}

// Add registers a job, its first run is the next slot of schedule
func (s *Scheduler) Add(name string, schedule Schedule, run JobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, &job{
		name:     name,
		schedule: schedule,
		run:      run,
		next:     schedule.Next(s.clock.Now()),
	})
}

// Next returns the next run of a job, the zero time for unknown names
func (s *Scheduler) Next(name string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.name == name {
			return j.next
		}
	}
	return time.Time{}
}

// RunDue runs every job whose slot has come and returns their names. A job
// that missed several slots runs once.
func (s *Scheduler) RunDue(ctx context.Context) []string {
	now := s.clock.Now()

	s.mu.Lock()
	var due []*job
	for _, j := range s.jobs {
		if now.Before(j.next) {
			continue
		}
		j.next = j.schedule.Next(now)
		due = append(due, j)
	}
	s.mu.Unlock()

	names := make([]string, 0, len(due))
	for _, j := range due {
		s.runJob(ctx, j)
		names = append(names, j.name)
	}
	return names
}

func (s *Scheduler) runJob(ctx context.Context, j *job) {
	defer crash.RecoverWithStack("timer-" + j.name)

	start := s.clock.Now()
	metrics.TimerRuns.WithLabelValues(j.name).Inc()
	if err := j.run(ctx); err != nil {
		logger.Warningf("Timer %s failed: %v", j.name, err)
		return
	}
	logger.Debugf("Timer %s finished in %v", j.name, s.clock.Since(start))
}

// Start runs the tick loop until Stop is called or ctx is done
func (s *Scheduler) Start(ctx context.Context) {
	ticker := s.clock.NewTicker(s.tick)
	defer ticker.Stop()

	s.mu.Lock()
	logger.Infof("Timers started with %d jobs", len(s.jobs))
	s.mu.Unlock()

	for {
		select {
		case <-ticker.Chan():
			s.RunDue(ctx)
		case <-s.stopCh:
			logger.Info("Timers stopped")
			return
		case <-ctx.Done():
			logger.Info("Timers context cancelled")
			return
		}
	}
}

func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.stopCh) })
}
