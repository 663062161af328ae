// Package jobs runs named housekeeping tasks on a single worker, either on a
// fixed interval or on demand.
package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type Func func(context.Context) (any, error)

type job struct {
	Name string
	Run  Func
}

type Service struct {
	logger *slog.Logger
	queue  chan job

	mu        sync.Mutex
	schedules []schedule
	started   bool
	wg        sync.WaitGroup
}

type schedule struct {
	name     string
	interval time.Duration
	run      Func
}

func New(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		logger: logger,
		queue:  make(chan job, 128),
	}
}

// Every registers run to be enqueued each interval once Start is called.
// A non-positive interval disables the schedule.
func (s *Service) Every(name string, interval time.Duration, run Func) {
	if interval <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = append(s.schedules, schedule{name: name, interval: interval, run: run})
}

// Start launches the worker and the registered schedules. They stop when ctx
// is done; Wait blocks until they have.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.worker(ctx)
	}()
	for _, sc := range s.schedules {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.tick(ctx, sc)
		}()
	}
}

func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) Enqueue(name string, run Func) {
	select {
	case s.queue <- job{Name: name, Run: run}:
	default:
		s.logger.Warn("job queue full", "job", name)
	}
}

func (s *Service) RunNow(ctx context.Context, name string, run Func) (any, error) {
	return s.runJob(ctx, job{Name: name, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				s.logger.Warn("job run failed", "job", j.Name, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	start := time.Now()
	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	s.logger.Debug("job run", "job", j.Name, "status", status, "durationMs", time.Since(start).Milliseconds(), "details", details)
	return details, err
}

func (s *Service) tick(ctx context.Context, sc schedule) {
	ticker := time.NewTicker(sc.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(sc.name, sc.run)
		}
	}
}
