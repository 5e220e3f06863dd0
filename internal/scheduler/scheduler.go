// Package scheduler wraps robfig/cron with a named job registry, per-job
// run bookkeeping, and an overlap guard so a slow run is skipped rather
// than doubled.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/devxpawan/smart-spend-sub002/internal/logger"
)

var (
	// ErrUnknownJob is returned when a job name was never registered.
	ErrUnknownJob = errors.New("unknown job")
	// ErrAlreadyRunning is returned when a manual trigger hits a job
	// that is still mid-run.
	ErrAlreadyRunning = errors.New("job is already running")
)

// JobFunc is the unit of work a job performs. now is the tick time in the
// scheduler's location; ctx carries the configured run timeout.
type JobFunc func(ctx context.Context, now time.Time) error

// Job is a read-only snapshot of a registered job for the ops surface.
type Job struct {
	Name       string     `json:"name"`
	Spec       string     `json:"spec"`
	NextRun    time.Time  `json:"next_run"`
	LastRun    *time.Time `json:"last_run,omitempty"`
	LastStatus string     `json:"last_status,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
}

type registeredJob struct {
	name    string
	spec    string
	entryID cron.EntryID
	fn      JobFunc

	mu      sync.Mutex
	running bool
	lastRun *time.Time
	lastErr error
}

// Scheduler holds the cron runner and the job registry built at startup.
type Scheduler struct {
	cron    *cron.Cron
	loc     *time.Location
	timeout time.Duration
	log     *zap.SugaredLogger

	mu    sync.Mutex
	jobs  map[string]*registeredJob
	order []string
}

// New creates a scheduler running in the given location. Every job run is
// bounded by timeout.
func New(loc *time.Location, timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		loc:     loc,
		timeout: timeout,
		log:     logger.Named("scheduler"),
		jobs:    make(map[string]*registeredJob),
	}
}

// Register adds a job under a unique name with a standard 5-field cron
// spec. An invalid spec or duplicate name is a configuration error; the
// caller is expected to abort startup on it.
func (s *Scheduler) Register(name, spec string, fn JobFunc) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron spec %q for job %q: %w", spec, name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q registered twice", name)
	}

	job := &registeredJob{name: name, spec: spec, fn: fn}
	entryID, err := s.cron.AddFunc(spec, func() { _ = s.run(job) })
	if err != nil {
		return fmt.Errorf("failed to schedule job %q: %w", name, err)
	}
	job.entryID = entryID

	s.jobs[name] = job
	s.order = append(s.order, name)
	s.log.Infow("job registered", "job", name, "spec", spec)
	return nil
}

// Start begins firing registered jobs on their schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling new runs and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunNow executes a registered job immediately, outside its schedule, and
// returns the job's error. Triggering a job that is mid-run fails with
// ErrAlreadyRunning instead of running it twice.
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownJob, name)
	}
	return s.run(job)
}

// Jobs returns a snapshot of every registered job in registration order.
func (s *Scheduler) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]Job, 0, len(s.order))
	for _, name := range s.order {
		job := s.jobs[name]

		job.mu.Lock()
		j := Job{
			Name:    job.name,
			Spec:    job.spec,
			NextRun: s.cron.Entry(job.entryID).Next,
			LastRun: job.lastRun,
		}
		if job.lastRun != nil {
			j.LastStatus = "ok"
			if job.lastErr != nil {
				j.LastStatus = "failed"
				j.LastError = job.lastErr.Error()
			}
		}
		job.mu.Unlock()

		snapshot = append(snapshot, j)
	}
	return snapshot
}

func (s *Scheduler) run(job *registeredJob) error {
	job.mu.Lock()
	if job.running {
		job.mu.Unlock()
		s.log.Warnw("previous run still in progress, skipping", "job", job.name)
		return fmt.Errorf("%w: %q", ErrAlreadyRunning, job.name)
	}
	job.running = true
	job.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	now := time.Now().In(s.loc)
	start := time.Now()
	err := job.fn(ctx, now)
	elapsed := time.Since(start)

	job.mu.Lock()
	job.running = false
	job.lastRun = &now
	job.lastErr = err
	job.mu.Unlock()

	if err != nil {
		s.log.Errorw("job run failed",
			"job", job.name,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return err
	}
	s.log.Infow("job run complete",
		"job", job.name,
		"duration_ms", elapsed.Milliseconds(),
	)
	return nil
}
