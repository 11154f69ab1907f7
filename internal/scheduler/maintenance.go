package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ErrUnknownJob is returned by RunNow and NextRun for names that were never added.
var ErrUnknownJob = errors.New("unknown job")

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks that schedule is a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// Job is a periodic maintenance routine.
type Job struct {
	Name     string
	Schedule string // Cron format: "*/30 * * * *" = every 30 minutes
	Run      func(ctx context.Context) error
}

// MaintenanceScheduler runs the catalog's periodic jobs: the orphan
// favorites sweep and audit retention.
type MaintenanceScheduler struct {
	logger logrus.FieldLogger

	cron     *cron.Cron
	jobs     []Job
	entryIDs map[string]cron.EntryID
	busy     sync.Map // job name -> struct{} while a run is in flight

	mu         sync.RWMutex
	isRunning  bool
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewMaintenanceScheduler creates a new scheduler instance
func NewMaintenanceScheduler(logger logrus.FieldLogger) *MaintenanceScheduler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &MaintenanceScheduler{
		logger:   logger.WithField("component", "scheduler"),
		cron:     cron.New(cron.WithParser(parser)),
		entryIDs: make(map[string]cron.EntryID),
	}
}

// Add registers a job. Jobs must be added before Start.
func (s *MaintenanceScheduler) Add(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("add job %q: scheduler already running", job.Name)
	}
	if job.Run == nil {
		return fmt.Errorf("add job %q: no run function", job.Name)
	}
	if _, ok := s.entryIDs[job.Name]; ok {
		return fmt.Errorf("add job %q: duplicate name", job.Name)
	}
	if err := ValidateSchedule(job.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", job.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(job.Schedule, func() { s.run(job) })
	if err != nil {
		return fmt.Errorf("failed to schedule %s job: %w", job.Name, err)
	}
	s.entryIDs[job.Name] = entryID
	s.jobs = append(s.jobs, job)
	return nil
}

// Start begins the scheduler. Stop is called when ctx is cancelled.
func (s *MaintenanceScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return
	}
	if len(s.jobs) == 0 {
		s.logger.Info("no maintenance jobs configured")
		return
	}

	s.ctx, s.cancelFunc = context.WithCancel(ctx)
	s.cron.Start()
	s.isRunning = true

	for _, job := range s.jobs {
		s.logger.WithFields(logrus.Fields{
			"job":      job.Name,
			"schedule": job.Schedule,
			"next_run": s.cron.Entry(s.entryIDs[job.Name]).Next,
		}).Info("maintenance job scheduled")
	}

	go func(done <-chan struct{}) {
		<-done
		s.Stop()
	}(s.ctx.Done())
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	// Stop accepting new jobs and wait for running jobs to complete
	<-s.cron.Stop().Done()
	cancel()
	s.wg.Wait()

	s.logger.Info("scheduler stopped")
}

// RunNow triggers a job immediately, outside its schedule.
func (s *MaintenanceScheduler) RunNow(name string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, job := range s.jobs {
		if job.Name == name {
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.run(job)
			}()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownJob, name)
}

// IsRunning returns whether the scheduler is active
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the named job will next occur, or nil when stopped.
func (s *MaintenanceScheduler) NextRun(name string) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entryID, ok := s.entryIDs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	if !s.isRunning {
		return nil, nil
	}
	next := s.cron.Entry(entryID).Next
	return &next, nil
}

func (s *MaintenanceScheduler) run(job Job) {
	s.mu.RLock()
	ctx := s.ctx
	s.mu.RUnlock()
	if ctx == nil {
		ctx = context.Background()
	}

	log := s.logger.WithField("job", job.Name)
	if _, running := s.busy.LoadOrStore(job.Name, struct{}{}); running {
		log.Warn("previous run still in progress, skipping")
		return
	}
	defer s.busy.Delete(job.Name)

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		log.WithError(err).Error("maintenance job failed")
		return
	}
	log.WithField("duration", time.Since(start).Round(time.Millisecond)).Debug("maintenance job finished")
}
