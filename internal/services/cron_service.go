package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/travelhub/seatmap-service/internal/models"
)

// staleSweepLimit caps how many trips one scheduled sweep reconciles
const staleSweepLimit = 500

// CronService manages scheduled background jobs
type CronService struct {
	cron     *cron.Cron
	seatMaps *SeatMapService
	spec     string
	logger   *logrus.Logger

	mu      sync.Mutex
	running bool
	lastRun *JobRun
}

// JobRun records the outcome of one sweep
type JobRun struct {
	StartedAt time.Time                    `json:"started_at"`
	Duration  string                       `json:"duration"`
	Result    *models.BatchReconcileResult `json:"result,omitempty"`
	Error     string                       `json:"error,omitempty"`
}

// NewCronService creates a new CronService. spec uses the six-field format with seconds.
func NewCronService(seatMaps *SeatMapService, spec string, logger *logrus.Logger) *CronService {
	return &CronService{
		cron:     cron.New(cron.WithSeconds()),
		seatMaps: seatMaps,
		spec:     spec,
		logger:   logger,
	}
}

// Start schedules the stale seat map sweep and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.reconcileStaleJob); err != nil {
		return fmt.Errorf("failed to schedule seat map sweep: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("spec", s.spec).Info("Cron service started")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *CronService) Stop() {
	s.logger.Info("Stopping cron service...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

func (s *CronService) reconcileStaleJob() {
	if _, err := s.RunReconcileNow(context.Background()); err != nil {
		s.logger.WithError(err).Warn("[CRON] Seat map sweep skipped")
	}
}

// RunReconcileNow runs the stale seat map sweep immediately. It refuses to start while
// another sweep is running.
func (s *CronService) RunReconcileNow(ctx context.Context) (*JobRun, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, fmt.Errorf("seat map sweep already running")
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("[CRON] Starting stale seat map sweep")
	run := &JobRun{StartedAt: time.Now()}

	result, err := s.seatMaps.ReconcileStale(ctx, staleSweepLimit, false)
	run.Result = result
	run.Duration = time.Since(run.StartedAt).String()
	if err != nil {
		run.Error = err.Error()
		s.logger.WithError(err).Error("[CRON] Stale seat map sweep failed")
	} else {
		s.logger.WithField("duration", run.Duration).Info("[CRON] Stale seat map sweep finished")
	}

	s.mu.Lock()
	s.running = false
	s.lastRun = run
	s.mu.Unlock()

	return run, nil
}

// GetJobStatus returns the status of scheduled jobs
func (s *CronService) GetJobStatus() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"spec":     s.spec,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]interface{}{
		"scheduled":     len(entries) > 0,
		"sweep_running": s.running,
		"job_count":     len(entries),
		"jobs":          jobs,
		"last_run":      s.lastRun,
	}
}
