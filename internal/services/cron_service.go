package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hotelsuite/pms-backend/internal/clock"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job names accepted by RunJob
const (
	JobOverdueInvoices = "overdue-invoices"
	JobRoomStatus      = "room-status"
	JobAuditCleanup    = "audit-cleanup"
	JobTokenCleanup    = "token-cleanup"
)

// ErrUnknownJob is returned by RunJob for an unregistered name
var ErrUnknownJob = errors.New("unknown job")

const jobTimeout = 5 * time.Minute

type job struct {
	name     string
	schedule string
	label    string
	run      func(ctx context.Context) (int64, error)
	entryID  cron.EntryID
}

// JobResult is the outcome of the last run of a job
type JobResult struct {
	Job      string    `json:"job"`
	Affected int64     `json:"affected"`
	Error    string    `json:"error,omitempty"`
	Started  time.Time `json:"started"`
	Duration string    `json:"duration"`
	Manual   bool      `json:"manual"`
}

// CronService manages scheduled background jobs
type CronService struct {
	cron   *cron.Cron
	jobs   map[string]*job
	clock  clock.Clock
	logger *logrus.Logger

	mu   sync.Mutex
	last map[string]JobResult
}

// NewCronService registers the nightly jobs. Schedules use seconds precision
// and run in the hotel's timezone.
func NewCronService(
	invoices *InvoiceService,
	rooms RoomStore,
	audit *AuditService,
	auth *AuthService,
	retentionDays int,
	loc *time.Location,
	clk clock.Clock,
	logger *logrus.Logger,
) *CronService {
	if loc == nil {
		loc = time.UTC
	}
	s := &CronService{
		cron:   cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		jobs:   make(map[string]*job),
		clock:  clk,
		logger: logger,
		last:   make(map[string]JobResult),
	}

	// Cron format: second minute hour day month weekday
	s.register(JobOverdueInvoices, "0 5 0 * * *", "Mark overdue invoices (daily at 00:05)", invoices.MarkOverdue)
	s.register(JobRoomStatus, "0 10 0 * * *", "Sync room display status (daily at 00:10)", func(ctx context.Context) (int64, error) {
		return rooms.SyncDisplayStatus(ctx, clock.Today(clk))
	})
	s.register(JobTokenCleanup, "0 0 3 * * *", "Delete expired refresh tokens (daily at 03:00)", auth.CleanupExpiredTokens)
	s.register(JobAuditCleanup, "0 0 4 * * 0", "Cleanup old audit logs (Sundays at 04:00)", func(ctx context.Context) (int64, error) {
		return audit.CleanupOldAuditLogs(ctx, time.Duration(retentionDays)*24*time.Hour)
	})
	return s
}

func (s *CronService) register(name, schedule, label string, run func(ctx context.Context) (int64, error)) {
	s.jobs[name] = &job{name: name, schedule: schedule, label: label, run: run}
}

// Start schedules every registered job and starts the scheduler
func (s *CronService) Start() error {
	s.logger.Info("Starting cron service...")

	for _, name := range s.jobNames() {
		j := s.jobs[name]
		id, err := s.cron.AddFunc(j.schedule, func() { s.execute(j, false) })
		if err != nil {
			return fmt.Errorf("failed to schedule %s job: %w", j.name, err)
		}
		j.entryID = id
		s.logger.WithField("job", j.name).Info("✓ Scheduled: " + j.label)
	}

	s.cron.Start()
	s.logger.Info("✓ Cron service started successfully")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	s.logger.Info("Stopping cron service...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("✓ Cron service stopped")
}

// RunJob runs a job immediately and returns its result
func (s *CronService) RunJob(name string) (JobResult, error) {
	j, ok := s.jobs[name]
	if !ok {
		return JobResult{}, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	s.logger.WithField("job", name).Info("[MANUAL] Running job now...")
	return s.execute(j, true), nil
}

func (s *CronService) execute(j *job, manual bool) JobResult {
	log := s.logger.WithField("job", j.name)
	log.Info("[CRON] Starting job...")

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	started := s.clock.Now()
	begin := time.Now()
	affected, err := j.run(ctx)
	result := JobResult{
		Job:      j.name,
		Affected: affected,
		Started:  started,
		Duration: time.Since(begin).String(),
		Manual:   manual,
	}
	if err != nil {
		result.Error = err.Error()
		log.WithError(err).Error("[CRON ERROR] Job failed")
	} else {
		log.WithField("affected", affected).Infof("[CRON] ✓ Job finished in %s", result.Duration)
	}

	s.mu.Lock()
	s.last[j.name] = result
	s.mu.Unlock()
	return result
}

func (s *CronService) jobNames() []string {
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetJobStatus returns the status of scheduled jobs
func (s *CronService) GetJobStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]map[string]interface{}, 0, len(s.jobs))
	running := 0
	for _, name := range s.jobNames() {
		j := s.jobs[name]
		info := map[string]interface{}{
			"name":     j.name,
			"schedule": j.schedule,
			"label":    j.label,
		}
		if j.entryID != 0 {
			running++
			entry := s.cron.Entry(j.entryID)
			info["next_run"] = entry.Next
			info["prev_run"] = entry.Prev
		}
		if last, ok := s.last[name]; ok {
			info["last_result"] = last
		}
		jobs = append(jobs, info)
	}

	return map[string]interface{}{
		"running":   running > 0,
		"job_count": len(jobs),
		"jobs":      jobs,
	}
}
