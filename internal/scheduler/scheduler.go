package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job produces one insights report.
type Job func(ctx context.Context) error

// Status describes the report job's recent history.
type Status struct {
	Spec      string    `json:"spec"`
	Runs      int       `json:"runs"`
	LastRun   time.Time `json:"last_run"`
	LastError string    `json:"last_error,omitempty"`
	Next      time.Time `json:"next"`
}

// Scheduler runs the periodic insights report on a cron spec in UTC.
// Overlapping runs are skipped.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	job    Job
	entry  cron.EntryID
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	runs    int
	lastRun time.Time
	lastErr error
}

func New(spec string) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	logger := cron.PrintfLogger(log.Default())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		spec:   spec,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Scheduler) SetReportFunction(f Job) {
	s.job = f
}

// Start registers the job and starts the cron loop. Without a job it only
// logs a warning.
func (s *Scheduler) Start() error {
	if s.job == nil {
		log.Println("⚠️ Report function not set, scheduler will not generate reports")
		return nil
	}

	id, err := s.cron.AddFunc(s.spec, func() {
		log.Printf("🕘 Triggered insights report (%s)", s.spec)
		if err := s.RunNow(); err != nil {
			log.Printf("❌ Insights report failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.spec, err)
	}
	s.entry = id

	s.cron.Start()
	log.Printf("📅 Scheduler started - insights reports on %q UTC, next at %s", s.spec, s.Next().Format(time.RFC3339))
	return nil
}

// RunNow runs the job synchronously and records the outcome.
func (s *Scheduler) RunNow() error {
	if s.job == nil {
		return fmt.Errorf("report function not set")
	}
	err := s.job(s.ctx)

	s.mu.Lock()
	s.runs++
	s.lastRun = time.Now().UTC()
	s.lastErr = err
	s.mu.Unlock()
	return err
}

// Next is the next scheduled run, zero when nothing is scheduled.
func (s *Scheduler) Next() time.Time {
	if s.entry == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.entry).Next
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{Spec: s.spec, Runs: s.runs, LastRun: s.lastRun, Next: s.Next()}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.cancel()
	log.Println("📅 Scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.entry != 0
}
