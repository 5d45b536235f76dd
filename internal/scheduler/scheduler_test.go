package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStartWithoutReportFunction(t *testing.T) {
	s := New("* * * * *")
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.IsRunning() {
		t.Fatalf("scheduler without a report function must not register jobs")
	}
	if err := s.RunNow(); err == nil {
		t.Fatalf("expected error running without a report function")
	}
	s.Stop()
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := New("not a cron spec")
	s.SetReportFunction(func(ctx context.Context) error { return nil })
	if err := s.Start(); err == nil {
		t.Fatalf("expected error for invalid spec")
	}
	s.Stop()
}

func TestStartRegistersJob(t *testing.T) {
	s := New("*/15 * * * *")
	s.SetReportFunction(func(ctx context.Context) error { return nil })
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()
	if !s.IsRunning() {
		t.Fatalf("expected a scheduled job")
	}
	next := s.Next()
	if next.IsZero() || next.Minute()%15 != 0 || next.Location() != time.UTC {
		t.Fatalf("unexpected next run %v", next)
	}
}

func TestRunNowRecordsStatus(t *testing.T) {
	s := New("@hourly")
	fail := errors.New("disk full")
	calls := 0
	s.SetReportFunction(func(ctx context.Context) error {
		calls++
		if calls == 2 {
			return fail
		}
		return nil
	})

	if err := s.RunNow(); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := s.RunNow(); !errors.Is(err, fail) {
		t.Fatalf("expected job error, got %v", err)
	}

	st := s.Status()
	if st.Runs != 2 || st.LastError != "disk full" || st.LastRun.IsZero() {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.Spec != "@hourly" || !st.Next.IsZero() {
		t.Fatalf("unscheduled status should have no next run: %+v", st)
	}
	s.Stop()
}
