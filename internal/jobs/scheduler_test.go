package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/gardenpro/landscape-api/internal/metrics"
)

func TestRunRecordsResult(t *testing.T) {
	okBefore := testutil.ToFloat64(metrics.CronRuns.WithLabelValues("test_ok", "ok"))
	errBefore := testutil.ToFloat64(metrics.CronRuns.WithLabelValues("test_err", "error"))

	var gotDeadline bool
	run("test_ok", func(ctx context.Context) (int, error) {
		_, gotDeadline = ctx.Deadline()
		return 3, nil
	})
	run("test_err", func(context.Context) (int, error) {
		return 0, errors.New("db down")
	})

	if !gotDeadline {
		t.Fatal("expected the job context to carry a deadline")
	}
	if got := testutil.ToFloat64(metrics.CronRuns.WithLabelValues("test_ok", "ok")); got != okBefore+1 {
		t.Fatalf("expected ok count %v, got %v", okBefore+1, got)
	}
	if got := testutil.ToFloat64(metrics.CronRuns.WithLabelValues("test_err", "error")); got != errBefore+1 {
		t.Fatalf("expected error count %v, got %v", errBefore+1, got)
	}
}

func TestAddValidatesSchedule(t *testing.T) {
	s := New(time.UTC)
	noop := func(context.Context) (int, error) { return 0, nil }

	if err := s.Add("expire", ExpireEstimatesSchedule, noop); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Add("reminders", RemindersSchedule, noop); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Add("bad", "every tuesday", noop); err == nil {
		t.Fatal("expected an invalid schedule to be rejected")
	}
	if n := len(s.cron.Entries()); n != 2 {
		t.Fatalf("expected 2 entries, got %d", n)
	}
}

func TestRemindersRunAtNineInBusinessZone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	s := New(loc)
	if err := s.Add("reminders", RemindersSchedule, func(context.Context) (int, error) { return 0, nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	from := time.Date(2024, 6, 10, 10, 0, 0, 0, loc)
	next := s.cron.Entries()[0].Schedule.Next(from)
	want := time.Date(2024, 6, 11, 9, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Fatalf("expected %s, got %s", want, next)
	}
}
