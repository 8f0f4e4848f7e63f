package retention

import (
	"context"
	"testing"
	"time"
)

func TestSchedulerStart(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		wantRunning bool
		wantError   bool
	}{
		{name: "valid daily schedule", schedule: "0 3 * * *", wantRunning: true},
		{name: "valid hourly schedule", schedule: "0 * * * *", wantRunning: true},
		{name: "empty schedule disables", schedule: "", wantRunning: false},
		{name: "invalid schedule", schedule: "not cron", wantRunning: false, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, repo := openTestRepo(t)
			pruner := NewPruner(repo, 7, 0, quietLogger())
			scheduler := NewScheduler(pruner, tt.schedule, quietLogger())

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := scheduler.Start(ctx)
			if (err != nil) != tt.wantError {
				t.Errorf("Start() error = %v, wantError %v", err, tt.wantError)
			}
			if scheduler.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", scheduler.IsRunning(), tt.wantRunning)
			}

			scheduler.Stop()
			if scheduler.IsRunning() {
				t.Error("scheduler still running after Stop()")
			}
		})
	}
}

func TestSchedulerNextRun(t *testing.T) {
	_, repo := openTestRepo(t)
	pruner := NewPruner(repo, 7, 0, quietLogger())
	scheduler := NewScheduler(pruner, "0 3 * * *", quietLogger())

	if next := scheduler.NextRun(); next != nil {
		t.Errorf("NextRun() before start = %v, want nil", next)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer scheduler.Stop()

	// The cron loop fills in the entry's next time just after Start.
	var next *time.Time
	for i := 0; i < 100; i++ {
		next = scheduler.NextRun()
		if next != nil && !next.IsZero() {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if next == nil || next.IsZero() {
		t.Fatal("NextRun() never produced a scheduled time")
	}
	if !next.After(time.Now()) {
		t.Errorf("NextRun() = %v, want a time in the future", next)
	}
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	_, repo := openTestRepo(t)
	pruner := NewPruner(repo, 7, 0, quietLogger())
	scheduler := NewScheduler(pruner, "0 3 * * *", quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	cancel()

	stopped := false
	for i := 0; i < 200; i++ {
		if !scheduler.IsRunning() {
			stopped = true
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !stopped {
		t.Error("scheduler should stop after the context is cancelled")
	}
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	_, repo := openTestRepo(t)
	pruner := NewPruner(repo, 7, 0, quietLogger())
	scheduler := NewScheduler(pruner, "0 3 * * *", quietLogger())

	scheduler.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	scheduler.Stop()
	scheduler.Stop()

	if scheduler.IsRunning() {
		t.Error("scheduler should stay stopped")
	}
}

func TestScheduledPruneRuns(t *testing.T) {
	_, repo := openTestRepo(t)
	createEpisodes(t, repo, 3)

	pruner := NewPruner(repo, 0, 1, quietLogger())
	scheduler := NewScheduler(pruner, "* * * * *", quietLogger())

	scheduler.runPrune()

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected the scheduled prune to trim to 1 episode, got %d", count)
	}
}
