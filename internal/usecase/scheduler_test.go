package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"TeamNewsBot/internal/domain"
)

type manualDriver struct {
	job     func(time.Time)
	stopped bool
}

func (d *manualDriver) Start(ctx context.Context, job func(time.Time)) error {
	d.job = job
	return nil
}

func (d *manualDriver) Stop(ctx context.Context) error {
	d.stopped = true
	return nil
}

type countingRunner struct {
	runs int
	err  error
}

func (r *countingRunner) Run(ctx context.Context) (domain.Report, error) {
	r.runs++
	return domain.Report{}, r.err
}

func TestSchedulerRunsPipelineOnTick(t *testing.T) {
	t.Parallel()

	driver := &manualDriver{}
	runner := &countingRunner{err: errors.New("feed down")}
	s := NewScheduler(driver, runner, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	driver.job(time.Now())
	driver.job(time.Now())
	if runner.runs != 2 {
		t.Fatalf("failed runs must not stop the schedule, got %d runs", runner.runs)
	}

	if err := s.Stop(context.Background()); err != nil || !driver.stopped {
		t.Fatalf("Stop did not reach driver: %v", err)
	}
}

func TestSchedulerSkipsAfterCancel(t *testing.T) {
	t.Parallel()

	driver := &manualDriver{}
	runner := &countingRunner{}
	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(driver, runner, nil)
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	cancel()
	driver.job(time.Now())
	if runner.runs != 0 {
		t.Fatalf("cancelled scheduler must not run, got %d", runner.runs)
	}
}
