package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"bondfeed/internal/clock"
)

func TestRunAlignsTicksToInterval(t *testing.T) {
	start := time.Date(2026, 1, 15, 10, 0, 20, 0, time.UTC)
	clk := clock.NewFake(start)
	s := New(Options{Interval: time.Minute, AlignToStart: true, Clock: clk}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	buckets := make(chan time.Time, 4)
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(_ context.Context, bucket time.Time) error {
			buckets <- bucket
			return nil
		})
	}()

	clk.BlockUntil(1)
	clk.Advance(40 * time.Second)
	if got := <-buckets; !got.Equal(time.Date(2026, 1, 15, 10, 1, 0, 0, time.UTC)) {
		t.Fatalf("first bucket = %s", got)
	}

	clk.BlockUntil(1)
	clk.Advance(time.Minute)
	if got := <-buckets; !got.Equal(time.Date(2026, 1, 15, 10, 2, 0, 0, time.UTC)) {
		t.Fatalf("second bucket = %s", got)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v", err)
	}
}

func TestRunImmediatelyAfterStartupDelay(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	s := New(Options{Interval: 5 * time.Minute, StartupDelay: 10 * time.Second, RunImmediately: true, Clock: clk}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticks := make(chan time.Time, 2)
	go func() {
		_ = s.Run(ctx, func(_ context.Context, bucket time.Time) error {
			ticks <- bucket
			return nil
		})
	}()

	clk.BlockUntil(1)
	select {
	case <-ticks:
		t.Fatal("tick fired before the startup delay")
	default:
	}

	clk.Advance(10 * time.Second)
	if got := <-ticks; !got.Equal(time.Date(2026, 1, 15, 10, 0, 10, 0, time.UTC)) {
		t.Fatalf("immediate tick at %s", got)
	}
}

func TestTickErrorsDoNotStopLoop(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	s := New(Options{Interval: time.Second, Clock: clk}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 3)
	go func() {
		_ = s.Run(ctx, func(context.Context, time.Time) error {
			calls <- struct{}{}
			return errors.New("provider down")
		})
	}()

	for i := 0; i < 2; i++ {
		clk.BlockUntil(1)
		clk.Advance(time.Second)
		<-calls
	}
}

func TestNewRejectsZeroInterval(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for zero interval")
		}
	}()
	New(Options{}, zerolog.Nop())
}
