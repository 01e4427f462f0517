package clock

import (
	"context"
	"testing"
	"time"
)

func TestFakeAdvanceFiresDueTimers(t *testing.T) {
	start := time.Date(2026, 1, 14, 9, 0, 0, 0, time.UTC)
	f := NewFake(start)

	early := f.After(time.Second)
	late := f.After(time.Minute)

	f.Advance(2 * time.Second)

	select {
	case got := <-early:
		if !got.Equal(start.Add(2 * time.Second)) {
			t.Fatalf("unexpected fire time %s", got)
		}
	default:
		t.Fatal("early timer should have fired")
	}

	select {
	case <-late:
		t.Fatal("late timer fired too soon")
	default:
	}
	if f.Waiters() != 1 {
		t.Fatalf("expected one pending timer, got %d", f.Waiters())
	}
}

func TestSleepHonoursContext(t *testing.T) {
	f := NewFake(time.Now())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Sleep(ctx, f, time.Hour); err == nil {
		t.Fatal("cancelled context should abort sleep")
	}
}
