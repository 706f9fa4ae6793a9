package housekeeping

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

type fakeSweeper struct {
	calls int
	err   error
}

func (f *fakeSweeper) HousekeepAll(ctx context.Context) error {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("expected a deadline")
	}
	return f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{"*/15 * * * *", false},
		{"0 3 * * *", false},
		{"@hourly", true},
		{"* * * * * *", true},
		{"not a schedule", true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := ParseSchedule(tt.expr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseSchedule(%q) err = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
		})
	}
}

func TestNextRun(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 7, 0, 0, time.UTC)
	next, err := NextRun("*/15 * * * *", now)
	if err != nil {
		t.Fatalf("NextRun: %v", err)
	}
	want := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("NextRun = %v, want %v", next, want)
	}
}

func TestRunOnce(t *testing.T) {
	sw := &fakeSweeper{}
	s := New(sw, quietLogger())
	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if sw.calls != 1 {
		t.Fatalf("calls = %d, want 1", sw.calls)
	}

	sw.err = errors.New("disk full")
	if err := s.RunOnce(context.Background()); !errors.Is(err, sw.err) {
		t.Fatalf("RunOnce err = %v, want %v", err, sw.err)
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := New(&fakeSweeper{}, quietLogger())
	if err := s.Start("every now and then"); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestStartStop(t *testing.T) {
	s := New(&fakeSweeper{}, quietLogger())
	if err := s.Start("0 3 * * *"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
