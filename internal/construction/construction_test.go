package construction

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestBuildLifecycle(t *testing.T) {
	tr := NewTracker(10 * time.Second)
	tr.Start("f1", t0)
	if !tr.Building("f1") {
		t.Fatal("f1 not building after Start")
	}
	if done := tr.Step(t0.Add(9 * time.Second)); len(done) != 0 {
		t.Errorf("done at 9s = %v; want none", done)
	}
	done := tr.Step(t0.Add(10 * time.Second))
	if len(done) != 1 || done[0] != "f1" {
		t.Errorf("done at 10s = %v; want [f1]", done)
	}
	if tr.Building("f1") {
		t.Error("f1 still building after completion")
	}
}

func TestProgressAndRemaining(t *testing.T) {
	tr := NewTracker(10 * time.Second)
	tr.Start("f1", t0)
	s := tr.Status("f1")
	for _, tc := range []struct {
		at        time.Duration
		progress  float64
		remaining int
	}{
		{-time.Second, 0, 11},
		{0, 0, 10},
		{2500 * time.Millisecond, 0.25, 8},
		{5 * time.Second, 0.5, 5},
		{10 * time.Second, 1, 0},
		{time.Minute, 1, 0},
	} {
		now := t0.Add(tc.at)
		if got := s.Progress(now); got != tc.progress {
			t.Errorf("Progress(%v) = %v; want %v", tc.at, got, tc.progress)
		}
		if got := s.Remaining(now); got != tc.remaining {
			t.Errorf("Remaining(%v) = %d; want %d", tc.at, got, tc.remaining)
		}
	}
}

func TestUnknownFloorIsReady(t *testing.T) {
	tr := NewTracker(time.Second)
	s := tr.Status("loaded")
	if s.Building || s.Progress(t0) != 1 || s.Remaining(t0) != 0 {
		t.Errorf("status = %+v; want ready", s)
	}
}

func TestZeroDurationSkipsConstruction(t *testing.T) {
	tr := NewTracker(0)
	tr.Start("f1", t0)
	if tr.Building("f1") {
		t.Error("zero duration build is building")
	}
}
