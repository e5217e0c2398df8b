package sim

import (
	"context"
	"testing"
	"time"

	"termlife/src/universe"
)

type recorder struct {
	frames    []Frame
	onRefresh func(f Frame)
}

func (r *recorder) Refresh(f Frame) {
	r.frames = append(r.frames, f)
	if r.onRefresh != nil {
		r.onRefresh(f)
	}
}

func (r *recorder) generations() []int {
	gens := make([]int, len(r.frames))
	for i, f := range r.frames {
		gens[i] = f.Status.Generation
	}
	return gens
}

func newBlinker(t *testing.T) *universe.Universe {
	t.Helper()
	u := universe.MustNew(5, 5)
	blinker, _ := universe.LookupTemplate("blinker")
	if err := blinker.Apply(u); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	return u
}

func runWithTimeout(t *testing.T, s *Simulation, v Viewer) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Run(ctx, v); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("Run did not finish in time")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRunStopsAfterMaxSteps(t *testing.T) {
	s := New(newBlinker(t), Options{MaxSteps: 3})
	r := &recorder{}
	runWithTimeout(t, s, r)

	if gens := r.generations(); !equalInts(gens, []int{0, 1, 2, 3}) {
		t.Fatalf("published generations %v, expected [0 1 2 3]", gens)
	}
	last := r.frames[len(r.frames)-1]
	if last.Status.Mode != ModeFinished {
		t.Errorf("last frame mode = %v, expected finished", last.Status.Mode)
	}
	for i, f := range r.frames[:len(r.frames)-1] {
		if f.Status.Mode != ModeRunning {
			t.Errorf("frame %d mode = %v, expected running", i, f.Status.Mode)
		}
		if f.Status.LiveCells != 3 {
			t.Errorf("frame %d has %d live cells, expected 3", i, f.Status.LiveCells)
		}
	}
}

func TestFramesFollowTheUniverse(t *testing.T) {
	s := New(newBlinker(t), Options{MaxSteps: 2})
	r := &recorder{}
	runWithTimeout(t, s, r)

	horizontal, _ := r.frames[0].Area.Row(2, "1", "0")
	vertical, _ := r.frames[1].Area.Row(2, "1", "0")
	back, _ := r.frames[2].Area.Row(2, "1", "0")
	if horizontal != "01110" || vertical != "00100" || back != "01110" {
		t.Errorf("blinker row 2 over generations: %q, %q, %q", horizontal, vertical, back)
	}
}

func TestStepWhilePaused(t *testing.T) {
	s := New(newBlinker(t), Options{MaxSteps: 2, Paused: true, Interval: time.Millisecond})
	if !s.Step() || !s.Step() {
		t.Fatal("Step was not queued")
	}
	r := &recorder{}
	runWithTimeout(t, s, r)

	if gens := r.generations(); !equalInts(gens, []int{0, 1, 2}) {
		t.Fatalf("published generations %v, expected [0 1 2]", gens)
	}
	if r.frames[1].Status.Mode != ModePaused {
		t.Errorf("stepping changed the mode to %v", r.frames[1].Status.Mode)
	}
}

func TestPausedSimulationWaits(t *testing.T) {
	s := New(newBlinker(t), Options{Paused: true})
	ctx, cancel := context.WithCancel(context.Background())
	r := &recorder{onRefresh: func(f Frame) { cancel() }}

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, r) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if gens := r.generations(); !equalInts(gens, []int{0}) {
		t.Errorf("paused simulation published %v, expected [0]", gens)
	}
}

func TestToggleResumes(t *testing.T) {
	s := New(newBlinker(t), Options{MaxSteps: 2, Paused: true})
	if !s.Toggle() {
		t.Fatal("Toggle was not queued")
	}
	r := &recorder{}
	runWithTimeout(t, s, r)

	if gens := r.generations(); !equalInts(gens, []int{0, 0, 1, 2}) {
		t.Fatalf("published generations %v, expected [0 0 1 2]", gens)
	}
	if r.frames[0].Status.Mode != ModePaused || r.frames[1].Status.Mode != ModeRunning {
		t.Errorf("modes %v, %v, expected paused then running", r.frames[0].Status.Mode, r.frames[1].Status.Mode)
	}
}

func TestResumeWaitsFullInterval(t *testing.T) {
	const interval = 100 * time.Millisecond
	s := New(newBlinker(t), Options{MaxSteps: 1, Paused: true, Interval: interval})

	var resumedAt, tickedAt time.Time
	v := ViewerFunc(func(f Frame) {
		switch {
		case f.Status.Generation == 0 && f.Status.Mode == ModePaused:
			//stay paused longer than the interval before resuming
			go func() {
				time.Sleep(3 * interval)
				s.Resume()
			}()
		case f.Status.Generation == 0 && f.Status.Mode == ModeRunning:
			resumedAt = time.Now()
		case f.Status.Generation == 1:
			tickedAt = time.Now()
		}
	})
	runWithTimeout(t, s, v)

	if resumedAt.IsZero() || tickedAt.IsZero() {
		t.Fatalf("missing frames: resumed %v, ticked %v", resumedAt, tickedAt)
	}
	if waited := tickedAt.Sub(resumedAt); waited < interval/2 {
		t.Errorf("first generation after resume came after %v, expected about %v", waited, interval)
	}
}

func TestPauseAndResume(t *testing.T) {
	s := New(newBlinker(t), Options{MaxSteps: 1, Interval: time.Hour})
	s.Pause()
	s.Resume()
	s.Step()
	r := &recorder{}
	runWithTimeout(t, s, r)

	modes := make([]RunningState, len(r.frames))
	for i, f := range r.frames {
		modes[i] = f.Status.Mode
	}
	expected := []RunningState{ModeRunning, ModePaused, ModeRunning, ModeFinished}
	if len(modes) != len(expected) {
		t.Fatalf("modes %v, expected %v", modes, expected)
	}
	for i := range expected {
		if modes[i] != expected[i] {
			t.Errorf("frame %d mode %v, expected %v", i, modes[i], expected[i])
		}
	}
}

func TestControlQueueFull(t *testing.T) {
	s := New(newBlinker(t), Options{})
	for i := 0; i < controlQueueSize; i++ {
		if !s.Step() {
			t.Fatalf("command %d rejected", i)
		}
	}
	if s.Step() {
		t.Error("command accepted by a full queue")
	}
}

func TestViewerFunc(t *testing.T) {
	s := New(newBlinker(t), Options{MaxSteps: 1})
	calls := 0
	runWithTimeout(t, s, ViewerFunc(func(f Frame) { calls++ }))
	if calls != 2 {
		t.Errorf("viewer called %d times, expected 2", calls)
	}
}

func TestRunningStateString(t *testing.T) {
	for mode, expected := range map[RunningState]string{
		ModePaused:       "paused",
		ModeRunning:      "running",
		ModeFinished:     "finished",
		RunningState(42): "unknown",
	} {
		if mode.String() != expected {
			t.Errorf("%d.String() = %q, expected %q", mode, mode.String(), expected)
		}
	}
}
