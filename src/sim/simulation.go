package sim

import (
	"context"
	"time"

	"termlife/src/universe"
)

//RunningState is the simulation running status at the concrete moment
type RunningState int

const (
	ModePaused RunningState = iota
	ModeRunning
	ModeFinished
)

func (s RunningState) String() string {
	switch s {
	case ModePaused:
		return "paused"
	case ModeRunning:
		return "running"
	case ModeFinished:
		return "finished"
	}
	return "unknown"
}

//Options represents the simulation's configurable options
type Options struct {
	Interval time.Duration //delay between the generations
	MaxSteps int           //stop after this many generations, 0 means never
	Paused   bool          //start paused, generations are advanced by Step only
}

//Status represents the status of the simulation at concrete moment
type Status struct {
	Generation int
	Mode       RunningState
	LiveCells  int
	TickTime   time.Duration //time spent on the last tick
}

//Frame is one generation as seen by the viewers
type Frame struct {
	Status Status
	Area   universe.Area
}

//Viewer is the interface to any object who can display the simulation
type Viewer interface {
	Refresh(f Frame)
}

//ViewerFunc adapts a function to the Viewer interface
type ViewerFunc func(f Frame)

func (fn ViewerFunc) Refresh(f Frame) {
	fn(f)
}

//Controller is the part of the simulation available to the interactive viewers
type Controller interface {
	Pause() bool
	Resume() bool
	Toggle() bool
	Step() bool
}

//command is executed on the Run goroutine, returns true when a generation should be advanced
type command func() bool

const controlQueueSize = 8

//Simulation drives the universe: renders, waits for the interval or a command, ticks
//the universe is only touched from the Run goroutine
type Simulation struct {
	u         *universe.Universe
	options   Options
	status    Status
	controlCh chan command
}

//New creates the simulation for the universe
func New(u *universe.Universe, o Options) *Simulation {
	s := &Simulation{
		u:         u,
		options:   o,
		controlCh: make(chan command, controlQueueSize),
	}
	s.status.Mode = ModeRunning
	if o.Paused {
		s.status.Mode = ModePaused
	}
	s.status.LiveCells = u.LiveCells()
	return s
}

func (s *Simulation) Options() Options {
	return s.options
}

//Run publishes the current generation to v and keeps advancing the universe
//until ctx is cancelled or MaxSteps generations are done
//it has to be called once
func (s *Simulation) Run(ctx context.Context, v Viewer) error {
	s.publish(v)

	timer := time.NewTimer(s.options.Interval)
	defer timer.Stop()

	for !s.finished() {
		var tick <-chan time.Time
		if s.status.Mode == ModeRunning {
			tick = timer.C
		}

		select {
		case <-ctx.Done():
			return nil
		case cmd := <-s.controlCh:
			wasRunning := s.status.Mode == ModeRunning
			if !cmd() {
				//the timer kept running while paused, a resumed simulation waits a full interval
				if !wasRunning && s.status.Mode == ModeRunning {
					resetTimer(timer, s.options.Interval)
				}
				s.publish(v)
				continue
			}
		case <-tick:
		}

		s.step()
		if s.finished() {
			s.status.Mode = ModeFinished
		}
		s.publish(v)
		resetTimer(timer, s.options.Interval)
	}
	return nil
}

//Pause stops advancing the generations, returns immediately
//returns false if the command queue is full
func (s *Simulation) Pause() bool {
	return s.send(func() bool {
		s.switchRunningState(ModePaused)
		return false
	})
}

//Resume continues advancing the generations, returns immediately
func (s *Simulation) Resume() bool {
	return s.send(func() bool {
		s.switchRunningState(ModeRunning)
		return false
	})
}

//Toggle switches between paused and running, returns immediately
func (s *Simulation) Toggle() bool {
	return s.send(func() bool {
		if s.status.Mode == ModeRunning {
			s.switchRunningState(ModePaused)
		} else {
			s.switchRunningState(ModeRunning)
		}
		return false
	})
}

//Step advances exactly one generation, returns immediately
func (s *Simulation) Step() bool {
	return s.send(func() bool {
		return s.status.Mode != ModeFinished
	})
}

func (s *Simulation) send(cmd command) bool {
	select {
	case s.controlCh <- cmd:
		return true
	default:
		return false
	}
}

func (s *Simulation) switchRunningState(to RunningState) {
	if s.status.Mode != ModeFinished {
		s.status.Mode = to
	}
}

func (s *Simulation) finished() bool {
	return s.options.MaxSteps > 0 && s.status.Generation >= s.options.MaxSteps
}

//step does the one generation calculation and updates the counters
func (s *Simulation) step() {
	start := time.Now()
	s.u.Tick()
	s.status.TickTime = time.Since(start)
	s.status.Generation++
	s.status.LiveCells = s.u.LiveCells()
}

//publish sends the copy of the current generation to the viewer
func (s *Simulation) publish(v Viewer) {
	if v == nil {
		return
	}
	v.Refresh(Frame{Status: s.status, Area: s.u.Area()})
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
