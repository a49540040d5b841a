package city

import (
	"errors"
	"sync"
)

// ErrInvalidSpeed is returned when a speed below 1 is requested.
var ErrInvalidSpeed = errors.New("city: speed must be at least 1")

// Session pairs a State with the Engine that drives it and serializes all
// access behind a single mutex. Drivers that tick and render from different
// goroutines must go through a Session rather than touching State directly.
type Session struct {
	mu     sync.Mutex
	state  *State
	engine *Engine
}

// NewSession creates a session over a fresh baseline city.
func NewSession(engine *Engine) *Session {
	return &Session{
		state:  NewState(),
		engine: engine,
	}
}

// Advance runs one scheduling interval: Speed ticks back to back.
// It returns the number of days actually simulated.
func (s *Session) Advance() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.state.Day
	for range s.state.Speed {
		s.engine.Tick(s.state)
	}
	return s.state.Day - start
}

// Toggle flips Running unless the city has collapsed.
// It returns the resulting Running value.
func (s *Session) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Collapsed {
		s.state.Running = !s.state.Running
	}
	return s.state.Running
}

// SetRunning starts or pauses the city. Collapsed cities stay stopped.
func (s *Session) SetRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Collapsed {
		s.state.Running = running
	}
}

// SetSpeed sets the number of ticks per interval.
func (s *Session) SetSpeed(speed int) error {
	if speed < 1 {
		return ErrInvalidSpeed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Speed = speed
	return nil
}

// Snapshot returns a deep copy of the current state for rendering or saving.
func (s *Session) Snapshot() *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Clone()
}

// Replace swaps in another state, for example one loaded from a save slot.
// The session keeps its own copy.
func (s *Session) Replace(state *State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state.Clone()
	if s.state.Speed < 1 {
		s.state.Speed = 1
	}
}

// Reset founds a new baseline city, keeping the current speed.
// This is the only way to continue after a collapse.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	speed := s.state.Speed
	s.state = NewState()
	s.state.Speed = speed
}
