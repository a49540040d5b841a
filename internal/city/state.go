// Package city holds the city simulation core: the mutable city state and the
// engine that advances it one day at a time.
// The package performs no I/O; drivers own timing, rendering and persistence.
package city

import "fmt"

// Baseline values for a freshly founded city.
const (
	BasePopulation = 100
	BaseFood       = 500
	BaseEnergy     = 300
	BaseMoney      = 200

	BaseFoodProd   = 15
	BaseEnergyProd = 10
	BaseMoneyProd  = 8

	// LogCapacity is the number of most recent log entries kept.
	LogCapacity = 100
)

// State is the complete mutable state of one simulated city.
// It is mutated only by Engine.Tick and by driver-level conveniences
// (run toggle, speed) that live on Session.
type State struct {
	Day     int  // Days simulated so far
	Running bool // Whether ticks are allowed to mutate state
	Speed   int  // Ticks per scheduling interval

	Population int
	Food       int
	Energy     int
	Money      int

	// Per-tick production rates, overridden while events are active.
	FoodProd   int
	EnergyProd int
	MoneyProd  int

	Events    []Event  // Active events in processing order
	Log       []string // Most recent entries, oldest first
	Collapsed bool     // Terminal flag; a collapsed city never runs again
}

// NewState returns a city with baseline values, paused at day 0.
func NewState() *State {
	return &State{
		Day:        0,
		Running:    false,
		Speed:      1,
		Population: BasePopulation,
		Food:       BaseFood,
		Energy:     BaseEnergy,
		Money:      BaseMoney,
		FoodProd:   BaseFoodProd,
		EnergyProd: BaseEnergyProd,
		MoneyProd:  BaseMoneyProd,
		Events:     []Event{},
		Log:        []string{},
	}
}

// AddLog appends a day-stamped entry, evicting the oldest once the log
// exceeds LogCapacity.
func (s *State) AddLog(text string) {
	s.Log = append(s.Log, fmt.Sprintf("Day %d: %s", s.Day, text))
	if len(s.Log) > LogCapacity {
		n := copy(s.Log, s.Log[len(s.Log)-LogCapacity:])
		s.Log = s.Log[:n]
	}
}

// Clone returns a deep copy whose slices do not alias the receiver's.
func (s *State) Clone() *State {
	c := *s
	c.Events = append([]Event(nil), s.Events...)
	c.Log = append([]string(nil), s.Log...)
	if c.Events == nil {
		c.Events = []Event{}
	}
	if c.Log == nil {
		c.Log = []string{}
	}
	return &c
}

// resetProduction restores all three production rates to baseline.
func (s *State) resetProduction() {
	s.FoodProd = BaseFoodProd
	s.EnergyProd = BaseEnergyProd
	s.MoneyProd = BaseMoneyProd
}

// Status returns a short label for the run state.
func (s *State) Status() string {
	switch {
	case s.Collapsed:
		return "COLLAPSED"
	case s.Running:
		return "RUNNING"
	default:
		return "PAUSED"
	}
}
