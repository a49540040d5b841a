package city

import (
	"fmt"
	"math/rand"
)

// Per-head daily consumption of each resource.
const (
	foodPerHead   = 0.5
	energyPerHead = 0.3
	moneyPerHead  = 0.2
)

// Population dynamics.
const (
	growthRate       = 0.01
	deathRate        = 0.005
	famineDeathRate  = 0.02 // Added when food < population
	blackoutGrowth   = 0.3  // Growth multiplier when energy < population/2
	blackoutFraction = 0.5
)

// EventChance is the probability that a new event starts on a given day.
const EventChance = 0.05

// Roller is the source of randomness for event rolls.
// *rand.Rand satisfies it; tests substitute a scripted roller.
type Roller interface {
	Float64() float64
	Intn(n int) int
}

// Engine advances a State one day at a time.
// It holds no city state of its own, only the random source.
type Engine struct {
	rng Roller
}

// NewEngine creates an engine drawing event rolls from r.
func NewEngine(r Roller) *Engine {
	return &Engine{rng: r}
}

// NewSeededEngine creates an engine backed by math/rand with the given seed.
func NewSeededEngine(seed int64) *Engine {
	return NewEngine(rand.New(rand.NewSource(seed)))
}

// Tick advances the city by exactly one day.
// A paused or collapsed city is left untouched.
// Tick is not safe for concurrent use; see Session.
func (e *Engine) Tick(s *State) {
	if !s.Running || s.Collapsed {
		return
	}

	s.Day++

	e.applyEvents(s)
	e.updateResources(s)
	e.updatePopulation(s)
	e.checkStatus(s)
	e.rollEvents(s)
}

// applyEvents runs each active event's effect in insertion order and
// retires expired ones. Any expiry resets every production rate, including
// overrides set earlier in this pass by events that are still active.
func (e *Engine) applyEvents(s *State) {
	kept := s.Events[:0]
	for _, ev := range s.Events {
		ev.apply(s)
		ev.RemainingDays--
		if ev.RemainingDays <= 0 {
			s.resetProduction()
			s.AddLog("Event ended: " + ev.Kind.String())
			continue
		}
		kept = append(kept, ev)
	}
	s.Events = kept
}

// updateResources applies production minus consumption, truncating toward
// zero after the addition and clamping at zero.
func (e *Engine) updateResources(s *State) {
	pop := float64(s.Population)

	// Explicit float64 conversions keep each product rounded on its own
	// so the compiler cannot fuse it into the subtraction.
	foodChange := float64(s.FoodProd) - float64(pop*foodPerHead)
	energyChange := float64(s.EnergyProd) - float64(pop*energyPerHead)
	moneyChange := float64(s.MoneyProd) - float64(pop*moneyPerHead)

	s.Food = max(0, int(float64(s.Food)+foodChange))
	s.Energy = max(0, int(float64(s.Energy)+energyChange))
	s.Money = max(0, int(float64(s.Money)+moneyChange))
}

// updatePopulation applies births and deaths for the day.
func (e *Engine) updatePopulation(s *State) {
	growth := growthRate
	death := deathRate

	if s.Food < s.Population {
		death += famineDeathRate
	}
	if float64(s.Energy) < float64(float64(s.Population)*blackoutFraction) {
		growth *= blackoutGrowth
	}

	net := int(float64(float64(s.Population) * (growth - death)))
	s.Population = max(0, s.Population+net)

	switch {
	case net > 0:
		s.AddLog(fmt.Sprintf("Population grew by %d", net))
	case net < 0:
		s.AddLog(fmt.Sprintf("Population declined by %d", -net))
	}
}

// checkStatus detects collapse and logs shortage warnings.
// The checks are independent; a collapsing city can also be starving and broke.
func (e *Engine) checkStatus(s *State) {
	if s.Population <= 0 {
		s.Collapsed = true
		s.Running = false
		s.AddLog("CITY COLLAPSED: No population left")
	}
	if s.Food == 0 {
		s.AddLog("WARNING: Food shortage")
	}
	if s.Money == 0 {
		s.AddLog("WARNING: City is bankrupt")
	}
}

// rollEvents may start one new event. Its effect is first felt next day.
func (e *Engine) rollEvents(s *State) {
	if e.rng.Float64() >= EventChance {
		return
	}
	kind := EventKinds[e.rng.Intn(len(EventKinds))]
	s.Events = append(s.Events, NewEvent(kind))
	s.AddLog("Event started: " + kind.String())
}
