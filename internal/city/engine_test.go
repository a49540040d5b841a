package city

import (
	"reflect"
	"testing"
)

// scriptedRoller replays fixed values. Once a script is exhausted it keeps
// returning its last value, or a never-roll default when the script is empty.
type scriptedRoller struct {
	floats []float64
	ints   []int
}

func (r *scriptedRoller) Float64() float64 {
	if len(r.floats) == 0 {
		return 1.0
	}
	v := r.floats[0]
	if len(r.floats) > 1 {
		r.floats = r.floats[1:]
	}
	return v
}

func (r *scriptedRoller) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	if len(r.ints) > 1 {
		r.ints = r.ints[1:]
	}
	return v % n
}

// quietEngine never starts new events.
func quietEngine() *Engine {
	return NewEngine(&scriptedRoller{})
}

func runningState() *State {
	s := NewState()
	s.Running = true
	return s
}

func TestNewStateBaseline(t *testing.T) {
	s := NewState()

	if s.Day != 0 || s.Running || s.Speed != 1 || s.Collapsed {
		t.Errorf("Unexpected run fields: day=%d running=%v speed=%d collapsed=%v",
			s.Day, s.Running, s.Speed, s.Collapsed)
	}
	if s.Population != 100 || s.Food != 500 || s.Energy != 300 || s.Money != 200 {
		t.Errorf("Unexpected resources: pop=%d food=%d energy=%d money=%d",
			s.Population, s.Food, s.Energy, s.Money)
	}
	if s.FoodProd != 15 || s.EnergyProd != 10 || s.MoneyProd != 8 {
		t.Errorf("Unexpected production: %d/%d/%d", s.FoodProd, s.EnergyProd, s.MoneyProd)
	}
	if len(s.Events) != 0 || len(s.Log) != 0 {
		t.Errorf("Expected empty events and log, got %d events, %d log entries", len(s.Events), len(s.Log))
	}
}

func TestBaselineTick(t *testing.T) {
	s := runningState()
	quietEngine().Tick(s)

	if s.Day != 1 {
		t.Errorf("Expected day 1, got %d", s.Day)
	}
	if s.Food != 465 {
		t.Errorf("Expected food 465, got %d", s.Food)
	}
	if s.Energy != 280 {
		t.Errorf("Expected energy 280, got %d", s.Energy)
	}
	if s.Money != 188 {
		t.Errorf("Expected money 188, got %d", s.Money)
	}
	// 100 * 0.005 truncates to zero: no growth and no log entry.
	if s.Population != 100 {
		t.Errorf("Expected population 100, got %d", s.Population)
	}
	if len(s.Log) != 0 {
		t.Errorf("Expected no log entries, got %v", s.Log)
	}
}

func TestTwoBaselineTicks(t *testing.T) {
	s := runningState()
	e := quietEngine()
	e.Tick(s)
	e.Tick(s)

	if s.Food != 430 || s.Energy != 260 || s.Money != 176 {
		t.Errorf("Expected 430/260/176 after two days, got %d/%d/%d", s.Food, s.Energy, s.Money)
	}
}

func TestPausedTickIsNoop(t *testing.T) {
	s := NewState()
	s.Events = []Event{NewEvent(Disease)}
	s.AddLog("founded")
	before := s.Clone()

	e := NewEngine(&scriptedRoller{floats: []float64{0.0}})
	for range 5 {
		e.Tick(s)
	}

	if !reflect.DeepEqual(before, s) {
		t.Errorf("Paused tick mutated state:\nbefore %+v\nafter  %+v", before, s)
	}
}

func TestCollapsedTickIsNoop(t *testing.T) {
	s := runningState()
	s.Population = 0
	e := quietEngine()
	e.Tick(s)

	if !s.Collapsed {
		t.Fatal("Expected city to collapse with zero population")
	}
	if s.Running {
		t.Error("Collapsed city must not be running")
	}

	before := s.Clone()
	s.Running = true // a misbehaving driver cannot revive it
	before.Running = true
	for range 10 {
		e.Tick(s)
	}
	if !reflect.DeepEqual(before, s) {
		t.Errorf("Tick after collapse mutated state:\nbefore %+v\nafter  %+v", before, s)
	}
}

func TestCollapseLogsAndWarnings(t *testing.T) {
	s := runningState()
	s.Population = 0
	s.Food = 0
	s.FoodProd = 0
	s.Money = 0
	s.MoneyProd = 0
	quietEngine().Tick(s)

	want := []string{
		"Day 1: CITY COLLAPSED: No population left",
		"Day 1: WARNING: Food shortage",
		"Day 1: WARNING: City is bankrupt",
	}
	if !reflect.DeepEqual(s.Log, want) {
		t.Errorf("Unexpected log:\n got %q\nwant %q", s.Log, want)
	}
}

func TestDiseaseCanCollapseCity(t *testing.T) {
	s := runningState()
	s.Population = 2
	s.Events = []Event{NewEvent(Disease)}
	quietEngine().Tick(s)

	if s.Population != 0 {
		t.Errorf("Expected population clamped to 0, got %d", s.Population)
	}
	if !s.Collapsed || s.Running {
		t.Errorf("Expected collapsed and stopped, got collapsed=%v running=%v", s.Collapsed, s.Running)
	}
}

func TestSingleDayEventAppliesOnceAndExpires(t *testing.T) {
	s := runningState()
	s.Events = []Event{{Kind: Drought, RemainingDays: 1}}
	quietEngine().Tick(s)

	if len(s.Events) != 0 {
		t.Errorf("Expected event removed, got %v", s.Events)
	}
	if s.FoodProd != BaseFoodProd || s.EnergyProd != BaseEnergyProd || s.MoneyProd != BaseMoneyProd {
		t.Errorf("Expected baseline production, got %d/%d/%d", s.FoodProd, s.EnergyProd, s.MoneyProd)
	}
	// Production was reset before resources were updated.
	if s.Food != 465 {
		t.Errorf("Expected food 465, got %d", s.Food)
	}
	if len(s.Log) != 1 || s.Log[0] != "Day 1: Event ended: Drought" {
		t.Errorf("Unexpected log: %q", s.Log)
	}
}

func TestExpiryResetsOtherEventsOverrides(t *testing.T) {
	s := runningState()
	s.Events = []Event{
		{Kind: PowerOutage, RemainingDays: 3},
		{Kind: Drought, RemainingDays: 1},
	}
	e := quietEngine()
	e.Tick(s)

	// The outage set energy to 3, then the drought expiry wiped it.
	if s.EnergyProd != BaseEnergyProd {
		t.Errorf("Expected energy production reset to %d, got %d", BaseEnergyProd, s.EnergyProd)
	}
	if s.Energy != 280 {
		t.Errorf("Expected energy 280, got %d", s.Energy)
	}
	if len(s.Events) != 1 || s.Events[0].Kind != PowerOutage || s.Events[0].RemainingDays != 2 {
		t.Fatalf("Expected surviving outage with 2 days, got %v", s.Events)
	}

	// Next day the outage reapplies itself.
	e.Tick(s)
	if s.EnergyProd != 3 {
		t.Errorf("Expected outage override 3, got %d", s.EnergyProd)
	}
	if s.Energy != 253 {
		t.Errorf("Expected energy 253, got %d", s.Energy)
	}
}

func TestEventOverridesPersistWhileActive(t *testing.T) {
	s := runningState()
	s.Events = []Event{NewEvent(EconomicBoom)}
	e := quietEngine()

	for day := 1; day < EconomicBoom.Duration(); day++ {
		e.Tick(s)
		if s.MoneyProd != 20 {
			t.Fatalf("Day %d: expected boom money production 20, got %d", day, s.MoneyProd)
		}
	}

	e.Tick(s)
	if len(s.Events) != 0 {
		t.Errorf("Expected boom to end after %d days, got %v", EconomicBoom.Duration(), s.Events)
	}
	if s.MoneyProd != BaseMoneyProd {
		t.Errorf("Expected baseline money production, got %d", s.MoneyProd)
	}
	last := s.Log[len(s.Log)-1]
	if last != "Day 6: Event ended: Economic Boom" {
		t.Errorf("Unexpected last log entry %q", last)
	}
}

func TestRolledEventStartsNextDay(t *testing.T) {
	s := runningState()
	r := &scriptedRoller{floats: []float64{0.01, 1.0}, ints: []int{2}}
	e := NewEngine(r)

	e.Tick(s)
	if len(s.Events) != 1 || s.Events[0].Kind != EconomicBoom || s.Events[0].RemainingDays != 6 {
		t.Fatalf("Expected fresh economic boom, got %v", s.Events)
	}
	if s.MoneyProd != BaseMoneyProd {
		t.Errorf("New event must not apply on the day it starts, money prod %d", s.MoneyProd)
	}
	if s.Log[len(s.Log)-1] != "Day 1: Event started: Economic Boom" {
		t.Errorf("Unexpected log %q", s.Log)
	}

	e.Tick(s)
	if s.MoneyProd != 20 {
		t.Errorf("Expected boom applied on day 2, money prod %d", s.MoneyProd)
	}
	if s.Events[0].RemainingDays != 5 {
		t.Errorf("Expected 5 remaining days, got %d", s.Events[0].RemainingDays)
	}
}

func TestRollThreshold(t *testing.T) {
	s := runningState()
	NewEngine(&scriptedRoller{floats: []float64{EventChance}}).Tick(s)
	if len(s.Events) != 0 {
		t.Errorf("Roll equal to EventChance must not start an event, got %v", s.Events)
	}
}

func TestSameKindEventsStack(t *testing.T) {
	s := runningState()
	r := &scriptedRoller{floats: []float64{0.0}, ints: []int{3}}
	e := NewEngine(r)
	e.Tick(s)
	e.Tick(s)

	if len(s.Events) != 2 {
		t.Fatalf("Expected two disease events, got %v", s.Events)
	}
	for _, ev := range s.Events {
		if ev.Kind != Disease {
			t.Errorf("Expected disease, got %v", ev.Kind)
		}
	}
}

func TestFamineIncreasesDeaths(t *testing.T) {
	s := runningState()
	s.Food = 50
	quietEngine().Tick(s)

	if s.Food != 15 {
		t.Errorf("Expected food 15, got %d", s.Food)
	}
	if s.Population != 99 {
		t.Errorf("Expected population 99, got %d", s.Population)
	}
	if s.Log[len(s.Log)-1] != "Day 1: Population declined by 1" {
		t.Errorf("Unexpected log %q", s.Log)
	}
}

func TestGrowthWithAmpleSupplies(t *testing.T) {
	s := runningState()
	s.Population = 1000
	s.Food = 100000
	s.Energy = 100000
	s.Money = 100000
	quietEngine().Tick(s)

	if s.Population != 1005 {
		t.Errorf("Expected population 1005, got %d", s.Population)
	}
	if s.Log[len(s.Log)-1] != "Day 1: Population grew by 5" {
		t.Errorf("Unexpected log %q", s.Log)
	}
}

func TestBlackoutSlowsGrowth(t *testing.T) {
	s := runningState()
	s.Population = 1000
	s.Food = 100000
	s.Energy = 100
	s.Money = 100000
	quietEngine().Tick(s)

	if s.Energy != 0 {
		t.Errorf("Expected energy clamped to 0, got %d", s.Energy)
	}
	if s.Population != 998 {
		t.Errorf("Expected population 998, got %d", s.Population)
	}
}

func TestBankruptcyWarning(t *testing.T) {
	s := runningState()
	s.Money = 5
	quietEngine().Tick(s)

	if s.Money != 0 {
		t.Errorf("Expected money clamped to 0, got %d", s.Money)
	}
	if s.Log[len(s.Log)-1] != "Day 1: WARNING: City is bankrupt" {
		t.Errorf("Unexpected log %q", s.Log)
	}
}

func TestInvariantsHoldOverLongRuns(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 1234, 99999} {
		s := runningState()
		e := NewSeededEngine(seed)
		wasCollapsed := false

		for i := 0; i < 3000; i++ {
			e.Tick(s)

			if s.Population < 0 || s.Food < 0 || s.Energy < 0 || s.Money < 0 {
				t.Fatalf("seed %d day %d: negative value pop=%d food=%d energy=%d money=%d",
					seed, s.Day, s.Population, s.Food, s.Energy, s.Money)
			}
			if s.Collapsed && (s.Running || s.Population != 0) {
				t.Fatalf("seed %d day %d: collapsed but running=%v pop=%d", seed, s.Day, s.Running, s.Population)
			}
			if wasCollapsed && !s.Collapsed {
				t.Fatalf("seed %d: collapse was undone", seed)
			}
			if len(s.Log) > LogCapacity {
				t.Fatalf("seed %d: log grew to %d entries", seed, len(s.Log))
			}
			if len(s.Events) == 0 && (s.FoodProd != BaseFoodProd || s.EnergyProd != BaseEnergyProd || s.MoneyProd != BaseMoneyProd) {
				t.Fatalf("seed %d day %d: non-baseline production with no events", seed, s.Day)
			}
			wasCollapsed = s.Collapsed
		}
	}
}

func TestQuietCitySettlesWithoutCollapse(t *testing.T) {
	s := runningState()
	e := quietEngine()
	for range 3000 {
		e.Tick(s)
	}

	// Below 67 people the famine decline truncates to zero, so a starving
	// city shrinks to a floor instead of dying out.
	if s.Collapsed {
		t.Fatalf("Quiet city collapsed at day %d", s.Day)
	}
	if s.Population != 45 || s.Food != 0 || s.Energy != 0 || s.Money != 0 {
		t.Errorf("Expected 45/0/0/0 after 3000 days, got %d/%d/%d/%d", s.Population, s.Food, s.Energy, s.Money)
	}
	want := []string{
		"Day 2999: WARNING: City is bankrupt",
		"Day 3000: WARNING: Food shortage",
		"Day 3000: WARNING: City is bankrupt",
	}
	if got := s.Log[len(s.Log)-3:]; !reflect.DeepEqual(got, want) {
		t.Errorf("Unexpected log tail %q", got)
	}
}

func TestDeterminism(t *testing.T) {
	s1, s2 := runningState(), runningState()
	e1, e2 := NewSeededEngine(12345), NewSeededEngine(12345)

	for range 500 {
		e1.Tick(s1)
		e2.Tick(s2)
	}

	if !reflect.DeepEqual(s1, s2) {
		t.Errorf("Same seed produced different cities:\n%+v\n%+v", s1, s2)
	}
}
