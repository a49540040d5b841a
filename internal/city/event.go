package city

import "fmt"

// EventKind identifies one of the fixed environmental events.
type EventKind int

const (
	Drought EventKind = iota
	PowerOutage
	EconomicBoom
	Disease
)

// EventKinds lists every kind in roll order. A uniform roll indexes into it.
var EventKinds = [...]EventKind{Drought, PowerOutage, EconomicBoom, Disease}

// Fixed effect values applied while an event is active.
const (
	droughtFoodProd    = 5
	outageEnergyProd   = 3
	boomMoneyProd      = 20
	diseaseDeathsDaily = 3
)

// String returns the display name used in log entries.
func (k EventKind) String() string {
	switch k {
	case Drought:
		return "Drought"
	case PowerOutage:
		return "Power Outage"
	case EconomicBoom:
		return "Economic Boom"
	case Disease:
		return "Disease"
	default:
		return "Unknown"
	}
}

// Key returns a stable identifier suitable for storage.
func (k EventKind) Key() string {
	switch k {
	case Drought:
		return "drought"
	case PowerOutage:
		return "power_outage"
	case EconomicBoom:
		return "economic_boom"
	case Disease:
		return "disease"
	default:
		return "unknown"
	}
}

// Duration returns the number of days a newly started event lasts.
func (k EventKind) Duration() int {
	switch k {
	case Drought:
		return 5
	case PowerOutage:
		return 4
	case EconomicBoom:
		return 6
	case Disease:
		return 5
	default:
		return 0
	}
}

// ParseEventKind is the inverse of EventKind.Key.
func ParseEventKind(key string) (EventKind, error) {
	for _, k := range EventKinds {
		if k.Key() == key {
			return k, nil
		}
	}
	return 0, fmt.Errorf("city: unknown event kind %q", key)
}

// Event is an active modifier counting down to expiry.
type Event struct {
	Kind          EventKind
	RemainingDays int
}

// NewEvent starts an event of the given kind with its fixed duration.
func NewEvent(kind EventKind) Event {
	return Event{Kind: kind, RemainingDays: kind.Duration()}
}

// apply performs the event's per-day effect on the city.
func (e Event) apply(s *State) {
	switch e.Kind {
	case Drought:
		s.FoodProd = droughtFoodProd
	case PowerOutage:
		s.EnergyProd = outageEnergyProd
	case EconomicBoom:
		s.MoneyProd = boomMoneyProd
	case Disease:
		s.Population = max(0, s.Population-diseaseDeathsDaily)
	}
}
