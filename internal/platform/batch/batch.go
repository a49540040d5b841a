// Package batch runs a city without a terminal UI, advancing it interval by
// interval until a day budget is spent or the city collapses.
package batch

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/citysim/internal/city"
)

// ErrNoProgress is returned when an interval simulates no days, which means
// the session was paused by someone other than the runner.
var ErrNoProgress = errors.New("batch: city stopped advancing")

// Result summarizes a batch run.
type Result struct {
	Final     *city.State
	Days      int  // Days simulated by this run
	Collapsed bool // Whether the run ended in collapse
}

// Runner advances a session headlessly.
type Runner struct {
	session *city.Session
	logger  *log.Logger
}

// NewRunner creates a runner. Day summaries are logged at debug level.
func NewRunner(session *city.Session, logger *log.Logger) *Runner {
	return &Runner{session: session, logger: logger}
}

// Run starts the city and advances it until at least days have passed,
// the city collapses or ctx is cancelled. Each interval runs Speed ticks,
// so the final day may overshoot by up to Speed-1.
func (r *Runner) Run(ctx context.Context, days int) (Result, error) {
	r.session.SetRunning(true)

	start := r.session.Snapshot()
	if start.Collapsed {
		r.logger.Warn("city already collapsed", "day", start.Day)
		return Result{Final: start, Collapsed: true}, nil
	}

	simulated := 0
	for simulated < days {
		if err := ctx.Err(); err != nil {
			return r.result(simulated), err
		}

		n := r.session.Advance()
		simulated += n

		snap := r.session.Snapshot()
		r.logger.Debug("interval",
			"day", snap.Day,
			"population", snap.Population,
			"food", snap.Food,
			"energy", snap.Energy,
			"money", snap.Money,
			"events", len(snap.Events),
		)

		if snap.Collapsed {
			r.logger.Warn("city collapsed", "day", snap.Day)
			break
		}
		if n == 0 {
			return r.result(simulated), ErrNoProgress
		}
	}

	res := r.result(simulated)
	r.logger.Info("simulation finished",
		"days", res.Days,
		"day", res.Final.Day,
		"population", res.Final.Population,
		"collapsed", res.Collapsed,
	)
	return res, nil
}

func (r *Runner) result(simulated int) Result {
	final := r.session.Snapshot()
	return Result{
		Final:     final,
		Days:      simulated,
		Collapsed: final.Collapsed,
	}
}
