package scenario

import (
	"fmt"
	"strings"
	"time"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/smartptr/errors"
	"github.com/wippyai/smartptr/handle"
	"github.com/wippyai/smartptr/ledger"
)

// Scenario is one named check of the handle contract.
type Scenario struct {
	Run         func(*Env)
	Name        string
	Description string
}

// Result is the outcome of running a scenario.
type Result struct {
	Err      error
	Name     string
	Duration time.Duration
	Created  uint64
	Freed    uint64
}

// Passed reports whether the scenario succeeded.
func (r Result) Passed() bool {
	return r.Err == nil
}

// Env is the state a scenario runs in. Every handle a scenario creates
// through Env is recorded by its Ledger.
type Env struct {
	Ledger *ledger.Ledger
	Tally  *Tally
	err    error
	name   string
}

func newEnv(name string) *Env {
	return &Env{
		Ledger: ledger.New(),
		Tally:  NewTally(),
		name:   name,
	}
}

// Options returns group options reporting to the env's ledger.
func (e *Env) Options(label string) handle.Options {
	return e.Ledger.Options(label)
}

// Make adopts a new probe with the next identifier.
func (e *Env) Make(label string) handle.Handle[Probe] {
	return handle.AdoptWithOptions(NewProbe(e.Tally), e.Options(label))
}

// Expect records a failure if ok is false. Only the first failure is kept.
func (e *Env) Expect(ok bool, format string, args ...any) {
	if ok || e.err != nil {
		return
	}
	e.err = errors.ScenarioFailed(e.name, format, args...)
}

// Err returns the first recorded failure.
func (e *Env) Err() error {
	return e.err
}

// Run executes s in a fresh env. Panics become errors, and any group left
// alive or any probe dropped twice fails the scenario.
func Run(s Scenario) (res Result) {
	res.Name = s.Name
	if s.Run == nil {
		res.Err = errors.InvalidInput(errors.PhaseScenario, fmt.Sprintf("scenario %q has no body", s.Name))
		return res
	}

	env := newEnv(s.Name)
	start := time.Now()

	defer func() {
		res.Duration = time.Since(start)
		res.Created = env.Ledger.Created()
		res.Freed = env.Ledger.Freed()

		if r := recover(); r != nil {
			perr := errors.Panicked(s.Name, r)
			if leakErr := env.Ledger.Close(); leakErr != nil {
				if perr.Cause == nil {
					perr.Cause = leakErr
				} else {
					Logger().Warn("scenario leaked after panic",
						zap.String("scenario", s.Name),
						zap.Error(leakErr))
				}
			}
			res.Err = perr
		}

		Logger().Debug("scenario finished",
			zap.String("scenario", s.Name),
			zap.Duration("duration", res.Duration),
			zap.Uint64("created", res.Created),
			zap.Uint64("freed", res.Freed),
			zap.Error(res.Err))
	}()

	s.Run(env)

	leakErr := env.Ledger.Close()
	switch {
	case env.err != nil:
		res.Err = env.err
	case leakErr != nil:
		res.Err = errors.New(errors.PhaseScenario, errors.KindLeak).
			Label(s.Name).
			Cause(leakErr).
			Detail("groups left alive").
			Build()
	}
	if res.Err == nil {
		if ids := env.Tally.Repeated(); len(ids) > 0 {
			res.Err = errors.ScenarioFailed(s.Name, "probes dropped more than once: %v", ids)
		}
	}
	return res
}

// RunAll runs every scenario whose name contains filter, in order.
// An empty filter runs everything.
func RunAll(filter string) []Result {
	var results []Result
	for _, s := range All() {
		if filter != "" && !strings.Contains(s.Name, filter) {
			continue
		}
		results = append(results, Run(s))
	}
	return results
}

// Find returns the scenario with the given name.
func Find(name string) (Scenario, bool) {
	for _, s := range All() {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// Summary returns the number of passed and failed results.
func Summary(results []Result) (passed, failed int) {
	for _, r := range results {
		if r.Passed() {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// HandleSize returns the in-memory size of a handle.
func HandleSize() uintptr {
	return unsafe.Sizeof(handle.Handle[Probe]{})
}

// FormatResult renders a one-line report for r.
func FormatResult(r Result) string {
	status := "ok"
	if !r.Passed() {
		status = "FAIL"
	}
	line := fmt.Sprintf("%-4s %-18s %8s  groups %d/%d freed", status, r.Name, r.Duration.Round(time.Microsecond), r.Freed, r.Created)
	if r.Err != nil {
		line += "\n     " + r.Err.Error()
	}
	return line
}
