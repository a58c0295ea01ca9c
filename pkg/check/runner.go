package check

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// GateKey is the reserved subsystem key under which the integration gate
// result is recorded.
const GateKey = "integration"

// Definition binds a probe to its display name and its gating behaviour.
// When a gating probe fails, the remaining probes of the same subsystem are
// skipped entirely: they are not run, not counted and not recorded.
type Definition struct {
	Name   string
	Gating bool
	Probe  Probe
}

// Group is an ordered list of probes sharing one failure domain.
type Group struct {
	Key    string
	Probes []Definition
}

// Runner executes subsystem groups in definition order, one probe at a time,
// and finishes with the integration gate.
type Runner struct {
	groups       []Group
	advisoryName string
	advisory     Probe
}

func NewRunner(groups ...Group) *Runner {
	return &Runner{groups: groups}
}

// WithGateAdvisory attaches an advisory probe to the integration gate. When
// the gate passes and the advisory probe reports a problem, the gate result
// is downgraded to a warning, never to a failure.
func (r *Runner) WithGateAdvisory(name string, p Probe) *Runner {
	r.advisoryName = name
	r.advisory = p
	return r
}

// Run executes all groups and the integration gate, returning the recorder
// holding the complete run state.
func (r *Runner) Run() *Recorder {
	keys := make([]string, 0, len(r.groups)+1)
	for _, g := range r.groups {
		keys = append(keys, g.Key)
	}
	keys = append(keys, GateKey)

	rec := NewRecorder(keys...)

	for _, g := range r.groups {
		r.runGroup(rec, g)
	}
	r.runGate(rec)

	return rec
}

func (r *Runner) runGroup(rec *Recorder, g Group) {
	if len(g.Probes) == 0 {
		// stays pending, which the gate treats as not passed
		return
	}

	failed := false
	for _, def := range g.Probes {
		res := execute(def)
		rec.Record(g.Key, res)

		fields := log.Fields{"kind": "check", "subsystem": g.Key, "probe": def.Name}
		switch res.Outcome {
		case OutcomeFailed:
			log.WithFields(fields).Warnf("failed: %s", res.Detail)
		case OutcomeWarning:
			log.WithFields(fields).Infof("warning: %s", res.Detail)
		default:
			log.WithFields(fields).Debug("passed")
		}

		if res.Outcome == OutcomeFailed {
			failed = true
			if def.Gating {
				log.WithFields(fields).Warn("gating probe failed, skipping remaining probes of this subsystem")
				break
			}
		}
	}

	status := StatusPassed
	if failed {
		status = StatusFailed
	}
	if err := rec.FinalizeSubsystem(g.Key, status); err != nil {
		// duplicate group key; the first finalize wins
		log.WithFields(log.Fields{"kind": "check", "subsystem": g.Key}).Warn(err)
	}
}

func (r *Runner) runGate(rec *Recorder) {
	res := Result{Name: "all subsystems operational", Outcome: OutcomePassed}

	for _, g := range r.groups {
		if status := rec.Status(g.Key); status != StatusPassed {
			res.Outcome = OutcomeFailed
			res.Detail = fmt.Sprintf("subsystem %q is %s", g.Key, status)
			break
		}
	}

	if res.Outcome == OutcomePassed && r.advisory != nil {
		if err := r.advisory.Exec(); err != nil {
			res.Outcome = OutcomeWarning
			res.Detail = fmt.Sprintf("%s: %s", r.advisoryName, err.Error())
		}
	}

	rec.Record(GateKey, res)

	status := StatusPassed
	if res.Outcome == OutcomeFailed {
		status = StatusFailed
	}
	if err := rec.FinalizeSubsystem(GateKey, status); err != nil {
		log.WithFields(log.Fields{"kind": "check", "subsystem": GateKey}).Warn(err)
	}
}

// execute runs a single probe and normalizes its result. Errors and panics
// never escape the probe boundary.
func execute(def Definition) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = Result{Name: def.Name, Outcome: OutcomeFailed, Detail: fmt.Sprintf("probe panicked: %v", p)}
		}
	}()

	err := def.Probe.Exec()
	switch {
	case err == nil:
		return Result{Name: def.Name, Outcome: OutcomePassed}
	case IsAdvisory(err):
		return Result{Name: def.Name, Outcome: OutcomeWarning, Detail: err.Error()}
	default:
		return Result{Name: def.Name, Outcome: OutcomeFailed, Detail: err.Error()}
	}
}
