package check

import (
	"errors"
	"fmt"
)

// Probe is a single unit of verification against one external dependency.
// A nil return means the probe passed, an advisory error (see Advise) means
// it passed with a warning, any other error means it failed.
type Probe interface {
	Exec() error
}

// ProbeFunc adapts a plain function to the Probe interface.
type ProbeFunc func() error

func (f ProbeFunc) Exec() error { return f() }

type Outcome int

const (
	OutcomePassed Outcome = iota
	OutcomeFailed
	OutcomeWarning
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFailed:
		return "failed"
	case OutcomeWarning:
		return "warning"
	default:
		return "passed"
	}
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", o.String())), nil
}

// Result is the immutable outcome of a single probe execution.
type Result struct {
	Name    string  `json:"name"`
	Outcome Outcome `json:"outcome"`
	Detail  string  `json:"detail,omitempty"`
}

// Status is the terminal state of a subsystem. It moves from pending to
// passed or failed exactly once, after all of the subsystem's probes ran.
type Status string

const (
	StatusPending Status = "pending"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
)

// Summary holds the aggregate counters of one run. Warnings are an
// annotation on passed probes, so Total is always Passed + Failed.
type Summary struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
	Warnings int `json:"warnings"`
}

type advisoryError struct {
	msg string
}

func (e *advisoryError) Error() string { return e.msg }

// Advise returns an error that probes use to surface a warning. The probe
// still counts as passed and never flips its subsystem to failed.
func Advise(format string, args ...interface{}) error {
	return &advisoryError{msg: fmt.Sprintf(format, args...)}
}

// IsAdvisory reports whether err was produced by Advise.
func IsAdvisory(err error) bool {
	var adv *advisoryError
	return errors.As(err, &adv)
}
