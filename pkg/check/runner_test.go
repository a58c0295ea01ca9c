package check_test

import (
	"errors"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paraty-go/backend/pkg/check"
)

func passing() check.Probe {
	return check.ProbeFunc(func() error { return nil })
}

func failing(msg string) check.Probe {
	return check.ProbeFunc(func() error { return errors.New(msg) })
}

func warning(msg string) check.Probe {
	return check.ProbeFunc(func() error { return check.Advise(msg) })
}

func subsystem(rec *check.Recorder, key string) check.SubsystemRecord {
	for _, sub := range rec.Subsystems() {
		if sub.Key == key {
			return sub
		}
	}
	return check.SubsystemRecord{}
}

func TestSummaryIdentityHolds(t *testing.T) {
	rec := check.NewRunner(
		check.Group{Key: "a", Probes: []check.Definition{
			{Name: "p1", Probe: passing()},
			{Name: "p2", Probe: failing("boom")},
			{Name: "p3", Probe: warning("odd")},
		}},
	).Run()

	summary := rec.Summary()
	assert.Equal(t, summary.Total, summary.Passed+summary.Failed)
	assert.Equal(t, 1, summary.Warnings)
	// three probes plus the integration gate
	assert.Equal(t, 4, summary.Total)
}

func TestGatingFailureSkipsRemainingProbes(t *testing.T) {
	executed := false

	rec := check.NewRunner(
		check.Group{Key: "server", Probes: []check.Definition{
			{Name: "reachable", Gating: true, Probe: failing("connection refused")},
			{Name: "endpoint", Probe: check.ProbeFunc(func() error {
				executed = true
				return nil
			})},
		}},
	).Run()

	assert.False(t, executed, "probe after a failed gating probe must not run")

	sub := subsystem(rec, "server")
	require.Len(t, sub.Results, 1)
	assert.Equal(t, check.StatusFailed, sub.Status)
	// the skipped probe is not counted either
	assert.Equal(t, 2, rec.Summary().Total)
}

func TestNonGatingFailureContinues(t *testing.T) {
	rec := check.NewRunner(
		check.Group{Key: "env", Probes: []check.Definition{
			{Name: "first", Probe: failing("missing")},
			{Name: "second", Probe: passing()},
		}},
	).Run()

	sub := subsystem(rec, "env")
	require.Len(t, sub.Results, 2)
	assert.Equal(t, check.StatusFailed, sub.Status)
}

func TestWarningDoesNotFailSubsystem(t *testing.T) {
	rec := check.NewRunner(
		check.Group{Key: "env", Probes: []check.Definition{
			{Name: "required", Probe: passing()},
			{Name: "advisory", Probe: warning("key format looks odd")},
		}},
	).Run()

	sub := subsystem(rec, "env")
	assert.Equal(t, check.StatusPassed, sub.Status)
	require.Len(t, sub.Results, 2)
	assert.Equal(t, check.OutcomeWarning, sub.Results[1].Outcome)
	assert.Equal(t, 0, rec.Summary().Failed)
}

func TestEmptySubsystemStaysPendingAndFailsGate(t *testing.T) {
	rec := check.NewRunner(
		check.Group{Key: "good", Probes: []check.Definition{{Name: "p", Probe: passing()}}},
		check.Group{Key: "skipped"},
	).Run()

	assert.Equal(t, check.StatusPending, subsystem(rec, "skipped").Status)

	gate := subsystem(rec, check.GateKey)
	require.Len(t, gate.Results, 1)
	assert.Equal(t, check.OutcomeFailed, gate.Results[0].Outcome)
	assert.Contains(t, gate.Results[0].Detail, "skipped")
}

func TestGatePassesWhenAllSubsystemsPass(t *testing.T) {
	rec := check.NewRunner(
		check.Group{Key: "a", Probes: []check.Definition{{Name: "p", Probe: passing()}}},
		check.Group{Key: "b", Probes: []check.Definition{{Name: "p", Probe: passing()}}},
	).Run()

	gate := subsystem(rec, check.GateKey)
	assert.Equal(t, check.StatusPassed, gate.Status)
	assert.Equal(t, check.OutcomePassed, gate.Results[0].Outcome)
}

func TestGateFlipsWhenAnySubsystemFails(t *testing.T) {
	rec := check.NewRunner(
		check.Group{Key: "a", Probes: []check.Definition{{Name: "p", Probe: passing()}}},
		check.Group{Key: "b", Probes: []check.Definition{{Name: "p", Probe: failing("down")}}},
	).Run()

	gate := subsystem(rec, check.GateKey)
	assert.Equal(t, check.StatusFailed, gate.Status)
	assert.Contains(t, gate.Results[0].Detail, `"b"`)
}

func TestGateAdvisoryDowngradesToWarning(t *testing.T) {
	rec := check.NewRunner(
		check.Group{Key: "a", Probes: []check.Definition{{Name: "p", Probe: passing()}}},
	).WithGateAdvisory("latency", warning("round trip took too long")).Run()

	gate := subsystem(rec, check.GateKey)
	assert.Equal(t, check.StatusPassed, gate.Status)
	assert.Equal(t, check.OutcomeWarning, gate.Results[0].Outcome)
	assert.Contains(t, gate.Results[0].Detail, "latency")
	assert.Equal(t, 0, rec.Summary().Failed)
}

func TestGateAdvisoryNotConsultedOnFailedGate(t *testing.T) {
	consulted := false

	rec := check.NewRunner(
		check.Group{Key: "a", Probes: []check.Definition{{Name: "p", Probe: failing("down")}}},
	).WithGateAdvisory("latency", check.ProbeFunc(func() error {
		consulted = true
		return nil
	})).Run()

	assert.False(t, consulted)
	assert.Equal(t, check.StatusFailed, subsystem(rec, check.GateKey).Status)
}

func TestPanicIsRecoveredAtProbeBoundary(t *testing.T) {
	rec := check.NewRunner(
		check.Group{Key: "a", Probes: []check.Definition{
			{Name: "explosive", Probe: check.ProbeFunc(func() error { panic("kaboom") })},
			{Name: "after", Probe: passing()},
		}},
	).Run()

	sub := subsystem(rec, "a")
	require.Len(t, sub.Results, 2)
	assert.Equal(t, check.OutcomeFailed, sub.Results[0].Outcome)
	assert.Contains(t, sub.Results[0].Detail, "panicked")
	assert.Equal(t, check.OutcomePassed, sub.Results[1].Outcome)
}

func TestDuplicateGroupKeyKeepsFirstStatusAndWarns(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	rec := check.NewRunner(
		check.Group{Key: "a", Probes: []check.Definition{{Name: "p1", Probe: passing()}}},
		check.Group{Key: "a", Probes: []check.Definition{{Name: "p2", Probe: failing("down")}}},
	).Run()

	// results merge, the first finalized status wins
	sub := subsystem(rec, "a")
	require.Len(t, sub.Results, 2)
	assert.Equal(t, check.StatusPassed, sub.Status)

	warned := false
	for _, entry := range hook.AllEntries() {
		if strings.Contains(entry.Message, "already finalized") {
			warned = true
		}
	}
	assert.True(t, warned, "duplicate key must be reported in the log")
}

func TestGateIdempotentForSameInputs(t *testing.T) {
	run := func() check.SubsystemRecord {
		rec := check.NewRunner(
			check.Group{Key: "a", Probes: []check.Definition{{Name: "p", Probe: passing()}}},
			check.Group{Key: "b", Probes: []check.Definition{{Name: "p", Probe: failing("down")}}},
		).Run()
		return subsystem(rec, check.GateKey)
	}

	first := run()
	second := run()
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Results[0].Outcome, second.Results[0].Outcome)
}
