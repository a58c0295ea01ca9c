package monitor

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/paraty-go/backend/pkg/check"
)

// SuiteFunc builds the check groups for one round. It is called anew every
// round so probes never share state between rounds.
type SuiteFunc func() []check.Group

// Monitor runs the check battery on a fixed interval and keeps the latest
// report for the feed endpoints.
type Monitor struct {
	interval time.Duration
	suite    SuiteFunc

	mu          sync.Mutex
	latest      *check.Report
	subscribers map[chan check.Report]struct{}
}

func New(interval time.Duration, suite SuiteFunc) *Monitor {
	if interval <= 0 {
		interval = time.Minute
	}

	return &Monitor{
		interval:    interval,
		suite:       suite,
		subscribers: make(map[chan check.Report]struct{}),
	}
}

// RunOnce executes a single round and publishes its report.
func (m *Monitor) RunOnce() check.Report {
	report := check.NewReport(check.NewRunner(m.suite()...).Run())

	summary := report.Summary
	log.WithFields(log.Fields{
		"kind":     "monitor",
		"passed":   summary.Passed,
		"failed":   summary.Failed,
		"warnings": summary.Warnings,
		"rate":     report.SuccessRate(),
	}).Info("check round finished")

	m.mu.Lock()
	m.latest = &report
	for ch := range m.subscribers {
		select {
		case ch <- report:
		default:
			// slow consumer keeps its previous backlog entry
		}
	}
	m.mu.Unlock()

	return report
}

// Run blocks, executing rounds until ctx is cancelled. The first round runs
// immediately.
func (m *Monitor) Run(ctx context.Context) {
	log.Infof("monitoring every %s", m.interval)

	m.RunOnce()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.RunOnce()
		case <-ctx.Done():
			log.Info("monitor stopped")
			return
		}
	}
}

// Latest returns the most recent report, if any round completed yet.
func (m *Monitor) Latest() (check.Report, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.latest == nil {
		return check.Report{}, false
	}
	return *m.latest, true
}

func (m *Monitor) subscribe() chan check.Report {
	ch := make(chan check.Report, 1)

	m.mu.Lock()
	m.subscribers[ch] = struct{}{}
	m.mu.Unlock()

	return ch
}

func (m *Monitor) unsubscribe(ch chan check.Report) {
	m.mu.Lock()
	delete(m.subscribers, ch)
	m.mu.Unlock()
	close(ch)
}
