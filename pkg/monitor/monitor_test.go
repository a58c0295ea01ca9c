package monitor_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paraty-go/backend/pkg/check"
	"github.com/paraty-go/backend/pkg/monitor"
)

func staticSuite(probeErr error) monitor.SuiteFunc {
	return func() []check.Group {
		return []check.Group{
			{
				Key: "infrastructure",
				Probes: []check.Definition{
					{Name: "redis", Probe: check.ProbeFunc(func() error { return probeErr })},
				},
			},
		}
	}
}

func TestLatestEmptyBeforeFirstRound(t *testing.T) {
	mon := monitor.New(time.Minute, staticSuite(nil))

	_, ok := mon.Latest()
	assert.False(t, ok)
}

func TestRunOncePublishesReport(t *testing.T) {
	mon := monitor.New(time.Minute, staticSuite(nil))

	// one probe plus the integration gate
	report := mon.RunOnce()
	assert.Equal(t, 2, report.Summary.Passed)
	assert.Equal(t, 0, report.Summary.Failed)

	latest, ok := mon.Latest()
	require.True(t, ok)
	assert.Equal(t, report.Summary, latest.Summary)
}

func TestRunOnceRecordsFailures(t *testing.T) {
	mon := monitor.New(time.Minute, staticSuite(errors.New("connection refused")))

	// the failing probe flips its subsystem and the gate with it
	report := mon.RunOnce()
	assert.Equal(t, 2, report.Summary.Failed)
	assert.NotZero(t, report.ExitCode())
}

func TestStatusRouteBeforeFirstRound(t *testing.T) {
	mon := monitor.New(time.Minute, staticSuite(nil))

	res := httptest.NewRecorder()
	mon.Router().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
}

func TestStatusRouteServesLatestReport(t *testing.T) {
	mon := monitor.New(time.Minute, staticSuite(nil))
	mon.RunOnce()

	res := httptest.NewRecorder()
	mon.Router().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"redis"`)
	assert.Contains(t, res.Body.String(), `"passed"`)
}

func TestLiveFeedSendsLatestAndUpdates(t *testing.T) {
	mon := monitor.New(time.Minute, staticSuite(nil))
	mon.RunOnce()

	srv := httptest.NewServer(mon.Router())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var first check.Report
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, 2, first.Summary.Passed)

	mon.RunOnce()

	var second check.Report
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, 2, second.Summary.Passed)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	mon := monitor.New(time.Hour, staticSuite(nil))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		mon.Run(ctx)
		close(done)
	}()

	// the first round runs immediately, before the ticker fires
	require.Eventually(t, func() bool {
		_, ok := mon.Latest()
		return ok
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancellation")
	}
}
