package server

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/paraty-go/backend/pkg/check"
)

// statusBudget bounds the whole liveness check. Unlike the health-check
// battery, this endpoint runs its probes concurrently: it serves load
// balancers, not reports, and ordering does not matter here.
const statusBudget = 1 * time.Second

type statusResponse struct {
	Probes map[string]*check.Result `json:"probes"`
}

func (s *Server) handleStatus(res http.ResponseWriter, req *http.Request) {
	probes := map[string]func(context.Context) error{
		"store": s.store.Ping,
		"mail": func(context.Context) error {
			_, err := s.sender.Domains()
			return err
		},
	}

	ctx, cancel := context.WithTimeout(req.Context(), statusBudget)
	defer cancel()

	response := statusResponse{
		Probes: make(map[string]*check.Result, len(probes)),
	}

	results := make(chan *check.Result, len(probes))
	for name := range probes {
		response.Probes[name] = &check.Result{Name: name, Outcome: check.OutcomeFailed, Detail: "timed out"}

		go func(name string, fn func(context.Context) error) {
			if err := fn(ctx); err != nil {
				results <- &check.Result{Name: name, Outcome: check.OutcomeFailed, Detail: err.Error()}
				return
			}
			results <- &check.Result{Name: name, Outcome: check.OutcomePassed}
		}(name, probes[name])
	}

	healthy := true
	for i := 0; i < len(probes); i++ {
		select {
		case result := <-results:
			response.Probes[result.Name] = result
			healthy = healthy && result.Outcome == check.OutcomePassed
		case <-ctx.Done():
			healthy = false
			log.WithFields(log.Fields{"kind": "server", "route": "/status"}).Error("liveness check timed out")
			i = len(probes)
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	respondJSON(res, status, &response)
}
