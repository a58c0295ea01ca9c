package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// Router serves the latest report as JSON and as a live websocket feed.
func (m *Monitor) Router() *mux.Router {
	router := mux.NewRouter()
	router.Path("/api/status").Methods(http.MethodGet).HandlerFunc(m.handleStatus)
	router.Path("/api/live").HandlerFunc(m.handleLive)
	return router
}

// ServeFeed runs the feed server until ctx is cancelled.
func (m *Monitor) ServeFeed(ctx context.Context, addr string) error {
	server := http.Server{
		Addr:    addr,
		Handler: m.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Infof("monitor feed listens on %s", addr)

	err := server.ListenAndServe()
	if err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (m *Monitor) handleStatus(res http.ResponseWriter, _ *http.Request) {
	report, ok := m.Latest()
	if !ok {
		http.Error(res, "no check round completed yet", http.StatusServiceUnavailable)
		return
	}

	res.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(res).Encode(report)
}

func (m *Monitor) handleLive(res http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(res, req, nil)
	if err != nil {
		log.WithError(err).Error("failed to upgrade live feed connection")
		return
	}
	defer conn.Close()

	ch := m.subscribe()
	defer m.unsubscribe(ch)

	if report, ok := m.Latest(); ok {
		if err := conn.WriteJSON(report); err != nil {
			return
		}
	}

	for {
		select {
		case report := <-ch:
			if err := conn.WriteJSON(report); err != nil {
				return
			}
		case <-req.Context().Done():
			return
		}
	}
}
