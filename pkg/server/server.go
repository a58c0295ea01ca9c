package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/paraty-go/backend/internal/config"
	"github.com/paraty-go/backend/pkg/mailer"
	"github.com/paraty-go/backend/pkg/registration"
)

// SubmissionStore is the slice of the document store the server needs.
type SubmissionStore interface {
	SaveSubmission(ctx context.Context, sub *registration.Submission) (string, error)
	Ping(ctx context.Context) error
}

// NotificationSender is the slice of the mail client the server needs.
type NotificationSender interface {
	Send(msg *mailer.Message) (string, error)
	Domains() ([]mailer.Domain, error)
}

// Server hosts the partner-registration endpoint and its status routes.
type Server struct {
	cfg    *config.Config
	store  SubmissionStore
	sender NotificationSender
	http   *http.Server
}

func New(cfg *config.Config, store SubmissionStore, sender NotificationSender) *Server {
	s := &Server{
		cfg:    cfg,
		store:  store,
		sender: sender,
	}

	m := mux.NewRouter()
	m.Use(s.corsMiddleware)
	m.Path("/api/register").Methods(http.MethodPost, http.MethodOptions).HandlerFunc(s.handleRegister)
	m.Path("/status").Methods(http.MethodGet).HandlerFunc(s.handleStatus)
	m.Path("/healthz").Methods(http.MethodGet).HandlerFunc(s.handleHealthz)

	s.http = &http.Server{
		Addr:    cfg.Listen,
		Handler: m,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) Run() error {
	log.Infof("registration server listens on %s", s.cfg.Listen)

	err := s.http.ListenAndServe()
	if err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		if s.cfg.CORSOrigin != "" {
			res.Header().Set("Access-Control-Allow-Origin", s.cfg.CORSOrigin)
			res.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			res.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if req.Method == http.MethodOptions {
			res.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(res, req)
	})
}

func (s *Server) handleHealthz(res http.ResponseWriter, _ *http.Request) {
	res.WriteHeader(http.StatusNoContent)
}

func respondJSON(res http.ResponseWriter, status int, body interface{}) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	_ = json.NewEncoder(res).Encode(body)
}

func respondError(res http.ResponseWriter, status int, message string) {
	respondJSON(res, status, map[string]string{"error": message})
}
