package server

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/paraty-go/backend/pkg/mailer"
	"github.com/paraty-go/backend/pkg/registration"
)

const registerTimeout = 30 * time.Second

func (s *Server) handleRegister(res http.ResponseWriter, req *http.Request) {
	// hard cap even for chunked uploads without a Content-Length
	req.Body = http.MaxBytesReader(res, req.Body, registration.MaxSubmissionSize)

	sub, attachments, err := registration.ParseForm(req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, registration.ErrSubmissionTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		respondError(res, status, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), registerTimeout)
	defer cancel()

	id, err := s.store.SaveSubmission(ctx, sub)
	if err != nil {
		log.WithError(err).Error("failed to persist submission")
		respondError(res, http.StatusInternalServerError, "failed to store submission")
		return
	}

	log.WithFields(log.Fields{"kind": "server", "submission": id, "company": sub.Company}).Info("submission stored")

	html, err := registration.RenderNotification(sub)
	if err != nil {
		log.WithError(err).Error("failed to render notification")
		respondJSON(res, http.StatusCreated, registerResponse{ID: id, Notified: false})
		return
	}

	msg := &mailer.Message{
		From:        s.cfg.Mail.From,
		To:          []string{s.cfg.Mail.To},
		Subject:     registration.NotificationSubject(sub),
		HTML:        html,
		Attachments: attachments,
	}

	// The submission is already stored at this point. A mail failure is
	// reported to the caller but does not undo the registration.
	notified := true
	if _, err := s.sender.Send(msg); err != nil {
		log.WithError(err).Error("failed to send notification mail")
		notified = false
	}

	respondJSON(res, http.StatusCreated, registerResponse{ID: id, Notified: notified})
}

type registerResponse struct {
	ID       string `json:"id"`
	Notified bool   `json:"notified"`
}
