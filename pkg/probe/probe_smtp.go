package probe

import (
	"net"
	"net/smtp"

	log "github.com/sirupsen/logrus"

	"github.com/paraty-go/backend/internal/config"
	"github.com/paraty-go/backend/internal/helper"
)

type smtpProbe struct {
	addr string
}

func NewSMTPProbe(cfg *config.SMTP) *smtpProbe {
	port := helper.SetDefaultStringIfEmpty(cfg.Port, "25", "port", "smtp")

	return &smtpProbe{
		addr: net.JoinHostPort(cfg.Hostname, port),
	}
}

func (s *smtpProbe) Exec() error {
	client, err := smtp.Dial(s.addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Noop(); err != nil {
		return err
	}

	if err := client.Quit(); err != nil {
		return err
	}

	log.WithFields(log.Fields{"kind": "probe", "name": "smtp", "status": "alive", "host": s.addr}).Debug()
	return nil
}
