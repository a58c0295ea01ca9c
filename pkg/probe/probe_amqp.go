package probe

import (
	"fmt"
	"net"
	"net/url"

	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"github.com/paraty-go/backend/internal/config"
	"github.com/paraty-go/backend/internal/helper"
)

const defaultVirtualHost = "/"

type amqpProbe struct {
	user        string
	password    string
	host        string
	virtualHost string
}

func NewAmqpProbe(cfg *config.Amqp) *amqpProbe {
	port := helper.SetDefaultStringIfEmpty(cfg.Port, "5672", "port", "amqp")

	virtualHost := cfg.VirtualHost
	if virtualHost == "" {
		virtualHost = defaultVirtualHost
	}

	return &amqpProbe{
		user:        cfg.User,
		password:    cfg.Password,
		host:        net.JoinHostPort(cfg.Hostname, port),
		virtualHost: virtualHost,
	}
}

func (a *amqpProbe) Exec() error {
	u := url.URL{
		Scheme: "amqp",
		Host:   a.host,
		Path:   a.virtualHost,
	}

	if a.user != "" && a.password != "" {
		u.User = url.UserPassword(a.user, a.password)
	}

	conn, err := amqp.Dial(u.String())
	if err != nil {
		return fmt.Errorf("failed to dial amqp at %s: %s", a.host, err.Error())
	}
	defer conn.Close()

	log.WithFields(log.Fields{"kind": "probe", "name": "amqp", "status": "alive", "host": a.host}).Debug()
	return nil
}
