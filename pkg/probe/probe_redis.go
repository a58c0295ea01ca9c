package probe

import (
	"net"

	"github.com/go-redis/redis"
	log "github.com/sirupsen/logrus"

	"github.com/paraty-go/backend/internal/config"
	"github.com/paraty-go/backend/internal/helper"
)

type redisProbe struct {
	addr     string
	password string
}

func NewRedisProbe(cfg *config.Redis) *redisProbe {
	port := helper.SetDefaultStringIfEmpty(cfg.Port, "6379", "port", "redis")

	return &redisProbe{
		addr:     net.JoinHostPort(cfg.Hostname, port),
		password: cfg.Password,
	}
}

func (r *redisProbe) Exec() error {
	client := redis.NewClient(&redis.Options{
		Addr:     r.addr,
		Password: r.password,
	})
	defer client.Close()

	if _, err := client.Ping().Result(); err != nil {
		return err
	}

	log.WithFields(log.Fields{"kind": "probe", "name": "redis", "status": "alive", "host": r.addr}).Debug()
	return nil
}
