package probe

import (
	"database/sql"
	"net"

	"github.com/go-sql-driver/mysql"
	log "github.com/sirupsen/logrus"

	"github.com/paraty-go/backend/internal/config"
	"github.com/paraty-go/backend/internal/helper"
)

type mySQLProbe struct {
	dsn  string
	addr string
}

func NewMySQLProbe(cfg *config.MySQL) *mySQLProbe {
	port := helper.SetDefaultStringIfEmpty(cfg.Port, "3306", "port", "mysql")
	addr := net.JoinHostPort(cfg.Hostname, port)

	connCfg := mysql.Config{
		User:   cfg.User,
		Passwd: cfg.Password,
		Net:    "tcp",
		Addr:   addr,
		DBName: cfg.Database,
	}

	return &mySQLProbe{
		dsn:  connCfg.FormatDSN(),
		addr: addr,
	}
}

func (m *mySQLProbe) Exec() error {
	db, err := sql.Open("mysql", m.dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.Query("SELECT 1")
	if err != nil {
		return err
	}
	_ = rows.Close()

	log.WithFields(log.Fields{"kind": "probe", "name": "mysql", "status": "alive", "host": m.addr}).Debug()
	return nil
}
