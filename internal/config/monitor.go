package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl"
	log "github.com/sirupsen/logrus"
)

type Credentials struct {
	User     string
	Password string
}

type Host struct {
	Hostname string
	Port     string
}

type Redis struct {
	Host
	Password string
}

type MySQL struct {
	Credentials
	Host
	Database string
}

type Amqp struct {
	Credentials
	Host
	VirtualHost string
}

type SMTP struct {
	Host
}

// InfraProbe declares one additional infrastructure check the monitor runs
// alongside the built-in battery.
type InfraProbe struct {
	Name       string `hcl:",key"`
	Gating     bool   `hcl:"gating"`
	Filesystem string
	Redis      *Redis
	MySQL      *MySQL
	Amqp       *Amqp
	SMTP       *SMTP
}

// Monitor is the optional file-based configuration of the monitor command.
type Monitor struct {
	Interval string       `hcl:"interval"`
	Listen   string       `hcl:"listen"`
	Probes   []InfraProbe `hcl:"probe"`
}

func (m *Monitor) GenerateFromConfigDir(configDir string) error {
	matches, err := findInPath(configDir)
	if err != nil {
		return err
	}

	for _, match := range matches {
		log.Infof("found config file: %s", match)

		contents, err := os.ReadFile(match)
		if err != nil {
			return err
		}

		if err := hcl.Unmarshal(contents, m); err != nil {
			return fmt.Errorf("could not parse configuration file %s: %s", match, err.Error())
		}
	}

	return nil
}

// IntervalDuration parses the configured interval, defaulting to one minute.
func (m *Monitor) IntervalDuration() (time.Duration, error) {
	if m.Interval == "" {
		return time.Minute, nil
	}

	interval, err := time.ParseDuration(m.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid monitor interval %q: %s", m.Interval, err.Error())
	}
	return interval, nil
}
