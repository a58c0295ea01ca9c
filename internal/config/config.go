package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/paraty-go/backend/internal/helper"
)

// Environment variables understood by the backend. The health-check battery
// probes the required ones individually, so missing values fail with a
// per-variable message instead of one opaque startup error.
const (
	EnvListen     = "PARATY_HTTP_LISTEN"
	EnvBaseURL    = "PARATY_BASE_URL"
	EnvCORSOrigin = "PARATY_CORS_ORIGIN"

	EnvMongoURI      = "PARATY_MONGODB_URI"
	EnvMongoDatabase = "PARATY_MONGODB_DATABASE"

	EnvMailAPIBase = "PARATY_MAIL_API_BASE"
	EnvMailAPIKey  = "PARATY_MAIL_API_KEY"
	EnvMailDomain  = "PARATY_MAIL_DOMAIN"
	EnvMailFrom    = "PARATY_MAIL_FROM"
	EnvMailTo      = "PARATY_MAIL_TO"
)

type Mongo struct {
	URI      string
	Database string
}

type Mail struct {
	APIBase string
	APIKey  string
	Domain  string
	From    string
	To      string
}

type Config struct {
	Listen     string
	BaseURL    string
	CORSOrigin string
	Mongo      Mongo
	Mail       Mail
}

// RequiredEnv lists the variables without which the backend cannot operate.
func RequiredEnv() []string {
	return []string{
		EnvMongoURI,
		EnvMongoDatabase,
		EnvMailAPIKey,
		EnvMailDomain,
		EnvMailTo,
	}
}

func FromEnv() *Config {
	return &Config{
		Listen:     helper.GetenvDefault(EnvListen, ":8080"),
		BaseURL:    strings.TrimRight(helper.GetenvDefault(EnvBaseURL, "http://localhost:8080"), "/"),
		CORSOrigin: os.Getenv(EnvCORSOrigin),
		Mongo: Mongo{
			URI:      os.Getenv(EnvMongoURI),
			Database: helper.GetenvDefault(EnvMongoDatabase, "paratygo"),
		},
		Mail: Mail{
			APIBase: helper.GetenvDefault(EnvMailAPIBase, "https://api.mailgun.net/v3"),
			APIKey:  os.Getenv(EnvMailAPIKey),
			Domain:  os.Getenv(EnvMailDomain),
			From:    helper.GetenvDefault(EnvMailFrom, "Paraty GO! <noreply@paraty-go.com>"),
			To:      os.Getenv(EnvMailTo),
		},
	}
}

func (m *Mongo) Validate() error {
	if m.URI == "" {
		return errors.Errorf("%s must be set", EnvMongoURI)
	}
	if m.Database == "" {
		return errors.Errorf("%s must be set", EnvMongoDatabase)
	}
	return nil
}

func (m *Mail) Validate() error {
	if m.APIKey == "" {
		return errors.Errorf("%s must be set", EnvMailAPIKey)
	}
	if m.Domain == "" {
		return errors.Errorf("%s must be set", EnvMailDomain)
	}
	if m.To == "" {
		return errors.Errorf("%s must be set", EnvMailTo)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := c.Mongo.Validate(); err != nil {
		return err
	}
	return c.Mail.Validate()
}
