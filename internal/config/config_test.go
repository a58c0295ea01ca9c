package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paraty-go/backend/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		config.EnvListen, config.EnvBaseURL, config.EnvCORSOrigin,
		config.EnvMongoURI, config.EnvMongoDatabase,
		config.EnvMailAPIBase, config.EnvMailAPIKey, config.EnvMailDomain,
		config.EnvMailFrom, config.EnvMailTo,
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg := config.FromEnv()
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, "paratygo", cfg.Mongo.Database)
	assert.Equal(t, "https://api.mailgun.net/v3", cfg.Mail.APIBase)
	assert.NotEmpty(t, cfg.Mail.From)
}

func TestFromEnvReadsValues(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvListen, ":9000")
	t.Setenv(config.EnvBaseURL, "https://api.paraty-go.com/")
	t.Setenv(config.EnvMongoURI, "mongodb://db:27017")
	t.Setenv(config.EnvMailDomain, "mg.paraty-go.com")

	cfg := config.FromEnv()
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "https://api.paraty-go.com", cfg.BaseURL, "trailing slash is stripped")
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, "mg.paraty-go.com", cfg.Mail.Domain)
}

func TestValidateReportsMissingVariables(t *testing.T) {
	clearEnv(t)

	cfg := config.FromEnv()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvMongoURI)

	cfg.Mongo.URI = "mongodb://db:27017"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvMailAPIKey)

	cfg.Mail.APIKey = "key-secret"
	cfg.Mail.Domain = "mg.paraty-go.com"
	cfg.Mail.To = "ops@paraty-go.com"
	assert.NoError(t, cfg.Validate())
}

func TestRequiredEnvCoversValidation(t *testing.T) {
	clearEnv(t)

	for _, key := range config.RequiredEnv() {
		t.Setenv(key, "value")
	}
	assert.NoError(t, config.FromEnv().Validate())
}

func writeConfigFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}

func TestGenerateFromConfigDir(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "monitor.hcl", `
interval = "30s"
listen = ":9102"

probe "cache" {
	gating = true
	redis {
		host {
			hostname = "localhost"
			port = "6379"
		}
	}
}

probe "spool" {
	filesystem = "/var/spool/paratygo"
}
`)

	monitor := config.Monitor{}
	require.NoError(t, monitor.GenerateFromConfigDir(dir))

	assert.Equal(t, "30s", monitor.Interval)
	assert.Equal(t, ":9102", monitor.Listen)

	require.Len(t, monitor.Probes, 2)
	assert.Equal(t, "cache", monitor.Probes[0].Name)
	assert.True(t, monitor.Probes[0].Gating)
	require.NotNil(t, monitor.Probes[0].Redis)
	assert.Equal(t, "localhost", monitor.Probes[0].Redis.Hostname)
	assert.Equal(t, "6379", monitor.Probes[0].Redis.Port)

	assert.Equal(t, "spool", monitor.Probes[1].Name)
	assert.Equal(t, "/var/spool/paratygo", monitor.Probes[1].Filesystem)
}

func TestGenerateFromConfigDirIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "notes.txt", "not a config file")
	writeConfigFile(t, dir, "monitor.hcl", `listen = ":9102"`)

	monitor := config.Monitor{}
	require.NoError(t, monitor.GenerateFromConfigDir(dir))
	assert.Equal(t, ":9102", monitor.Listen)
	assert.Empty(t, monitor.Probes)
}

func TestGenerateFromConfigDirRejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "broken.hcl", `probe "x" {`)

	monitor := config.Monitor{}
	assert.Error(t, monitor.GenerateFromConfigDir(dir))
}

func TestIntervalDuration(t *testing.T) {
	monitor := config.Monitor{}

	interval, err := monitor.IntervalDuration()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, interval)

	monitor.Interval = "15s"
	interval, err = monitor.IntervalDuration()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, interval)

	monitor.Interval = "often"
	_, err = monitor.IntervalDuration()
	assert.Error(t, err)
}
