package helper

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// GetenvDefault reads an environment variable, falling back to a default
// when it is unset or empty.
func GetenvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// SetDefaultStringIfEmpty substitutes a default for an empty configuration
// value, logging which field of which component was defaulted.
func SetDefaultStringIfEmpty(value, fallback, field, kind string) string {
	if value == "" {
		log.WithFields(log.Fields{"kind": kind, "field": field}).Debugf("no value configured, assuming default %q", fallback)
		return fallback
	}
	return value
}
