package probe

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/paraty-go/backend/pkg/check"
)

type envProbe struct {
	key string
}

// NewEnvProbe verifies that a required environment variable is set and
// non-empty.
func NewEnvProbe(key string) *envProbe {
	return &envProbe{key: key}
}

func (e *envProbe) Exec() error {
	if strings.TrimSpace(os.Getenv(e.key)) == "" {
		return fmt.Errorf("required environment variable %s is not set", e.key)
	}

	log.WithFields(log.Fields{"kind": "probe", "name": "env", "variable": e.key}).Debug("present")
	return nil
}

type envShapeProbe struct {
	key     string
	pattern *regexp.Regexp
	hint    string
}

// NewEnvShapeProbe warns when a variable is set but does not match the
// expected shape. Presence itself is the required probe's concern, so an
// unset variable passes here.
func NewEnvShapeProbe(key, pattern, hint string) *envShapeProbe {
	return &envShapeProbe{
		key:     key,
		pattern: regexp.MustCompile(pattern),
		hint:    hint,
	}
}

func (e *envShapeProbe) Exec() error {
	value := os.Getenv(e.key)
	if value == "" {
		return nil
	}

	if !e.pattern.MatchString(value) {
		return check.Advise("%s does not look like %s", e.key, e.hint)
	}
	return nil
}
