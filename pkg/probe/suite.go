package probe

import (
	"net/http"

	"github.com/paraty-go/backend/internal/config"
	"github.com/paraty-go/backend/pkg/check"
	"github.com/paraty-go/backend/pkg/mailer"
)

// Subsystem keys of the built-in battery, in execution order.
const (
	SubsystemEnvironment = "environment"
	SubsystemServer      = "server"
	SubsystemDatabase    = "database"
	SubsystemMail        = "mail"
	SubsystemInfra       = "infrastructure"
)

// Suite assembles the full check battery for one backend deployment.
func Suite(cfg *config.Config) []check.Group {
	mail := mailer.New(&cfg.Mail)

	return []check.Group{
		{
			Key:    SubsystemEnvironment,
			Probes: envDefinitions(),
		},
		{
			Key: SubsystemServer,
			Probes: []check.Definition{
				{
					Name:   "server reachable",
					Gating: true,
					Probe:  NewHTTPProbe(http.MethodGet, cfg.BaseURL+"/healthz", nil, StatusSuccess),
				},
				{
					Name:  "registration endpoint registered",
					Probe: NewHTTPProbe(http.MethodPost, cfg.BaseURL+"/api/register", nil, EndpointRegistered),
				},
				{
					Name: "preflight allows configured origin",
					Probe: NewHTTPProbe(http.MethodOptions, cfg.BaseURL+"/api/register", map[string]string{
						"Origin":                        cfg.CORSOrigin,
						"Access-Control-Request-Method": http.MethodPost,
					}, PreflightAllowsOrigin(cfg.CORSOrigin)),
				},
			},
		},
		{
			Key: SubsystemDatabase,
			Probes: []check.Definition{
				{Name: "document store reachable", Gating: true, Probe: NewMongoPingProbe(&cfg.Mongo)},
				{Name: "collections listable", Probe: NewMongoCollectionsProbe(&cfg.Mongo)},
				{Name: "submissions readable", Probe: NewMongoCountProbe(&cfg.Mongo, 5)},
				{Name: "write round trip", Probe: NewMongoRoundTripProbe(&cfg.Mongo)},
			},
		},
		{
			Key: SubsystemMail,
			Probes: []check.Definition{
				{Name: "mail API accepts credentials", Gating: true, Probe: NewMailerDomainsProbe(mail)},
				{Name: "sending domain attached", Probe: NewMailerSendingDomainProbe(mail, cfg.Mail.Domain)},
			},
		},
	}
}

func envDefinitions() []check.Definition {
	defs := make([]check.Definition, 0, len(config.RequiredEnv())+3)
	for _, key := range config.RequiredEnv() {
		defs = append(defs, check.Definition{Name: "variable " + key, Probe: NewEnvProbe(key)})
	}

	defs = append(defs,
		check.Definition{
			Name:  "mail API key shape",
			Probe: NewEnvShapeProbe(config.EnvMailAPIKey, `^key-[0-9a-zA-Z]+$`, "a mail API key (key-...)"),
		},
		check.Definition{
			Name:  "document store URI scheme",
			Probe: NewEnvShapeProbe(config.EnvMongoURI, `^mongodb(\+srv)?://`, "a mongodb:// connection string"),
		},
		check.Definition{
			Name:  "notification recipient shape",
			Probe: NewEnvShapeProbe(config.EnvMailTo, `@`, "an email address"),
		},
	)
	return defs
}

// WithInfra appends the infrastructure group declared in the monitor config.
// Deployments without infrastructure probes get no such group, so the gate
// is not held hostage by an empty, forever-pending subsystem.
func WithInfra(groups []check.Group, probes []config.InfraProbe) []check.Group {
	defs := make([]check.Definition, 0, len(probes))
	for i := range probes {
		if def, ok := infraDefinition(&probes[i]); ok {
			defs = append(defs, def)
		}
	}

	if len(defs) == 0 {
		return groups
	}
	return append(groups, check.Group{Key: SubsystemInfra, Probes: defs})
}

func infraDefinition(cfg *config.InfraProbe) (check.Definition, bool) {
	def := check.Definition{Name: cfg.Name, Gating: cfg.Gating}

	switch {
	case cfg.Filesystem != "":
		def.Probe = NewFilesystemProbe(cfg.Filesystem)
	case cfg.Redis != nil:
		def.Probe = NewRedisProbe(cfg.Redis)
	case cfg.MySQL != nil:
		def.Probe = NewMySQLProbe(cfg.MySQL)
	case cfg.Amqp != nil:
		def.Probe = NewAmqpProbe(cfg.Amqp)
	case cfg.SMTP != nil:
		def.Probe = NewSMTPProbe(cfg.SMTP)
	default:
		return check.Definition{}, false
	}

	return def, true
}
