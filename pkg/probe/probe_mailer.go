package probe

import (
	log "github.com/sirupsen/logrus"

	"github.com/paraty-go/backend/pkg/check"
	"github.com/paraty-go/backend/pkg/mailer"
)

type mailerDomainsProbe struct {
	client *mailer.Client
}

// NewMailerDomainsProbe lists the account's sending domains, which fails
// when the API is unreachable or the key is rejected.
func NewMailerDomainsProbe(client *mailer.Client) *mailerDomainsProbe {
	return &mailerDomainsProbe{client: client}
}

func (m *mailerDomainsProbe) Exec() error {
	domains, err := m.client.Domains()
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"kind": "probe", "name": "mailer", "domains": len(domains)}).Debug()
	return nil
}

type mailerSendingDomainProbe struct {
	client *mailer.Client
	domain string
}

// NewMailerSendingDomainProbe warns when the configured sending domain is
// not attached to the account. The account itself was already verified by
// the gating domains probe, so everything here is advisory.
func NewMailerSendingDomainProbe(client *mailer.Client, domain string) *mailerSendingDomainProbe {
	return &mailerSendingDomainProbe{client: client, domain: domain}
}

func (m *mailerSendingDomainProbe) Exec() error {
	domains, err := m.client.Domains()
	if err != nil {
		return check.Advise("could not verify sending domain: %s", err.Error())
	}

	for _, d := range domains {
		if d.Name == m.domain {
			if d.State != "" && d.State != "active" {
				return check.Advise("sending domain %q is attached but %s", m.domain, d.State)
			}
			return nil
		}
	}

	return check.Advise("sending domain %q is not attached to the account", m.domain)
}
