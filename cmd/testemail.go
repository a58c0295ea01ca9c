package cmd

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/paraty-go/backend/internal/config"
	"github.com/paraty-go/backend/pkg/mailer"
	"github.com/paraty-go/backend/pkg/registration"
)

func init() {
	rootCmd.AddCommand(testEmail)
}

var testEmail = &cobra.Command{
	Use:   "test-email",
	Short: "Send a test notification through the mail API",
	Long:  "This sub-command renders the notification template with canned data and sends it to the configured recipient, verifying the whole mail path end to end.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.FromEnv()
		if err := cfg.Mail.Validate(); err != nil {
			log.Fatalf("invalid configuration: %s", err)
		}

		sub := &registration.Submission{
			Name:        "Test Partner",
			Company:     "Paraty GO! operations",
			Email:       cfg.Mail.To,
			Message:     "This is a test notification sent by the test-email command.",
			SubmittedAt: time.Now().UTC(),
		}

		html, err := registration.RenderNotification(sub)
		if err != nil {
			log.Fatalf("failed to render notification: %s", err)
		}

		client := mailer.New(&cfg.Mail)
		id, err := client.Send(&mailer.Message{
			From:    cfg.Mail.From,
			To:      []string{cfg.Mail.To},
			Subject: registration.NotificationSubject(sub),
			HTML:    html,
		})
		if err != nil {
			log.WithError(err).Fatal("test notification was not accepted")
		}

		log.Infof("test notification accepted by the mail API (id %s)", id)
	},
}
