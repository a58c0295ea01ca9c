package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/paraty-go/backend/internal/config"
	"github.com/paraty-go/backend/pkg/mailer"
	"github.com/paraty-go/backend/pkg/server"
	"github.com/paraty-go/backend/pkg/store"
)

func init() {
	rootCmd.AddCommand(serve)
}

var serve = &cobra.Command{
	Use:   "serve",
	Short: "Start the registration HTTP server",
	Long:  "This sub-command connects to the document store and serves the partner-registration form endpoint.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.FromEnv()
		if err := cfg.Validate(); err != nil {
			log.Fatalf("invalid configuration: %s", err)
		}

		connectCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		st, err := store.Connect(connectCtx, &cfg.Mongo)
		cancel()
		if err != nil {
			log.Fatalf("failed to connect to document store: %s", err)
		}
		defer st.Close(context.Background())

		srv := server.New(cfg, st, mailer.New(&cfg.Mail))

		signals := make(chan os.Signal, 1)
		signal.Notify(signals,
			syscall.SIGTERM,
			syscall.SIGINT,
		)

		go func() {
			s := <-signals
			log.Infof("received event %s", s.String())

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Errorf("error while shutting down: %s", err)
			}
		}()

		if err := srv.Run(); err != nil {
			log.WithError(err).Fatal("registration server stopped with error")
		}
		log.Info("registration server stopped without error")
	},
}
