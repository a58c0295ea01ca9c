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
	"github.com/paraty-go/backend/pkg/check"
	"github.com/paraty-go/backend/pkg/monitor"
	"github.com/paraty-go/backend/pkg/probe"
)

var (
	monitorInterval  time.Duration
	monitorListen    string
	monitorConfigDir string
)

func init() {
	monitorCmd.Flags().DurationVarP(&monitorInterval, "interval", "i", time.Minute, "time between check rounds")
	monitorCmd.Flags().StringVarP(&monitorListen, "listen", "l", "", "serve the latest report on this address")
	monitorCmd.Flags().StringVarP(&monitorConfigDir, "config-dir", "c", "", "directory with .hcl monitor configuration")
	rootCmd.AddCommand(monitorCmd)
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the check battery on an interval",
	Long:  "This sub-command repeats the health-check battery on a fixed interval, optionally extended with infrastructure probes from .hcl configuration, and can serve the latest report over HTTP and websocket.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.FromEnv()

		monitorConfig := config.Monitor{}
		if monitorConfigDir != "" {
			if err := monitorConfig.GenerateFromConfigDir(monitorConfigDir); err != nil {
				log.Fatalf("failed to load monitor configuration from %q: %s", monitorConfigDir, err)
			}
		}

		interval := monitorInterval
		if !cmd.Flags().Changed("interval") && monitorConfig.Interval != "" {
			fileInterval, err := monitorConfig.IntervalDuration()
			if err != nil {
				log.Fatal(err)
			}
			interval = fileInterval
		}

		listen := monitorListen
		if listen == "" {
			listen = monitorConfig.Listen
		}

		suite := func() []check.Group {
			return probe.WithInfra(probe.Suite(cfg), monitorConfig.Probes)
		}

		mon := monitor.New(interval, suite)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		signals := make(chan os.Signal, 1)
		signal.Notify(signals,
			syscall.SIGTERM,
			syscall.SIGINT,
		)
		go func() {
			s := <-signals
			log.Infof("received event %s", s.String())
			cancel()
		}()

		if listen != "" {
			go func() {
				if err := mon.ServeFeed(ctx, listen); err != nil {
					log.WithError(err).Fatal("monitor feed stopped with error")
				}
			}()
		}

		mon.Run(ctx)
	},
}
