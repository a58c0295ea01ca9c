package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/paraty-go/backend/internal/config"
	"github.com/paraty-go/backend/pkg/check"
	"github.com/paraty-go/backend/pkg/probe"
)

const gateLatencyThreshold = 2 * time.Second

var healthcheckJSON bool

func init() {
	healthcheck.Flags().BoolVarP(&healthcheckJSON, "json", "j", false, "print the report as JSON")
	rootCmd.AddCommand(healthcheck)
}

var healthcheck = &cobra.Command{
	Use:   "healthcheck",
	Short: "Run the full dependency check battery once",
	Long:  "This sub-command verifies environment, HTTP server, document store and mail API in order, prints a report and exits 0 only when every required probe passed.",
	Run: func(cmd *cobra.Command, args []string) {
		// Probes never let errors escape, so anything reaching this
		// recover is a fatal outside the probe boundary. It still must
		// end in a nonzero exit instead of a bare crash.
		defer func() {
			if p := recover(); p != nil {
				log.Errorf("health check aborted by unexpected error: %v", p)
				os.Exit(1)
			}
		}()

		cfg := config.FromEnv()

		runner := check.NewRunner(probe.Suite(cfg)...).
			WithGateAdvisory("round trip latency", probe.NewLatencyProbe(cfg.BaseURL+"/healthz", gateLatencyThreshold))

		report := check.NewReport(runner.Run())

		if healthcheckJSON {
			out, err := json.MarshalIndent(report, "", "    ")
			if err != nil {
				log.Errorf("failed to marshal report: %s", err)
				os.Exit(1)
			}
			fmt.Println(string(pretty.Color(out, nil)))
		} else {
			fmt.Println(report.Render())
		}

		os.Exit(report.ExitCode())
	},
}
