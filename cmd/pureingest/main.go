// pureingest rebuilds the research-information store from one snapshot of
// the upstream exports: the xlsx member roster plus the person, research
// output, award, and project JSON documents.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oceanatlas/pureingest/internal/config"
	"github.com/oceanatlas/pureingest/internal/db"
	"github.com/oceanatlas/pureingest/internal/logger"
	"github.com/oceanatlas/pureingest/internal/pipeline"
)

var (
	configPath string
	logMode    string
)

func main() {
	root := &cobra.Command{
		Use:           "pureingest",
		Short:         "Reconcile research-information snapshots into the relational store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config")
	root.PersistentFlags().StringVar(&logMode, "log-mode", envOr("LOG_MODE", "production"), "zap logger mode (development or production)")

	root.AddCommand(newRunCmd(), newMapNamesCmd(), newVerifyCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pureingest: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// setup wires the shared plumbing every subcommand needs.
func setup() (*pipeline.Pipeline, *db.Service, *logger.Logger, error) {
	log, err := logger.New(logMode)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	cfg, err := config.Load(configPath, log)
	if err != nil {
		return nil, nil, nil, err
	}
	svc, err := db.NewService(cfg.Database, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return pipeline.New(cfg, svc, log), svc, log, nil
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Rebuild the store from the configured snapshot files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			report, err := p.Run(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	return newIndentEncoder(cmd.OutOrStdout()).Encode(v)
}

func newIndentEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc
}
