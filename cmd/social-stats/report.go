package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/cathysarisky/api-with-activitypub/internal/render"
)

func reportCmd(configPath *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch notes once and print the report",
		Long: `Run the pipeline once and print the notes report.

Examples:
  social-stats report
  social-stats report --format json
  social-stats report --config ./prod.yaml --format yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}

			a, err := bootstrap(*configPath, os.Stderr, prometheus.NewRegistry())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Timeouts.Service)
			defer cancel()

			rep, err := a.svc.BuildReport(ctx)
			if err != nil {
				return fmt.Errorf("build report: %w", err)
			}

			return render.Write(cmd.OutOrStdout(), f, rep)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(render.FormatText), "output format (text, json, yaml)")

	return cmd
}
