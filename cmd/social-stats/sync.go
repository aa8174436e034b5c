package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func syncCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push article like/repost counts to the analytics endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(*configPath, os.Stderr, prometheus.NewRegistry())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Timeouts.Service)
			defer cancel()

			sent, err := a.svc.SyncAnalytics(ctx)
			if err != nil {
				return fmt.Errorf("sync analytics: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "sent %d events\n", sent)
			return nil
		},
	}
}
