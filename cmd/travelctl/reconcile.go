package main

import (
	"fmt"
	"time"

	"travelagency/internal/app"

	"github.com/spf13/cobra"
)

func reconcileCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Pull gateway status for every booking still awaiting payment",
		Long: `Pull gateway status for every booking still awaiting payment.

With --interval the command keeps running and reconciles on every tick until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withApp(ctx, func(a *app.App) error {
				run := func() error {
					sum, err := a.Payments.ReconcileAll(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "checked=%d updated=%d failed=%d\n", sum.Checked, sum.Updated, sum.Failed)
					return nil
				}

				if err := run(); err != nil || interval <= 0 {
					return err
				}

				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return nil
					case <-ticker.C:
						if err := run(); err != nil {
							a.Log.WithError(err).Error("reconcile run failed")
						}
					}
				}
			})
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "repeat every interval (0 runs once)")
	return cmd
}
