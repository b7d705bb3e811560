package main

import (
	"fmt"
	"os"
	"time"

	"travelagency/internal/app"
	"travelagency/internal/domain"
	"travelagency/internal/modules/report"

	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var (
		out    string
		status string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write bookings to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter domain.BookingStatus
			if status != "" {
				s, ok := domain.ParseBookingStatus(status)
				if !ok {
					return fmt.Errorf("unknown status %q", status)
				}
				filter = s
			}

			return withApp(cmd.Context(), func(a *app.App) error {
				list, err := a.Bookings.ListAll(cmd.Context(), filter)
				if err != nil {
					return fmt.Errorf("list bookings: %w", err)
				}

				f, err := os.Create(out)
				if err != nil {
					return err
				}
				if err := report.WriteBookings(f, list, time.Now()); err != nil {
					_ = f.Close()
					return fmt.Errorf("write workbook: %w", err)
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d bookings written to %s\n", len(list), out)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "bookings.xlsx", "output file")
	cmd.Flags().StringVar(&status, "status", "", "only bookings with this status")
	return cmd
}
