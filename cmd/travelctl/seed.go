package main

import (
	"errors"
	"fmt"
	"os"

	"travelagency/internal/app"

	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	var opts app.SeedOptions

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the admin account and, optionally, a sample catalog",
		Long: `Create the admin account and, optionally, a sample catalog.

The admin password defaults to the ADMIN_PASSWORD environment variable.

Examples:
  travelctl seed --admin-email admin@travel.example --admin-password secret
  travelctl seed --catalog`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.AdminPassword == "" {
				opts.AdminPassword = os.Getenv("ADMIN_PASSWORD")
			}
			if opts.AdminEmail != "" && len(opts.AdminPassword) < 6 {
				return errors.New("admin password must be at least 6 characters")
			}

			return withApp(cmd.Context(), func(a *app.App) error {
				res, err := a.Seed(cmd.Context(), opts)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if opts.AdminEmail != "" {
					if res.AdminCreated {
						fmt.Fprintf(out, "admin created: %s\n", opts.AdminEmail)
					} else {
						fmt.Fprintf(out, "admin already exists: %s\n", opts.AdminEmail)
					}
				}
				if opts.Catalog {
					fmt.Fprintf(out, "catalog: %d destinations, %d packages added\n", res.Destinations, res.Packages)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.AdminEmail, "admin-email", "", "admin account email")
	cmd.Flags().StringVar(&opts.AdminPassword, "admin-password", "", "admin account password")
	cmd.Flags().StringVar(&opts.AdminName, "admin-name", "", "admin display name")
	cmd.Flags().BoolVar(&opts.Catalog, "catalog", false, "add a sample catalog when empty")

	return cmd
}
