package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"leadcrm/internal/staff/models"
	"leadcrm/internal/staff/secrets"
)

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newMigrateFormNumbersCmd() *cobra.Command {
	var (
		dryRun  bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "migrate-form-numbers",
		Short: "Rewrite legacy form numbers into the PREFIX-NNNNN format",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd.Context(), cmd.ErrOrStderr(), nil, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			report, err := a.Leads.MigrateFormNumbers(ctx, dryRun)
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report the changes without writing them")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "bound the whole run (default FORM_NUMBER_MIGRATION_TIMEOUT)")
	return cmd
}

func newCreateStaffCmd() *cobra.Command {
	var req models.CreateStaffRequest
	cmd := &cobra.Command{
		Use:   "create-staff",
		Short: "Create a staff account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			generated := req.Password == ""
			if generated {
				pw, err := secrets.Generate()
				if err != nil {
					return err
				}
				req.Password = pw
			}

			a, err := buildApp(cmd.Context(), cmd.ErrOrStderr(), nil, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.Staff.CreateStaff(cmd.Context(), &req)
			if err != nil {
				return err
			}
			out := map[string]any{"staff": st}
			if generated {
				out["password"] = req.Password
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "login name")
	cmd.Flags().StringVar(&req.DisplayName, "display-name", "", "name shown in the back office")
	cmd.Flags().StringVar(&req.Password, "password", "", "password; generated and printed when omitted")
	cmd.Flags().StringVar(&req.Role, "role", models.RoleStaff, "staff or admin")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newSeedProjectsCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed-projects",
		Short: "Create the projects listed in a YAML catalogue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open catalogue: %w", err)
			}
			defer f.Close()

			a, err := buildApp(cmd.Context(), cmd.ErrOrStderr(), nil, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Projects.SeedProjects(cmd.Context(), f)
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the YAML catalogue")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
