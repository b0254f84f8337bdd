package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mitrahse/vendorhr-api/internal/config"
	"github.com/mitrahse/vendorhr-api/internal/guard"
	"github.com/mitrahse/vendorhr-api/internal/models"
	"github.com/mitrahse/vendorhr-api/internal/services"
)

const cliActor = "hrctl"

func deref(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func newExpiringCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "expiring <tenant>",
		Short: "List contracts that are expired or inside a renewal window",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			list, err := a.svcs.Employee.List(cmd.Context(), args[0], services.EmployeeListParams{})
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"ID", "Nama", "Jabatan", "Kontrak Akhir", "Sisa Hari", "Status"})
			for _, e := range list.Data {
				if !all && !e.ContractStatus.Bucket.NeedsAttention() {
					continue
				}
				table.Append([]string{
					strconv.FormatUint(uint64(e.ID), 10),
					e.Name,
					deref(e.Position),
					deref(e.ContractEnd),
					services.FormatDays(e.ContractStatus),
					string(e.ContractStatus.Bucket),
				})
			}
			table.Render()

			s := list.Summary
			fmt.Fprintf(cmd.OutOrStdout(), "expired=%d due=%d call2=%d call1=%d future=%d unknown=%d total=%d\n",
				s.Expired, s.Due, s.Call2, s.Call1, s.Future, s.Unknown, s.Total)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&all, "all", false, "include contracts outside the renewal windows")
	return cmd
}

func newDigestCmd() *cobra.Command {
	var send bool
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Print the reminder digest, or mail it with --send",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if send {
				if err := a.svcs.Reminder.Run(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "digest processed")
				return nil
			}

			digest, err := a.svcs.Reminder.BuildDigest(cmd.Context())
			if err != nil {
				return err
			}
			if digest.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing needs attention")
				return nil
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Tenant", "ID", "Nama", "Jenis", "Berlaku", "Status"})
			for _, t := range digest.Tenants {
				for _, c := range t.Contracts {
					table.Append([]string{t.Tenant, strconv.FormatUint(uint64(c.EmployeeID), 10), c.Name, "kontrak", c.ContractEnd, c.Label})
				}
				for _, c := range t.Certificates {
					table.Append([]string{t.Tenant, strconv.FormatUint(uint64(c.EmployeeID), 10), c.Name, c.Kind, c.ValidUntil, c.Label})
				}
			}
			table.Render()
			return nil
		}),
	}
	cmd.Flags().BoolVar(&send, "send", false, "mail the digest to the configured recipients")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <tenant> <file>",
		Short: "Bulk import employees from a CSV or XLSX sheet",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			tenant, path := args[0], args[1]
			format, err := services.FormatFromFilename(path)
			if err != nil {
				return err
			}
			f, err := os.Open(filepath.Clean(path))
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := a.svcs.Import.Import(cmd.Context(), tenant, format, f, services.SystemActor(cliActor))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "total=%d created=%d failed=%d\n", result.Total, result.Created, result.Failed)
			if len(result.Errors) > 0 {
				table := tablewriter.NewWriter(cmd.OutOrStdout())
				table.SetHeader([]string{"Baris", "Kesalahan"})
				for _, e := range result.Errors {
					table.Append([]string{strconv.Itoa(e.Row), e.Message})
				}
				table.Render()
			}
			return nil
		}),
	}
}

func newCreateAdminCmd() *cobra.Command {
	var input services.AccountInput
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			account, err := a.svcs.Account.CreateAccount(cmd.Context(), input, services.SystemActor(cliActor))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created account %d (%s, role %s)\n", account.ID, account.Username, account.Role)
			return nil
		}),
	}
	cmd.Flags().StringVar(&input.Username, "username", "", "login name")
	cmd.Flags().StringVar(&input.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&input.Email, "email", "", "contact email")
	cmd.Flags().StringVar(&input.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&input.Role, "role", models.RoleAdmin, "admin or superadmin")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newTestEmailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send-test-email <to>",
		Short: "Send a test message through the configured mail provider",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if err := a.svcs.Email.SendTestEmail(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "test email sent to %s\n", args[0])
			return nil
		}),
	}
}

func newFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "files <category>",
		Short: "List the objects the file store holds for a category",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			objects, err := a.svcs.Attachment.StoredFiles(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Key", "Nama", "Tipe", "Ukuran", "Dibuat"})
			for _, o := range objects {
				created := "-"
				if !o.CreatedAt.IsZero() {
					created = o.CreatedAt.Format("2006-01-02 15:04")
				}
				table.Append([]string{o.Key, o.Name, o.ContentType, strconv.FormatInt(o.Size, 10), created})
			}
			table.Render()
			fmt.Fprintf(cmd.OutOrStdout(), "%d file(s) in %s\n", len(objects), args[0])
			return nil
		}),
	}
}

// newCheckAccessCmd runs the route guard the way a portal client does:
// cached pages first, then the remote verify endpoint.
func newCheckAccessCmd() *cobra.Command {
	var (
		apiURL string
		pages  []string
	)
	cmd := &cobra.Command{
		Use:   "check-access <token> <path>",
		Short: "Check whether a company-user token may open a page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if apiURL == "" {
				apiURL = "http://localhost:" + cfg.Port
			}
			verifier := guard.NewHTTPVerifier(strings.TrimRight(apiURL, "/")+"/api/accountuser/verify", cfg.VerifyTimeout)
			g := guard.New(guard.NewMemoryStore(args[0], pages), verifier, "/login")

			d := g.Check(cmd.Context(), args[1])
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Path", "State", "Verified", "Redirect", "Reason"})
			table.Append([]string{d.Path, d.State, strconv.FormatBool(d.Verified), d.Redirect, d.Reason})
			table.Render()
			if !d.Authorized() {
				return fmt.Errorf("access denied")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&apiURL, "api", "", "API base URL (default http://localhost:$PORT)")
	cmd.Flags().StringSliceVar(&pages, "pages", nil, "cached access pages of the token")
	return cmd
}
