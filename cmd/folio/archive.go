package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/yanizio/folio/internal/config"
	"github.com/yanizio/folio/internal/database"
	"github.com/yanizio/folio/internal/delivery"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage the contact message archive",
}

var archiveMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the contact_message table if missing",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openArchive(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := delivery.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "contact_message ready")
		return nil
	},
}

var archiveRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently archived contact messages",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		db, err := openArchive(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		rows, err := delivery.Recent(cmd.Context(), db, limit)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSUBMITTED\tNAME\tEMAIL\tMESSAGE")
		for _, m := range rows {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
				m.ID, m.SubmittedAt.Format(time.RFC3339), m.Name, m.Email, preview(m.Message, 40))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveMigrateCmd, archiveRecentCmd)
	archiveRecentCmd.Flags().IntP("limit", "n", 20, "number of messages to list")
}

func openArchive(cmd *cobra.Command) (*sqlx.DB, error) {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	if cfg.Contact.ArchiveDSN == "" {
		return nil, errors.New("contact.archive_dsn is not configured")
	}
	return database.Open(cmd.Context(), cfg.Contact.ArchiveDSN)
}

// preview shortens s to n runes on one line.
func preview(s string, n int) string {
	r := []rune(s)
	for i, c := range r {
		if c == '\n' || c == '\r' || c == '\t' {
			r[i] = ' '
		}
	}
	if len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return string(r)
}
