// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/company-research/internal/sink"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Re-export a stored report to Notion",
	Long: `Export loads the most recent stored report for an organization from the
local report database and sends it to the configured Notion database.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("org", "", "organization whose report to export")
	exportCmd.Flags().String("db", "reports.db", "report database path")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	org, _ := cmd.Flags().GetString("org")
	if org == "" {
		return fmt.Errorf("provide --org")
	}
	dbPath, _ := cmd.Flags().GetString("db")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sink.NewSQLiteSink(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := store.Latest(ctx, org)
	if err != nil {
		return err
	}

	notion := sink.NewNotionSink(engineConfig().Sink)
	ref, err := notion.Export(ctx, report)
	if err != nil {
		return err
	}

	fmt.Printf("exported %s to notion (%s)\n", report.OrganizationName, ref)
	return nil
}
