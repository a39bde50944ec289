package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/launchpad-edu/launchpad/internal/cli"
	"github.com/launchpad-edu/launchpad/internal/config"
	"github.com/launchpad-edu/launchpad/internal/sheets"
)

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the college list to Google Sheets",
		Long: `Write the current college list, including computed fit results, to a
Google Sheets spreadsheet. Requires either a service account key or OAuth2
credentials; see the sheets section of the config file.`,
		RunE: runExport,
	}
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	profileID, err := requireProfileID()
	if err != nil {
		return err
	}

	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		return fmt.Errorf("sheets configuration: %w", err)
	}

	eng, store, err := newEngine(ctx, false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	profile, err := store.GetProfile(ctx, profileID)
	if err != nil {
		return err
	}
	entries, err := eng.LoadList(ctx, profileID)
	if err != nil {
		return err
	}

	writer, err := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
	if err != nil {
		return err
	}
	if err := writer.Export(ctx, profile, entries); err != nil {
		return err
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Exported %d universities to Google Sheets", len(entries))))
	return nil
}
