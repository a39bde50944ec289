package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/launchpad-edu/launchpad/internal/cli"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the college list",
		RunE:  runList,
	}

	cmd.Flags().Bool("balanced", false, "show a balanced selection instead of the full list")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	profileID, err := requireProfileID()
	if err != nil {
		return err
	}

	eng, store, err := newEngine(ctx, false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	balanced, _ := cmd.Flags().GetBool("balanced")

	entries, err := eng.LoadList(ctx, profileID)
	if balanced && err == nil {
		entries, err = eng.BalancedList(ctx, profileID)
	}
	if err != nil {
		return err
	}

	title := "College list"
	if balanced {
		title = "Balanced college list"
	}
	fmt.Println(cli.TitleStyle.Render(title))
	fmt.Println(cli.RenderCollegeList(entries))
	return nil
}
