package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/launchpad-edu/launchpad/internal/cli"
)

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <university-id> [university-id...]",
		Short: "Remove universities from the list",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRemove,
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	profileID, err := requireProfileID()
	if err != nil {
		return err
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if len(args) == 1 {
		if err := store.RemoveCollege(ctx, profileID, args[0]); err != nil {
			return err
		}
		fmt.Println(cli.SuccessStyle.Render("Removed " + args[0]))
		return nil
	}

	removed, err := store.BulkRemoveColleges(ctx, profileID, args)
	if err != nil {
		return err
	}
	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Removed %d of %d universities", removed, len(args))))
	return nil
}
