package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/launchpad-edu/launchpad/internal/cli"
	"github.com/launchpad-edu/launchpad/internal/engine"
	"github.com/launchpad-edu/launchpad/internal/model"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <university name>",
		Short: "Add a university to the list",
		Long: `Add a university to the college list. Fit computation starts in the
background; run "launchpad list" to see the result once it's ready.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAdd,
	}

	cmd.Flags().String("id", "", "university ID (defaults to a slug of the name)")
	cmd.Flags().String("location", "", "city and state")
	cmd.Flags().String("category", "", "provisional fit category (safety, target, reach, super_reach)")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
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

	name := ""
	for i, arg := range args {
		if i > 0 {
			name += " "
		}
		name += arg
	}

	id, _ := cmd.Flags().GetString("id")
	if id == "" {
		id = engine.Slug(name)
	}
	location, _ := cmd.Flags().GetString("location")
	category, _ := cmd.Flags().GetString("category")

	entry := model.CollegeEntry{
		UniversityID:   id,
		UniversityName: name,
		Location:       location,
	}
	if category != "" {
		entry.SoftFitCategory = model.ParseFitCategory(category)
	}

	if err := eng.AddCollege(ctx, profileID, entry); err != nil {
		return err
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Added %s (%s); fit computation started", name, id)))
	return nil
}
