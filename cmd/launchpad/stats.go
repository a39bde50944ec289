package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/launchpad-edu/launchpad/internal/cli"
	"github.com/launchpad-edu/launchpad/internal/engine"
	"github.com/launchpad-edu/launchpad/internal/model"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Manage university admissions statistics",
	}

	cmd.AddCommand(statsSetCmd())
	cmd.AddCommand(statsShowCmd())

	return cmd
}

func statsSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <university name>",
		Short: "Record admissions statistics for a university",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runStatsSet,
	}

	cmd.Flags().String("id", "", "university ID (defaults to a slug of the name)")
	cmd.Flags().Float64("acceptance-rate", 0, "acceptance rate in percent (required)")
	cmd.Flags().Float64("gpa75", 0, "75th percentile admitted GPA (required)")
	cmd.Flags().Int("sat75", 0, "75th percentile admitted SAT (required)")
	_ = cmd.MarkFlagRequired("acceptance-rate")
	_ = cmd.MarkFlagRequired("gpa75")
	_ = cmd.MarkFlagRequired("sat75")

	return cmd
}

func runStatsSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	name := args[0]
	for _, arg := range args[1:] {
		name += " " + arg
	}

	id, _ := cmd.Flags().GetString("id")
	if id == "" {
		id = engine.Slug(name)
	}
	rate, _ := cmd.Flags().GetFloat64("acceptance-rate")
	gpa75, _ := cmd.Flags().GetFloat64("gpa75")
	sat75, _ := cmd.Flags().GetInt("sat75")

	if rate <= 0 || rate > 100 {
		return fmt.Errorf("acceptance rate %.1f out of range", rate)
	}

	stats := model.UniversityStats{
		UniversityID:   id,
		Name:           name,
		AcceptanceRate: rate,
		GPA75:          gpa75,
		SAT75:          sat75,
	}
	if err := store.SaveUniversityStats(ctx, stats); err != nil {
		return err
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Saved stats for %s (%s)", name, id)))
	return nil
}

func statsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <university-id>",
		Short: "Show recorded statistics for a university",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stats, err := store.GetUniversityStats(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render(stats.Name))
			fmt.Printf("Acceptance rate:  %.1f%%\n", stats.AcceptanceRate)
			fmt.Printf("GPA (75th pct):   %.2f\n", stats.GPA75)
			fmt.Printf("SAT (75th pct):   %d\n", stats.SAT75)
			return nil
		},
	}
}
