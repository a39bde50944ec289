package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/launchpad-edu/launchpad/internal/cli"
	"github.com/launchpad-edu/launchpad/internal/fit"
	"github.com/launchpad-edu/launchpad/internal/model"
)

func fitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Compute or simulate student/university fit",
	}

	cmd.AddCommand(fitComputeCmd())
	cmd.AddCommand(fitSimulateCmd())

	return cmd
}

func fitComputeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compute [university-id]",
		Short: "Compute fit for one university or the whole list",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFitCompute,
	}

	cmd.Flags().Bool("all", false, "recompute fit for every university on the list")

	return cmd
}

func runFitCompute(cmd *cobra.Command, args []string) error {
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

	all, _ := cmd.Flags().GetBool("all")
	if !all {
		if len(args) != 1 {
			return fmt.Errorf("pass a university ID or --all")
		}
		analysis, err := eng.ComputeFit(ctx, profileID, args[0])
		if err != nil {
			return err
		}
		fmt.Println(cli.RenderFitAnalysis(args[0], analysis))
		return nil
	}

	entries, err := store.GetCollegeList(ctx, profileID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println(cli.SubtleStyle.Render("Nothing to compute: the list is empty."))
		return nil
	}

	bar := progressbar.Default(int64(len(entries)), "computing fit")
	failed := 0
	for _, entry := range entries {
		if _, err := eng.ComputeFit(ctx, profileID, entry.UniversityID); err != nil {
			failed++
			_ = store.UpdateComputeStatus(ctx, profileID, entry.UniversityID, model.FitFailed)
		} else {
			_ = store.UpdateComputeStatus(ctx, profileID, entry.UniversityID, model.FitReady)
		}
		_ = bar.Add(1)
	}

	if failed > 0 {
		fmt.Println(cli.WarningStyle.Render(fmt.Sprintf("Computed %d of %d; %d failed (missing stats?)",
			len(entries)-failed, len(entries), failed)))
		return nil
	}
	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Computed fit for %d universities", len(entries))))
	return nil
}

func fitSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Score a hypothetical student against hypothetical stats",
		Long: `Run the fit scorer without touching the database. Useful for exploring
how profile changes move the category under either scoring mode.`,
		RunE: runFitSimulate,
	}

	cmd.Flags().String("mode", "fair", "scoring mode (fair or strict)")
	cmd.Flags().Float64("gpa", 3.5, "student GPA")
	cmd.Flags().Int("sat", 0, "student SAT score")
	cmd.Flags().Int("ap-count", 0, "AP or IB course count")
	cmd.Flags().Bool("leadership", false, "holds a leadership position")
	cmd.Flags().Bool("test-optional", false, "applying test-optional")
	cmd.Flags().Float64("acceptance-rate", 50, "university acceptance rate in percent")
	cmd.Flags().Float64("gpa75", 3.7, "75th percentile admitted GPA")
	cmd.Flags().Int("sat75", 1300, "75th percentile admitted SAT")

	return cmd
}

func runFitSimulate(cmd *cobra.Command, _ []string) error {
	modeFlag, _ := cmd.Flags().GetString("mode")
	var mode fit.Mode
	switch modeFlag {
	case "fair":
		mode = fit.ModeFair
	case "strict":
		mode = fit.ModeStrict
	default:
		return fmt.Errorf("mode must be \"fair\" or \"strict\", got %q", modeFlag)
	}

	gpa, _ := cmd.Flags().GetFloat64("gpa")
	sat, _ := cmd.Flags().GetInt("sat")
	apCount, _ := cmd.Flags().GetInt("ap-count")
	leadership, _ := cmd.Flags().GetBool("leadership")
	testOptional, _ := cmd.Flags().GetBool("test-optional")
	rate, _ := cmd.Flags().GetFloat64("acceptance-rate")
	gpa75, _ := cmd.Flags().GetFloat64("gpa75")
	sat75, _ := cmd.Flags().GetInt("sat75")

	student := model.StudentProfile{
		GPA:          gpa,
		TestScore:    sat,
		APCount:      apCount,
		Leadership:   leadership,
		TestOptional: testOptional,
	}
	university := model.UniversityStats{
		AcceptanceRate: rate,
		GPA75:          gpa75,
		SAT75:          sat75,
	}

	result := fit.Score(student, university, mode)

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Fit simulation (%s mode)", mode)))
	fmt.Printf("%s  %.1f / %.0f (%.0f%%)\n",
		cli.CategoryStyle(string(result.Category)).Render(result.Category.DisplayName()),
		result.Score, result.MaxScore, result.Percent)
	for _, factor := range result.Factors {
		fmt.Printf("  %-14s %5.1f / %.0f  %s\n", factor.Name, factor.Score, factor.Max,
			cli.SubtleStyle.Render(factor.Detail))
	}
	return nil
}
