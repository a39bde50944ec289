package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/launchpad-edu/launchpad/internal/cli"
	"github.com/launchpad-edu/launchpad/internal/model"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the student profile",
	}

	cmd.AddCommand(profileSetCmd())
	cmd.AddCommand(profileShowCmd())

	return cmd
}

func profileSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update the student profile",
		RunE:  runProfileSet,
	}

	cmd.Flags().String("email", "", "student email (required)")
	cmd.Flags().Float64("gpa", 0, "unweighted GPA on a 4.0 scale")
	cmd.Flags().Int("sat", 0, "SAT score (0 if test-optional)")
	cmd.Flags().Int("ap-count", 0, "number of AP or IB courses")
	cmd.Flags().Bool("leadership", false, "holds a leadership position")
	cmd.Flags().Bool("test-optional", false, "applying test-optional")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runProfileSet(cmd *cobra.Command, _ []string) error {
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

	email, _ := cmd.Flags().GetString("email")
	gpa, _ := cmd.Flags().GetFloat64("gpa")
	sat, _ := cmd.Flags().GetInt("sat")
	apCount, _ := cmd.Flags().GetInt("ap-count")
	leadership, _ := cmd.Flags().GetBool("leadership")
	testOptional, _ := cmd.Flags().GetBool("test-optional")

	if gpa < 0 || gpa > 5.0 {
		return fmt.Errorf("gpa %.2f out of range", gpa)
	}

	profile := &model.StudentProfile{
		ID:           profileID,
		Email:        email,
		GPA:          gpa,
		TestScore:    sat,
		APCount:      apCount,
		Leadership:   leadership,
		TestOptional: testOptional,
	}
	if err := store.SaveProfile(ctx, profile); err != nil {
		return err
	}

	fmt.Println(cli.SuccessStyle.Render("Profile saved: " + profileID))
	return nil
}

func profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the student profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			profile, err := store.GetProfile(ctx, profileID)
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render("Student profile"))
			fmt.Printf("Email:         %s\n", profile.Email)
			fmt.Printf("GPA:           %.2f\n", profile.GPA)
			if profile.TestOptional {
				fmt.Println("SAT:           test-optional")
			} else {
				fmt.Printf("SAT:           %d\n", profile.TestScore)
			}
			fmt.Printf("AP courses:    %d\n", profile.APCount)
			fmt.Printf("Leadership:    %t\n", profile.Leadership)
			return nil
		},
	}
}
