package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/launchpad-edu/launchpad/internal/cli"
)

func recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Generate LLM school recommendations",
		Long: `Ask the configured LLM provider for school recommendations based on the
current college list. Schools already on the list are filtered out.`,
		RunE: runRecommend,
	}

	cmd.Flags().Int("count", 5, "how many schools to request")

	return cmd
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	profileID, err := requireProfileID()
	if err != nil {
		return err
	}

	eng, store, err := newEngine(ctx, true)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	count, _ := cmd.Flags().GetInt("count")

	result, err := eng.Recommend(ctx, profileID, count)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render("Recommended schools"))
	fmt.Println(cli.RenderRecommendations(result.Recommendations))
	fmt.Println(cli.SubtleStyle.Render("session " + result.SessionID))
	return nil
}
