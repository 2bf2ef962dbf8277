package main

import (
	"github.com/spf13/cobra"

	"github.com/mindsymphony/skillhub/pkg/hub"
	"github.com/mindsymphony/skillhub/pkg/presenter"
	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <name>",
	Short: "Evaluate a skill candidate",
	Long: `Run the full scoring pipeline for one skill: overlap against the local
catalogue, functional match against an optional requirement, quality,
safety, and style anchors, ending in a recommendation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		sourceFlag, _ := cmd.Flags().GetString("source")
		url, _ := cmd.Flags().GetString("url")
		requirement, _ := cmd.Flags().GetString("requirement")

		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		report, err := h.Evaluate(cmd.Context(), hub.Candidate{
			Source: skill.ParseSourceType(sourceFlag),
			Name:   name,
			URL:    url,
		}, requirement)
		if err != nil {
			return err
		}

		presenter.Report(report)
		return nil
	},
}

func init() {
	evaluateCmd.Flags().String("source", string(skill.SourceCodeHost), "Source the skill comes from")
	evaluateCmd.Flags().String("url", "", "Skill URL, required for code-host candidates")
	evaluateCmd.Flags().String("requirement", "", "Requirement text for functional matching")
}
