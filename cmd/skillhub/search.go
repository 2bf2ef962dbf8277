package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindsymphony/skillhub/pkg/hub"
	"github.com/mindsymphony/skillhub/pkg/presenter"
	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search skill sources",
	Long: `Search every enabled source for skills matching the query. With
--evaluate each hit is also scored and its recommendation shown.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]
		sourceFlag, _ := cmd.Flags().GetString("source")
		evaluateHits, _ := cmd.Flags().GetBool("evaluate")
		requirement, _ := cmd.Flags().GetString("requirement")
		limit, _ := cmd.Flags().GetInt("limit")

		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		opts := hub.SearchOptions{Limit: limit}
		if sourceFlag != "" {
			opts.Source = skill.ParseSourceType(sourceFlag)
		}

		results, err := h.SearchAll(cmd.Context(), query, opts)
		if err != nil {
			presenter.Warning(fmt.Sprintf("some sources failed: %v", err))
		}
		if len(results) == 0 {
			presenter.Info("No skills found.")
			return nil
		}

		presenter.Section(fmt.Sprintf("Found %d skills", len(results)))
		for _, r := range results {
			presenter.Info(fmt.Sprintf("%-30s %-20s %s", r.Name, r.Source, r.Description))

			if evaluateHits {
				report, err := h.Evaluate(cmd.Context(), hub.Candidate{
					Source: r.Source,
					Name:   r.Name,
					URL:    r.URL,
				}, requirement)
				if err != nil {
					presenter.Warning(fmt.Sprintf("evaluation failed for %s: %v", r.Name, err))
					continue
				}
				presenter.Report(report)
				presenter.Separator()
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().String("source", "", "Restrict to one source (official_registry, plugin_marketplace, code_host, local)")
	searchCmd.Flags().Bool("evaluate", false, "Evaluate each result")
	searchCmd.Flags().String("requirement", "", "Requirement text for functional matching")
	searchCmd.Flags().Int("limit", 0, "Maximum results per source")
}
