package main

import (
	"github.com/spf13/cobra"

	"github.com/mindsymphony/skillhub/pkg/hub"
	"github.com/mindsymphony/skillhub/pkg/presenter"
	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <name>",
	Short: "Download a skill",
	Long: `Download a skill from its source. With --adapt the skill is evaluated
after download and, when the recommendation permits, rewritten into the
local catalogue.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		sourceFlag, _ := cmd.Flags().GetString("source")
		dest, _ := cmd.Flags().GetString("dest")
		adaptAfter, _ := cmd.Flags().GetBool("adapt")
		requirement, _ := cmd.Flags().GetString("requirement")

		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		result, err := h.Fetch(cmd.Context(), hub.Candidate{
			Source: skill.ParseSourceType(sourceFlag),
			Name:   name,
		}, hub.FetchOptions{
			Dest:        dest,
			Adapt:       adaptAfter,
			Requirement: requirement,
		})
		if err != nil {
			return err
		}

		presenter.Success("Downloaded to " + result.Path)
		if result.Report != nil {
			presenter.Report(result.Report)
		}
		if result.Adapted != nil {
			presenter.Success("Adapted to " + result.Adapted.TargetPath)
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().String("source", string(skill.SourceOfficialRegistry), "Source to download from")
	fetchCmd.Flags().String("dest", "", "Download directory (defaults to the cache)")
	fetchCmd.Flags().Bool("adapt", false, "Evaluate and adapt after download")
	fetchCmd.Flags().String("requirement", "", "Requirement text for functional matching")
}
