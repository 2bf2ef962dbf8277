package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindsymphony/skillhub/pkg/adapter"
	"github.com/mindsymphony/skillhub/pkg/presenter"
)

var adaptCmd = &cobra.Command{
	Use:   "adapt <path>",
	Short: "Adapt a skill into the local catalogue format",
	Long: `Rewrite the skill at the given path (a markdown file or a skill
directory) into the catalogue's canonical form and file it under the
extensions tree.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		requirement, _ := cmd.Flags().GetString("requirement")
		register, _ := cmd.Flags().GetBool("auto-register")

		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		result, err := h.AdaptPath(cmd.Context(), path, requirement, register)
		if result != nil {
			for _, change := range result.Changes {
				presenter.Info("- " + change)
			}
			for _, warning := range result.Warnings {
				presenter.Warning(warning)
			}
		}
		if err != nil {
			return err
		}

		switch result.Status {
		case adapter.StatusSuccess:
			presenter.Success("Adapted to " + result.TargetPath)
		case adapter.StatusPartial:
			presenter.Warning(fmt.Sprintf("Adapted to %s with warnings: %s",
				result.TargetPath, strings.Join(result.Warnings, "; ")))
		}
		return nil
	},
}

func init() {
	adaptCmd.Flags().String("requirement", "", "Requirement text woven into the adapted document")
	adaptCmd.Flags().Bool("auto-register", false, "Register the adapted skill in the router table")
}
