package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindsymphony/skillhub/pkg/presenter"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Drop stale cached metadata and search history",
	Long:  `Remove cached remote metadata and search history older than the retention window.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		removed, err := h.Cleanup(cmd.Context(), days)
		if err != nil {
			return err
		}

		presenter.Success(fmt.Sprintf("Removed %d stale rows", removed))
		return nil
	},
}

func init() {
	cleanupCmd.Flags().Int("days", 0, "Retention in days (defaults to the configured retention)")
}
