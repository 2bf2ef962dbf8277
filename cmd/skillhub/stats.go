package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mindsymphony/skillhub/pkg/presenter"
	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalogue statistics",
	Long:  `Show counts of cached remote skills, local skills, and recorded searches.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		ctx := cmd.Context()
		stats, err := h.Store().Stats(ctx)
		if err != nil {
			return err
		}

		presenter.Section("Catalogue statistics")
		presenter.Info(fmt.Sprintf("Local skills:         %d", stats.LocalSkills))
		presenter.Info(fmt.Sprintf("Cached remote skills: %d", stats.RemoteSkills))
		presenter.Info(fmt.Sprintf("Recorded searches:    %d", stats.Searches))

		if len(stats.RemoteBySource) > 0 {
			sourceNames := make([]string, 0, len(stats.RemoteBySource))
			for source := range stats.RemoteBySource {
				sourceNames = append(sourceNames, string(source))
			}
			sort.Strings(sourceNames)

			presenter.Separator()
			for _, source := range sourceNames {
				count := stats.RemoteBySource[skill.SourceType(source)]
				presenter.Info(fmt.Sprintf("  %-20s %d", source, count))
			}
		}

		recent, err := h.Store().RecentSearches(ctx, 5)
		if err == nil && len(recent) > 0 {
			presenter.Separator()
			presenter.Info("Recent searches:")
			for _, s := range recent {
				presenter.Info(fmt.Sprintf("  %q (%d results)", s.Query, s.ResultCount))
			}
		}
		return nil
	},
}
