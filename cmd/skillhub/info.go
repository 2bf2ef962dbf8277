package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mindsymphony/skillhub/pkg/presenter"
	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

var infoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show cached details of a skill",
	Long:  `Show what the hub knows about a skill, from the local inventory and the remote metadata cache.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		ctx := cmd.Context()
		found := false

		if local, err := h.Store().GetLocal(ctx, name); err == nil && local != nil {
			found = true
			presenter.Section(fmt.Sprintf("%s (local)", local.Name))
			presenter.Info("Path: " + local.Path)
			if local.Description != "" {
				presenter.Info("Description: " + local.Description)
			}
			if len(local.Tags) > 0 {
				presenter.Info("Tags: " + strings.Join(local.Tags, ", "))
			}
			for lang, phrases := range local.Triggers {
				presenter.Info(fmt.Sprintf("Triggers (%s): %s", lang, strings.Join(phrases, ", ")))
			}
		}

		for _, src := range h.Sources() {
			if src.Type() == skill.SourceLocal {
				continue
			}
			md, err := h.Store().GetRemote(ctx, src.Type(), name)
			if err != nil || md == nil {
				continue
			}
			found = true
			presenter.Section(fmt.Sprintf("%s (%s)", md.Name, md.Source))
			printMetadata(md)
		}

		if !found {
			return errors.Errorf("skill %q is not known; try search or fetch first", name)
		}
		return nil
	},
}

func printMetadata(md *skill.Metadata) {
	if md.Description != "" {
		presenter.Info("Description: " + md.Description)
	}
	if md.Author != "" {
		presenter.Info("Author: " + md.Author)
	}
	if md.URL != "" {
		presenter.Info("URL: " + md.URL)
	}
	if md.Popularity != nil {
		presenter.Info(fmt.Sprintf("Stars: %d  Forks: %d  Open issues: %d",
			md.Popularity.Stars, md.Popularity.Forks, md.Popularity.OpenIssues))
		if md.Popularity.License != "" {
			presenter.Info("License: " + md.Popularity.License)
		}
	}
	if len(md.Tags) > 0 {
		presenter.Info("Tags: " + strings.Join(md.Tags, ", "))
	}
	if !md.CachedAt.IsZero() {
		presenter.Info("Cached: " + md.CachedAt.Format("2006-01-02 15:04:05"))
	}
}
