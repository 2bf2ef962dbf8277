package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindsymphony/skillhub/pkg/presenter"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List local skills",
	Long:  `List the skills in the local catalogue, rescanning the skills directory first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		ctx := cmd.Context()
		if err := h.ScanLocal(ctx); err != nil {
			presenter.Warning(fmt.Sprintf("local scan failed: %v", err))
		}

		locals, err := h.Store().ListLocal(ctx)
		if err != nil {
			return err
		}
		if len(locals) == 0 {
			presenter.Info("No local skills found.")
			return nil
		}

		presenter.Section(fmt.Sprintf("%d local skills", len(locals)))
		for _, l := range locals {
			line := l.Name
			if l.Description != "" {
				line = fmt.Sprintf("%-30s %s", l.Name, l.Description)
			}
			presenter.Info(line)
			if len(l.Tags) > 0 {
				presenter.Info("  tags: " + strings.Join(l.Tags, ", "))
			}
		}
		return nil
	},
}
