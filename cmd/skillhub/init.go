package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mindsymphony/skillhub/pkg/presenter"
)

// defaultConfigTemplate is written by skillhub init. Values mirror the
// built-in defaults so the file is self-documenting.
const defaultConfigTemplate = `sources:
  official_registry:
    enabled: true
    priority: 1
    tool: skillslm
  local:
    enabled: true
    priority: 2
  plugin_marketplace:
    enabled: true
    priority: 3
    tool: 42plugin
    api_key_env: SKILLHUB_MARKETPLACE_API_KEY
  code_host:
    enabled: true
    priority: 4
    api_key_env: GITHUB_TOKEN

evaluation:
  overlap_threshold: 0.8
  quality_threshold: 0.6
  auto_adapt: true

integration:
  skills_path: ~/.claude/skills
  auto_register: true
  scan_on_startup: true

security:
  scan_on_install: true
  allow_unknown_sources: false
  max_dependency_count: 20

cache:
  retention_days: 7
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the default configuration file",
	Long:  `Write a commented default configuration to ~/.skillhub/skillhub-config.yaml.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "resolve home directory")
		}

		dir := filepath.Join(home, ".skillhub")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create config directory")
		}

		path := filepath.Join(dir, "skillhub-config.yaml")
		if _, err := os.Stat(path); err == nil {
			presenter.Warning(fmt.Sprintf("Config already exists at %s, leaving it alone", path))
			return nil
		}

		if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o644); err != nil {
			return errors.Wrap(err, "write config file")
		}

		presenter.Success("Wrote " + path)
		return nil
	},
}
