package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mindsymphony/skillhub/pkg/config"
	"github.com/mindsymphony/skillhub/pkg/hub"
	"github.com/mindsymphony/skillhub/pkg/logger"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("SKILLHUB")
	viper.AutomaticEnv()
}

var rootCmd = &cobra.Command{
	Use:   "skillhub",
	Short: "Skill hub for discovering, evaluating, and adapting skills",
	Long: `skillhub searches skill upstreams (official registry, plugin marketplace,
code hosts, and the local catalogue), scores candidates across overlap,
functional match, quality, safety, and style anchors, and adapts accepted
skills into the local catalogue format.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			if err := logger.SetLogLevel(level); err != nil {
				return err
			}
		}
		if format, _ := cmd.Flags().GetString("log-format"); format != "" {
			logger.SetLogFormat(format)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

// bindFlags mirrors a flag set into viper so SKILLHUB_* environment
// variables can override any flag left at its default.
func bindFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		viper.BindPFlag(f.Name, f)
	})
}

// loadConfig reads the configuration honouring the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// openHub builds the full pipeline for commands that need it. Callers
// must Close the returned hub.
func openHub(cmd *cobra.Command) (*hub.Hub, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return hub.New(cmd.Context(), cfg)
}

func main() {
	rootCmd.PersistentFlags().String("config", "", "Path to the configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (json, text, fmt)")
	bindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(adaptCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
