/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/AzerQ/sed-notifications/internal/config"
	"github.com/AzerQ/sed-notifications/internal/logging"
)

var (
	cfgFile   string
	logLevel  string
	jsonLog   bool
	loadedCfg config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sed-notify",
	Short: "Notification center for the document management system",
	Long: `Notification center for the document management system.

Runs the reference notification backend, the terminal notification
panel, or one-shot producer commands against a running backend.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if jsonLog {
			cfg.Logging.JSON = true
		}
		loadedCfg = cfg
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/sed-notifications/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "emit logs as JSON")
}

func newLogger() logging.Logger {
	return logging.New(os.Stderr, logging.Options{
		Level: loadedCfg.Logging.Level,
		JSON:  loadedCfg.Logging.JSON,
	})
}
