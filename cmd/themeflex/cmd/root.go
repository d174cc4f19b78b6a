// Package cmd implements the CLI commands for themeflex.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/themeflex/internal/config"
	"github.com/jmylchreest/themeflex/internal/observability"
	"github.com/jmylchreest/themeflex/internal/service/logs"
	"github.com/jmylchreest/themeflex/internal/version"
)

// cfgFile holds the config file path from CLI flag.
var cfgFile string

// journal retains recent log records for the logs API. Set by initLogging.
var journal *logs.Journal

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "themeflex",
	Short:   "Themeable product showcase",
	Version: version.Short(),
	Long: `themeflex serves a small product showcase site whose look and layout
switch between three themes: Minimalist, Professional and Creative.

Products are fetched once from a remote catalog endpoint. The visitor's
theme choice is remembered in a cookie.`,
	SilenceUsage: true,
	// PersistentPreRunE is set in init() to avoid initialization cycle
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("executing root command: %w", err)
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return initLogging()
	}

	// Log flags are not bound to viper; they only override config and env
	// when explicitly given, keeping flag > env > config > default.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or $HOME/.themeflex/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (text, json)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home + "/.themeflex")
		viper.AddConfigPath("/etc/themeflex")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		cobra.CheckErr(fmt.Errorf("reading config file: %w", err))
	}
}

// initLogging configures the process logger. Priority (highest first):
//  1. CLI flags (--log-level, --log-format), only if explicitly provided
//  2. Environment variables (THEMEFLEX_LOGGING_LEVEL, THEMEFLEX_LOGGING_FORMAT)
//  3. Config file values
//  4. Built-in defaults (info, json)
//
// The level can be changed at runtime through the settings API.
func initLogging() error {
	flags := rootCmd.PersistentFlags()
	if flags.Changed("log-level") {
		level, _ := flags.GetString("log-level")
		level = strings.ToLower(level)
		if level == "warning" {
			level = "warn"
		}
		viper.Set("logging.level", level)
	}
	if flags.Changed("log-format") {
		format, _ := flags.GetString("log-format")
		viper.Set("logging.format", strings.ToLower(format))
	}

	logCfg := config.LoggingConfig{
		Level:          viper.GetString("logging.level"),
		Format:         viper.GetString("logging.format"),
		AddSource:      viper.GetBool("logging.add_source"),
		TimeFormat:     viper.GetString("logging.time_format"),
		RequestLogging: viper.GetBool("logging.request_logging"),
		RedactFields:   viper.GetStringSlice("logging.redact_fields"),
	}

	journal = logs.New(viper.GetInt("logging.journal_entries"))
	base := observability.NewLogger(logCfg)
	logger := observability.WithApp(slog.New(journal.WrapHandler(base.Handler())), version.ApplicationName)
	observability.SetDefault(logger)

	return nil
}

// loadConfig validates the merged flag, env, file and default settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mustBindPFlag binds a viper key to a cobra flag and panics if binding fails.
func mustBindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("failed to bind flag %q to key %q: %v", flag.Name, key, err))
	}
}
