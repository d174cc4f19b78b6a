package cmd

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/themeflex/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  `Commands for managing themeflex configuration.`,
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the effective configuration",
	Long: `Dump the effective configuration in YAML format.

Without a config file or THEMEFLEX_ environment variables this shows every
option with its default value, so the output can seed a config file:

  themeflex config dump > config.yaml

Configuration can be set via:
  - Config file (./config.yaml, $HOME/.themeflex/config.yaml, /etc/themeflex/config.yaml)
  - Environment variables (THEMEFLEX_SERVER_PORT, THEMEFLEX_CATALOG_ENDPOINT, etc.)
  - Command-line flags (for some options)

Environment variables use the THEMEFLEX_ prefix and underscores for nesting.
Example: server.port -> THEMEFLEX_SERVER_PORT`,
	RunE: runConfigDump,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configDumpCmd)
}

func runConfigDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return writeConfig(cmd.OutOrStdout(), cfg)
}

// writeConfig renders cfg as a commented YAML document.
func writeConfig(w io.Writer, cfg *config.Config) error {
	yamlData, err := yaml.Marshal(toMap(cfg))
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	header := []string{
		"# themeflex Configuration File",
		"# ============================",
		"#",
		"# Duration format: 400ms, 30s, 5m, 8760h",
		"# Size format: 512KiB, 5MiB",
		"#",
		"# Environment variable overrides:",
		"#   THEMEFLEX_SERVER_HOST, THEMEFLEX_SERVER_PORT",
		"#   THEMEFLEX_CATALOG_ENDPOINT, THEMEFLEX_CATALOG_TIMEOUT",
		"#   THEMEFLEX_THEME_DEFAULT",
		"#   THEMEFLEX_LOGGING_LEVEL, THEMEFLEX_LOGGING_FORMAT",
		"#   etc.",
		"",
		"",
	}
	if _, err := io.WriteString(w, strings.Join(header, "\n")); err != nil {
		return err
	}
	_, err = w.Write(yamlData)
	return err
}

// toMap converts a struct to a map keyed by mapstructure tags, formatting
// durations and byte sizes for humans.
func toMap(v any) map[string]any {
	result := make(map[string]any)
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		key := fieldType.Tag.Get("mapstructure")
		if key == "" {
			key = strings.ToLower(fieldType.Name)
		}

		switch fv := field.Interface().(type) {
		case time.Duration:
			result[key] = fv.String()
		case int64:
			if strings.Contains(key, "size") {
				result[key] = strings.ReplaceAll(humanize.IBytes(uint64(fv)), " ", "")
			} else {
				result[key] = fv
			}
		default:
			if field.Kind() == reflect.Struct {
				result[key] = toMap(fv)
			} else {
				result[key] = fv
			}
		}
	}
	return result
}
