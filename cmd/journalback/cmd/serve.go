package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xybyte/journalback/pkg/api"
	"github.com/xybyte/journalback/pkg/config"
	"github.com/xybyte/journalback/pkg/export"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [files...]",
	Short: "Serve export files over HTTP",
	Long: `Serve journal export files through a gatewayd-style HTTP API.

Entries are decoded on every request; nothing is indexed or cached.

Example:
  journalback serve --port 19531 backup.export.gz
  curl 'localhost:19531/api/v1/entries?unit=sshd.service&lines=50'`,
	Args:         cobra.ArbitraryArgs,
	RunE:         runServe,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("config", "", "Path to config file")
	serveCmd.Flags().String("bind", "", "Bind address (overrides config)")
	serveCmd.Flags().Int("port", 0, "Port (overrides config)")
	serveCmd.Flags().String("api-key", "", "Require X-API-Key on API routes (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadServeConfig(cmd)
	if err != nil {
		return err
	}

	files := args
	if len(files) == 0 {
		files = cfg.Files
	}
	if len(files) == 0 {
		return fmt.Errorf("no export files: pass them as arguments or set them in %s", config.GetDefaultConfigPath())
	}

	mode, err := export.ParseOutputMode(cfg.Output)
	if err != nil {
		return err
	}
	if !mode.Implemented() {
		return fmt.Errorf("output mode %q not implemented", mode)
	}

	logger := newLogger(cfg.Logging.Level)
	defer func() { _ = logger.Sync() }()

	return api.Start(api.ServerConfig{
		Bind:          cfg.Bind,
		Port:          cfg.Port,
		APIKey:        cfg.APIKey,
		Files:         files,
		DefaultOutput: mode,
	}, logger)
}

// loadServeConfig merges defaults, an optional config file, and flag
// overrides, in that order.
func loadServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	path, _ := cmd.Flags().GetString("config")
	explicit := path != ""
	if !explicit {
		path = config.GetDefaultConfigPath()
	}
	if explicit || config.ConfigExists(path) {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		if loaded.Bind == "" {
			loaded.Bind = cfg.Bind
		}
		if loaded.Port == 0 {
			loaded.Port = cfg.Port
		}
		if loaded.Logging.Level == "" {
			loaded.Logging.Level = cfg.Logging.Level
		}
		cfg = loaded
	}

	if v, _ := cmd.Flags().GetString("bind"); v != "" {
		cfg.Bind = v
	}
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		cfg.Port = v
	}
	if v, _ := cmd.Flags().GetString("api-key"); v != "" {
		cfg.APIKey = v
	}
	return cfg, nil
}
