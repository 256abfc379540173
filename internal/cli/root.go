// Package cli implements the pagecursor command-line tool.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/pagecursor"
	"github.com/spf13/cobra"
)

// Version is the CLI version.
var Version = "dev"

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	logJSON    bool

	minioEndpoint string
	minioSecure   bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "pagecursor",
		Short: "Page through SQLite and Parquet tables with a windowed row cache",
		Long: `pagecursor walks the rows of a SQLite query or a Parquet file through a
cursor that caches rows a page at a time, and reports how many pages it loaded.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "JSONC config file with defaults")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&g.logJSON, "log-json", false, "Emit logs as JSON")
	root.PersistentFlags().StringVar(&g.minioEndpoint, "minio-endpoint", "", "MinIO endpoint (host:port) for minio:// locations")
	root.PersistentFlags().BoolVar(&g.minioSecure, "minio-secure", false, "Use TLS for the MinIO endpoint")

	root.AddCommand(newScanCmd(g), newSchemaCmd(g))
	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig merges the config file with explicitly set persistent flags.
func (g *globalFlags) loadConfig(cmd *cobra.Command) (Config, error) {
	cfg, err := LoadConfig(g.configPath)
	if err != nil {
		return Config{}, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.LogJSON = g.logJSON
	}
	if cmd.Flags().Changed("minio-endpoint") {
		cfg.MinIO.Endpoint = g.minioEndpoint
	}
	if cmd.Flags().Changed("minio-secure") {
		cfg.MinIO.Secure = g.minioSecure
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg Config, w io.Writer) *pagecursor.Logger {
	level, _ := parseLevel(cfg.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogJSON {
		return pagecursor.NewLogger(slog.NewJSONHandler(w, opts))
	}
	return pagecursor.NewLogger(slog.NewTextHandler(w, opts))
}
