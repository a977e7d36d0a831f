// Package cli implements the perturbviz command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gemdiff/perturbviz/pkg/buildinfo"
	"github.com/gemdiff/perturbviz/pkg/cache"
	"github.com/gemdiff/perturbviz/pkg/config"
	"github.com/gemdiff/perturbviz/pkg/observability"
	"github.com/gemdiff/perturbviz/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "perturbviz"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string // --config; empty reads config.DefaultFile when present
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "PerturbViz visualizes perturbed genes in interaction networks",
		Long: `PerturbViz annotates a gene interaction network with perturbation and
differential expression status, lays it out, and renders category-coloured
network images together with a ranked table of the important genes.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+")")

	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.networkCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration & Runner Factory
// =============================================================================

// loadConfig resolves the layered configuration for cmd. A verbose setting
// from the file or environment raises the log level the same way -v does.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags(), c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		c.SetLogLevel(LogDebug)
	}
	if c.Logger.GetLevel() <= LogDebug {
		observability.NewLogHooks(c.Logger).Register()
	}
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	ttl, err := cfg.TTL()
	if err != nil {
		return nil, err
	}
	store, err := openCache(cfg, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, ttl, c.Logger)
	if cfg.StringURL != "" {
		r.Client.SetBaseURL(cfg.StringURL)
	}
	return r, nil
}

// openCache opens the configured backend. The file backend falls back to no
// caching when the user cache directory cannot be determined.
func openCache(cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache == cache.BackendNone {
		return cache.NewNullCache(), nil
	}
	dir := cfg.CacheDir
	if dir == "" && cfg.Cache != cache.BackendRedis {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.Open(cfg.Cache, dir, cfg.RedisURL)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/perturbviz/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
