package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/opgraph/opgraph/pkg/buildinfo"
	"github.com/opgraph/opgraph/pkg/cache"
	"github.com/opgraph/opgraph/pkg/item"
	"github.com/opgraph/opgraph/pkg/model"
	"github.com/opgraph/opgraph/pkg/observability"
	"github.com/opgraph/opgraph/pkg/pipeline"
	"github.com/opgraph/opgraph/pkg/settings"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "opgraph"

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
	Logger   *log.Logger
	Settings settings.Settings

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		Settings: settings.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "opgraph inspects the operations tree and dataflow of a cluster",
		Long: `opgraph loads a configuration snapshot of a stream processing cluster and
shows its sites, programs and functions as a tree, a table or a node-link
graph, with the dataflow between functions.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/opgraph/config.toml)")

	root.AddCommand(c.treeCommand())
	root.AddCommand(c.tableCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.lineageCommand())
	root.AddCommand(c.findCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies --verbose, loads the config file and installs the load
// hooks before any command runs.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}

	path := c.configPath
	if path == "" {
		var err error
		if path, err = settings.DefaultPath(); err != nil {
			c.Logger.Debug("no config directory", "err", err)
			path = ""
		}
	}
	if path != "" {
		s, err := settings.Load(path)
		if err != nil {
			return err
		}
		c.Settings = s
		c.Logger.Debug("settings loaded", "path", path)
	}

	observability.SetLoadHooks(&loadLogger{logger: c.Logger})
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Model Loading
// =============================================================================

// loadModel decodes the snapshot at path with the configured layout and
// styles. Rejected entries are logged and the partial model is returned.
func (c *CLI) loadModel(ctx context.Context, path string) (*model.Model, error) {
	opts := c.Settings.ModelOptions()
	opts.Logger = c.Logger
	m, err := model.Load(ctx, path, opts)
	if m == nil {
		return nil, err
	}
	if err != nil {
		c.Logger.Warn("some entries were rejected", "path", path, "count", len(joined(err)))
	}
	return m, nil
}

// joined unpacks an errors.Join result.
func joined(err error) []error {
	var j interface{ Unwrap() []error }
	if errors.As(err, &j) {
		return j.Unwrap()
	}
	return []error{err}
}

// columns resolves a --columns flag. Empty uses the configured columns,
// "all" selects every column.
func (c *CLI) columns(flag string) ([]item.Column, error) {
	switch strings.TrimSpace(flag) {
	case "":
		return c.Settings.Columns()
	case "all":
		return item.Columns(), nil
	}
	var names []string
	for _, n := range strings.Split(flag, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return settings.ParseColumns(names)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(noCache || c.Settings.Render.NoCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/opgraph/).
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
