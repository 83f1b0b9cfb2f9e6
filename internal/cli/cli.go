// Package cli implements the cropsignal command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cropsignal/cropsignal/pkg/alert"
	"github.com/cropsignal/cropsignal/pkg/buildinfo"
	"github.com/cropsignal/cropsignal/pkg/cache"
	"github.com/cropsignal/cropsignal/pkg/config"
	"github.com/cropsignal/cropsignal/pkg/history"
	"github.com/cropsignal/cropsignal/pkg/monitor"
	"github.com/cropsignal/cropsignal/pkg/sentinel"
)

// appName is the application name used for directories and display.
const appName = "cropsignal"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	envFile    string
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
		Use:          appName,
		Short:        "Cropsignal monitors corn belt vegetation health from satellite NDVI",
		Long:         `Cropsignal watches the top corn-producing counties via Sentinel-2 NDVI, compares each zone against its history and growth stage, and alerts on crop stress through Telegram and webhooks.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a TOML config file (defaults to built-in corn belt zones)")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", "", "path to a .env file with credentials")

	root.AddCommand(c.sweepCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.zonesCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.alertCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration honoring the --config and
// --env-file flags.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath, c.envFile)
}

// stack is the assembled set of components a sweep needs.
type stack struct {
	fetcher  sentinel.Fetcher
	store    history.Store
	notifier alert.Notifier
	webhook  *alert.Webhook
	cache    cache.Cache
}

// runner builds a sweep runner over the stack.
func (s *stack) runner(cfg *config.Config) *monitor.Runner {
	var opts []monitor.RunnerOption
	if s.webhook != nil {
		opts = append(opts, monitor.WithWebhook(s.webhook))
	}
	return monitor.NewRunner(*cfg, s.fetcher, s.store, s.notifier, opts...)
}

// close releases the stack's resources.
func (s *stack) close(ctx context.Context) {
	if s.store != nil {
		_ = s.store.Close(ctx)
	}
	if s.cache != nil {
		_ = s.cache.Close()
	}
}

// buildStack wires the fetcher, history store, and notifiers from the
// configuration. With simulate set, or when no Sentinel Hub credentials
// are configured, a deterministic simulator replaces the live fetcher.
func (c *CLI) buildStack(ctx context.Context, cfg *config.Config, noCache, simulate bool) (*stack, error) {
	s := &stack{}

	s.cache = newCache(ctx, cfg, noCache, c.Logger)

	creds := sentinel.Credentials{
		ClientID:     cfg.Secrets.ClientID,
		ClientSecret: cfg.Secrets.ClientSecret,
	}
	if simulate || creds.ClientID == "" {
		if !simulate {
			c.Logger.Warn("no Sentinel Hub credentials, using simulated NDVI")
		}
		s.fetcher = sentinel.NewSimulator()
	} else {
		client, err := sentinel.NewClient(creds, s.cache, cfg.CacheTTLOrDefault())
		if err != nil {
			return nil, err
		}
		s.fetcher = client
	}

	if cfg.Secrets.MongoURI != "" {
		store, err := history.NewMongoStore(ctx, cfg.Secrets.MongoURI)
		if err != nil {
			return nil, err
		}
		s.store = store
	} else {
		s.store = history.NewCSVStore(cfg.HistoryFile)
	}

	var channels alert.Multi
	if cfg.Secrets.TelegramTok != "" {
		tg, err := alert.NewTelegram(cfg.Secrets.TelegramTok, cfg.Secrets.TelegramChat)
		if err != nil {
			return nil, err
		}
		channels = append(channels, tg)
	}
	if cfg.Secrets.WebhookURL != "" {
		wh, err := alert.NewWebhook(cfg.Secrets.WebhookURL)
		if err != nil {
			return nil, err
		}
		s.webhook = wh
		channels = append(channels, wh)
	}
	if len(channels) > 0 {
		s.notifier = channels
	}

	return s, nil
}

// newCache picks the fetch-cache backend: Redis when configured, a file
// cache otherwise, and no cache at all as the last resort.
func newCache(ctx context.Context, cfg *config.Config, noCache bool, logger *log.Logger) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	if cfg.Secrets.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Secrets.RedisURL)
		if err == nil {
			return rc
		}
		logger.Warn("redis unavailable, falling back to file cache", "error", err)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// cacheDir returns the cache directory using XDG standard (~/.cache/cropsignal/).
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
