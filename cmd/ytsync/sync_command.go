package main

import (
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"ytsync/internal/config"
	"ytsync/internal/lockfile"
	"ytsync/internal/logging"
	"ytsync/internal/notifications"
	"ytsync/internal/organizer"
	"ytsync/internal/services"
	"ytsync/internal/services/catalog"
	"ytsync/internal/services/plex"
	"ytsync/internal/services/ytdl"
	"ytsync/internal/workflow"
)

type syncFlags struct {
	sourceURL       string
	apiKey          string
	username        string
	password        string
	plexURL         string
	plexToken       string
	sectionID       string
	downloadDir     string
	lockFile        string
	deferredCleanup bool
}

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var flags syncFlags

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one sync pass against the remote download manager",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			applySyncFlags(cfg, cmd, &flags)
			if err := cfg.RequireSource(); err != nil {
				return err
			}
			return runSync(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&flags.sourceURL, "url", "", "Download manager base URL")
	cmd.Flags().StringVar(&flags.apiKey, "api-key", "", "Download manager API key")
	cmd.Flags().StringVar(&flags.username, "username", "", "Download manager username")
	cmd.Flags().StringVar(&flags.password, "password", "", "Download manager password")
	cmd.Flags().StringVar(&flags.plexURL, "plex-url", "", "Plex server base URL")
	cmd.Flags().StringVar(&flags.plexToken, "plex-token", "", "Plex authentication token")
	cmd.Flags().StringVar(&flags.sectionID, "plex-section", "", "Plex music section ID to rescan")
	cmd.Flags().StringVar(&flags.downloadDir, "download-dir", "", "Local directory for synced files")
	cmd.Flags().StringVar(&flags.lockFile, "lock-file", "", "Path of the single-instance lock file")
	cmd.Flags().BoolVar(&flags.deferredCleanup, "deferred-cleanup", false, "Delete remote files after the whole pass instead of per file")

	return cmd
}

// applySyncFlags merges explicitly-set flags over the loaded configuration.
// Unset flags leave config and environment values untouched.
func applySyncFlags(cfg *config.Config, cmd *cobra.Command, flags *syncFlags) {
	set := func(name string, target *string, value string) {
		if cmd.Flags().Changed(name) {
			*target = value
		}
	}
	set("url", &cfg.Source.URL, flags.sourceURL)
	set("api-key", &cfg.Source.APIKey, flags.apiKey)
	set("username", &cfg.Source.Username, flags.username)
	set("password", &cfg.Source.Password, flags.password)
	set("plex-url", &cfg.Plex.URL, flags.plexURL)
	set("plex-token", &cfg.Plex.Token, flags.plexToken)
	set("plex-section", &cfg.Plex.SectionID, flags.sectionID)
	set("download-dir", &cfg.Paths.DownloadDir, flags.downloadDir)
	set("lock-file", &cfg.Paths.LockFile, flags.lockFile)
	if cmd.Flags().Changed("deferred-cleanup") {
		cfg.Source.DeferredCleanup = flags.deferredCleanup
	}
}

func runSync(cmd *cobra.Command, cfg *config.Config) error {
	// Directories must exist before the logger opens the log file.
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	lock, err := lockfile.Acquire(cfg.Paths.LockFile)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyRunning) {
			logger.Warn("another instance holds the lock, exiting",
				logging.String("lock_file", cfg.Paths.LockFile))
			return nil
		}
		return err
	}
	defer lock.Release()

	source, err := ytdl.New(cfg.Source.URL, cfg.Source.APIKey,
		ytdl.WithTimeout(time.Duration(cfg.Source.Timeout)*time.Second))
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "ytdl", "create client", "", err)
	}

	placer, err := newPlacer(cfg, logger)
	if err != nil {
		return err
	}

	var rescan workflow.Rescanner
	if cfg.PlexConfigured() {
		client, err := plex.New(cfg.Plex.URL, cfg.Plex.Token,
			plex.WithTimeout(time.Duration(cfg.Plex.Timeout)*time.Second))
		if err != nil {
			return services.Wrap(services.ErrConfiguration, "plex", "create client", "", err)
		}
		rescan = client
	}

	notifier := notifications.NewService(cfg)

	orchestrator := workflow.New(cfg, logger, source, placer, rescan, notifier)
	summary, err := orchestrator.Run(cmd.Context())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		logger.Warn("sync finished with failures",
			logging.Int("failed", summary.Failed))
	}
	return nil
}

func newPlacer(cfg *config.Config, logger *slog.Logger) (organizer.Placer, error) {
	if !cfg.Catalog.Enabled {
		return organizer.FlatPlacer{}, nil
	}
	searcher, err := catalog.New(cfg.Catalog.BaseURL,
		catalog.WithTimeout(time.Duration(cfg.Catalog.Timeout)*time.Second),
		catalog.WithLimit(cfg.Catalog.Limit))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "create client", "", err)
	}
	return organizer.NewTagOrganizer(cfg.Paths.DownloadDir, searcher, logger), nil
}
