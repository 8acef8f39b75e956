package workflow

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ytsync/internal/config"
	"ytsync/internal/logging"
	"ytsync/internal/notifications"
	"ytsync/internal/organizer"
	"ytsync/internal/services/ytdl"
	"ytsync/internal/textutil"
)

// Source is the media source surface the orchestrator drives.
type Source interface {
	Login(ctx context.Context, username, password string) error
	List(ctx context.Context) ([]ytdl.RemoteFile, error)
	Download(ctx context.Context, file ytdl.RemoteFile, destPath string) error
	Delete(ctx context.Context, file ytdl.RemoteFile) error
}

// Rescanner triggers a media server library rescan.
type Rescanner interface {
	Refresh(ctx context.Context, sectionID string) error
}

// Summary aggregates per-file outcomes for logging. Nothing is persisted
// between runs; idempotence relies on skip-if-exists and remote deletion.
type Summary struct {
	Listed      int
	Downloaded  int
	Skipped     int
	Failed      int
	FailedFiles []string
	Duration    time.Duration
}

// Orchestrator runs one sync pass.
type Orchestrator struct {
	cfg      *config.Config
	logger   *slog.Logger
	source   Source
	placer   organizer.Placer
	rescan   Rescanner // nil when the plex group is not configured
	notifier notifications.Service
}

// New constructs an orchestrator. rescan may be nil when no library server
// is configured; notifier must not be nil (use the noop service).
func New(cfg *config.Config, logger *slog.Logger, source Source, placer organizer.Placer, rescan Rescanner, notifier notifications.Service) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "sync"),
		source:   source,
		placer:   placer,
		rescan:   rescan,
		notifier: notifier,
	}
}

// Run executes the pass: authenticate, list, per-file sync, optional
// deferred cleanup, rescan, notify. The returned error is non-nil only for
// fatal conditions (auth or listing); per-file failures are reflected in
// the summary.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	var summary Summary

	if o.cfg.Source.Username != "" && o.cfg.Source.Password != "" {
		if err := o.source.Login(ctx, o.cfg.Source.Username, o.cfg.Source.Password); err != nil {
			o.notifyFailure(ctx, err)
			return summary, err
		}
		o.logger.Info("authenticated with media source")
	} else {
		o.logger.Warn("no source credentials configured, syncing unauthenticated")
	}

	files, err := o.source.List(ctx)
	if err != nil {
		o.notifyFailure(ctx, err)
		return summary, err
	}
	summary.Listed = len(files)

	if len(files) == 0 {
		o.logger.Info("no remote files to sync")
		o.triggerRescan(ctx)
		summary.Duration = time.Since(start)
		return summary, nil
	}

	o.logger.Info("starting sync pass",
		logging.Int("files", len(files)),
		logging.String("download_dir", o.cfg.Paths.DownloadDir))
	o.publish(ctx, notifications.EventSyncStarted, notifications.Payload{
		"count":  strconv.Itoa(len(files)),
		"source": o.cfg.Source.URL,
	})

	if err := os.MkdirAll(o.cfg.Paths.DownloadDir, 0o755); err != nil {
		o.notifyFailure(ctx, err)
		return summary, err
	}

	var synced []ytdl.RemoteFile
	for _, file := range files {
		dest := o.destPath(file)

		if _, err := os.Stat(dest); err == nil {
			o.logger.Info("file already exists, skipping",
				logging.String("file", file.Name()))
			summary.Skipped++
			continue
		}

		if err := o.syncFile(ctx, file, dest); err != nil {
			o.logger.Error("file sync failed",
				logging.String("file", file.Name()),
				logging.Error(err))
			summary.Failed++
			summary.FailedFiles = append(summary.FailedFiles, file.Name())
			continue
		}
		summary.Downloaded++
		synced = append(synced, file)
	}

	if o.cfg.Source.DeferredCleanup {
		o.cleanupSynced(ctx, synced)
	}

	o.triggerRescan(ctx)

	summary.Duration = time.Since(start)
	o.logger.Info("sync pass completed",
		logging.Int("downloaded", summary.Downloaded),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Duration("duration", summary.Duration))
	o.publish(ctx, notifications.EventSyncCompleted, notifications.Payload{
		"downloaded": strconv.Itoa(summary.Downloaded),
		"skipped":    strconv.Itoa(summary.Skipped),
		"failed":     strconv.Itoa(summary.Failed),
		"duration":   summary.Duration.Round(time.Second).String(),
	})
	return summary, nil
}

// syncFile downloads, places, and (unless cleanup is deferred) deletes one
// remote file. The remote delete happens only after the local artifact is
// durably at its final path.
func (o *Orchestrator) syncFile(ctx context.Context, file ytdl.RemoteFile, dest string) error {
	o.logger.Info("downloading file", logging.String("file", file.Name()))
	if err := o.source.Download(ctx, file, dest); err != nil {
		return err
	}

	final, err := o.placer.Place(ctx, dest)
	if err != nil {
		return err
	}

	if !o.cfg.Source.DeferredCleanup {
		if err := o.source.Delete(ctx, file); err != nil {
			return err
		}
	}

	o.logger.Info("file synced",
		logging.String("file", file.Name()),
		logging.String("final_path", final))
	return nil
}

// cleanupSynced issues the deferred remote deletes. Only files that were
// successfully placed in this run are deleted; a failed download never
// loses its remote copy.
func (o *Orchestrator) cleanupSynced(ctx context.Context, synced []ytdl.RemoteFile) {
	if len(synced) == 0 {
		return
	}
	o.logger.Info("cleaning up synced files from media source",
		logging.Int("files", len(synced)))
	for _, file := range synced {
		if err := o.source.Delete(ctx, file); err != nil {
			o.logger.Error("remote cleanup failed",
				logging.String("file", file.Name()),
				logging.Error(err))
		}
	}
}

func (o *Orchestrator) triggerRescan(ctx context.Context) {
	if o.rescan == nil || !o.cfg.PlexConfigured() {
		return
	}
	if err := o.rescan.Refresh(ctx, o.cfg.Plex.SectionID); err != nil {
		o.logger.Warn("library rescan failed",
			logging.String("section", o.cfg.Plex.SectionID),
			logging.Error(err))
		return
	}
	o.logger.Info("library rescan triggered",
		logging.String("section", o.cfg.Plex.SectionID))
}

// destPath maps a remote file to its local landing path. The remote path's
// base name decides the filename, falling back to the title and then the
// UID. Both path and title are remote-supplied, so only their final
// component is used and reserved characters are scrubbed.
func (o *Orchestrator) destPath(file ytdl.RemoteFile) string {
	name := baseName(file.Path)
	if name == "" {
		name = baseName(file.Title)
	}
	if name == "" {
		name = file.UID
	}
	return filepath.Join(o.cfg.Paths.DownloadDir, textutil.SanitizePathComponent(name))
}

func baseName(value string) string {
	name := filepath.Base(filepath.FromSlash(value))
	switch name {
	case ".", "..", string(filepath.Separator):
		return ""
	}
	return strings.TrimSpace(name)
}

func (o *Orchestrator) notifyFailure(ctx context.Context, cause error) {
	o.publish(ctx, notifications.EventSyncFailed, notifications.Payload{"error": cause.Error()})
}

func (o *Orchestrator) publish(ctx context.Context, event notifications.Event, payload notifications.Payload) {
	if o.notifier == nil {
		return
	}
	if err := o.notifier.Publish(ctx, event, payload); err != nil {
		o.logger.Warn("notification failed", logging.Error(err))
	}
}
