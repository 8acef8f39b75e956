package organizer

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	dhowden "github.com/dhowden/tag"

	"ytsync/internal/fileutil"
	"ytsync/internal/logging"
	"ytsync/internal/services"
	"ytsync/internal/services/catalog"
	"ytsync/internal/textutil"
)

// Placer decides the final resting place of a downloaded file and returns
// the path the file ends up at.
type Placer interface {
	Place(ctx context.Context, path string) (string, error)
}

// FlatPlacer leaves files at their as-downloaded location. Used when no
// metadata catalog is configured.
type FlatPlacer struct{}

func (FlatPlacer) Place(_ context.Context, path string) (string, error) {
	return path, nil
}

// TagOrganizer moves files into <root>/<Artist>/<Album>/<Title>.<ext> based
// on embedded tags resolved against the metadata catalog.
type TagOrganizer struct {
	root    string
	catalog catalog.Searcher
	logger  *slog.Logger

	// Seams for tests; production values are set by NewTagOrganizer.
	readTags  func(path string) (title, artist string, err error)
	writeTags func(path string, match catalog.Match) error
	move      func(src, dst string) error
}

// NewTagOrganizer constructs a tag-based organizer rooted at root.
func NewTagOrganizer(root string, searcher catalog.Searcher, logger *slog.Logger) *TagOrganizer {
	return &TagOrganizer{
		root:      root,
		catalog:   searcher,
		logger:    logging.WithComponent(logger, "organizer"),
		readTags:  readEmbeddedTags,
		writeTags: writeID3Tags,
		move:      fileutil.MoveFile,
	}
}

// Place organizes one downloaded file. Missing tags or a catalog miss keep
// the file at its as-downloaded path; only filesystem and transport problems
// are reported as errors.
func (o *TagOrganizer) Place(ctx context.Context, path string) (string, error) {
	title, artist, err := o.readTags(path)
	if err != nil {
		o.logger.Warn("could not read embedded tags, keeping flat placement",
			logging.String("file", filepath.Base(path)), logging.Error(err))
		return path, nil
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(artist) == "" {
		o.logger.Warn("embedded tags incomplete, keeping flat placement",
			logging.String("file", filepath.Base(path)),
			logging.String("title", title), logging.String("artist", artist))
		return path, nil
	}

	match, err := o.catalog.Lookup(ctx, title, artist)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			o.logger.Warn("no catalog match, keeping flat placement",
				logging.String("file", filepath.Base(path)),
				logging.String("title", title), logging.String("artist", artist))
			return path, nil
		}
		return "", services.Wrap(services.ErrTransient, "organizer", "catalog lookup", filepath.Base(path), err)
	}

	if err := o.writeTags(path, *match); err != nil {
		return "", services.Wrap(services.ErrTransient, "organizer", "rewrite tags", filepath.Base(path), err)
	}

	dest := filepath.Join(
		o.root,
		textutil.SanitizePathComponent(match.Artist),
		textutil.SanitizePathComponent(match.Album),
		textutil.SanitizePathComponent(match.Title)+strings.ToLower(filepath.Ext(path)),
	)
	if err := o.move(path, dest); err != nil {
		return "", services.Wrap(services.ErrTransient, "organizer", "move to library", filepath.Base(path), err)
	}

	o.logger.Info("organized file",
		logging.String("artist", match.Artist),
		logging.String("album", match.Album),
		logging.String("final_path", dest))
	return dest, nil
}

func readEmbeddedTags(path string) (string, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	meta, err := dhowden.ReadFrom(file)
	if err != nil {
		return "", "", err
	}
	return meta.Title(), meta.Artist(), nil
}

// writeID3Tags persists the canonical triple into the file's ID3v2 header.
// Non-MP3 containers keep their existing tags; they are still organized by
// the resolved metadata.
func writeID3Tags(path string, match catalog.Match) error {
	if strings.ToLower(filepath.Ext(path)) != ".mp3" {
		return nil
	}
	id3, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer id3.Close()

	id3.SetArtist(match.Artist)
	id3.SetAlbum(match.Album)
	id3.SetTitle(match.Title)
	return id3.Save()
}
