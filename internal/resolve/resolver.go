// Package resolve decides, for a single MP3 file, the final artist, title,
// album and cover, and whether the file has to be rewritten.
//
// Resolution runs these steps in order, each one skippable:
//
//  1. Load the current tags
//  2. Stop early if everything is present (unless forced)
//  3. Merge values extracted from the filename
//  4. Look up the album name
//  5. Fetch a cover (through the run's cover cache)
//  6. Sanitize and diff against the loaded tags
//  7. Save if anything changed, a cover was fetched, or forced
package resolve

import (
	"context"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/handiism/mp3norm/internal/cover"
	"github.com/handiism/mp3norm/internal/extract"
	ioutils "github.com/handiism/mp3norm/internal/io"
	"github.com/handiism/mp3norm/internal/model"
)

// TagStore loads and saves the tags of a file.
type TagStore interface {
	Load(path string) (model.TrackMetadata, error)
	Save(path string, tags model.Tags) error
}

// AlbumLookup finds the album of a song. It reports false when no album
// can be determined; failures are handled internally.
type AlbumLookup interface {
	LookupAlbum(ctx context.Context, artist, title string) (string, bool)
}

// CoverFetcher retrieves cover art. It reports false when nothing was
// found.
type CoverFetcher interface {
	Fetch(ctx context.Context, artist, album string, resolution int) ([]byte, bool)
}

// Options are the run-wide switches that drive resolution.
type Options struct {
	// Extract enables filename extraction with Pattern.
	Extract bool
	Pattern *regexp.Regexp

	// FetchAlbum enables the album lookup.
	FetchAlbum bool

	// FetchCover enables the cover lookup. It also implies an album
	// lookup, since the album names the cover search.
	FetchCover bool

	// CoverResolution is passed to the cover fetcher verbatim.
	CoverResolution int

	// Force re-derives and rewrites tags even when they look complete.
	Force bool
}

// Resolver runs the resolution pipeline for one file at a time.
type Resolver struct {
	store  TagStore
	albums AlbumLookup
	covers CoverFetcher
	cache  *cover.Cache
	opts   Options
}

// New creates a Resolver. albums and covers may be nil when the matching
// option is disabled. cache is shared by every file of a run; a nil cache
// gets a private one.
func New(store TagStore, albums AlbumLookup, covers CoverFetcher, cache *cover.Cache, opts Options) *Resolver {
	if cache == nil {
		cache = cover.NewCache()
	}
	if opts.CoverResolution <= 0 {
		opts.CoverResolution = cover.DefaultResolution
	}
	return &Resolver{
		store:  store,
		albums: albums,
		covers: covers,
		cache:  cache,
		opts:   opts,
	}
}

// Resolve processes one file and reports its outcome. Index is left for
// the caller to fill in.
func (r *Resolver) Resolve(ctx context.Context, path string) model.Outcome {
	out := model.Outcome{Path: path, Filename: filepath.Base(path)}
	logger := log.With().Str("file", out.Filename).Logger()

	// 1. Load
	orig, err := r.store.Load(path)
	if err != nil {
		logger.Debug().Err(err).Msg("Can't load tags")
		out.Status = model.StatusLoadFailed
		out.Err = err
		return out
	}
	logMeta(logger.Debug(), orig).Msg("Current tags")

	// 2. Completeness
	if orig.Complete() && !r.opts.Force {
		out.Status = model.StatusSkipped
		return out
	}

	meta := orig
	meta.Cover = nil

	// 3. Extraction
	if r.opts.Extract && (meta.MissingText() || r.opts.Force) {
		ext, ok := extract.Extract(path, r.opts.Pattern)
		if !ok {
			out.Status = model.StatusInvalidFilename
			return out
		}
		logger.Debug().
			Str("artist", model.Display(ext.Artist)).
			Str("title", model.Display(ext.Title)).
			Str("album", model.Display(ext.Album)).
			Msg("Tags extracted from filename")
		merge(&meta, ext, r.opts.Force)
	}

	// 4. Album
	if (r.opts.FetchAlbum || r.opts.FetchCover) && (!model.IsSet(meta.Album) || r.opts.Force) && r.albums != nil {
		meta.Album = nil
		if album, ok := r.albums.LookupAlbum(ctx, model.Value(meta.Artist), model.Value(meta.Title)); ok {
			meta.Album = model.String(album)
		}
	}

	// 5. Cover
	if r.opts.FetchCover && (!orig.HasCover || r.opts.Force) && r.covers != nil {
		albumOrTitle := model.Value(meta.Album)
		if albumOrTitle == "" {
			albumOrTitle = model.Value(meta.Title)
		}
		if data, ok := r.cache.GetOrFetch(ctx, model.Value(meta.Artist), albumOrTitle, r.opts.CoverResolution, r.covers.Fetch); ok {
			meta.Cover = data
			meta.HasCover = true
		}
	}

	// 6. Sanitize and diff
	tags := model.Tags{
		Artist: ioutils.SanitizeTag(meta.Artist),
		Title:  ioutils.SanitizeTag(meta.Title),
		Album:  ioutils.SanitizeTag(meta.Album),
		Cover:  meta.Cover,
	}
	final := model.TrackMetadata{
		Artist:   optional(tags.Artist),
		Title:    optional(tags.Title),
		Album:    optional(tags.Album),
		HasCover: meta.HasCover,
		Cover:    meta.Cover,
	}
	out.Final = &final
	logMeta(logger.Debug(), final).Msg("Definitive tags")

	changed := tags.Artist != model.Value(orig.Artist) ||
		tags.Title != model.Value(orig.Title) ||
		tags.Album != model.Value(orig.Album) ||
		len(tags.Cover) > 0

	// 7. Persist
	if !changed && !r.opts.Force {
		out.Status = model.StatusSkipped
		return out
	}
	if err := r.store.Save(path, tags); err != nil {
		logger.Debug().Err(err).Msg("Can't save tags")
		out.Status = model.StatusSaveFailed
		out.Err = err
		return out
	}
	out.Status = model.StatusUpdated
	return out
}

// merge applies extracted values to meta.
//
// Without force a field keeps its value when non-empty and otherwise takes
// the extracted one, which may be nil. With force every captured field
// wins; uncaptured fields are left alone.
func merge(meta *model.TrackMetadata, ext *model.Extraction, force bool) {
	pick := func(current, extracted *string) *string {
		if force {
			if extracted != nil {
				return extracted
			}
			return current
		}
		if model.IsSet(current) {
			return current
		}
		return extracted
	}

	meta.Artist = pick(meta.Artist, ext.Artist)
	meta.Title = pick(meta.Title, ext.Title)
	meta.Album = pick(meta.Album, ext.Album)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return model.String(s)
}

func logMeta(e *zerolog.Event, m model.TrackMetadata) *zerolog.Event {
	return e.
		Str("artist", model.Display(m.Artist)).
		Str("title", model.Display(m.Title)).
		Str("album", model.Display(m.Album)).
		Bool("cover", m.HasCover)
}
