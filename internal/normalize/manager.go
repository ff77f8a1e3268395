package normalize

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/handiism/mp3norm/internal/audio"
	"github.com/handiism/mp3norm/internal/config"
	"github.com/handiism/mp3norm/internal/cover"
	ioutils "github.com/handiism/mp3norm/internal/io"
	"github.com/handiism/mp3norm/internal/lookup"
	"github.com/handiism/mp3norm/internal/model"
	"github.com/handiism/mp3norm/internal/resolve"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a run progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Options are the per-run switches that are not persisted in Settings.
type Options struct {
	config.Modes

	// Force re-derives and rewrites tags even when they look complete.
	Force bool

	// Verbose forwards the cover tool's output to stderr.
	Verbose bool
}

// SessionOpener acquires the album lookup session of a run.
type SessionOpener func(ctx context.Context, cfg lookup.Config) (lookup.Session, error)

// Manager coordinates a normalization run over a set of files.
type Manager struct {
	settings *config.Settings
	opts     Options

	store       resolve.TagStore
	covers      resolve.CoverFetcher
	openSession SessionOpener

	totalFiles     int32
	processedFiles int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new Manager.
func NewManager(settings *config.Settings, opts Options, onProgress func(ProgressEvent)) *Manager {
	var stderr io.Writer
	if opts.Verbose {
		stderr = os.Stderr
	}

	return &Manager{
		settings:    settings,
		opts:        opts,
		store:       audio.NewTagger(),
		covers:      cover.NewSacad(settings.ToSacadConfig(stderr)),
		openSession: lookup.Open,
		onProgress:  onProgress,
	}
}

// Collect expands inputs into the files to process.
//
// A directory stands for its immediate entries, sorted by name; a file
// stands for itself. Only regular files ending in ext are kept. A missing
// input is a *config.ConfigError.
func Collect(inputs []string, ext string) ([]string, error) {
	var files []string
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, config.Errorf("input %s does not exist", input)
			}
			return nil, err
		}

		if info.IsDir() {
			entries, err := ioutils.ListFiles(input, ext)
			if err != nil {
				return nil, fmt.Errorf("list %s: %w", input, err)
			}
			files = append(files, entries...)
			continue
		}

		if info.Mode().IsRegular() && ioutils.HasExt(input, ext) {
			files = append(files, input)
		}
	}
	return files, nil
}

// Run resolves every file named by inputs, in order.
//
// Settings problems are returned as a *config.ConfigError before any file
// is touched. A lookup session that cannot be opened aborts the run. Per
// file failures are recorded in the result and do not stop the run.
// Cancelling ctx stops the run between files; the result then holds the
// outcomes gathered so far.
func (m *Manager) Run(ctx context.Context, inputs []string) (*model.RunResult, error) {
	if err := m.settings.Validate(m.opts.Modes); err != nil {
		return nil, err
	}

	resolveOpts := resolve.Options{
		Extract:         m.opts.Extract,
		FetchAlbum:      m.opts.Album,
		FetchCover:      m.opts.Cover,
		CoverResolution: m.settings.CoverResolution,
		Force:           m.opts.Force,
	}
	if m.opts.Extract {
		pattern, err := m.settings.Pattern()
		if err != nil {
			return nil, err
		}
		resolveOpts.Pattern = pattern
	}

	files, err := Collect(inputs, m.settings.Extension)
	if err != nil {
		return nil, err
	}
	atomic.StoreInt32(&m.totalFiles, int32(len(files)))
	atomic.StoreInt32(&m.processedFiles, 0)

	var albums resolve.AlbumLookup
	if m.opts.NeedsLookup() {
		m.progress(ProgressEvent{Message: "Starting album lookup (" + m.settings.AlbumProvider + ")", Level: LevelVerbose})
		session, err := m.openSession(ctx, m.settings.ToLookupConfig())
		if err != nil {
			return nil, fmt.Errorf("open album lookup: %w", err)
		}
		defer func() {
			if err := session.Close(); err != nil {
				log.Debug().Err(err).Msg("Can't close album lookup session")
			}
		}()
		albums = session
	}

	cache := cover.NewCache()
	resolver := resolve.New(m.store, albums, m.covers, cache, resolveOpts)

	result := &model.RunResult{}
	width := len(strconv.Itoa(len(files)))

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		m.progress(ProgressEvent{
			Message: fmt.Sprintf("[%*d/%d] %s", width, i+1, len(files), filepath.Base(path)),
			Level:   LevelInfo,
		})

		outcome := resolver.Resolve(ctx, path)
		outcome.Index = i + 1
		result.Add(outcome)
		m.report(outcome)

		atomic.AddInt32(&m.processedFiles, 1)
	}

	if m.opts.Cover {
		hits, misses := cache.Stats()
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Cover cache: %d hit(s), %d fetch(es)", hits, misses),
			Level:   LevelVerbose,
		})
	}

	return result, nil
}

// GetProgress returns how many files have been processed so far.
func (m *Manager) GetProgress() (processed, total int32) {
	return atomic.LoadInt32(&m.processedFiles), atomic.LoadInt32(&m.totalFiles)
}

func (m *Manager) report(outcome model.Outcome) {
	event := ProgressEvent{Message: "  " + outcome.Status.String()}

	switch outcome.Status {
	case model.StatusUpdated:
		event.Level = LevelSuccess
		if outcome.Final != nil {
			event.Message += fmt.Sprintf(" (%s - %s [%s])",
				model.Display(outcome.Final.Artist),
				model.Display(outcome.Final.Title),
				model.Display(outcome.Final.Album))
		}
	case model.StatusSkipped:
		event.Level = LevelInfo
	case model.StatusInvalidFilename:
		event.Level = LevelWarning
	default:
		event.Level = LevelError
		if outcome.Err != nil {
			event.Message += ": " + outcome.Err.Error()
		}
	}

	m.progress(event)
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
