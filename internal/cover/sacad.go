package cover

import (
	"context"
	"io"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog/log"

	ioutils "github.com/handiism/mp3norm/internal/io"
)

// DefaultResolution is the cover size requested when none is configured.
const DefaultResolution = 600

// SacadConfig controls how the sacad tool is invoked and how its output
// is post-processed.
type SacadConfig struct {
	// Path is the sacad executable. Defaults to "sacad" on $PATH.
	Path string

	// ConvertToJPEG re-encodes non-JPEG results as JPEG.
	ConvertToJPEG bool

	// Resize scales results to fit within resolution x resolution.
	Resize bool

	// Stderr receives the tool's diagnostics. Nil discards them.
	Stderr io.Writer
}

// Sacad fetches cover art by running the sacad command line tool:
//
//	sacad <artist> <album> <resolution> <output file>
//
// Each call spawns one process writing into a fresh temporary file, which
// is removed before Fetch returns.
type Sacad struct {
	cfg    SacadConfig
	images *ioutils.ImageService
}

// NewSacad creates a Sacad fetcher.
func NewSacad(cfg SacadConfig) *Sacad {
	if cfg.Path == "" {
		cfg.Path = "sacad"
	}
	return &Sacad{cfg: cfg, images: ioutils.NewImageService()}
}

// Fetch runs sacad and returns the cover bytes. Any failure, including an
// empty output file, is reported as not found.
func (s *Sacad) Fetch(ctx context.Context, artist, album string, resolution int) ([]byte, bool) {
	tmp, cleanup, err := ioutils.TempPath("mp3norm-cover-", ".jpg")
	if err != nil {
		log.Debug().Err(err).Msg("Can't create temporary cover file")
		return nil, false
	}
	defer cleanup()

	log.Debug().
		Str("artist", artist).
		Str("album", album).
		Int("resolution", resolution).
		Str("output", tmp).
		Msg("Fetching cover")

	cmd := exec.CommandContext(ctx, s.cfg.Path, artist, album, strconv.Itoa(resolution), tmp)
	cmd.Stderr = s.cfg.Stderr
	cmd.Stdout = s.cfg.Stderr
	if err := cmd.Run(); err != nil {
		// sacad may still have produced a file; fall through and check.
		log.Debug().Err(err).Str("artist", artist).Str("album", album).Msg("sacad exited with error")
	}

	data, err := ioutils.ReadNonEmpty(tmp)
	if err != nil {
		log.Debug().Err(err).Msg("Can't read fetched cover")
		return nil, false
	}
	if data == nil {
		log.Debug().Str("artist", artist).Str("album", album).Msg("No cover found")
		return nil, false
	}

	log.Debug().Int("kb", (len(data)+1023)/1024).Msg("Fetched cover")
	return s.normalize(ctx, data, resolution), true
}

// normalize applies the configured conversions. The original bytes are
// kept if the image cannot be decoded.
func (s *Sacad) normalize(ctx context.Context, data []byte, resolution int) []byte {
	if s.cfg.Resize {
		resized, err := s.images.ResizeImage(ctx, data, resolution, resolution)
		if err != nil {
			log.Debug().Err(err).Msg("Can't resize cover, keeping original")
			return data
		}
		return resized
	}

	if s.cfg.ConvertToJPEG && !ioutils.IsJPEG(data) {
		converted, err := s.images.ConvertToJPEG(ctx, data)
		if err != nil {
			log.Debug().Err(err).Msg("Can't convert cover to JPEG, keeping original")
			return data
		}
		return converted
	}

	return data
}
