package lookup

import (
	"context"
	"fmt"
	"time"
)

// Album lookup providers.
const (
	ProviderWebDriver   = "webdriver"
	ProviderMusicBrainz = "musicbrainz"
)

// Session is a run-scoped album lookup handle. It is acquired once before
// the first file is processed and closed when the run ends.
type Session interface {
	// LookupAlbum returns the album of (artist, title), or false when none
	// can be determined. It never fails the caller.
	LookupAlbum(ctx context.Context, artist, title string) (string, bool)

	Close() error
}

// Config selects and configures the album lookup provider.
type Config struct {
	Provider string

	// Timeout bounds the knowledge panel wait of the WebDriver provider and
	// each MusicBrainz request.
	Timeout time.Duration

	// WebDriver provider.
	Driver         string
	ShowDriver     bool
	SearchURL      string
	SelfTitledKeys []string

	// MusicBrainz provider.
	MusicBrainzURL string
	UserAgent      string
}

// Open acquires a lookup session for the configured provider.
func Open(ctx context.Context, cfg Config) (Session, error) {
	switch cfg.Provider {
	case ProviderWebDriver, "":
		drv, err := StartDriver(ctx, DriverConfig{Path: cfg.Driver, Show: cfg.ShowDriver})
		if err != nil {
			return nil, err
		}
		return NewSearchLookup(drv, SearchConfig{
			SearchURL:      cfg.SearchURL,
			Timeout:        cfg.Timeout,
			SelfTitledKeys: cfg.SelfTitledKeys,
		}), nil
	case ProviderMusicBrainz:
		return NewMusicBrainzLookup(MusicBrainzConfig{
			BaseURL:   cfg.MusicBrainzURL,
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown album provider %q", cfg.Provider)
	}
}
