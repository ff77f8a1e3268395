package lookup

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	mhttp "github.com/handiism/mp3norm/internal/http"
)

const (
	// DefaultMusicBrainzURL is the MusicBrainz web service root.
	DefaultMusicBrainzURL = "https://musicbrainz.org/ws/2"

	// musicBrainzMinScore is the lowest search score accepted as a match.
	musicBrainzMinScore = 80
)

type mbRelease struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Status       string `json:"status"`
	ReleaseGroup struct {
		PrimaryType string `json:"primary-type"`
	} `json:"release-group"`
}

type mbRecording struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Score    int         `json:"score"`
	Releases []mbRelease `json:"releases"`
}

type mbRecordingSearch struct {
	Count      int           `json:"count"`
	Recordings []mbRecording `json:"recordings"`
}

// MusicBrainzLookup resolves album names through the MusicBrainz
// recording search. Requests are limited to one per second, following the
// MusicBrainz usage policy.
type MusicBrainzLookup struct {
	client  *mhttp.Client
	baseURL string
	limiter *rate.Limiter
}

// MusicBrainzConfig configures a MusicBrainzLookup.
type MusicBrainzConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Interval is the minimum time between requests.
	Interval time.Duration
}

// NewMusicBrainzLookup creates a MusicBrainz album lookup.
func NewMusicBrainzLookup(cfg MusicBrainzConfig) *MusicBrainzLookup {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultMusicBrainzURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}

	client := mhttp.NewClient(cfg.Timeout)
	client.SetUserAgent(cfg.UserAgent)

	return &MusicBrainzLookup{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(rate.Every(cfg.Interval), 1),
	}
}

// LookupAlbum returns the release title of the best matching recording.
func (m *MusicBrainzLookup) LookupAlbum(ctx context.Context, artist, title string) (string, bool) {
	if strings.TrimSpace(title) == "" {
		return "", false
	}

	album, err := m.search(ctx, artist, title)
	if err != nil {
		log.Debug().Err(err).Str("artist", artist).Str("title", title).Msg("MusicBrainz lookup failed")
		return "", false
	}
	if album == "" {
		log.Debug().Str("artist", artist).Str("title", title).Msg("No MusicBrainz release found")
		return "", false
	}

	log.Debug().Str("artist", artist).Str("title", title).Str("album", album).Msg("Found MusicBrainz release")
	return album, true
}

func (m *MusicBrainzLookup) search(ctx context.Context, artist, title string) (string, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	query := fmt.Sprintf(`recording:"%s"`, escapeQuery(title))
	if strings.TrimSpace(artist) != "" {
		query = fmt.Sprintf(`artist:"%s" AND %s`, escapeQuery(artist), query)
	}
	reqURL := fmt.Sprintf("%s/recording?query=%s&fmt=json&limit=5", m.baseURL, url.QueryEscape(query))

	var resp mbRecordingSearch
	if err := m.client.GetJSON(ctx, reqURL, &resp); err != nil {
		return "", err
	}

	for _, rec := range resp.Recordings {
		if rec.Score < musicBrainzMinScore {
			continue
		}
		if release := pickRelease(rec.Releases); release != nil {
			return release.Title, nil
		}
	}
	return "", nil
}

// pickRelease prefers official albums, then any official release, then
// the first one listed.
func pickRelease(releases []mbRelease) *mbRelease {
	if len(releases) == 0 {
		return nil
	}
	for i := range releases {
		if releases[i].Status == "Official" && releases[i].ReleaseGroup.PrimaryType == "Album" {
			return &releases[i]
		}
	}
	for i := range releases {
		if releases[i].Status == "Official" {
			return &releases[i]
		}
	}
	return &releases[0]
}

// escapeQuery escapes characters that are special inside a quoted Lucene
// phrase.
func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// Close is a no-op; the lookup holds no external resources.
func (m *MusicBrainzLookup) Close() error {
	return nil
}
