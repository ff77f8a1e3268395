package lookup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Knowledge panel selectors on the search result page.
const (
	selectorQuery     = `[name="q"]`
	selectorContainer = ".zloOqf"
	selectorKey       = ".fl"
	selectorValue     = ".LrzXr"
)

// DefaultSearchURL is the search engine home page driven by SearchLookup.
const DefaultSearchURL = "https://www.google.com/"

// DefaultSelfTitledKeys are knowledge panel keys that appear when the
// searched song is itself an album (a single or a title track), in English
// and Italian.
//
// When one of these rows is found before an "Album" row, the lookup reports
// the song title as the album name, not the whole "artist title" query
// that was searched.
var DefaultSelfTitledKeys = []string{
	"Album type", "Genres", "Release date", "Record label",
	"Tipo album", "Generi", "Data di uscita", "Casa discografica",
}

// browser is the part of Driver used by SearchLookup.
type browser interface {
	Navigate(ctx context.Context, url string) error
	Title(ctx context.Context) (string, error)
	FindElement(ctx context.Context, css string) (Element, error)
	WaitForElements(ctx context.Context, css string, timeout time.Duration) ([]Element, error)
	FindChild(ctx context.Context, parent Element, css string) (Element, error)
	Clear(ctx context.Context, el Element) error
	SendKeys(ctx context.Context, el Element, text string) error
	Text(ctx context.Context, el Element) (string, error)
	Close() error
}

// SearchLookup finds album names by searching "artist title" and reading
// the metadata rows of the result page's knowledge panel.
type SearchLookup struct {
	browser        browser
	searchURL      string
	wait           time.Duration
	selfTitledKeys map[string]bool
}

// SearchConfig configures a SearchLookup.
type SearchConfig struct {
	SearchURL      string
	Timeout        time.Duration
	SelfTitledKeys []string
}

// NewSearchLookup wraps an open browser session.
func NewSearchLookup(b browser, cfg SearchConfig) *SearchLookup {
	if cfg.SearchURL == "" {
		cfg.SearchURL = DefaultSearchURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.SelfTitledKeys == nil {
		cfg.SelfTitledKeys = DefaultSelfTitledKeys
	}

	keys := make(map[string]bool, len(cfg.SelfTitledKeys))
	for _, k := range cfg.SelfTitledKeys {
		keys[k] = true
	}

	return &SearchLookup{
		browser:        b,
		searchURL:      cfg.SearchURL,
		wait:           cfg.Timeout,
		selfTitledKeys: keys,
	}
}

// LookupAlbum returns the album of the song, or false if the result page
// does not show one within the timeout. Errors are logged, not returned.
func (s *SearchLookup) LookupAlbum(ctx context.Context, artist, title string) (string, bool) {
	song := strings.TrimSpace(artist + " " + title)
	log.Debug().Str("song", song).Msg("Fetching album name")

	album, err := s.lookup(ctx, song, title)
	if err != nil {
		log.Debug().Err(err).Str("song", song).Msg("Can't retrieve metadata")
		return "", false
	}
	if album == "" {
		return "", false
	}

	log.Debug().Str("song", song).Str("album", album).Msg("Fetched album name")
	return album, true
}

func (s *SearchLookup) lookup(ctx context.Context, song, title string) (string, error) {
	if err := s.browser.Navigate(ctx, s.searchURL); err != nil {
		return "", fmt.Errorf("open search page: %w", err)
	}
	if pageTitle, err := s.browser.Title(ctx); err == nil {
		log.Debug().Str("title", pageTitle).Msg("Search page loaded")
	}

	input, err := s.browser.FindElement(ctx, selectorQuery)
	if err != nil {
		return "", fmt.Errorf("find query input: %w", err)
	}
	if err := s.browser.Clear(ctx, input); err != nil {
		return "", fmt.Errorf("clear query input: %w", err)
	}
	if err := s.browser.SendKeys(ctx, input, song+keyEnter); err != nil {
		return "", fmt.Errorf("submit query: %w", err)
	}

	containers, err := s.browser.WaitForElements(ctx, selectorContainer, s.wait)
	if err != nil {
		return "", err
	}
	log.Debug().Int("count", len(containers)).Msg("Metadata found")

	for _, c := range containers {
		key, val, err := s.row(ctx, c)
		if err != nil {
			log.Debug().Err(err).Msg("Skipping metadata row")
			continue
		}
		log.Debug().Str("key", key).Str("value", val).Msg("Metadata row")

		if key == "Album" {
			return val, nil
		}
		if s.selfTitledKeys[key] {
			// The song is its own release.
			return title, nil
		}
	}

	return "", nil
}

func (s *SearchLookup) row(ctx context.Context, container Element) (string, string, error) {
	keyEl, err := s.browser.FindChild(ctx, container, selectorKey)
	if err != nil {
		return "", "", err
	}
	valEl, err := s.browser.FindChild(ctx, container, selectorValue)
	if err != nil {
		return "", "", err
	}
	key, err := s.browser.Text(ctx, keyEl)
	if err != nil {
		return "", "", err
	}
	val, err := s.browser.Text(ctx, valEl)
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(key), strings.TrimSpace(val), nil
}

// Close ends the browser session.
func (s *SearchLookup) Close() error {
	return s.browser.Close()
}
