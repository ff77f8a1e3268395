package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/handiism/mp3norm/internal/cover"
	"github.com/handiism/mp3norm/internal/extract"
	"github.com/handiism/mp3norm/internal/lookup"
)

// Settings holds all configuration options.
type Settings struct {
	// Input settings
	Extension      string `toml:"extension" env:"MP3NORM_EXTENSION"`
	ExtractPattern string `toml:"extract_pattern" env:"MP3NORM_EXTRACT_PATTERN"`

	// Album lookup settings
	AlbumProvider       string   `toml:"album_provider" env:"MP3NORM_ALBUM_PROVIDER"` // webdriver, musicbrainz
	Driver              string   `toml:"driver" env:"MP3NORM_DRIVER"`
	ShowDriver          bool     `toml:"show_driver" env:"MP3NORM_SHOW_DRIVER"`
	AlbumTimeoutSeconds int      `toml:"album_timeout_seconds" env:"MP3NORM_ALBUM_TIMEOUT_SECONDS"`
	SearchURL           string   `toml:"search_url" env:"MP3NORM_SEARCH_URL"`
	SelfTitledKeys      []string `toml:"self_titled_keys" env:"MP3NORM_SELF_TITLED_KEYS" env-separator:";"`
	MusicBrainzURL      string   `toml:"musicbrainz_url" env:"MP3NORM_MUSICBRAINZ_URL"`
	UserAgent           string   `toml:"user_agent" env:"MP3NORM_USER_AGENT"`

	// Cover art settings
	CoverResolution   int    `toml:"cover_resolution" env:"MP3NORM_COVER_RESOLUTION"`
	SacadPath         string `toml:"sacad_path" env:"MP3NORM_SACAD_PATH"`
	ConvertCoverToJPG bool   `toml:"convert_cover_to_jpg" env:"MP3NORM_CONVERT_COVER_TO_JPG"`
	ResizeCover       bool   `toml:"resize_cover" env:"MP3NORM_RESIZE_COVER"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Extension:      ".mp3",
		ExtractPattern: extract.DefaultPattern,

		AlbumProvider:       lookup.ProviderWebDriver,
		AlbumTimeoutSeconds: 5,
		SearchURL:           lookup.DefaultSearchURL,
		SelfTitledKeys:      append([]string(nil), lookup.DefaultSelfTitledKeys...),
		MusicBrainzURL:      lookup.DefaultMusicBrainzURL,

		CoverResolution:   cover.DefaultResolution,
		SacadPath:         "sacad",
		ConvertCoverToJPG: true,
	}
}

// DefaultPath returns the settings file used when none is given,
// usually ~/.config/mp3norm/config.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "mp3norm.toml"
	}
	return filepath.Join(dir, "mp3norm", "config.toml")
}

// Load reads settings from a TOML file and then applies MP3NORM_*
// environment overrides. A missing file is not an error.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			if err := cleanenv.ReadConfig(path, settings); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			return settings, nil
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	if err := cleanenv.ReadEnv(settings); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return settings, nil
}

// Save writes settings to a TOML file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// WriteTo writes the settings as TOML to w.
func (s *Settings) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

// Validate checks that the settings can drive a run with the given modes.
// Every failure is a *ConfigError.
func (s *Settings) Validate(modes Modes) error {
	if !modes.Any() {
		return &ConfigError{Err: ErrNoMode}
	}
	if s.Extension == "" {
		return Errorf("extension must not be empty")
	}

	if modes.Extract {
		if _, err := s.Pattern(); err != nil {
			return err
		}
	}

	if modes.NeedsLookup() {
		switch s.AlbumProvider {
		case lookup.ProviderWebDriver, "":
			if s.Driver == "" {
				return &ConfigError{Err: ErrNoDriver}
			}
		case lookup.ProviderMusicBrainz:
		default:
			return Errorf("unknown album provider %q", s.AlbumProvider)
		}
	}

	if modes.Cover && s.CoverResolution <= 0 {
		return Errorf("cover resolution must be positive, got %d", s.CoverResolution)
	}

	return nil
}

// Pattern compiles ExtractPattern.
func (s *Settings) Pattern() (*regexp.Regexp, error) {
	re, err := extract.Compile(s.ExtractPattern)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	return re, nil
}

// ToLookupConfig converts settings to a lookup.Config.
func (s *Settings) ToLookupConfig() lookup.Config {
	return lookup.Config{
		Provider:       s.AlbumProvider,
		Driver:         s.Driver,
		ShowDriver:     s.ShowDriver,
		SearchURL:      s.SearchURL,
		Timeout:        time.Duration(s.AlbumTimeoutSeconds) * time.Second,
		SelfTitledKeys: s.SelfTitledKeys,
		MusicBrainzURL: s.MusicBrainzURL,
		UserAgent:      s.UserAgent,
	}
}

// ToSacadConfig converts settings to a cover.SacadConfig. stderr receives
// the tool's output and may be nil.
func (s *Settings) ToSacadConfig(stderr io.Writer) cover.SacadConfig {
	return cover.SacadConfig{
		Path:          s.SacadPath,
		ConvertToJPEG: s.ConvertCoverToJPG,
		Resize:        s.ResizeCover,
		Stderr:        stderr,
	}
}
