package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/handiism/mp3norm/internal/extract"
	"github.com/handiism/mp3norm/internal/lookup"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if settings.Extension != ".mp3" {
		t.Errorf("Extension = %q, want .mp3", settings.Extension)
	}
	if settings.ExtractPattern != extract.DefaultPattern {
		t.Errorf("ExtractPattern = %q", settings.ExtractPattern)
	}
	if settings.CoverResolution != 600 {
		t.Errorf("CoverResolution = %d, want 600", settings.CoverResolution)
	}
	if !settings.ConvertCoverToJPG {
		t.Error("ConvertCoverToJPG should default to true")
	}
	if settings.AlbumTimeoutSeconds != 5 {
		t.Errorf("AlbumTimeoutSeconds = %d, want 5", settings.AlbumTimeoutSeconds)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
driver = "/opt/geckodriver"
cover_resolution = 1200
convert_cover_to_jpg = false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if settings.Driver != "/opt/geckodriver" {
		t.Errorf("Driver = %q", settings.Driver)
	}
	if settings.CoverResolution != 1200 {
		t.Errorf("CoverResolution = %d, want 1200", settings.CoverResolution)
	}
	if settings.ConvertCoverToJPG {
		t.Error("ConvertCoverToJPG should be false")
	}
	// Keys absent from the file keep their defaults.
	if settings.Extension != ".mp3" {
		t.Errorf("Extension = %q, want .mp3", settings.Extension)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`driver = "/opt/geckodriver"`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MP3NORM_DRIVER", "http://127.0.0.1:4444")

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.Driver != "http://127.0.0.1:4444" {
		t.Errorf("Driver = %q, want the environment value", settings.Driver)
	}
}

func TestLoad_EnvironmentWithoutFile(t *testing.T) {
	t.Setenv("MP3NORM_ALBUM_PROVIDER", "musicbrainz")
	t.Setenv("MP3NORM_RESIZE_COVER", "true")

	settings, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.AlbumProvider != lookup.ProviderMusicBrainz {
		t.Errorf("AlbumProvider = %q", settings.AlbumProvider)
	}
	if !settings.ResizeCover {
		t.Error("ResizeCover should be true")
	}
}

func TestSave_ThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	settings := DefaultSettings()
	settings.Driver = "/usr/bin/geckodriver"
	settings.ShowDriver = true
	if err := settings.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Driver != settings.Driver || !loaded.ShowDriver {
		t.Errorf("loaded %+v", loaded)
	}
	if loaded.ExtractPattern != extract.DefaultPattern {
		t.Errorf("ExtractPattern = %q, want it to survive TOML escaping", loaded.ExtractPattern)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Settings)
		modes   Modes
		wantErr error
		wantCfg bool
	}{
		{
			name:    "no mode",
			modes:   Modes{},
			wantErr: ErrNoMode,
			wantCfg: true,
		},
		{
			name:  "extract only needs no driver",
			modes: Modes{Extract: true},
		},
		{
			name:    "album without driver",
			modes:   Modes{Album: true},
			wantErr: ErrNoDriver,
			wantCfg: true,
		},
		{
			name:    "cover without driver",
			modes:   Modes{Cover: true},
			wantErr: ErrNoDriver,
			wantCfg: true,
		},
		{
			name:   "album with driver",
			modify: func(s *Settings) { s.Driver = "/usr/bin/geckodriver" },
			modes:  Modes{Album: true},
		},
		{
			name:   "musicbrainz needs no driver",
			modify: func(s *Settings) { s.AlbumProvider = lookup.ProviderMusicBrainz },
			modes:  Modes{Album: true, Cover: true},
		},
		{
			name:    "unknown provider",
			modify:  func(s *Settings) { s.AlbumProvider = "lastfm" },
			modes:   Modes{Album: true},
			wantCfg: true,
		},
		{
			name:    "invalid pattern",
			modify:  func(s *Settings) { s.ExtractPattern = "(unclosed" },
			modes:   Modes{Extract: true},
			wantCfg: true,
		},
		{
			name:   "invalid pattern ignored without extract",
			modify: func(s *Settings) { s.ExtractPattern = "(unclosed"; s.AlbumProvider = lookup.ProviderMusicBrainz },
			modes:  Modes{Album: true},
		},
		{
			name:    "non-positive resolution",
			modify:  func(s *Settings) { s.CoverResolution = 0; s.AlbumProvider = lookup.ProviderMusicBrainz },
			modes:   Modes{Cover: true},
			wantCfg: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			if tt.modify != nil {
				tt.modify(settings)
			}

			err := settings.Validate(tt.modes)
			if tt.wantCfg != (err != nil) {
				t.Fatalf("Validate() error = %v, want error %v", err, tt.wantCfg)
			}
			if err != nil && !IsConfigError(err) {
				t.Errorf("Validate() error %T is not a ConfigError", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestToLookupConfig(t *testing.T) {
	settings := DefaultSettings()
	settings.Driver = "http://localhost:4444"
	settings.AlbumTimeoutSeconds = 7

	cfg := settings.ToLookupConfig()
	if cfg.Driver != "http://localhost:4444" {
		t.Errorf("Driver = %q", cfg.Driver)
	}
	if cfg.Timeout.Seconds() != 7 {
		t.Errorf("Timeout = %s, want 7s", cfg.Timeout)
	}
	if cfg.Provider != lookup.ProviderWebDriver {
		t.Errorf("Provider = %q", cfg.Provider)
	}
}
