package config

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMode is returned when none of extract, album or cover is enabled.
	ErrNoMode = errors.New("no mode selected: use at least one of --extract, --album or --cover")

	// ErrNoDriver is returned when a lookup needs a WebDriver and none is set.
	ErrNoDriver = errors.New("album and cover lookups need a driver: set --driver or use --provider musicbrainz")
)

// ConfigError reports settings or arguments that make a run impossible.
// It is raised before any file is touched.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Errorf wraps a formatted error in a *ConfigError.
func Errorf(format string, args ...any) error {
	return &ConfigError{Err: fmt.Errorf(format, args...)}
}

// IsConfigError reports whether err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// Modes selects what a run does.
type Modes struct {
	Extract bool
	Album   bool
	Cover   bool
}

// Any reports whether at least one mode is enabled.
func (m Modes) Any() bool {
	return m.Extract || m.Album || m.Cover
}

// NeedsLookup reports whether the run needs an album lookup session.
// A cover fetch is keyed by album, so it needs one too.
func (m Modes) NeedsLookup() bool {
	return m.Album || m.Cover
}
