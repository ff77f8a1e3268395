// Package config provides configuration management for mp3norm.
//
// This package handles:
//   - Loading settings from a TOML file and MP3NORM_* environment variables
//   - Saving settings as TOML
//   - Validating settings against the modes selected for a run
//   - Conversion to lookup.Config and cover.SacadConfig for other packages
//
// # Loading
//
//	settings, err := config.Load(config.DefaultPath())
//	// Defaults, then the file if it exists, then the environment.
//
// # Validation
//
//	err := settings.Validate(config.Modes{Album: true})
//	if config.IsConfigError(err) {
//	    // No driver configured, unknown provider, invalid pattern...
//	}
//
// # Saving
//
//	settings.Driver = "/usr/local/bin/geckodriver"
//	err := settings.Save(config.DefaultPath())
package config
