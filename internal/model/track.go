package model

import "strings"

// TrackMetadata holds the tag values of one MP3 file while it is resolved.
//
// Text fields are pointers so an unset field (no frame in the file, or no
// capture from the filename) stays distinct from a field set to "".
//
// During resolution the fields carry the current best known value; once the
// resolver is done they carry the value to persist.
type TrackMetadata struct {
	// Artist is the lead artist (TPE1).
	Artist *string

	// Title is the track title (TIT2).
	Title *string

	// Album is the album title (TALB).
	Album *string

	// HasCover reports whether the file already embeds a picture.
	HasCover bool

	// Cover holds cover art fetched during this run.
	// It is nil unless a lookup actually returned bytes.
	Cover []byte
}

// Complete reports whether every field is present and non-empty.
func (m *TrackMetadata) Complete() bool {
	return IsSet(m.Artist) && IsSet(m.Title) && IsSet(m.Album) && m.HasCover
}

// MissingText reports whether any of artist, title or album is empty.
func (m *TrackMetadata) MissingText() bool {
	return !IsSet(m.Artist) || !IsSet(m.Title) || !IsSet(m.Album)
}

// Tags is the sanitized set of values written back to a file.
//
// An empty string removes the corresponding frame.
type Tags struct {
	Artist string
	Title  string
	Album  string

	// Cover is embedded as the front cover when non-empty.
	Cover []byte
}

// Extraction is the result of matching a filename pattern.
//
// A nil field means the pattern did not capture it; a pointer to ""
// means the group matched an empty string.
type Extraction struct {
	Artist *string
	Title  *string
	Album  *string
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}

// IsSet reports whether s is non-nil and non-empty.
func IsSet(s *string) bool {
	return s != nil && *s != ""
}

// Value dereferences s, returning "" for nil.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Display formats an optional value for log output.
func Display(s *string) string {
	if s == nil {
		return "----"
	}
	return strings.TrimSpace(*s)
}
