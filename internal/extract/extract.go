// Package extract derives artist, title and album values from filenames.
//
// Patterns are regular expressions with any subset of the named groups
// "artist", "title" and "album":
//
//	re, err := extract.Compile(extract.DefaultPattern)
//	ext, ok := extract.Extract("/music/Artist - Title.mp3", re)
//	// ok == true, *ext.Artist == "Artist", *ext.Title == "Title", ext.Album == nil
package extract

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/handiism/mp3norm/internal/model"
)

// DefaultPattern matches "Artist - Title.mp3" and "Title.mp3".
const DefaultPattern = `((?P<artist>.*) - )?(?P<title>.*)\.mp3`

// Group names recognised in a pattern.
const (
	GroupArtist = "artist"
	GroupTitle  = "title"
	GroupAlbum  = "album"
)

// Compile parses a pattern and checks that it captures at least one
// known group.
func Compile(expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid extract pattern %q: %w", expr, err)
	}
	if re.SubexpIndex(GroupArtist) < 0 && re.SubexpIndex(GroupTitle) < 0 && re.SubexpIndex(GroupAlbum) < 0 {
		return nil, fmt.Errorf("extract pattern %q has no artist, title or album group", expr)
	}
	return re, nil
}

// Extract searches the base name of filename for pattern.
//
// It returns false when the pattern matches nowhere. Groups that are
// missing from the pattern, or that did not take part in the match, leave
// their field nil; groups that matched an empty string yield "".
func Extract(filename string, pattern *regexp.Regexp) (*model.Extraction, bool) {
	name := filepath.Base(filename)

	loc := pattern.FindStringSubmatchIndex(name)
	if loc == nil {
		return nil, false
	}

	return &model.Extraction{
		Artist: group(name, pattern, loc, GroupArtist),
		Title:  group(name, pattern, loc, GroupTitle),
		Album:  group(name, pattern, loc, GroupAlbum),
	}, true
}

func group(name string, pattern *regexp.Regexp, loc []int, group string) *string {
	idx := pattern.SubexpIndex(group)
	if idx < 0 {
		return nil
	}
	start, end := loc[2*idx], loc[2*idx+1]
	if start < 0 {
		// Group exists but did not participate.
		return nil
	}
	return model.String(name[start:end])
}
