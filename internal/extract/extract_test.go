package extract

import (
	"regexp"
	"testing"

	"github.com/handiism/mp3norm/internal/model"
)

func TestExtract_DefaultPattern(t *testing.T) {
	re := regexp.MustCompile(DefaultPattern)

	tests := []struct {
		name       string
		filename   string
		wantArtist *string
		wantTitle  *string
	}{
		{"artist and title", "Artist - Title.mp3", model.String("Artist"), model.String("Title")},
		{"title only", "Title.mp3", nil, model.String("Title")},
		{"full path uses base name", "/music/a - b/Artist - Title.mp3", model.String("Artist"), model.String("Title")},
		{"greedy artist", "A - B - C.mp3", model.String("A - B"), model.String("C")},
		{"empty title", "Artist - .mp3", model.String("Artist"), model.String("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, ok := Extract(tt.filename, re)
			if !ok {
				t.Fatalf("Extract(%q) did not match", tt.filename)
			}
			assertField(t, "artist", ext.Artist, tt.wantArtist)
			assertField(t, "title", ext.Title, tt.wantTitle)
			if ext.Album != nil {
				t.Errorf("album = %q, want nil (no album group)", *ext.Album)
			}
		})
	}
}

func TestExtract_NoMatch(t *testing.T) {
	re := regexp.MustCompile(`(?P<artist>.+) - (?P<title>.+)\.xyz`)

	if ext, ok := Extract("no_separator_but_no_match.xyz", re); ok {
		t.Errorf("Extract() = %+v, want no match", ext)
	}
}

func TestExtract_EmptyVersusAbsentGroup(t *testing.T) {
	re := regexp.MustCompile(`(?P<artist>[^-]*)-(?P<album>[^-]*)-(?P<title>.*)\.mp3`)

	ext, ok := Extract("-Album-Title.mp3", re)
	if !ok {
		t.Fatal("expected a match")
	}
	if ext.Artist == nil || *ext.Artist != "" {
		t.Errorf("artist = %v, want pointer to empty string", ext.Artist)
	}
	assertField(t, "album", ext.Album, model.String("Album"))
	assertField(t, "title", ext.Title, model.String("Title"))
}

func TestExtract_UnanchoredSearch(t *testing.T) {
	re := regexp.MustCompile(`\[(?P<album>[^\]]+)\]`)

	ext, ok := Extract("01 Song [Greatest Hits].mp3", re)
	if !ok {
		t.Fatal("expected a match")
	}
	assertField(t, "album", ext.Album, model.String("Greatest Hits"))
	if ext.Artist != nil || ext.Title != nil {
		t.Error("groups missing from the pattern should stay nil")
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{DefaultPattern, false},
		{`(?P<album>.*)`, false},
		{`(unclosed`, true},
		{`(?P<genre>.*)`, true},
		{`plain`, true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := Compile(tt.expr)
			if (err != nil) != tt.wantErr {
				t.Errorf("Compile(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
		})
	}
}

func assertField(t *testing.T, name string, got, want *string) {
	t.Helper()
	switch {
	case want == nil && got != nil:
		t.Errorf("%s = %q, want nil", name, *got)
	case want != nil && got == nil:
		t.Errorf("%s = nil, want %q", name, *want)
	case want != nil && *got != *want:
		t.Errorf("%s = %q, want %q", name, *got, *want)
	}
}
