package audio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bogem/id3v2"

	"github.com/handiism/mp3norm/internal/model"
)

// ID3 frame identifiers touched by the Tagger.
const (
	frameArtist = "TPE1"
	frameTitle  = "TIT2"
	frameAlbum  = "TALB"
	framePic    = "APIC"
)

// ErrNoAudio is returned for files that have no MPEG audio frame where
// one must begin.
var ErrNoAudio = errors.New("no MPEG audio frame")

// Tagger reads and writes the ID3 frames mp3norm manages.
//
// Only the lead artist, title, album and attached picture frames are
// touched; every other frame in the file is preserved on save.
//
// Example:
//
//	tagger := audio.NewTagger()
//	meta, err := tagger.Load("/music/Artist - Title.mp3")
//	err = tagger.Save(path, model.Tags{Artist: "Artist", Title: "Title"})
type Tagger struct {
	// Version is the ID3v2 version written on save (3 or 4).
	Version byte
}

// NewTagger creates a Tagger writing ID3v2.4 tags.
func NewTagger() *Tagger {
	return &Tagger{Version: 4}
}

// Load reads the current artist, title, album and cover presence.
//
// A missing frame yields a nil field. Returns an error if the file cannot
// be opened, its tag cannot be parsed, or no MPEG frame follows the tag.
func (t *Tagger) Load(path string) (model.TrackMetadata, error) {
	if err := checkAudio(path); err != nil {
		return model.TrackMetadata{}, err
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return model.TrackMetadata{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer tag.Close()

	return model.TrackMetadata{
		Artist:   textFrame(tag, frameArtist),
		Title:    textFrame(tag, frameTitle),
		Album:    textFrame(tag, frameAlbum),
		HasCover: len(tag.GetFrames(framePic)) > 0,
	}, nil
}

// Save writes tags to the file.
//
// Empty text values delete their frame. A non-empty Cover replaces every
// attached picture with a single front cover.
func (t *Tagger) Save(path string, tags model.Tags) error {
	if err := checkAudio(path); err != nil {
		return err
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer tag.Close()

	if t.Version != 0 {
		tag.SetVersion(t.Version)
	}
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	setText(tag, frameArtist, tags.Artist)
	setText(tag, frameTitle, tags.Title)
	setText(tag, frameAlbum, tags.Album)

	if len(tags.Cover) > 0 {
		updateArtwork(tag, tags.Cover)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// checkAudio verifies that an MPEG frame sync follows the ID3v2 tag, or
// starts the file when there is no tag. Zero padding after the tag is
// skipped.
func checkAudio(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	header, err := r.Peek(10)
	if err == nil && string(header[:3]) == "ID3" {
		// Tag size is synchsafe and excludes the 10 byte header.
		size := int(header[6])<<21 | int(header[7])<<14 | int(header[8])<<7 | int(header[9])
		if _, err := r.Discard(10 + size); err != nil {
			return fmt.Errorf("%s: %w", path, ErrNoAudio)
		}
	}

	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			return fmt.Errorf("%s: %w", path, ErrNoAudio)
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if b == 0 {
			continue
		}
		next, err := r.ReadByte()
		if err != nil || b != 0xFF || next&0xE0 != 0xE0 {
			return fmt.Errorf("%s: %w", path, ErrNoAudio)
		}
		return nil
	}
}

func textFrame(tag *id3v2.Tag, id string) *string {
	if len(tag.GetFrames(id)) == 0 {
		return nil
	}
	return model.String(tag.GetTextFrame(id).Text)
}

func setText(tag *id3v2.Tag, id, value string) {
	if value == "" {
		tag.DeleteFrames(id)
		return
	}
	tag.AddTextFrame(id, id3v2.EncodingUTF8, value)
}

// updateArtwork embeds cover art as an attached picture frame.
func updateArtwork(tag *id3v2.Tag, artwork []byte) {
	// Remove any existing cover pictures
	tag.DeleteFrames(framePic)

	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	}
	tag.AddAttachedPicture(pic)
}
