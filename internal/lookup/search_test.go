package lookup

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeBrowser serves a static knowledge panel.
type fakeBrowser struct {
	rows     [][2]string // key, value per container
	navErr   error
	typed    string
	visits   int
	closed   bool
	waited   time.Duration
}

func (f *fakeBrowser) Navigate(ctx context.Context, url string) error {
	f.visits++
	return f.navErr
}

func (f *fakeBrowser) Title(ctx context.Context) (string, error) { return "Google", nil }

func (f *fakeBrowser) FindElement(ctx context.Context, css string) (Element, error) {
	if css != selectorQuery {
		return Element{}, ErrNoSuchElement
	}
	return Element{ID: "q"}, nil
}

func (f *fakeBrowser) WaitForElements(ctx context.Context, css string, timeout time.Duration) ([]Element, error) {
	f.waited = timeout
	if css != selectorContainer || len(f.rows) == 0 {
		return nil, errors.New("timeout")
	}
	var els []Element
	for i := range f.rows {
		els = append(els, Element{ID: "row" + string(rune('0'+i))})
	}
	return els, nil
}

func (f *fakeBrowser) FindChild(ctx context.Context, parent Element, css string) (Element, error) {
	return Element{ID: parent.ID + css}, nil
}

func (f *fakeBrowser) Clear(ctx context.Context, el Element) error { f.typed = ""; return nil }

func (f *fakeBrowser) SendKeys(ctx context.Context, el Element, text string) error {
	f.typed += text
	return nil
}

func (f *fakeBrowser) Text(ctx context.Context, el Element) (string, error) {
	for i, row := range f.rows {
		id := "row" + string(rune('0'+i))
		switch el.ID {
		case id + selectorKey:
			return row[0], nil
		case id + selectorValue:
			return row[1], nil
		}
	}
	return "", errors.New("unknown element")
}

func (f *fakeBrowser) Close() error { f.closed = true; return nil }

func newTestSearch(b *fakeBrowser) *SearchLookup {
	return NewSearchLookup(b, SearchConfig{Timeout: 50 * time.Millisecond})
}

func TestSearchLookup_AlbumRow(t *testing.T) {
	b := &fakeBrowser{rows: [][2]string{
		{"Artist", "Someone"},
		{"Album", "Greatest Hits"},
		{"Genres", "Pop"},
	}}
	s := newTestSearch(b)

	album, ok := s.LookupAlbum(context.Background(), "Someone", "Song")
	if !ok || album != "Greatest Hits" {
		t.Errorf("LookupAlbum() = %q, %v; want Greatest Hits, true", album, ok)
	}
	if b.typed != "Someone Song"+keyEnter {
		t.Errorf("typed query = %q", b.typed)
	}
}

func TestSearchLookup_SelfTitled(t *testing.T) {
	b := &fakeBrowser{rows: [][2]string{{"Release date", "2001"}}}
	s := newTestSearch(b)

	album, ok := s.LookupAlbum(context.Background(), "Artist", "Single")
	if !ok || album != "Single" {
		t.Errorf("LookupAlbum() = %q, %v; want Single, true", album, ok)
	}
}

func TestSearchLookup_WaitsWithTimeout(t *testing.T) {
	b := &fakeBrowser{rows: [][2]string{{"Album", "Late"}}}
	s := NewSearchLookup(b, SearchConfig{Timeout: 3 * time.Second})

	if album, ok := s.LookupAlbum(context.Background(), "A", "T"); !ok || album != "Late" {
		t.Errorf("LookupAlbum() = %q, %v; want Late, true", album, ok)
	}
	if b.waited != 3*time.Second {
		t.Errorf("waited %v for the panel, want 3s", b.waited)
	}
}

func TestSearchLookup_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		browser *fakeBrowser
	}{
		{"no panel", &fakeBrowser{}},
		{"no album row", &fakeBrowser{rows: [][2]string{{"Artist", "Someone"}}}},
		{"navigation error", &fakeBrowser{navErr: errors.New("boom"), rows: [][2]string{{"Album", "X"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSearch(tt.browser)
			if album, ok := s.LookupAlbum(context.Background(), "A", "T"); ok {
				t.Errorf("LookupAlbum() = %q, want not found", album)
			}
		})
	}
}

func TestSearchLookup_Close(t *testing.T) {
	b := &fakeBrowser{}
	if err := newTestSearch(b).Close(); err != nil || !b.closed {
		t.Errorf("Close() = %v, closed = %v", err, b.closed)
	}
}
