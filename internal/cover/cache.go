package cover

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// FetchFunc retrieves cover bytes for an artist and album (or a title
// standing in for the album). It returns false when nothing was found.
type FetchFunc func(ctx context.Context, artist, album string, resolution int) ([]byte, bool)

// entry is a cached lookup result. found == false is the not-found
// sentinel.
type entry struct {
	data  []byte
	found bool
}

type key struct {
	artist string
	album  string
}

// Cache memoizes cover lookups for the lifetime of a run.
//
// Results are keyed by the exact (artist, album) pair handed to
// GetOrFetch. Failed lookups are cached too and never retried. Concurrent
// misses on the same key share a single fetch.
type Cache struct {
	mu      sync.Mutex
	entries map[key]entry
	group   singleflight.Group

	hits   int
	misses int
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[key]entry)}
}

// GetOrFetch returns the cached cover for (artist, album), calling fetch
// on the first request for that pair only.
func (c *Cache) GetOrFetch(ctx context.Context, artist, album string, resolution int, fetch FetchFunc) ([]byte, bool) {
	k := key{artist: artist, album: album}

	c.mu.Lock()
	if e, ok := c.entries[k]; ok {
		c.hits++
		c.mu.Unlock()
		log.Debug().Str("artist", artist).Str("album", album).Bool("found", e.found).Msg("Cover cache hit")
		return e.data, e.found
	}
	c.mu.Unlock()

	v, _, _ := c.group.Do(artist+"\x00"+album, func() (interface{}, error) {
		// A concurrent caller may have stored the entry while we waited.
		c.mu.Lock()
		if e, ok := c.entries[k]; ok {
			c.mu.Unlock()
			return e, nil
		}
		c.misses++
		c.mu.Unlock()

		data, found := fetch(ctx, artist, album, resolution)
		if len(data) == 0 {
			data, found = nil, false
		}
		e := entry{data: data, found: found}

		c.mu.Lock()
		c.entries[k] = e
		c.mu.Unlock()
		return e, nil
	})

	e := v.(entry)
	return e.data, e.found
}

// Len returns the number of cached keys.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
