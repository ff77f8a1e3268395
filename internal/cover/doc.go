// Package cover fetches cover art and memoizes the results for a run.
//
// # Cache
//
// Cache remembers, per (artist, album) pair, either the cover bytes or the
// fact that nothing was found, so a pair is looked up at most once:
//
//	cache := cover.NewCache()
//	data, ok := cache.GetOrFetch(ctx, "Artist", "Album", 600, fetcher.Fetch)
//
// # Sacad
//
// Sacad runs the sacad cover search tool in a subprocess and normalizes
// its output to JPEG:
//
//	fetcher := cover.NewSacad(cover.SacadConfig{Path: "sacad", ConvertToJPEG: true})
//	data, ok := fetcher.Fetch(ctx, "Artist", "Album", 600)
package cover
