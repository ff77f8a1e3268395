// Package http provides a small JSON HTTP client for mp3norm's remote
// lookups.
//
// The Client in this package handles:
//   - User-Agent headers (MusicBrainz rejects anonymous clients)
//   - Timeout handling
//   - JSON request and response bodies
//   - Non-2xx statuses as *StatusError
//
// # Basic Usage
//
//	client := http.NewClient(30 * time.Second)
//
//	var out map[string]any
//	err := client.GetJSON(ctx, "https://musicbrainz.org/ws/2/recording?fmt=json&query=...", &out)
//
//	err = client.PostJSON(ctx, "http://127.0.0.1:4444/session", caps, &out)
package http
