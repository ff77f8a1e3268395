// Package lookup resolves album names from external sources.
//
// Two providers implement Session:
//
//   - SearchLookup drives Firefox through a WebDriver session (a spawned
//     geckodriver or a remote endpoint), searches "artist title" and reads
//     the album from the result page's knowledge panel.
//   - MusicBrainzLookup queries the MusicBrainz recording search.
//
// A session is opened once per run and must be closed:
//
//	sess, err := lookup.Open(ctx, lookup.Config{Provider: "webdriver", Driver: "/usr/bin/geckodriver"})
//	if err != nil {
//	    return err
//	}
//	defer sess.Close()
//	album, ok := sess.LookupAlbum(ctx, "Artist", "Title")
//
// Lookup failures and timeouts are logged and reported as "not found".
package lookup
