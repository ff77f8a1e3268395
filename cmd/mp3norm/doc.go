// Command mp3norm fills in the artist, title, album and cover art of MP3
// files.
//
// Usage:
//
//	mp3norm [flags] [input]
//	mp3norm config [--write path]
//
// Examples:
//
//	mp3norm -e ~/Music/incoming
//	mp3norm -e -a -c -d /usr/local/bin/geckodriver ~/Music/incoming
//	mp3norm --extract='(?P<artist>.*) - (?P<album>.*) - (?P<title>.*)\.mp3' .
//	mp3norm -a -c=1000 --provider musicbrainz song.mp3
package main
