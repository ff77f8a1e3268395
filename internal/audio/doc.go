// Package audio reads and writes the ID3 tags of MP3 files.
//
// # ID3 Tagging
//
// Use the Tagger to load and save the frames mp3norm manages:
//
//	tagger := audio.NewTagger()
//	meta, err := tagger.Load(path)
//	err = tagger.Save(path, model.Tags{Artist: "A", Title: "T", Cover: jpeg})
//
// The tagger handles:
//   - Artist (TPE1)
//   - Title (TIT2)
//   - Album (TALB)
//   - Cover Art (APIC, front cover)
//
// Other frames already present in the file are left untouched.
package audio
