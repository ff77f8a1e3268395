// Package model defines the core data structures shared by the
// mp3norm packages.
//
// # TrackMetadata
//
// TrackMetadata is the working copy of one file's tags. Text fields are
// optional so that "no frame" and "empty frame" can be told apart:
//
//	meta := model.TrackMetadata{Artist: model.String("Artist")}
//	model.IsSet(meta.Title) // false
//
// # Outcomes
//
// Each processed file produces an Outcome; a run collects them in a
// RunResult in processing order:
//
//	res.Add(model.Outcome{Index: 1, Filename: "a.mp3", Status: model.StatusUpdated})
//	res.Count(model.StatusUpdated) // 1
package model
