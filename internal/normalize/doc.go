// Package normalize provides the run orchestration logic for filling in
// MP3 metadata across a set of files.
//
// # Manager
//
// The Manager coordinates a run:
//
//  1. Validate the settings against the selected modes
//  2. Collect the input files
//  3. Open the album lookup session (album or cover mode only)
//  4. Resolve each file in order, sharing one cover cache
//  5. Close the session
//
// # Basic Usage
//
//	opts := normalize.Options{Modes: config.Modes{Extract: true, Album: true}}
//	manager := normalize.NewManager(settings, opts, func(event normalize.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	result, err := manager.Run(ctx, []string{"/music/incoming"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Count(model.StatusUpdated), "file(s) updated")
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Each file produces an "[i/n] filename" event followed by its status.
package normalize
