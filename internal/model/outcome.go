package model

// Status is the final state of one file's resolution pass.
type Status int

const (
	// StatusUpdated means tags were written to the file.
	StatusUpdated Status = iota

	// StatusSkipped means the file was left untouched.
	StatusSkipped

	// StatusInvalidFilename means the extraction pattern did not match.
	StatusInvalidFilename

	// StatusLoadFailed means the file could not be read as an MP3.
	StatusLoadFailed

	// StatusSaveFailed means resolved tags could not be written.
	StatusSaveFailed
)

// String returns the report label for the status.
func (s Status) String() string {
	switch s {
	case StatusUpdated:
		return "updated"
	case StatusSkipped:
		return "skipped"
	case StatusInvalidFilename:
		return "invalid-filename"
	case StatusLoadFailed:
		return "load-failed"
	case StatusSaveFailed:
		return "save-failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of processing a single file.
type Outcome struct {
	// Index is the 1-based position in processing order.
	Index int

	// Path is the file that was processed.
	Path string

	// Filename is the base name of Path.
	Filename string

	Status Status

	// Err carries the load or save error, if any.
	Err error

	// Final holds the resolved metadata when resolution got that far.
	Final *TrackMetadata
}

// RunResult collects outcomes in processing order.
type RunResult struct {
	Outcomes []Outcome
}

// Add appends an outcome.
func (r *RunResult) Add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Count returns how many outcomes have the given status.
func (r *RunResult) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Failed reports whether any file ended in a load or save failure.
func (r *RunResult) Failed() bool {
	return r.Count(StatusLoadFailed) > 0 || r.Count(StatusSaveFailed) > 0
}
