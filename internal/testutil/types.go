package testutil

import "time"

// ExecutionRecord holds the start and end times of a single launched process.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// Launch is one process start observed by a RecordingLauncher.
type Launch struct {
	Path string
	Args []string
	Env  []string
	Dir  string
	ExecutionRecord
}

// Line renders the launch as a single command line.
func (l Launch) Line() string {
	out := l.Path
	for _, a := range l.Args {
		out += " " + a
	}
	return out
}
