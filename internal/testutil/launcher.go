package testutil

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vk/taskgrid/internal/executor"
)

// RecordingLauncher is a fake executor.Launcher that never starts a real
// process. Outcomes are looked up by the launched command line.
type RecordingLauncher struct {
	// ExitCodes maps a command line (see Launch.Line) to the exit code to
	// report. Unlisted lines exit 0.
	ExitCodes map[string]int
	// Missing lists program paths that cannot be started.
	Missing map[string]bool
	// Delay is how long every launch takes.
	Delay time.Duration

	mu       sync.Mutex
	launches []Launch
	running  atomic.Int32
	peak     atomic.Int32
}

var _ executor.Launcher = (*RecordingLauncher)(nil)

// Launch implements executor.Launcher.
func (l *RecordingLauncher) Launch(_ context.Context, p *executor.Process) (int, error) {
	if l.Missing[p.Path] {
		return -1, fmt.Errorf("exec: %q: %w", p.Path, exec.ErrNotFound)
	}

	now := l.running.Add(1)
	for {
		peak := l.peak.Load()
		if now <= peak || l.peak.CompareAndSwap(peak, now) {
			break
		}
	}

	launch := Launch{
		Path: p.Path,
		Args: append([]string(nil), p.Args...),
		Env:  append([]string(nil), p.Env...),
		Dir:  p.Dir,
	}
	launch.Start = time.Now()
	if l.Delay > 0 {
		time.Sleep(l.Delay)
	}
	launch.End = time.Now()
	l.running.Add(-1)

	l.mu.Lock()
	l.launches = append(l.launches, launch)
	l.mu.Unlock()

	return l.ExitCodes[launch.Line()], nil
}

// Launches returns every recorded launch in completion order.
func (l *RecordingLauncher) Launches() []Launch {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Launch(nil), l.launches...)
}

// Lines returns the command lines of every recorded launch.
func (l *RecordingLauncher) Lines() []string {
	var lines []string
	for _, launch := range l.Launches() {
		lines = append(lines, launch.Line())
	}
	return lines
}

// PeakConcurrency returns the largest number of launches in flight at once.
func (l *RecordingLauncher) PeakConcurrency() int {
	return int(l.peak.Load())
}
