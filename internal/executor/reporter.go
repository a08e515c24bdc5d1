package executor

import (
	"io"
	"sync"

	"github.com/fatih/color"
)

// Reporter prints one colored progress line per task transition.
type Reporter struct {
	mu      sync.Mutex
	out     io.Writer
	running *color.Color
	ok      *color.Color
	failed  *color.Color
	skipped *color.Color
}

// NewReporter writes progress lines to out. A nil out disables reporting.
func NewReporter(out io.Writer, noColor bool) *Reporter {
	r := &Reporter{
		out:     out,
		running: color.New(color.FgCyan, color.Bold),
		ok:      color.New(color.FgGreen),
		failed:  color.New(color.FgRed, color.Bold),
		skipped: color.New(color.FgYellow),
	}
	if noColor {
		for _, c := range []*color.Color{r.running, r.ok, r.failed, r.skipped} {
			c.DisableColor()
		}
	}
	return r
}

func (r *Reporter) line(c *color.Color, format string, args ...any) {
	if r.out == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c.Fprintf(r.out, format+"\n", args...)
}

// Running announces a task that is about to start.
func (r *Reporter) Running(task string) {
	if r == nil {
		return
	}
	r.line(r.running, "[taskgrid] Running task: %s", task)
}

// Succeeded announces a finished task.
func (r *Reporter) Succeeded(task string) {
	if r == nil {
		return
	}
	r.line(r.ok, "[taskgrid] Task succeeded: %s", task)
}

// Failed announces a failed task and its cause.
func (r *Reporter) Failed(task string, err error) {
	if r == nil {
		return
	}
	r.line(r.failed, "[taskgrid] Task failed: %s: %v", task, err)
}

// Skipped announces a task that will not run.
func (r *Reporter) Skipped(task, reason string) {
	if r == nil {
		return
	}
	r.line(r.skipped, "[taskgrid] Skipping task: %s (%s)", task, reason)
}
