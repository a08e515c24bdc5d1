package executor

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// Process describes one external program to start.
type Process struct {
	Path   string
	Args   []string
	Env    []string
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Launcher starts a process and waits for it. A non-nil error means the
// process could not be started; otherwise the exit code is returned.
type Launcher interface {
	Launch(ctx context.Context, p *Process) (int, error)
}

// OSLauncher starts real operating-system processes. Output is not captured:
// it goes straight to the writers in Process.
type OSLauncher struct{}

// Launch implements Launcher.
func (OSLauncher) Launch(ctx context.Context, p *Process) (int, error) {
	// Running processes are left to the operating environment's signal
	// delivery, so no CommandContext here.
	cmd := exec.Command(p.Path, p.Args...)
	cmd.Env = p.Env
	cmd.Dir = p.Dir
	cmd.Stdin = p.Stdin
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr

	if err := cmd.Start(); err != nil {
		return -1, err
	}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, err
	}
	return 0, nil
}
