package pidfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// ErrNotRunning is returned when no live process owns the PID file
var ErrNotRunning = errors.New("planner daemon is not running")

// PIDFile guards the planner daemon against running twice
type PIDFile struct {
	path string
}

// New creates a new PIDFile manager
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the PID file location
func (p *PIDFile) Path() string {
	return p.path
}

// Acquire writes the current PID, failing if another live daemon owns the file.
// Stale or unreadable PID files are replaced.
func (p *PIDFile) Acquire() error {
	pid, err := p.ReadPID()
	switch {
	case err == nil && isProcessRunning(pid):
		return fmt.Errorf("daemon is already running (PID %d)", pid)
	case err == nil, errors.Is(err, errInvalidPID):
		_ = os.Remove(p.path)
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("failed to read existing PID file: %w", err)
	}

	if dir := filepath.Dir(p.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create PID file directory: %w", err)
		}
	}

	pidData := fmt.Sprintf("%d\n", os.Getpid())
	if err := os.WriteFile(p.path, []byte(pidData), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	return nil
}

// Release removes the PID file
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

var errInvalidPID = errors.New("invalid PID file contents")

// ReadPID returns the PID stored in the file
func (p *PIDFile) ReadPID() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidPID, strings.TrimSpace(string(data)))
	}
	return pid, nil
}

// RunningPID returns the PID of the live daemon owning the file, or ErrNotRunning
func (p *PIDFile) RunningPID() (int, error) {
	pid, err := p.ReadPID()
	if err != nil || !isProcessRunning(pid) {
		return 0, ErrNotRunning
	}
	return pid, nil
}

// KillExisting sends SIGTERM to the daemon owning the file and waits up to
// timeout for it to exit before escalating to SIGKILL
func (p *PIDFile) KillExisting(timeout time.Duration) error {
	pid, err := p.RunningPID()
	if err != nil {
		_ = os.Remove(p.path)
		return nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find daemon process %d: %w", pid, err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to signal daemon process %d: %w", pid, err)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !isProcessRunning(pid) {
			_ = os.Remove(p.path)
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	if err := process.Signal(syscall.SIGKILL); err != nil && isProcessRunning(pid) {
		return fmt.Errorf("failed to kill daemon process %d: %w", pid, err)
	}
	_ = os.Remove(p.path)
	return nil
}

// isProcessRunning checks if a process with the given PID is running
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Unix systems, FindProcess always succeeds; signal 0 checks existence
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}

	// EPERM means the process exists but belongs to someone else
	return errors.Is(err, syscall.EPERM)
}
