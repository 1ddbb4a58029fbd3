package runner

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// One run owns the output directory at a time. The owner leaves a JSON
// record of itself in lockFileName, created exclusively so that of two runs
// starting together only one gets to truncate the captures.
const lockFileName = ".tux.lock"

// ErrLocked reports that another live tux process owns the output directory.
var ErrLocked = errors.New("output directory is locked")

// LockInfo is the record kept in the lock file.
type LockInfo struct {
	PID       int       `json:"pid"`
	Command   string    `json:"command"`
	StartedAt time.Time `json:"started_at"`
}

func (l *LockInfo) String() string {
	return fmt.Sprintf("PID %d since %s (%s)", l.PID, l.StartedAt.Format(time.RFC3339), l.Command)
}

// Acquire claims dir for this process, creating dir when missing. A record
// left by this process, or by one that has exited, is replaced.
func Acquire(dir, command string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	self := LockInfo{PID: os.Getpid(), Command: command, StartedAt: time.Now()}

	switch err := claim(dir, &self); {
	case err == nil:
		return nil
	case !errors.Is(err, os.ErrExist):
		return err
	}

	owner, err := ReadLock(dir)
	if err != nil {
		return fmt.Errorf("%w: %s (unreadable lock: %v)", ErrLocked, dir, err)
	}
	if owner.PID != self.PID && running(owner.PID) {
		return fmt.Errorf("%w: %s held by %s", ErrLocked, dir, owner)
	}

	slog.Warn("taking over lock of a finished run", "dir", dir, "pid", owner.PID, "command", owner.Command)
	if err := os.Remove(lockPath(dir)); err != nil {
		return fmt.Errorf("drop old lock: %w", err)
	}
	return claim(dir, &self)
}

// Release gives up dir. Releasing twice is harmless.
func Release(dir string) {
	p := lockPath(dir)
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("release lock", "path", p, "error", err)
	}
}

// ReadLock returns the record of the run owning dir.
func ReadLock(dir string) (*LockInfo, error) {
	data, err := os.ReadFile(lockPath(dir))
	if err != nil {
		return nil, err
	}
	info := &LockInfo{}
	if err := json.Unmarshal(data, info); err != nil {
		return nil, fmt.Errorf("parse lock: %w", err)
	}
	return info, nil
}

func lockPath(dir string) string {
	return filepath.Join(dir, lockFileName)
}

// claim writes the record only if no lock file exists yet; the os.ErrExist
// of a held lock stays visible through the wrapping.
func claim(dir string, info *LockInfo) error {
	p := lockPath(dir)
	f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create lock %s: %w", p, err)
	}
	if err := json.NewEncoder(f).Encode(info); err != nil {
		_ = f.Close()
		return fmt.Errorf("write lock %s: %w", p, err)
	}
	return f.Close()
}

// running sends pid signal 0. EPERM means the process exists but
// belongs to someone else.
func running(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
