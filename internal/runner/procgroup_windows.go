//go:build windows

package runner

import "os/exec"

// setupProcessGroup is a no-op on Windows where Setpgid is unavailable;
// cancellation falls back to killing the shell process only.
func setupProcessGroup(cmd *exec.Cmd) {}
