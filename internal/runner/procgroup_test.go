//go:build !windows

package runner

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/ppiankov/tux/internal/task"
)

func TestSetupProcessGroup_SetsAttributes(t *testing.T) {
	cmd := exec.Command("true")
	setupProcessGroup(cmd)

	if cmd.SysProcAttr == nil || !cmd.SysProcAttr.Setpgid {
		t.Fatal("Setpgid not set")
	}
	if cmd.Cancel == nil {
		t.Error("Cancel function not set")
	}
}

func TestSetupProcessGroup_CancelBeforeStart(t *testing.T) {
	cmd := exec.Command("true")
	setupProcessGroup(cmd)
	if err := cmd.Cancel(); err != nil {
		t.Errorf("cancel with no process should be nil, got %v", err)
	}
}

func TestExecute_TimeoutKillsBackgroundChildren(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "child.pid")

	e := NewExecutor(NewStore(filepath.Join(dir, "zuu")))
	e.Timeout = 200 * time.Millisecond

	d := task.Descriptor{
		Title:       "Running all tests",
		Command:     "sleep 60 & echo $! > " + pidFile + "; sleep 60",
		CaptureName: "test_results.txt",
	}
	out := e.Execute(context.Background(), d)
	if out.Failure != task.FailureTimeout {
		t.Fatalf("expected timeout, got %s (%s)", out.Failure, out.Err)
	}

	data, err := os.ReadFile(pidFile)
	if err != nil {
		t.Fatalf("child pid not written: %v", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for processRunning(pid) {
		if time.Now().After(deadline) {
			_ = syscall.Kill(pid, syscall.SIGKILL)
			t.Fatalf("background child %d survived the timeout", pid)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// processRunning treats an unreaped zombie as gone.
func processRunning(pid int) bool {
	if syscall.Kill(pid, 0) != nil {
		return false
	}
	stat, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/stat")
	if err != nil {
		return true
	}
	return !strings.Contains(string(stat), ") Z")
}
