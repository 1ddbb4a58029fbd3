package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"testing"
	"time"
)

func startWatcher(t *testing.T, root string, ignore ...string) (runs <-chan struct{}, stop func() error) {
	t.Helper()
	ch := make(chan struct{}, 16)
	w, err := New(Config{
		Root:     root,
		Debounce: 20 * time.Millisecond,
		Ignore:   ignore,
		Run: func(ctx context.Context) error {
			ch <- struct{}{}
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	return ch, func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(2 * time.Second):
			return errors.New("watcher did not stop")
		}
	}
}

func waitRun(t *testing.T, runs <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-runs:
	case <-time.After(3 * time.Second):
		t.Fatalf("no run after %s", what)
	}
}

func expectNoRun(t *testing.T, runs <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-runs:
		t.Fatalf("unexpected run after %s", what)
	case <-time.After(200 * time.Millisecond):
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcher_RunsOnStartAndOnChange(t *testing.T) {
	root := t.TempDir()
	runs, stop := startWatcher(t, root)

	waitRun(t, runs, "start")
	write(t, filepath.Join(root, "main.go"), "package main\n")
	waitRun(t, runs, "file write")

	if err := stop(); err != nil {
		t.Fatal(err)
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	root := t.TempDir()
	runs, stop := startWatcher(t, root)
	defer func() { _ = stop() }()

	waitRun(t, runs, "start")
	for i := 0; i < 5; i++ {
		write(t, filepath.Join(root, "a.txt"), string(rune('a'+i)))
	}
	waitRun(t, runs, "burst")
	expectNoRun(t, runs, "a single burst")
}

func TestWatcher_IgnoresOutputAndVCS(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"zuu", ".git", "reports"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	runs, stop := startWatcher(t, root, "reports")
	defer func() { _ = stop() }()

	waitRun(t, runs, "start")
	write(t, filepath.Join(root, "zuu", "capture.txt"), "out")
	write(t, filepath.Join(root, ".git", "index"), "x")
	write(t, filepath.Join(root, "reports", "tux.json"), "{}")
	expectNoRun(t, runs, "writes in ignored directories")
}

func TestWatcher_FollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	runs, stop := startWatcher(t, root)
	defer func() { _ = stop() }()

	waitRun(t, runs, "start")
	sub := filepath.Join(root, "pkg")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	waitRun(t, runs, "mkdir")

	// give the new watch a moment to register before writing into it
	time.Sleep(50 * time.Millisecond)
	write(t, filepath.Join(sub, "lib.go"), "package pkg\n")
	waitRun(t, runs, "write in new directory")
}

func TestWatcher_RunErrorStops(t *testing.T) {
	boom := errors.New("render out of sync")
	w, err := New(Config{Root: t.TempDir(), Run: func(context.Context) error { return boom }})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected run error, got %v", err)
	}
}

func TestNew_RequiresRun(t *testing.T) {
	if _, err := New(Config{Root: t.TempDir()}); err == nil {
		t.Fatal("expected error without run function")
	}
}

func TestIgnored(t *testing.T) {
	w := &Watcher{cfg: Config{Root: "/p"}, ignore: append(DefaultIgnore, "out/reports", "tux.json")}
	cases := map[string]bool{
		"/p/src/main.rs":           false,
		"/p/target/debug/x":        true,
		"/p/web/node_modules/a.js": true,
		"/p/out/reports/r.sarif":   true,
		"/p/out/other.txt":         false,
		"/p/tux.json":              true,
		"/p/zuu/Rust/stdout/a.txt": true,
	}
	for path, want := range cases {
		if got := w.ignored(path); got != want {
			t.Errorf("ignored(%s) = %v, want %v", path, got, want)
		}
	}
}

func TestNew_AbsoluteIgnoreBecomesRootRelative(t *testing.T) {
	root := t.TempDir()
	w, err := New(Config{
		Root:   root,
		Ignore: []string{filepath.Join(root, "out"), filepath.Join(root, "reports", "tux.json"), "/elsewhere/out"},
		Run:    func(context.Context) error { return nil },
	})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = w.fs.Close() }()

	if !slices.Contains(w.ignore, "out") || !slices.Contains(w.ignore, filepath.Join("reports", "tux.json")) {
		t.Errorf("absolute entries should be stored relative to the root, got %v", w.ignore)
	}
	if slices.Contains(w.ignore, "/elsewhere/out") {
		t.Errorf("entries outside the root should be dropped, got %v", w.ignore)
	}
	if !w.ignored(filepath.Join(root, "out", "Smoke", "stdout", "a.txt")) {
		t.Error("capture under an absolute output dir should be ignored")
	}
}

func TestNew_RelativeRootIsResolved(t *testing.T) {
	t.Chdir(t.TempDir())
	w, err := New(Config{Root: ".", Run: func(context.Context) error { return nil }})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = w.fs.Close() }()

	if !filepath.IsAbs(w.cfg.Root) {
		t.Errorf("expected absolute root, got %s", w.cfg.Root)
	}
}

func TestWatcher_RunWritingIntoAbsoluteIgnoreDoesNotLoop(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "out")
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}

	var runs atomic.Int32
	w, err := New(Config{
		Root:     root,
		Debounce: 20 * time.Millisecond,
		Ignore:   []string{out},
		Run: func(ctx context.Context) error {
			n := runs.Add(1)
			return os.WriteFile(filepath.Join(out, "report.json"), []byte{byte('0' + n%10)}, 0o644)
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := w.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if n := runs.Load(); n != 1 {
		t.Errorf("runs = %d, want 1", n)
	}
}
