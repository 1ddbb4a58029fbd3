package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func starter() *Config {
	cfg := Default()
	cfg.Languages = []string{"Rust", "Go"}
	cfg.Strict = true
	cfg.Timeout = 5 * time.Minute
	return cfg
}

func TestWrite_TOMLLoadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tux.toml")
	cfg := starter()
	cfg.Subjects = []SubjectConfig{{Name: "Docs", Tasks: []TaskConfig{{Category: "lint", Command: "markdownlint ."}}}}

	if err := Write(path, cfg, false); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `languages = ['Rust', 'Go']`) && !strings.Contains(string(data), `languages = ["Rust", "Go"]`) {
		t.Errorf("unexpected toml:\n%s", data)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("written file does not load: %v\n%s", err, data)
	}
	if !got.Strict || got.Timeout != 5*time.Minute || len(got.Subjects) != 1 {
		t.Errorf("loaded %+v", got)
	}
}

func TestWrite_YAMLByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tux.yml")
	if err := Write(path, starter(), false); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "languages:\n  - Rust\n  - Go\n") {
		t.Errorf("expected yaml list, got:\n%s", data)
	}
	if strings.Contains(string(data), "subjects") {
		t.Error("empty subjects should be omitted")
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("written yaml does not load: %v", err)
	}
}

func TestWrite_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tux.toml")
	if err := os.WriteFile(path, []byte("# mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Write(path, starter(), false)
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "# mine\n" {
		t.Error("existing file was modified")
	}

	if err := Write(path, starter(), true); err != nil {
		t.Fatalf("forced write: %v", err)
	}
	if !Exists(path) {
		t.Fatal("file should exist")
	}
	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), "strict = true") {
		t.Errorf("forced write did not replace content:\n%s", data)
	}
}
