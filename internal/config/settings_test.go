package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_TOML(t *testing.T) {
	path := writeTemp(t, "tux.toml", `
languages = ["Rust", "Go"]
strict = true
style = "systemd"
timeout = "10m"

[[subjects]]
name = "Docs"
[[subjects.tasks]]
category = "lint"
command = "markdownlint ."
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.Languages) != 2 || cfg.Languages[0] != "Rust" || cfg.Languages[1] != "Go" {
		t.Errorf("languages: got %v", cfg.Languages)
	}
	if !cfg.Strict {
		t.Error("strict: got false, want true")
	}
	if cfg.Style != "systemd" {
		t.Errorf("style: got %q", cfg.Style)
	}
	if cfg.Timeout != 10*time.Minute {
		t.Errorf("timeout: got %v, want 10m", cfg.Timeout)
	}
	if cfg.OutputDir != DefaultOutputDir {
		t.Errorf("output_dir default: got %q", cfg.OutputDir)
	}
	if len(cfg.Subjects) != 1 || cfg.Subjects[0].Name != "Docs" || cfg.Subjects[0].Tasks[0].Command != "markdownlint ." {
		t.Errorf("subjects: got %+v", cfg.Subjects)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeTemp(t, "tux.yml", `
languages: [Python]
output_dir: .tux
guard: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutputDir != ".tux" || !cfg.Guard || cfg.Languages[0] != "Python" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Style != "openrc" || cfg.Strict {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeTemp(t, "tux.toml", `languages = ["Rust"]`)
	t.Setenv("TUX_STRICT", "true")
	t.Setenv("TUX_LANGUAGES", "Go,PHP")
	t.Setenv("TUX_TIMEOUT", "30s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Strict {
		t.Error("TUX_STRICT should override the file")
	}
	if len(cfg.Languages) != 2 || cfg.Languages[1] != "PHP" {
		t.Errorf("TUX_LANGUAGES: got %v", cfg.Languages)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("TUX_TIMEOUT: got %v", cfg.Timeout)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "tux.toml"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"syntax":           `languages = [`,
		"negative timeout": "languages = [\"Go\"]\ntimeout = \"-1s\"",
		"nothing to check": `strict = true`,
		"empty command":    "[[subjects]]\nname = \"X\"\n[[subjects.tasks]]\ncategory = \"lint\"\n",
	}
	for name, content := range cases {
		if _, err := Load(writeTemp(t, "tux.toml", content)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	if _, err := Resolve(dir, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	yml := filepath.Join(dir, "tux.yml")
	if err := os.WriteFile(yml, []byte("languages: [Go]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Resolve(dir, "")
	if err != nil || got != yml {
		t.Fatalf("expected %s, got %s (%v)", yml, got, err)
	}

	toml := filepath.Join(dir, "tux.toml")
	if err := os.WriteFile(toml, []byte("languages = [\"Go\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, _ := Resolve(dir, ""); got != toml {
		t.Errorf("tux.toml should win over tux.yml, got %s", got)
	}

	if _, err := Resolve(dir, filepath.Join(dir, "other.toml")); !errors.Is(err, ErrNotFound) {
		t.Errorf("explicit missing path: got %v", err)
	}
}
