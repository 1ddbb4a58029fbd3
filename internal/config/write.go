package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrExists reports that Write would overwrite a config file.
var ErrExists = errors.New("config file already exists")

// document is the on-disk layout written by init.
type document struct {
	Languages []string     `toml:"languages" yaml:"languages"`
	Strict    bool         `toml:"strict" yaml:"strict"`
	Style     string       `toml:"style" yaml:"style"`
	OutputDir string       `toml:"output_dir" yaml:"output_dir"`
	Timeout   string       `toml:"timeout" yaml:"timeout"`
	Guard     bool         `toml:"guard" yaml:"guard"`
	Redact    bool         `toml:"redact" yaml:"redact"`
	Subjects  []subjectDoc `toml:"subjects,omitempty" yaml:"subjects,omitempty"`
}

type subjectDoc struct {
	Name  string    `toml:"name" yaml:"name"`
	Tasks []taskDoc `toml:"tasks" yaml:"tasks"`
}

type taskDoc struct {
	Category string `toml:"category,omitempty" yaml:"category,omitempty"`
	Title    string `toml:"title,omitempty" yaml:"title,omitempty"`
	Command  string `toml:"command" yaml:"command"`
	Success  string `toml:"success,omitempty" yaml:"success,omitempty"`
	Failure  string `toml:"failure,omitempty" yaml:"failure,omitempty"`
	Capture  string `toml:"capture,omitempty" yaml:"capture,omitempty"`
}

func newDocument(cfg *Config) document {
	doc := document{
		Languages: cfg.Languages,
		Strict:    cfg.Strict,
		Style:     cfg.Style,
		OutputDir: cfg.OutputDir,
		Timeout:   cfg.Timeout.String(),
		Guard:     cfg.Guard,
		Redact:    cfg.Redact,
	}
	if doc.Languages == nil {
		doc.Languages = []string{}
	}
	for _, s := range cfg.Subjects {
		sd := subjectDoc{Name: s.Name}
		for _, t := range s.Tasks {
			sd.Tasks = append(sd.Tasks, taskDoc(t))
		}
		doc.Subjects = append(doc.Subjects, sd)
	}
	return doc
}

// Marshal encodes cfg as TOML, or as YAML when path ends in .yml or .yaml.
func Marshal(path string, cfg *Config) ([]byte, error) {
	doc := newDocument(cfg)

	var buf bytes.Buffer
	buf.WriteString("# tux configuration, see `tux init --help`\n")

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
	default:
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// Write stores cfg at path. Unless force is set an existing file is left
// untouched and ErrExists is returned.
func Write(path string, cfg *Config, force bool) error {
	data, err := Marshal(path, cfg)
	if err != nil {
		return err
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !force {
		flags = os.O_CREATE | os.O_WRONLY | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
		return fmt.Errorf("create config: %w", err)
	}

	_, writeErr := f.Write(data)
	closeErr := f.Close()
	if writeErr != nil {
		return fmt.Errorf("write config: %w", writeErr)
	}
	return closeErr
}

// Exists reports whether a file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
