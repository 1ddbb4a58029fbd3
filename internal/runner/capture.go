package runner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Stream names the two captured output streams.
type Stream string

const (
	Stdout Stream = "stdout"
	Stderr Stream = "stderr"
)

// Store lays out capture files under Root:
//
//	<Root>/stdout/<capture name>
//	<Root>/stderr/<capture name>
type Store struct {
	Root string
}

// NewStore creates a capture store rooted at dir. Nothing is created on disk
// until a capture is opened.
func NewStore(dir string) *Store {
	return &Store{Root: dir}
}

// Path returns the capture file path for a task and stream.
func (s *Store) Path(name string, stream Stream) string {
	return filepath.Join(s.Root, string(stream), name)
}

// Paths returns the stdout and stderr capture paths for a task.
func (s *Store) Paths(name string) (stdout, stderr string) {
	return s.Path(name, Stdout), s.Path(name, Stderr)
}

// Capture owns the open capture files of one task execution.
type Capture struct {
	Stdout *os.File
	Stderr *os.File
}

// Close closes both files.
func (c *Capture) Close() error {
	return errors.Join(c.Stdout.Close(), c.Stderr.Close())
}

// Open creates the stream directories if needed and opens both capture
// files, truncating output left by a previous attempt.
func (s *Store) Open(name string) (*Capture, error) {
	outPath, errPath := s.Paths(name)

	for _, dir := range []string{filepath.Dir(outPath), filepath.Dir(errPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create capture dir: %w", err)
		}
	}

	stdout, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("create stdout capture: %w", err)
	}
	stderr, err := os.Create(errPath)
	if err != nil {
		_ = stdout.Close()
		return nil, fmt.Errorf("create stderr capture: %w", err)
	}

	return &Capture{Stdout: stdout, Stderr: stderr}, nil
}

// Read returns the content of a capture file.
func (s *Store) Read(name string, stream Stream) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name, stream))
	if err != nil {
		return nil, fmt.Errorf("read %s capture: %w", stream, err)
	}
	return data, nil
}
