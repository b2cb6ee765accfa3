package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ArtifactWriter persists run artifacts and returns where each one landed.
type ArtifactWriter interface {
	WriteReport(name, markdown string) (string, error)
	WriteChart(name string, render func(io.Writer) error) (string, error)
}

// FSWriter writes artifacts into a single output directory.
type FSWriter struct {
	dir string
}

// NewFSWriter creates dir if needed and returns a writer rooted there.
func NewFSWriter(dir string) (*FSWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &FSWriter{dir: dir}, nil
}

// WriteReport stores the Markdown document under name.
func (w *FSWriter) WriteReport(name, markdown string) (string, error) {
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// WriteChart streams a render into name. The image goes through a temp file
// so a failed render never leaves a partial artifact behind.
func (w *FSWriter) WriteChart(name string, render func(io.Writer) error) (string, error) {
	f, err := os.CreateTemp(w.dir, name+".*")
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close chart file: %w", err)
	}

	path := filepath.Join(w.dir, name)
	if err := os.Rename(f.Name(), path); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("place chart file: %w", err)
	}
	return path, nil
}
