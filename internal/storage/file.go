package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileProvider reads the dataset from a local file.
type FileProvider struct {
	Path string
}

// Fetch reads the full file contents.
func (p *FileProvider) Fetch(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}
	return data, nil
}

func (p *FileProvider) String() string {
	return p.Path
}

// DirSink writes results into a local directory, creating it on demand.
type DirSink struct {
	Dir string
}

// Store writes the result file. The content type is ignored for local
// files; the name's extension carries the format.
func (s *DirSink) Store(ctx context.Context, name string, content []byte, contentType string) error {
	if s.Dir != "" && s.Dir != "." {
		if err := os.MkdirAll(s.Dir, 0o755); err != nil {
			return fmt.Errorf("failed to create result directory: %w", err)
		}
	}
	if err := os.WriteFile(filepath.Join(s.Dir, name), content, 0o644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
