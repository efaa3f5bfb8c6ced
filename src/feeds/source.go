package feeds

import (
	"context"
	"fmt"
	"os"
)

// Source loads one raw snapshot of every feed
type Source interface {
	Load(ctx context.Context) (*RawSnapshot, error)
}

// FileSource reads a snapshot document exported to disk
type FileSource struct {
	Path string
}

// NewFileSource creates a source reading the JSON document at path
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load implements Source
func (s *FileSource) Load(ctx context.Context) (*RawSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	return DecodeSnapshot(f)
}
