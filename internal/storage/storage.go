// Package storage supplies dataset bytes to the loader and persists derived
// results. Sources and targets are addressed by plain paths or s3:// URIs.
package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Provider supplies the raw tabular bytes of a dataset.
type Provider interface {
	// Fetch returns the full dataset contents.
	Fetch(ctx context.Context) ([]byte, error)
	// String describes the source for logging.
	String() string
}

// Sink persists a derived result under a target name.
type Sink interface {
	Store(ctx context.Context, name string, content []byte, contentType string) error
}

// ParseSource resolves a source reference to a provider. "s3://bucket/key"
// selects S3; anything else is a local file path.
func ParseSource(source string) (Provider, error) {
	if source == "" {
		return nil, fmt.Errorf("no dataset source specified")
	}
	if strings.HasPrefix(source, "s3://") {
		bucket, key, err := splitS3URI(source)
		if err != nil {
			return nil, err
		}
		return &S3Provider{Bucket: bucket, Key: key}, nil
	}
	return &FileProvider{Path: source}, nil
}

// ParseTarget resolves a target reference to a sink and an object name.
// "s3://bucket/key" selects S3; anything else is a local file path whose
// directory becomes the sink.
func ParseTarget(target string) (Sink, string, error) {
	if target == "" {
		return nil, "", fmt.Errorf("no target specified")
	}
	if strings.HasPrefix(target, "s3://") {
		bucket, key, err := splitS3URI(target)
		if err != nil {
			return nil, "", err
		}
		return &S3Sink{Bucket: bucket}, key, nil
	}
	dir := filepath.Dir(target)
	return &DirSink{Dir: dir}, filepath.Base(target), nil
}

func splitS3URI(uri string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(uri, "s3://")
	bucket, key, found := strings.Cut(trimmed, "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 uri %q, expected s3://bucket/key", uri)
	}
	return bucket, path.Clean(key), nil
}
