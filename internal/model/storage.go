package model

import (
	"context"
	"io"
)

// Storage holds downloadable artifacts.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Stat returns ErrFileNotFound when the object does not exist.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
}

// ObjectInfo describes a stored artifact.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// Artifact is an opened download.
type Artifact struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.ReadCloser
}
