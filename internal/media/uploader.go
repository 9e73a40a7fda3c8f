package media

import (
	"context"
	"errors"
)

var (
	// ErrRejected marks payloads that are not acceptable images.
	ErrRejected = errors.New("image rejected")
	// ErrDisabled is returned when no object store is configured.
	ErrDisabled = errors.New("media storage not configured")
	// ErrForeignObject is returned when removing a URL this store did not issue.
	ErrForeignObject = errors.New("url not owned by this store")
)

// File is an uploaded payload as received from a multipart form.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Uploader stores images and returns their public URL.
type Uploader interface {
	Upload(ctx context.Context, file File, folder string) (string, error)
	Remove(ctx context.Context, url string) error
}

// Folders names the destination folder per resource type.
type Folders struct {
	News      string
	Players   string
	Opponents string
}

// FoldersFor derives the per-resource folders from a prefix.
func FoldersFor(prefix string) Folders {
	if prefix == "" {
		prefix = "club"
	}
	return Folders{
		News:      prefix + "-news",
		Players:   prefix + "-players",
		Opponents: prefix + "-opponents",
	}
}

type disabledUploader struct{}

// Disabled returns an Uploader that refuses uploads.
func Disabled() Uploader {
	return disabledUploader{}
}

func (disabledUploader) Upload(context.Context, File, string) (string, error) {
	return "", ErrDisabled
}

func (disabledUploader) Remove(context.Context, string) error {
	return nil
}

type uploadRecorder interface {
	RecordUpload(folder string, err error)
}

type instrumented struct {
	next    Uploader
	metrics uploadRecorder
}

// WithMetrics counts upload results per folder.
func WithMetrics(next Uploader, metrics uploadRecorder) Uploader {
	return &instrumented{next: next, metrics: metrics}
}

func (i *instrumented) Upload(ctx context.Context, file File, folder string) (string, error) {
	url, err := i.next.Upload(ctx, file, folder)
	i.metrics.RecordUpload(folder, err)
	return url, err
}

func (i *instrumented) Remove(ctx context.Context, url string) error {
	return i.next.Remove(ctx, url)
}
