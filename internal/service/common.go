package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/clubhouse/club-cms/internal/auth"
	"github.com/clubhouse/club-cms/internal/events"
	"github.com/clubhouse/club-cms/internal/media"
	"github.com/clubhouse/club-cms/internal/repository"
	apperrors "github.com/clubhouse/club-cms/pkg/util"
)

// ContentDependencies bundles what the content services share.
type ContentDependencies struct {
	Uploader   media.Uploader
	Folders    media.Folders
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// publisher emits activity events. Handler failures are logged; they never
// fail the request that triggered them.
type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

func newPublisher(deps ContentDependencies) publisher {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return publisher{dispatcher: deps.Dispatcher, logger: logger}
}

func (p publisher) publish(ctx context.Context, eventType events.EventType, resource events.Resource, id string, payload any) {
	if p.dispatcher == nil {
		return
	}
	event := events.New(eventType, resource, id, actorID(ctx), payload)
	if err := p.dispatcher.Publish(ctx, event); err != nil {
		p.logger.Warn("event handler failed",
			zap.String("event_type", string(eventType)),
			zap.String("resource", string(resource)),
			zap.Error(err))
	}
}

// orphaned reports uploaded URLs that no stored record references.
func (p publisher) orphaned(ctx context.Context, resource events.Resource, id, reason string, urls ...string) {
	kept := make([]string, 0, len(urls))
	for _, url := range urls {
		if url != "" {
			kept = append(kept, url)
		}
	}
	if len(kept) == 0 {
		return
	}
	p.publish(ctx, events.EventMediaOrphaned, resource, id, events.MediaOrphanedPayload{URLs: kept, Reason: reason})
}

func actorID(ctx context.Context) string {
	if identity, ok := auth.IdentityFrom(ctx); ok {
		return identity.SubjectID
	}
	return ""
}

// storeError maps repository sentinels onto API errors for resource.
func storeError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewValidationError(resource+" already exists", nil)
	default:
		return err
	}
}

// upload stores file when present. A nil file yields an empty URL.
func upload(ctx context.Context, uploader media.Uploader, file *media.File, folder string) (string, error) {
	if file == nil {
		return "", nil
	}
	url, err := uploader.Upload(ctx, *file, folder)
	if err != nil {
		return "", apperrors.NewUploadError(err, errors.Is(err, media.ErrRejected))
	}
	return url, nil
}

// fieldErrors collects per-field validation messages.
type fieldErrors map[string]any

func (f fieldErrors) add(field, message string) {
	f[field] = message
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperrors.NewValidationError("validation failed", map[string]any(f))
}
