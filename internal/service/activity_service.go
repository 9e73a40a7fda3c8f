package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/clubhouse/club-cms/internal/events"
	"github.com/clubhouse/club-cms/internal/media"
)

type orphanRecorder interface {
	RecordOrphanRemoved()
}

// ActivityService reacts to content events: it writes the audit log and
// removes uploads that no record references.
type ActivityService struct {
	dispatcher events.Dispatcher
	uploader   media.Uploader
	metrics    orphanRecorder
	logger     *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, uploader media.Uploader, metrics orphanRecorder, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		dispatcher: dispatcher,
		uploader:   uploader,
		metrics:    metrics,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventResourceCreated, a.handleAudit)
	a.dispatcher.Subscribe(events.EventResourceUpdated, a.handleAudit)
	a.dispatcher.Subscribe(events.EventResourceDeleted, a.handleAudit)
	a.dispatcher.Subscribe(events.EventMediaOrphaned, a.handleMediaOrphaned)
}

func (a *ActivityService) handleAudit(_ context.Context, event events.Event) error {
	a.logger.Info("content changed",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("resource", string(event.Resource)),
		zap.String("resource_id", event.ResourceID),
		zap.String("actor_id", event.ActorID))
	return nil
}

func (a *ActivityService) handleMediaOrphaned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MediaOrphanedPayload)
	if !ok || a.uploader == nil {
		return nil
	}

	var errs []error
	for _, url := range payload.URLs {
		err := a.uploader.Remove(ctx, url)
		switch {
		case err == nil:
			if a.metrics != nil {
				a.metrics.RecordOrphanRemoved()
			}
			a.logger.Debug("orphaned media removed",
				zap.String("resource", string(event.Resource)),
				zap.String("reason", payload.Reason),
				zap.String("url", url))
		case errors.Is(err, media.ErrForeignObject):
			a.logger.Debug("orphaned media not managed here", zap.String("url", url))
		default:
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
