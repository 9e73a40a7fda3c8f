package worker

import (
	"github.com/clubhouse/club-cms/internal/service"
)

// StartActivityWorker registers the audit and media cleanup handlers.
func StartActivityWorker(activityService *service.ActivityService) {
	if activityService == nil {
		return
	}
	activityService.RegisterHandlers()
}
