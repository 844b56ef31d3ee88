// Package scheduler runs the periodic background refresh used by watch mode,
// keeping a long-lived session's store in step with edits made from other
// devices.
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/adiwicaksana/filmtrack/internal/controllers"
	"github.com/adiwicaksana/filmtrack/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Refresher reloads the collection on a cron schedule.
type Refresher struct {
	cron     *cron.Cron
	ctrl     *controllers.CollectionController
	schedule string
	logger   *logrus.Logger
	onChange func()
}

// NewRefresher creates a refresher. onChange is called after every successful
// reload so the caller can re-render; it may be nil.
func NewRefresher(schedule string, ctrl *controllers.CollectionController, onChange func(), logger *logrus.Logger) *Refresher {
	return &Refresher{
		cron:     cron.New(),
		ctrl:     ctrl,
		schedule: schedule,
		logger:   logger,
		onChange: onChange,
	}
}

// Start registers the refresh job and starts the cron loop.
func (r *Refresher) Start() error {
	_, err := r.cron.AddFunc(r.schedule, r.refresh)
	if err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}

	r.cron.Start()
	r.logger.WithField("schedule", r.schedule).Info("Background refresh started")
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("Background refresh stopped")
}

func (r *Refresher) refresh() {
	err := r.ctrl.Load(context.Background())
	if errors.Is(err, models.ErrMutationInFlight) {
		r.logger.Debug("Skipping scheduled refresh, a mutation is in flight")
		return
	}
	if err != nil {
		r.logger.WithError(err).Warn("Scheduled refresh failed")
		return
	}
	if r.onChange != nil {
		r.onChange()
	}
}
