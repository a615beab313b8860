// Package scheduler manages the periodic reference-dataset refresh and
// dataset-age monitoring, wired by dependency injection.
package scheduler

import (
	"time"

	"github.com/avelar/pillreminder-api/dataset"
	"github.com/avelar/pillreminder-api/interfaces"
	"github.com/avelar/pillreminder-api/logging"
	"github.com/avelar/pillreminder-api/metrics"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements the Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler reloads the reference dataset on a daily schedule. The entity
// store needs no scheduled work; only the dataset snapshot goes stale.
type Scheduler struct {
	gate      *dataset.Gate
	scheduler *gocron.Scheduler
	stopMon   chan struct{}
}

// NewScheduler creates a scheduler around the gate it refreshes.
func NewScheduler(gate *dataset.Gate) *Scheduler {
	return &Scheduler{
		gate:      gate,
		scheduler: gocron.NewScheduler(time.Local),
		stopMon:   make(chan struct{}),
	}
}

// Start schedules a daily 06:00 dataset reload and begins age monitoring.
// The initial load already happened when the gate was constructed; a
// failure here only logs, because the gate's fail-open policy covers the
// gap until the next attempt.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Days().At("06:00").Do(func() {
		if err := s.gate.Refresh(); err != nil {
			logging.Error("Failed to refresh reference dataset", "error", err)
		}
		metrics.DatasetRows.Set(float64(s.gate.RowCount()))
	})

	if err != nil {
		logging.Error("Failed to schedule dataset refresh", "error", err)
		return err
	}

	s.scheduler.StartAsync()
	s.startAgeMonitoring()

	metrics.DatasetRows.Set(float64(s.gate.RowCount()))

	return nil
}

// Stop stops the scheduler and the monitoring goroutine.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	close(s.stopMon)
}

// startAgeMonitoring warns when the dataset snapshot has not been
// refreshed for more than a day past its schedule.
func (s *Scheduler) startAgeMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				lastLoaded := s.gate.LastLoaded()
				if !lastLoaded.IsZero() && time.Since(lastLoaded) > 25*time.Hour {
					logging.Warn("Reference dataset hasn't been refreshed in over 25 hours")
				}

			case <-s.stopMon:
				return
			}
		}
	}()
}
