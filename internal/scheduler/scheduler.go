// Package scheduler keeps the cache warm for the configured default stations
// so the first request after a TTL expiry is still served from memory.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/westpointwind/marine-api/internal/marine"
)

// Scheduler periodically refreshes observations and forecast data for the
// default stations. Prewarm failures are logged and retried on the next tick;
// they never fail the process.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *marine.Service
	interval  time.Duration
}

// New creates a Scheduler. An interval <= 0 disables prewarming.
func New(interval time.Duration, service *marine.Service) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
	}
}

// Start schedules the prewarm job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: prewarm disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		log.Println("scheduler: running cache prewarm")

		station := s.service.DefaultStation()
		tideStation := s.service.DefaultTideStation()

		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if _, _, errs := s.service.GetObservations(ctx, station, tideStation); len(errs) > 0 {
				log.Printf("scheduler: observations prewarm failed for %s: %v", station, errs)
			}
		}()
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if _, _, err := s.service.GetForecast(ctx, station); err != nil {
				log.Printf("scheduler: forecast prewarm failed for %s: %v", station, err)
			}
		}()

		wg.Wait()
		log.Println("scheduler: completed cache prewarm")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
