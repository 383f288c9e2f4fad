package worker

import (
	"context"
	"log"
	"time"

	"celestia/internal/service"
)

// FeedWorker обновляет медленные источники: луну, астероиды, экипажи, погоду
type FeedWorker struct {
	lunarService     service.LunarService
	asteroidService  service.AsteroidService
	astronautService service.AstronautService
	weatherService   service.WeatherService
	interval         time.Duration
	stopChan         chan struct{}
	running          bool
}

func NewFeedWorker(
	lunarService service.LunarService,
	asteroidService service.AsteroidService,
	astronautService service.AstronautService,
	weatherService service.WeatherService,
	interval time.Duration,
) *FeedWorker {
	return &FeedWorker{
		lunarService:     lunarService,
		asteroidService:  asteroidService,
		astronautService: astronautService,
		weatherService:   weatherService,
		interval:         interval,
		stopChan:         make(chan struct{}),
	}
}

func (w *FeedWorker) Start() {
	if w.running {
		return
	}

	w.running = true
	log.Printf("Feed Worker started with interval %v", w.interval)

	// Первый запуск сразу
	w.sync()

	go w.run()
}

func (w *FeedWorker) Stop() {
	if !w.running {
		return
	}

	close(w.stopChan)
	w.running = false
	log.Println("Feed Worker stopped")
}

func (w *FeedWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sync()
		case <-w.stopChan:
			return
		}
	}
}

func (w *FeedWorker) sync() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	log.Println("Feed Worker: Starting sync...")

	if err := w.lunarService.RefreshSnapshot(ctx); err != nil {
		log.Printf("Feed Worker lunar error: %v", err)
	}

	if err := w.asteroidService.RefreshApproaches(ctx); err != nil {
		log.Printf("Feed Worker asteroid error: %v", err)
	}

	if err := w.astronautService.RefreshRoster(ctx); err != nil {
		log.Printf("Feed Worker astronaut error: %v", err)
	}

	if err := w.weatherService.RefreshSnapshot(ctx); err != nil {
		log.Printf("Feed Worker weather error: %v", err)
	}

	log.Println("Feed Worker: Sync completed")
}
