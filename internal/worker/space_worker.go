package worker

import (
	"context"
	"log"
	"time"

	"celestia/internal/service"
)

// SpaceWorker обновляет быстрые источники: K-индекс и позицию МКС
type SpaceWorker struct {
	kpService  service.KpService
	issService service.ISSService
	interval   time.Duration
	stopChan   chan struct{}
	running    bool
}

func NewSpaceWorker(kpService service.KpService, issService service.ISSService, interval time.Duration) *SpaceWorker {
	return &SpaceWorker{
		kpService:  kpService,
		issService: issService,
		interval:   interval,
		stopChan:   make(chan struct{}),
	}
}

func (w *SpaceWorker) Start() {
	if w.running {
		return
	}

	w.running = true
	log.Printf("Space Worker started with interval %v", w.interval)

	// Первый запуск сразу
	w.refresh()

	go w.run()
}

func (w *SpaceWorker) Stop() {
	if !w.running {
		return
	}

	close(w.stopChan)
	w.running = false
	log.Println("Space Worker stopped")
}

func (w *SpaceWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.refresh()
		case <-w.stopChan:
			return
		}
	}
}

func (w *SpaceWorker) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := w.kpService.RefreshReadings(ctx); err != nil {
		log.Printf("Space Worker Kp error: %v", err)
	}

	if err := w.issService.RefreshPosition(ctx); err != nil {
		log.Printf("Space Worker ISS error: %v", err)
	}
}
