package worker

import (
	"context"
	"log"
	"time"

	"celestia/internal/alert"
)

// AlertWorker периодически запускает Alert Evaluator. Один воркер —
// один цикл, поэтому инвокации не перекрываются.
type AlertWorker struct {
	evaluator *alert.Evaluator
	interval  time.Duration
	stopChan  chan struct{}
	running   bool
}

func NewAlertWorker(evaluator *alert.Evaluator, interval time.Duration) *AlertWorker {
	return &AlertWorker{
		evaluator: evaluator,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

func (w *AlertWorker) Start() {
	if w.running {
		return
	}

	w.running = true
	log.Printf("Alert Worker started with interval %v", w.interval)

	// Первый запуск сразу
	w.evaluate()

	go w.run()
}

func (w *AlertWorker) Stop() {
	if !w.running {
		return
	}

	close(w.stopChan)
	w.running = false
	log.Println("Alert Worker stopped")
}

func (w *AlertWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.evaluate()
		case <-w.stopChan:
			return
		}
	}
}

func (w *AlertWorker) evaluate() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// RunOnce никогда не возвращает ошибку — планировщик не должен
	// делать backoff из-за внутренних сбоев
	report := w.evaluator.RunOnce(ctx)
	log.Printf("Alert Worker: storm=%s proximity=%s", report.Storm.Outcome, report.Proximity.Outcome)
}
