package alert

import (
	"context"
	"log"
)

// Notifier доставляет платформенное уведомление. Подтверждение доставки
// не потребляется.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// LogNotifier — дефолтная реализация: пишет уведомления в лог.
// Мобильный клиент подставляет сюда свой push-канал.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(_ context.Context, title, message string) error {
	log.Printf("NOTIFICATION [%s] %s", title, message)
	return nil
}
