package scheduler

import (
	"context"
	"time"

	"scamnews/internal/logger"
)

// Run вызывает fn сразу при старте и затем каждые interval, пока контекст жив.
// Оркестратор остаётся свободным от таймеров и тестируется прямым вызовом.
func Run(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	log := logger.Log.WithFields(map[string]interface{}{
		"service":  "scheduler",
		"interval": interval.String(),
	})

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("Scheduler started")
	fn(ctx)

	for {
		select {
		case <-ticker.C:
			log.Info("Starting scheduled ingestion cycle")
			fn(ctx)

		case <-ctx.Done():
			log.Info("Stopping scheduler by context")
			return
		}
	}
}
