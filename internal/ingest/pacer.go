package ingest

import (
	"context"
	"time"
)

// Pacer выдерживает паузу между запросами к апстриму, чтобы не упираться
// в его лимиты. В тестах подменяется заглушкой без реального ожидания.
type Pacer interface {
	Pace(ctx context.Context)
}

// SleepPacer — пауза фиксированной длительности, прерываемая отменой контекста.
type SleepPacer struct {
	Delay time.Duration
}

func (p SleepPacer) Pace(ctx context.Context) {
	if p.Delay <= 0 {
		return
	}
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
