package ingest

import (
	"context"
	"errors"
	"time"

	"scamnews/internal/logger"
	"scamnews/internal/newsapi"
)

// Report — результат проверки связности с News API.
// Отказы не поднимаются как ошибки, а складываются в отчёт.
type Report struct {
	Configured     bool   `json:"configured"`
	APIKeyPreview  string `json:"api_key_preview,omitempty"`
	OK             bool   `json:"ok"`
	Message        string `json:"message"`
	LatencyMS      int64  `json:"latency_ms"`
	UpstreamStatus string `json:"upstream_status,omitempty"`
	FailureKind    string `json:"failure_kind,omitempty"`
}

// TestConnectivity выполняет ровно один пробный запрос к News API и измеряет
// латентность. Хранилище не затрагивается; применяется для диагностики,
// не в пути инжеста.
func (in *Ingestor) TestConnectivity(ctx context.Context) Report {
	log := logger.Log.WithField("service", "ingest")
	log.Info("Starting connectivity self-test")

	if !in.client.Configured() {
		return Report{
			Configured: false,
			Message:    "API Key não configurada",
		}
	}

	report := Report{
		Configured:    true,
		APIKeyPreview: in.client.KeyPreview(),
	}

	start := time.Now()
	_, err := in.client.Probe(ctx, "teste")
	report.LatencyMS = time.Since(start).Milliseconds()

	if err != nil {
		report.Message = "Falha ao contactar a News API: " + err.Error()
		report.FailureKind = string(newsapi.FailureKind(err))

		// при отказе самого News API пробрасываем статус конверта в отчёт
		var failure *newsapi.Failure
		if errors.As(err, &failure) {
			report.UpstreamStatus = failure.UpstreamStatus
		}

		log.WithField("kind", report.FailureKind).
			Errorf("Connectivity self-test failed: %v", err)
		return report
	}

	report.OK = true
	report.UpstreamStatus = "ok"
	report.Message = "Conectividade OK - API respondeu corretamente"
	log.WithField("latency_ms", report.LatencyMS).Info("Connectivity self-test passed")
	return report
}
