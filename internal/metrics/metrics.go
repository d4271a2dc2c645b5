package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Счётчики цикла инжеста и латентность запросов к News API.
// Регистрируются в глобальном реестре, отдаются через /metrics.
var (
	KeywordsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_keywords_total",
		Help: "Keywords processed per ingestion cycle, by result.",
	}, []string{"result"})

	ArticlesSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_articles_saved_total",
		Help: "New articles persisted by the ingestion pipeline.",
	})

	ArticlesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_articles_skipped_total",
		Help: "Articles skipped as duplicates or malformed.",
	})

	Cycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_cycles_total",
		Help: "Completed ingestion cycles, by outcome.",
	}, []string{"outcome"})

	UpstreamRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "newsapi_request_duration_seconds",
		Help:    "Duration of requests to the News API.",
		Buckets: prometheus.DefBuckets,
	})
)
