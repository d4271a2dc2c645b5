package ingest

import (
	"context"
	"errors"
	"sync"
	"time"

	"scamnews/internal/classifier"
	"scamnews/internal/logger"
	"scamnews/internal/metrics"
	"scamnews/internal/models"
	"scamnews/internal/newsapi"
)

// ErrCycleRunning возвращается, если цикл инжеста уже выполняется.
var ErrCycleRunning = errors.New("ingestion cycle already running")

// Store — операции хранилища, нужные инжесту.
type Store interface {
	ArticleExists(ctx context.Context, url string) (bool, error)
	SaveArticle(ctx context.Context, a *models.Article) (int, error)
	SearchArticles(ctx context.Context, query string) ([]models.Article, error)
}

// Searcher — клиент News API.
type Searcher interface {
	Configured() bool
	KeyPreview() string
	Search(ctx context.Context, keyword string) ([]models.RawArticle, error)
	Probe(ctx context.Context, keyword string) ([]models.RawArticle, error)
}

// Result — итог одного цикла инжеста. Не персистится, только логируется.
type Result struct {
	KeywordsOK     int  `json:"keywords_ok"`
	KeywordsFailed int  `json:"keywords_failed"`
	Saved          int  `json:"saved"`
	Skipped        int  `json:"skipped"`
	Seeded         bool `json:"seeded"`
}

// Ingestor обходит набор ключевых фраз, нормализует и сохраняет новые статьи.
// Один логический воркер: фразы обрабатываются последовательно с паузой между
// запросами — это осознанное решение ради лимитов апстрима, не распараллеливать.
type Ingestor struct {
	store    Store
	client   Searcher
	pacer    Pacer
	keywords []string

	mu sync.Mutex
}

// NewIngestor создаёт Ingestor с переданными зависимостями.
func NewIngestor(store Store, client Searcher, pacer Pacer, keywords []string) *Ingestor {
	return &Ingestor{
		store:    store,
		client:   client,
		pacer:    pacer,
		keywords: keywords,
	}
}

// Running сообщает, выполняется ли сейчас цикл.
func (in *Ingestor) Running() bool {
	if in.mu.TryLock() {
		in.mu.Unlock()
		return false
	}
	return true
}

// RunCycle выполняет один цикл инжеста. Параллельный вызов получает
// ErrCycleRunning: проверка existence + вставка не атомарны, и два цикла
// могли бы продублировать статью.
//
// Без настроенного API-ключа сетевые запросы не выполняются вовсе —
// вместо них сеется фиксированный набор примеров.
func (in *Ingestor) RunCycle(ctx context.Context) (Result, error) {
	if !in.mu.TryLock() {
		return Result{}, ErrCycleRunning
	}
	defer in.mu.Unlock()

	log := logger.Log.WithField("service", "ingest")

	if !in.client.Configured() {
		log.Warn("News API key not configured, seeding example articles")
		in.seedExamples(ctx)
		metrics.Cycles.WithLabelValues("seeded").Inc()
		return Result{Seeded: true}, nil
	}

	log.WithField("keywords", len(in.keywords)).Info("Starting ingestion cycle")

	res := in.runKeywords(ctx)

	if res.Seeded {
		metrics.Cycles.WithLabelValues("panic").Inc()
	} else {
		metrics.Cycles.WithLabelValues("ok").Inc()
	}

	log.WithFields(map[string]interface{}{
		"keywords_ok":     res.KeywordsOK,
		"keywords_failed": res.KeywordsFailed,
		"saved":           res.Saved,
		"skipped":         res.Skipped,
	}).Info("Ingestion cycle finished")

	return res, nil
}

// runKeywords обходит ключевые фразы. Отказ одной фразы не прерывает цикл;
// паника на уровне цикла гасится и приводит к посеву примеров как
// последней линии обороны.
func (in *Ingestor) runKeywords(ctx context.Context) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.WithField("panic", r).
				Error("Unhandled error during ingestion, seeding example articles as fallback")
			in.seedExamples(ctx)
			res.Seeded = true
		}
	}()

	for i, keyword := range in.keywords {
		if ctx.Err() != nil {
			logger.Log.Info("Ingestion cycle cancelled by context")
			return res
		}

		log := logger.Log.WithField("keyword", keyword)

		articles, err := in.client.Search(ctx, keyword)
		if err != nil {
			res.KeywordsFailed++
			metrics.KeywordsProcessed.WithLabelValues("failed").Inc()
			log.WithField("kind", string(newsapi.FailureKind(err))).
				Errorf("Keyword search failed: %v", err)
		} else {
			for _, raw := range articles {
				saved, err := in.processArticle(ctx, raw)
				if err != nil {
					log.Warnf("Failed to save article: %v", err)
					continue
				}
				if saved {
					res.Saved++
					metrics.ArticlesSaved.Inc()
				} else {
					res.Skipped++
					metrics.ArticlesSkipped.Inc()
				}
			}
			res.KeywordsOK++
			metrics.KeywordsProcessed.WithLabelValues("ok").Inc()
			log.WithField("articles", len(articles)).Debug("Keyword processed")
		}

		if i < len(in.keywords)-1 {
			in.pacer.Pace(ctx)
		}
	}
	return res
}

// processArticle нормализует и сохраняет одну статью.
// Возвращает false без ошибки, если статья пропущена (дубликат или неполные данные).
func (in *Ingestor) processArticle(ctx context.Context, raw models.RawArticle) (bool, error) {
	if raw.Title == "" || raw.URL == "" || raw.PublishedAt == "" {
		logger.Log.WithField("url", raw.URL).Warn("Skipping malformed article")
		return false, nil
	}

	exists, err := in.store.ArticleExists(ctx, raw.URL)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	publishedAt, err := time.Parse(time.RFC3339, raw.PublishedAt)
	if err != nil {
		logger.Log.WithField("url", raw.URL).
			Warnf("Skipping article with bad publishedAt '%s': %v", raw.PublishedAt, err)
		return false, nil
	}

	category, tags := classifier.Classify(raw.Title, raw.Description)

	source := raw.Source.Name
	if source == "" {
		source = "Desconhecida"
	}

	article := models.Article{
		Title:       raw.Title,
		Description: raw.Description,
		URL:         raw.URL,
		ImageURL:    raw.URLToImage,
		Source:      source,
		PublishedAt: publishedAt.UTC(),
		Category:    category,
		Tags:        models.JoinTags(tags),
	}

	id, err := in.store.SaveArticle(ctx, &article)
	if err != nil {
		return false, err
	}
	if id == 0 {
		// конкурентная вставка того же url: БД свела её к no-op
		return false, nil
	}

	logger.Log.WithField("title", article.Title).Info("New article saved")
	return true, nil
}
