package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scamnews/internal/ingest"
	"scamnews/internal/logger"
	"scamnews/internal/models"
)

// ArticleStore — читающая сторона хранилища, нужная HTTP-слою.
type ArticleStore interface {
	Ping(ctx context.Context) error
	ListArticles(ctx context.Context) ([]models.Article, error)
	ListArticlesByCategory(ctx context.Context, category string) ([]models.Article, error)
	ListArticlesSince(ctx context.Context, since time.Time) ([]models.Article, error)
	SearchArticles(ctx context.Context, query string) ([]models.Article, error)
	ListScamTypes(ctx context.Context) ([]models.ScamType, error)
	SaveScamType(ctx context.Context, st *models.ScamType) (int, error)
}

// IngestRunner — операции инжеста, доступные по HTTP.
type IngestRunner interface {
	RunCycle(ctx context.Context) (ingest.Result, error)
	Running() bool
	TestConnectivity(ctx context.Context) ingest.Report
}

// Server хранит зависимости HTTP-обработчиков.
type Server struct {
	store    ArticleStore
	ingestor IngestRunner
}

// NewServer создаёт новый экземпляр Server.
func NewServer(store ArticleStore, ingestor IngestRunner) *Server {
	return &Server{store: store, ingestor: ingestor}
}

// Routes собирает маршрутизатор со всеми обработчиками и middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/noticias", s.GetArticles)
		r.Get("/noticias/categoria/{categoria}", s.GetArticlesByCategory)
		r.Get("/noticias/recentes", s.GetRecentArticles)
		r.Get("/noticias/busca", s.SearchArticles)
		r.Post("/noticias/atualizar", s.TriggerIngestion)
		r.Get("/noticias/teste-conectividade", s.TestConnectivity)

		r.Get("/tipos-golpe", s.GetScamTypes)
		r.Post("/tipos-golpe", s.CreateScamType)
	})

	return r
}

// articleResponse — транспортная форма статьи: теги уже разобраны в список.
type articleResponse struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
}

func toArticleResponses(articles []models.Article) []articleResponse {
	out := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, articleResponse{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.ImageURL,
			Source:      a.Source,
			PublishedAt: a.PublishedAt,
			Category:    a.Category,
			Tags:        a.TagList(),
		})
	}
	return out
}

type errResponse struct {
	Error string `json:"error"`
}

// HealthCheck отвечает 200 OK, если база доступна, иначе 503.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		http.Error(w, "DB unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("OK"))
}

// GetArticles возвращает все статьи, отсортированные по дате публикации.
func (s *Server) GetArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := s.store.ListArticles(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render.JSON(w, r, toArticleResponses(articles))
}

// GetArticlesByCategory возвращает статьи заданной категории.
func (s *Server) GetArticlesByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "categoria")
	articles, err := s.store.ListArticlesByCategory(r.Context(), category)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render.JSON(w, r, toArticleResponses(articles))
}

// GetRecentArticles возвращает статьи за последние 24 часа.
func (s *Server) GetRecentArticles(w http.ResponseWriter, r *http.Request) {
	since := time.Now().UTC().Add(-24 * time.Hour)
	articles, err := s.store.ListArticlesSince(r.Context(), since)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render.JSON(w, r, toArticleResponses(articles))
}

// SearchArticles ищет статьи по подстроке из параметра q.
func (s *Server) SearchArticles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errResponse{Error: "query parameter 'q' is required"})
		return
	}

	articles, err := s.store.SearchArticles(r.Context(), query)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render.JSON(w, r, toArticleResponses(articles))
}

// TriggerIngestion запускает цикл инжеста в фоне. Отвечает 202, либо 409,
// если цикл уже выполняется.
func (s *Server) TriggerIngestion(w http.ResponseWriter, r *http.Request) {
	if s.ingestor.Running() {
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, errResponse{Error: "ingestion cycle already running"})
		return
	}

	go func() {
		if _, err := s.ingestor.RunCycle(context.Background()); err != nil {
			logger.Log.Errorf("Manual ingestion cycle failed: %v", err)
		}
	}()

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]string{"status": "started"})
}

// TestConnectivity возвращает отчёт о связности с News API.
func (s *Server) TestConnectivity(w http.ResponseWriter, r *http.Request) {
	report := s.ingestor.TestConnectivity(r.Context())
	render.JSON(w, r, report)
}

// GetScamTypes возвращает справочник типов мошенничества.
func (s *Server) GetScamTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.store.ListScamTypes(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render.JSON(w, r, types)
}

// CreateScamType сохраняет новый тип мошенничества.
func (s *Server) CreateScamType(w http.ResponseWriter, r *http.Request) {
	var st models.ScamType
	if err := render.DecodeJSON(r.Body, &st); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errResponse{Error: "invalid request body"})
		return
	}
	if st.Name == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errResponse{Error: "name is required"})
		return
	}

	if _, err := s.store.SaveScamType(r.Context(), &st); err != nil {
		s.renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, st)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	logger.Log.Errorf("Request failed: %v", err)
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, errResponse{Error: "internal server error"})
}
