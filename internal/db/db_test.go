package db_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"scamnews/internal/db"
	"scamnews/internal/models"
)

// Тесты ходят в реальный PostgreSQL; без TEST_DATABASE_URL пропускаются.
func setupTestDB(t *testing.T) *db.Database {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	// Применяем миграции
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS articles (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			url VARCHAR(2048) UNIQUE NOT NULL,
			image_url TEXT,
			source TEXT NOT NULL DEFAULT 'Desconhecida',
			published_at TIMESTAMP WITH TIME ZONE NOT NULL,
			category TEXT NOT NULL,
			tags TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS scam_types (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT
		);

		TRUNCATE TABLE articles, scam_types RESTART IDENTITY;
	`)
	require.NoError(t, err)

	return &db.Database{Pool: pool}
}

func testArticle(url string, publishedAt time.Time) *models.Article {
	return &models.Article{
		Title:       "Novo golpe PIX",
		Description: "Criminosos aplicam golpe",
		URL:         url,
		Source:      "Portal",
		PublishedAt: publishedAt,
		Category:    "Golpe PIX",
		Tags:        "Urgente,PIX",
	}
}

func TestSaveArticle(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	t.Run("save new article", func(t *testing.T) {
		id, err := database.SaveArticle(ctx, testArticle("https://example.com/1", time.Now().UTC()))
		require.NoError(t, err)
		require.Equal(t, 1, id)
	})

	t.Run("duplicate url is a no-op", func(t *testing.T) {
		id, err := database.SaveArticle(ctx, testArticle("https://example.com/1", time.Now().UTC()))
		require.NoError(t, err)
		require.Zero(t, id)

		exists, err := database.ArticleExists(ctx, "https://example.com/1")
		require.NoError(t, err)
		require.True(t, exists)

		articles, err := database.ListArticles(ctx)
		require.NoError(t, err)
		require.Len(t, articles, 1)
	})
}

func TestArticleExists(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	exists, err := database.ArticleExists(ctx, "https://example.com/nothing")
	require.NoError(t, err)
	require.False(t, exists)

	_, err = database.SaveArticle(ctx, testArticle("https://example.com/1", time.Now().UTC()))
	require.NoError(t, err)

	exists, err = database.ArticleExists(ctx, "https://example.com/1")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestListArticles_OrderAndRoundTrip(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	older := testArticle("https://example.com/older", time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC))
	newer := testArticle("https://example.com/newer", time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC))

	_, err := database.SaveArticle(ctx, older)
	require.NoError(t, err)
	_, err = database.SaveArticle(ctx, newer)
	require.NoError(t, err)

	articles, err := database.ListArticles(ctx)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	// новые первыми
	require.Equal(t, "https://example.com/newer", articles[0].URL)

	// метка времени и теги выживают цикл записи/чтения
	require.True(t, articles[0].PublishedAt.Equal(time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC)))
	require.Equal(t, []string{"Urgente", "PIX"}, articles[0].TagList())
}

func TestListArticlesByCategory(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	pix := testArticle("https://example.com/pix", time.Now().UTC())
	phishing := testArticle("https://example.com/phishing", time.Now().UTC())
	phishing.Category = "Phishing"

	_, err := database.SaveArticle(ctx, pix)
	require.NoError(t, err)
	_, err = database.SaveArticle(ctx, phishing)
	require.NoError(t, err)

	articles, err := database.ListArticlesByCategory(ctx, "Phishing")
	require.NoError(t, err)
	require.Len(t, articles, 1)
	require.Equal(t, "https://example.com/phishing", articles[0].URL)
}

func TestListArticlesSince(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	old := testArticle("https://example.com/old", time.Now().UTC().Add(-48*time.Hour))
	recent := testArticle("https://example.com/recent", time.Now().UTC().Add(-time.Hour))

	_, err := database.SaveArticle(ctx, old)
	require.NoError(t, err)
	_, err = database.SaveArticle(ctx, recent)
	require.NoError(t, err)

	articles, err := database.ListArticlesSince(ctx, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, articles, 1)
	require.Equal(t, "https://example.com/recent", articles[0].URL)
}

func TestSearchArticles(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	a := testArticle("https://example.com/1", time.Now().UTC())
	a.Title = "Golpe do boleto falso"
	a.Description = "Criminosos criam boletos adulterados"

	_, err := database.SaveArticle(ctx, a)
	require.NoError(t, err)

	t.Run("matches title case-insensitively", func(t *testing.T) {
		articles, err := database.SearchArticles(ctx, "BOLETO")
		require.NoError(t, err)
		require.Len(t, articles, 1)
	})

	t.Run("matches description", func(t *testing.T) {
		articles, err := database.SearchArticles(ctx, "adulterados")
		require.NoError(t, err)
		require.Len(t, articles, 1)
	})

	t.Run("no match", func(t *testing.T) {
		articles, err := database.SearchArticles(ctx, "whatsapp")
		require.NoError(t, err)
		require.Empty(t, articles)
	})
}

func TestScamTypes(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"Phishing", "golpe do pix", "PHISHING", "Boleto falso"} {
		_, err := database.SaveScamType(ctx, &models.ScamType{Name: name})
		require.NoError(t, err)
	}

	types, err := database.ListScamTypes(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(types))
	for _, st := range types {
		names = append(names, st.Name)
	}
	// дубли по имени схлопнуты без учёта регистра, порядок — по имени
	require.Equal(t, []string{"Boleto falso", "golpe do pix", "Phishing"}, names)
}
