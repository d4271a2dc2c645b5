package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scamnews/internal/models"
)

// Database инкапсулирует пул соединений к PostgreSQL.
type Database struct {
	Pool *pgxpool.Pool
}

// NewDB создаёт новый пул соединений по connString и возвращает Database.
func NewDB(ctx context.Context, connString string) (*Database, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %v", err)
	}
	return &Database{Pool: pool}, nil
}

// Close закрывает пул соединений.
func (db *Database) Close() {
	db.Pool.Close()
}

// Ping проверяет доступность базы.
func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// ArticleExists сообщает, сохранена ли уже статья с таким URL.
func (db *Database) ArticleExists(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `
        SELECT EXISTS(SELECT 1 FROM articles WHERE url = $1)
    `, url).Scan(&exists)
	return exists, err
}

// SaveArticle сохраняет статью и возвращает присвоенный id.
// Если запись с таким url уже есть, вставка игнорируется и возвращается id 0.
func (db *Database) SaveArticle(ctx context.Context, a *models.Article) (int, error) {
	var id int
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO articles (title, description, url, image_url, source, published_at, category, tags)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (url) DO NOTHING
        RETURNING id
    `, a.Title, a.Description, a.URL, nullIfEmpty(a.ImageURL), a.Source,
		a.PublishedAt, a.Category, a.Tags).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		// конфликт по url: вставки не было
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	a.ID = id
	return id, nil
}

// ListArticles возвращает все статьи, отсортированные по дате публикации (новые первыми).
func (db *Database) ListArticles(ctx context.Context) ([]models.Article, error) {
	return db.queryArticles(ctx, `
        SELECT id, title, description, url, image_url, source, published_at, category, tags
        FROM articles
        ORDER BY published_at DESC
    `)
}

// ListArticlesByCategory возвращает статьи заданной категории.
func (db *Database) ListArticlesByCategory(ctx context.Context, category string) ([]models.Article, error) {
	return db.queryArticles(ctx, `
        SELECT id, title, description, url, image_url, source, published_at, category, tags
        FROM articles
        WHERE category = $1
        ORDER BY published_at DESC
    `, category)
}

// ListArticlesSince возвращает статьи, опубликованные после момента since.
func (db *Database) ListArticlesSince(ctx context.Context, since time.Time) ([]models.Article, error) {
	return db.queryArticles(ctx, `
        SELECT id, title, description, url, image_url, source, published_at, category, tags
        FROM articles
        WHERE published_at > $1
        ORDER BY published_at DESC
    `, since)
}

// SearchArticles ищет статьи по подстроке в заголовке или описании без учёта регистра.
func (db *Database) SearchArticles(ctx context.Context, query string) ([]models.Article, error) {
	return db.queryArticles(ctx, `
        SELECT id, title, description, url, image_url, source, published_at, category, tags
        FROM articles
        WHERE title ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
        ORDER BY published_at DESC
    `, query)
}

func (db *Database) queryArticles(ctx context.Context, query string, args ...any) ([]models.Article, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		var (
			a        models.Article
			desc     sql.NullString
			imageURL sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Title, &desc, &a.URL, &imageURL,
			&a.Source, &a.PublishedAt, &a.Category, &a.Tags); err != nil {
			return nil, err
		}
		a.Description = desc.String
		a.ImageURL = imageURL.String
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// ListScamTypes возвращает справочник типов мошенничества: дубли по имени
// (без учёта регистра) схлопываются, результат отсортирован по имени.
func (db *Database) ListScamTypes(ctx context.Context) ([]models.ScamType, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT id, name, COALESCE(description, '')
        FROM scam_types
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []models.ScamType
	for rows.Next() {
		var st models.ScamType
		if err := rows.Scan(&st.ID, &st.Name, &st.Description); err != nil {
			return nil, err
		}
		types = append(types, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(types, func(i, j int) bool {
		return strings.ToLower(types[i].Name) < strings.ToLower(types[j].Name)
	})

	seen := make(map[string]bool, len(types))
	unique := types[:0]
	for _, st := range types {
		key := strings.ToUpper(strings.TrimSpace(st.Name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, st)
	}
	return unique, nil
}

// SaveScamType сохраняет тип мошенничества и возвращает его id.
func (db *Database) SaveScamType(ctx context.Context, st *models.ScamType) (int, error) {
	var id int
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO scam_types (name, description)
        VALUES ($1, $2)
        RETURNING id
    `, st.Name, st.Description).Scan(&id)
	if err != nil {
		return 0, err
	}
	st.ID = id
	return id, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
