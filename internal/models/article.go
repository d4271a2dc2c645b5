package models

import (
	"strings"
	"time"
)

// Article — нормализованная новость о финансовом мошенничестве.
// URL служит ключом уникальности: повторная вставка той же ссылки игнорируется.
// Tags хранятся одной строкой через запятую и разбиваются в список при отдаче наружу.
type Article struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Category    string    `json:"category"`
	Tags        string    `json:"-"`
}

// TagList возвращает теги статьи в виде списка, сохраняя порядок.
func (a *Article) TagList() []string {
	return SplitTags(a.Tags)
}

// JoinTags сериализует список тегов в строку для хранения.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// SplitTags разбирает строку тегов обратно в список.
// Пустые элементы отбрасываются, порядок сохраняется.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}

	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// ScamType — тип мошенничества из справочника.
type ScamType struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
