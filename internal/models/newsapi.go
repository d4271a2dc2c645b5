package models

// Envelope — корневой объект ответа News API.
// Поле Status равно "ok" при успехе, иначе Message содержит причину отказа.
type Envelope struct {
	Status   string       `json:"status"`
	Message  string       `json:"message,omitempty"`
	Articles []RawArticle `json:"articles"`
}

// RawArticle — одна статья в том виде, как её отдаёт News API.
// PublishedAt приходит строкой в формате ISO-8601 со смещением.
type RawArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage"`
	Source      RawSource `json:"source"`
	PublishedAt string    `json:"publishedAt"`
}

// RawSource — издание, опубликовавшее статью.
type RawSource struct {
	Name string `json:"name"`
}
