package newsapi

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"scamnews/internal/config"
	"scamnews/internal/metrics"
	"scamnews/internal/models"
)

// Kind — класс отказа при обращении к News API.
type Kind string

const (
	KindNotConfigured    Kind = "not_configured"
	KindEmptyResponse    Kind = "empty_response"
	KindUpstreamRejected Kind = "upstream_rejected"
	KindConnectivity     Kind = "connectivity"
	KindClient           Kind = "client_error"
	KindServer           Kind = "server_error"
	KindTLS              Kind = "tls_error"
)

// Failure — структурированный отказ апстрима. Извлекается через errors.As.
// UpstreamStatus заполняется статусом конверта при отказе самого News API.
type Failure struct {
	Kind           Kind
	StatusCode     int
	Message        string
	UpstreamStatus string
}

func (f *Failure) Error() string {
	if f.StatusCode != 0 {
		return fmt.Sprintf("newsapi: %s (status %d): %s", f.Kind, f.StatusCode, f.Message)
	}
	if f.Message != "" {
		return fmt.Sprintf("newsapi: %s: %s", f.Kind, f.Message)
	}
	return fmt.Sprintf("newsapi: %s", f.Kind)
}

// FailureKind возвращает класс отказа из err или пустую строку,
// если err не является *Failure.
func FailureKind(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

const (
	connectTimeout = 10 * time.Second
	readTimeout    = 30 * time.Second

	searchPageSize = 50
)

// Client выполняет поисковые запросы к News API (/v2/everything).
type Client struct {
	http    *http.Client
	apiKey  string
	baseURL string
}

// NewClient создаёт клиент News API с таймаутами: 10 секунд на соединение,
// 30 секунд на весь запрос.
func NewClient(cfg config.NewsAPIConfig) *Client {
	return &Client{
		http: &http.Client{
			Timeout: readTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: connectTimeout,
				}).DialContext,
				TLSHandshakeTimeout: connectTimeout,
			},
		},
		apiKey:  cfg.Key,
		baseURL: cfg.BaseURL,
	}
}

// Configured сообщает, задан ли реальный API-ключ.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.apiKey != config.PlaceholderAPIKey
}

// KeyPreview возвращает первые символы ключа для диагностических отчётов.
func (c *Client) KeyPreview() string {
	if !c.Configured() {
		return ""
	}
	n := len(c.apiKey)
	if n > 8 {
		n = 8
	}
	return c.apiKey[:n] + "***"
}

// Search запрашивает статьи по ключевой фразе: португальский язык,
// сортировка по дате публикации, страница до 50 статей.
func (c *Client) Search(ctx context.Context, keyword string) ([]models.RawArticle, error) {
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("language", "pt")
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", fmt.Sprint(searchPageSize))
	q.Set("searchIn", "title,description,content")
	q.Set("apiKey", c.apiKey)
	return c.do(ctx, q)
}

// Probe выполняет минимальный запрос (pageSize=1, без фильтров) для проверки
// связности; используется самодиагностикой, не инжестом.
func (c *Client) Probe(ctx context.Context, keyword string) ([]models.RawArticle, error) {
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("pageSize", "1")
	q.Set("apiKey", c.apiKey)
	return c.do(ctx, q)
}

func (c *Client) do(ctx context.Context, query url.Values) ([]models.RawArticle, error) {
	if !c.Configured() {
		return nil, &Failure{Kind: KindNotConfigured, Message: "News API key is not configured"}
	}

	reqURL := c.baseURL + "/v2/everything?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Failure{Kind: KindConnectivity, Message: err.Error()}
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, &Failure{Kind: KindServer, StatusCode: resp.StatusCode}
	case resp.StatusCode >= 400:
		return nil, &Failure{Kind: KindClient, StatusCode: resp.StatusCode, Message: string(body)}
	}

	if len(body) == 0 {
		return nil, &Failure{Kind: KindEmptyResponse, Message: "empty response body"}
	}

	var envelope models.Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		// тело есть, но конверт нечитаем: по таксономии это непригодный ответ
		return nil, &Failure{Kind: KindEmptyResponse, Message: fmt.Sprintf("malformed envelope: %v", err)}
	}

	if envelope.Status != "ok" {
		return nil, &Failure{
			Kind:           KindUpstreamRejected,
			Message:        envelope.Message,
			UpstreamStatus: envelope.Status,
		}
	}

	return envelope.Articles, nil
}

// classifyTransportError разделяет сетевые отказы на TLS и прочие проблемы связности.
func classifyTransportError(err error) error {
	var (
		recordErr   tls.RecordHeaderError
		verifyErr   *tls.CertificateVerificationError
		unknownCA   x509.UnknownAuthorityError
		hostnameErr x509.HostnameError
		certInvalid x509.CertificateInvalidError
	)
	if errors.As(err, &recordErr) || errors.As(err, &verifyErr) ||
		errors.As(err, &unknownCA) || errors.As(err, &hostnameErr) ||
		errors.As(err, &certInvalid) {
		return &Failure{Kind: KindTLS, Message: err.Error()}
	}
	return &Failure{Kind: KindConnectivity, Message: err.Error()}
}
