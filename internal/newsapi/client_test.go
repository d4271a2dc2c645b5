package newsapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"scamnews/internal/config"
	"scamnews/internal/newsapi"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *newsapi.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return newsapi.NewClient(config.NewsAPIConfig{
		Key:     "testkey12345",
		BaseURL: server.URL,
	})
}

func TestSearch_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/everything", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "golpe pix", q.Get("q"))
		require.Equal(t, "pt", q.Get("language"))
		require.Equal(t, "publishedAt", q.Get("sortBy"))
		require.Equal(t, "50", q.Get("pageSize"))
		require.Equal(t, "title,description,content", q.Get("searchIn"))
		require.Equal(t, "testkey12345", q.Get("apiKey"))

		w.Write([]byte(`{
			"status": "ok",
			"articles": [{
				"title": "Novo golpe PIX",
				"description": "Criminosos aplicam golpe",
				"url": "https://example.com/noticia",
				"urlToImage": "https://example.com/img.jpg",
				"source": {"name": "Portal"},
				"publishedAt": "2024-03-10T12:30:00Z"
			}]
		}`))
	})

	articles, err := client.Search(context.Background(), "golpe pix")
	require.NoError(t, err)
	require.Len(t, articles, 1)
	require.Equal(t, "Novo golpe PIX", articles[0].Title)
	require.Equal(t, "https://example.com/noticia", articles[0].URL)
	require.Equal(t, "Portal", articles[0].Source.Name)
	require.Equal(t, "2024-03-10T12:30:00Z", articles[0].PublishedAt)
}

func TestProbe_MinimalQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "teste", q.Get("q"))
		require.Equal(t, "1", q.Get("pageSize"))
		require.Empty(t, q.Get("language"))
		require.Empty(t, q.Get("sortBy"))
		require.Empty(t, q.Get("searchIn"))

		w.Write([]byte(`{"status": "ok", "articles": []}`))
	})

	articles, err := client.Probe(context.Background(), "teste")
	require.NoError(t, err)
	require.Empty(t, articles)
}

func TestSearch_NotConfigured(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	t.Cleanup(server.Close)

	unconfigured := newsapi.NewClient(config.NewsAPIConfig{
		Key:     config.PlaceholderAPIKey,
		BaseURL: server.URL,
	})

	_, err := unconfigured.Search(context.Background(), "golpe pix")
	require.Equal(t, newsapi.KindNotConfigured, newsapi.FailureKind(err))
	require.Zero(t, requests)
	require.False(t, unconfigured.Configured())
}

func TestSearch_FailureKinds(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		expected newsapi.Kind
	}{
		{
			name:     "empty body",
			status:   http.StatusOK,
			body:     "",
			expected: newsapi.KindEmptyResponse,
		},
		{
			name:     "upstream rejected",
			status:   http.StatusOK,
			body:     `{"status": "error", "message": "apiKeyInvalid"}`,
			expected: newsapi.KindUpstreamRejected,
		},
		{
			name:     "client error",
			status:   http.StatusTooManyRequests,
			body:     `{"status": "error", "message": "rateLimited"}`,
			expected: newsapi.KindClient,
		},
		{
			name:     "server error",
			status:   http.StatusBadGateway,
			body:     "",
			expected: newsapi.KindServer,
		},
		{
			name:     "malformed envelope",
			status:   http.StatusOK,
			body:     `{"status": "ok", "articles": [`,
			expected: newsapi.KindEmptyResponse,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			_, err := client.Search(context.Background(), "golpe pix")
			require.Error(t, err)
			require.Equal(t, tc.expected, newsapi.FailureKind(err))
		})
	}
}

func TestSearch_ConnectivityError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // соединение будет отвергнуто

	client := newsapi.NewClient(config.NewsAPIConfig{
		Key:     "testkey12345",
		BaseURL: server.URL,
	})

	_, err := client.Search(context.Background(), "golpe pix")
	require.Equal(t, newsapi.KindConnectivity, newsapi.FailureKind(err))
}

func TestSearch_UpstreamRejectedMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "error", "message": "apiKeyExhausted"}`))
	})

	_, err := client.Search(context.Background(), "golpe pix")
	var failure *newsapi.Failure
	require.ErrorAs(t, err, &failure)
	require.Equal(t, "apiKeyExhausted", failure.Message)
	require.Equal(t, "error", failure.UpstreamStatus)
}

func TestKeyPreview(t *testing.T) {
	client := newsapi.NewClient(config.NewsAPIConfig{Key: "abcdefghijkl", BaseURL: "https://newsapi.org"})
	require.Equal(t, "abcdefgh***", client.KeyPreview())

	unconfigured := newsapi.NewClient(config.NewsAPIConfig{Key: config.PlaceholderAPIKey, BaseURL: "https://newsapi.org"})
	require.Empty(t, unconfigured.KeyPreview())
}
