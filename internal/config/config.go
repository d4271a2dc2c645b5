package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// PlaceholderAPIKey — значение-заглушка, означающее, что ключ News API не задан.
// С таким ключом сетевые запросы не выполняются, вместо них сеются примеры новостей.
const PlaceholderAPIKey = "YOUR_NEWS_API_KEY_HERE"

// DefaultKeywords — фиксированный набор поисковых фраз о финансовом мошенничестве
// (португальский, без диакритики). Порядок обхода при инжесте фиксирован.
var DefaultKeywords = []string{
	"golpe bancario", "fraude financeira", "golpe pix", "phishing banco",
	"golpe whatsapp banco", "boleto falso", "fraude cartao", "golpe telefone banco",
	"golpe motoboy", "golpe aplicativo bancario", "golpe email banco",
	"scam banco", "fraude digital banco", "roubo de dados bancarios",
	"vazamento de dados banco", "phishing", "fraude pix", "fraude boleto",
	"sms falso banco", "whatsapp falso banco",
}

// Config хранит настройки сервиса: подключение к БД, HTTP-адрес,
// параметры News API и расписание инжеста.
type Config struct {
	LogLevel     string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	HTTPAddr     string        `yaml:"http_addr" env:"HTTP_ADDR" env-default:":8080"`
	DatabaseURL  string        `yaml:"database_url" env:"DATABASE_URL" env-required:"true"`
	PollInterval time.Duration `yaml:"poll_interval" env:"POLL_INTERVAL" env-default:"30m"`
	PacingDelay  time.Duration `yaml:"pacing_delay" env:"PACING_DELAY" env-default:"500ms"`
	Keywords     []string      `yaml:"keywords" env:"SEARCH_KEYWORDS" env-separator:","`
	NewsAPI      NewsAPIConfig `yaml:"newsapi"`
}

// NewsAPIConfig — параметры доступа к News API.
type NewsAPIConfig struct {
	Key     string `yaml:"key" env:"NEWSAPI_KEY" env-default:"YOUR_NEWS_API_KEY_HERE"`
	BaseURL string `yaml:"base_url" env:"NEWSAPI_BASE_URL" env-default:"https://newsapi.org"`
}

// Configured сообщает, задан ли реальный API-ключ.
func (n NewsAPIConfig) Configured() bool {
	return n.Key != "" && n.Key != PlaceholderAPIKey
}

// Validate проверяет, что PollInterval не меньше минуты, PacingDelay неотрицателен
// и BaseURL — валидный URL.
func (cfg *Config) Validate() error {
	if cfg.PollInterval < time.Minute {
		return errors.New("poll interval must be ≥ 1 minute")
	}
	if cfg.PacingDelay < 0 {
		return errors.New("pacing delay must be non-negative")
	}
	if _, err := url.ParseRequestURI(cfg.NewsAPI.BaseURL); err != nil {
		return fmt.Errorf("invalid News API base URL: %s", cfg.NewsAPI.BaseURL)
	}
	return nil
}

// LoadConfig читает конфигурацию из YAML-файла по пути path, накладывая поверх
// переменные окружения. Если path пуст, берётся CONFIG_PATH, затем ./config.yaml;
// при отсутствии файла конфигурация собирается только из окружения.
// Пустой список Keywords заменяется на DefaultKeywords.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config.yaml"
	}

	var cfg Config
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read config from env: %w", err)
		}
	}

	if len(cfg.Keywords) == 0 {
		cfg.Keywords = DefaultKeywords
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
