package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все параметры запуска веб-клиента.
type Config struct {
	Env             string
	HTTPPort        string
	LogLevel        string
	BackendURL      string
	BackendTimeout  time.Duration
	SessionSecret   string
	SessionTTL      time.Duration
	SessionCookie   string
	SecureCookies   bool
	CSRFCookieName  string
	NoticeTTL       time.Duration
	SearchDebounce  time.Duration
	RateLimitLimit  int64
	RateLimitPeriod time.Duration
}

// Load читает переменные окружения и возвращает готовую конфигурацию.
// envFile может быть пустым, тогда берётся .env из рабочей директории.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	// Загружаем .env только если он существует, иначе используем системные переменные.
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("config: %s не найден, используем переменные окружения: %v", envFile, err)
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Env:            env,
		HTTPPort:       getEnv("HTTP_PORT", "8081"),
		LogLevel:       getEnv("LOG_LEVEL", defaultLogLevel(env)),
		BackendURL:     strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8000/api"), "/"),
		SessionCookie:  getEnv("SESSION_COOKIE_NAME", "fw_session"),
		CSRFCookieName: getEnv("CSRF_COOKIE_NAME", "csrftoken"),
	}

	if _, err := url.ParseRequestURI(cfg.BackendURL); err != nil {
		return nil, fmt.Errorf("config: BACKEND_URL невалиден: %w", err)
	}

	secret := getEnv("SESSION_SECRET", "")
	if env == "production" {
		if len(secret) < 32 {
			return nil, fmt.Errorf("config: SESSION_SECRET обязателен и должен быть не менее 32 символов в production")
		}
	} else if secret == "" {
		secret = "session-secret-development-only-change-in-production"
		log.Printf("config: WARNING - используется дефолтный SESSION_SECRET, измените в production!")
	}
	cfg.SessionSecret = secret

	var err error
	if cfg.SecureCookies, err = strconv.ParseBool(getEnv("SECURE_COOKIES", strconv.FormatBool(env == "production"))); err != nil {
		return nil, fmt.Errorf("config: SECURE_COOKIES: %w", err)
	}
	if cfg.BackendTimeout, err = parseDuration("BACKEND_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = parseDuration("SESSION_TTL", "24h"); err != nil {
		return nil, err
	}
	if cfg.NoticeTTL, err = parseDuration("NOTICE_TTL", "3s"); err != nil {
		return nil, err
	}
	if cfg.SearchDebounce, err = parseDuration("SEARCH_DEBOUNCE", "300ms"); err != nil {
		return nil, err
	}
	if cfg.RateLimitPeriod, err = parseDuration("RATE_LIMIT_PERIOD", "1m"); err != nil {
		return nil, err
	}
	if cfg.RateLimitLimit, err = strconv.ParseInt(getEnv("RATE_LIMIT_LIMIT", "20"), 10, 64); err != nil {
		return nil, fmt.Errorf("config: RATE_LIMIT_LIMIT: %w", err)
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или дефолт.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func defaultLogLevel(env string) string {
	if env == "development" {
		return "debug"
	}
	return "info"
}

// parseDuration читает длительность из окружения.
func parseDuration(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	dur, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: не удалось распарсить %s=%q: %w", key, raw, err)
	}
	if dur <= 0 {
		return 0, fmt.Errorf("config: %s должен быть положительным", key)
	}
	return dur, nil
}
