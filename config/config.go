package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Dosada05/scouting-system/services"
	"github.com/Dosada05/scouting-system/storage"
)

const (
	defaultServerPort         = 8080
	defaultDriftSweepInterval = 15 * time.Minute
	defaultInviteSweep        = time.Hour
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	// PublicURL - адрес фронтенда, из него собираются ссылки-приглашения.
	PublicURL          string
	CORSAllowedOrigins []string

	DriftSweepInterval  time.Duration
	InviteSweepInterval time.Duration

	R2   storage.R2Config
	SMTP services.SMTPConfig
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) (*Config, error) {
	dbURL := getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intFromEnv(getenv, "SERVER_PORT", defaultServerPort)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	driftEvery, err := durationFromEnv(getenv, "DRIFT_SWEEP_INTERVAL", defaultDriftSweepInterval)
	if err != nil {
		return nil, err
	}
	inviteEvery, err := durationFromEnv(getenv, "INVITE_SWEEP_INTERVAL", defaultInviteSweep)
	if err != nil {
		return nil, err
	}

	smtpPort, err := intFromEnv(getenv, "SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}

	origins := splitList(getenv("CORS_ALLOWED_ORIGINS"))
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	cfg := &Config{
		DatabaseURL:         dbURL,
		JWTSecretKey:        jwtKey,
		ServerPort:          port,
		PublicURL:           strings.TrimRight(getenv("PUBLIC_URL"), "/"),
		CORSAllowedOrigins:  origins,
		DriftSweepInterval:  driftEvery,
		InviteSweepInterval: inviteEvery,
		R2: storage.R2Config{
			AccountID:       getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: getenv("R2_SECRET_ACCESS_KEY"),
			BucketName:      getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   getenv("R2_PUBLIC_BASE_URL"),
		},
		SMTP: services.SMTPConfig{
			Host: getenv("SMTP_HOST"),
			Port: smtpPort,
			User: getenv("SMTP_USER"),
			Pass: getenv("SMTP_PASS"),
			From: getenv("SMTP_FROM"),
		},
	}

	return cfg, nil
}

func intFromEnv(getenv func(string) string, name string, def int) (int, error) {
	raw := getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return v, nil
}

// durationFromEnv принимает формат time.ParseDuration; "0" отключает периодическую задачу.
func durationFromEnv(getenv func(string) string, name string, def time.Duration) (time.Duration, error) {
	raw := getenv(name)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", name, d)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
