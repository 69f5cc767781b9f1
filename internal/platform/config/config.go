// Package config arma la configuración del proceso desde el entorno (con .env opcional).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"livestock-records/internal/adapters/storage"

	"github.com/joho/godotenv"
)

const (
	DefaultPort       = 5000
	DefaultAPIPrefix  = "/api"
	DefaultKafkaTopic = "record-changes"

	DefaultAPIBaseURL    = "http://localhost:5000/api"
	DefaultClientTimeout = 10 * time.Second
)

type Config struct {
	Port      int
	APIPrefix string

	Storage storage.Config

	KafkaBrokers []string
	KafkaTopic   string

	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// Load carga .env (si existe, sin pisar variables ya definidas) y luego lee el entorno.
func Load(envFiles ...string) (Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return Config{}, err
	}
	return FromEnv(os.Getenv)
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// FromEnv lee la configuración desde getenv (inyectable en tests).
func FromEnv(getenv func(string) string) (Config, error) {
	var errs []error

	cfg := Config{
		Port:      DefaultPort,
		APIPrefix: DefaultAPIPrefix,
		Storage: storage.Config{
			Driver:        getenv("STORE_DRIVER"),
			MongoURI:      firstNonEmpty(getenv("MONGODB_URI"), getenv("COSMOS_DB_CONNECTION_STRING")),
			MongoDatabase: getenv("MONGODB_DATABASE"),
			PostgresDSN:   getenv("DB_DSN"),
			SQLitePath:    getenv("SQLITE_PATH"),
			MySQLDSN:      getenv("MYSQL_DSN"),
			BadgerPath:    getenv("BADGER_PATH"),
			RedisAddr:     getenv("REDIS_ADDR"),
			RedisPassword: getenv("REDIS_PASSWORD"),
			RedisPrefix:   getenv("REDIS_PREFIX"),
		},
		KafkaBrokers:       splitList(getenv("KAFKA_BROKERS")),
		KafkaTopic:         firstNonEmpty(getenv("KAFKA_TOPIC"), DefaultKafkaTopic),
		CORSAllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS")),
	}

	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			errs = append(errs, fmt.Errorf("PORT: invalid value %q", v))
		} else {
			cfg.Port = port
		}
	}

	if v := strings.TrimSpace(getenv("API_PREFIX")); v != "" {
		cfg.APIPrefix = "/" + strings.Trim(v, "/")
	}

	if v := strings.TrimSpace(getenv("REDIS_DB")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("REDIS_DB: invalid value %q", v))
		} else {
			cfg.Storage.RedisDB = n
		}
	}

	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	if v := strings.TrimSpace(getenv("RATE_LIMIT_RPS")); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps < 0 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS: invalid value %q", v))
		} else {
			cfg.RateLimitRPS = rps
		}
	}
	if v := strings.TrimSpace(getenv("RATE_LIMIT_BURST")); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst < 0 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST: invalid value %q", v))
		} else {
			cfg.RateLimitBurst = burst
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ClientConfig es lo que necesita goatctl para hablar con la API.
type ClientConfig struct {
	APIBaseURL string
	Timeout    time.Duration
}

// LoadClient carga .env igual que Load y lee API_BASE_URL y API_TIMEOUT.
func LoadClient(envFiles ...string) (ClientConfig, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return ClientConfig{}, err
	}
	return ClientFromEnv(os.Getenv)
}

func ClientFromEnv(getenv func(string) string) (ClientConfig, error) {
	cfg := ClientConfig{
		APIBaseURL: firstNonEmpty(getenv("API_BASE_URL"), DefaultAPIBaseURL),
		Timeout:    DefaultClientTimeout,
	}
	if v := strings.TrimSpace(getenv("API_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return ClientConfig{}, fmt.Errorf("API_TIMEOUT: invalid value %q", v)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

// Addr es la dirección de escucha (":<port>").
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
