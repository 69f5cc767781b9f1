// Package storage elige y abre el backend del store documental según configuración.
package storage

import (
	"context"
	"fmt"
	"strings"

	"livestock-records/internal/adapters/storage/badger"
	"livestock-records/internal/adapters/storage/memory"
	"livestock-records/internal/adapters/storage/mongo"
	"livestock-records/internal/adapters/storage/mysql"
	"livestock-records/internal/adapters/storage/postgres"
	"livestock-records/internal/adapters/storage/redis"
	"livestock-records/internal/adapters/storage/sqlite"
	"livestock-records/internal/store"
)

const (
	DriverMemory   = "memory"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverBadger   = "badger"
	DriverRedis    = "redis"
)

// Config es la parte de configuración que consume Open.
type Config struct {
	// Driver vacío => se infiere de las credenciales presentes.
	Driver string

	MongoURI      string
	MongoDatabase string
	PostgresDSN   string
	SQLitePath    string
	MySQLDSN      string
	BadgerPath    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// ResolveDriver aplica la inferencia: mongo si hay URI, postgres si hay DSN, si no memoria.
func (c Config) ResolveDriver() string {
	if d := strings.ToLower(strings.TrimSpace(c.Driver)); d != "" {
		return d
	}
	switch {
	case strings.TrimSpace(c.MongoURI) != "":
		return DriverMongo
	case strings.TrimSpace(c.PostgresDSN) != "":
		return DriverPostgres
	default:
		return DriverMemory
	}
}

// Open abre el backend. El llamador es dueño del store y debe cerrarlo.
func Open(ctx context.Context, cfg Config) (store.Store, error) {
	switch driver := cfg.ResolveDriver(); driver {
	case DriverMemory:
		return memory.NewStore()
	case DriverMongo:
		return mongo.Open(ctx, mongo.Options{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	case DriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("storage %s: DB_DSN required", driver)
		}
		return postgres.NewStore(ctx, cfg.PostgresDSN)
	case DriverSQLite:
		return sqlite.NewStore(ctx, cfg.SQLitePath)
	case DriverMySQL:
		if cfg.MySQLDSN == "" {
			return nil, fmt.Errorf("storage %s: MYSQL_DSN required", driver)
		}
		return mysql.NewStore(ctx, cfg.MySQLDSN)
	case DriverBadger:
		return badger.Open(badger.Options{Path: cfg.BadgerPath})
	case DriverRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("storage %s: REDIS_ADDR required", driver)
		}
		return redis.Open(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
}
