package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"livestock-records/internal/adapters/storage/sqldoc"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// NewStore abre Postgres y aplica el esquema documental.
func NewStore(ctx context.Context, dsn string) (*sqldoc.Store, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	s, err := sqldoc.New(ctx, db, Dialect())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func Dialect() sqldoc.Dialect {
	return sqldoc.Dialect{
		Name: "postgres",
		Schema: []string{
			`CREATE TABLE IF NOT EXISTS documents (
				collection  TEXT NOT NULL,
				id          TEXT NOT NULL,
				natural_key TEXT NULL,
				body        JSONB NOT NULL,
				PRIMARY KEY (collection, id),
				UNIQUE (collection, natural_key)
			)`,
			`CREATE TABLE IF NOT EXISTS counters (
				name           TEXT PRIMARY KEY,
				sequence_value BIGINT NOT NULL
			)`,
		},

		Insert:          `INSERT INTO documents (collection, id, natural_key, body) VALUES ($1, $2, $3, CAST($4 AS JSONB))`,
		SelectAll:       `SELECT id, body::text FROM documents WHERE collection = $1 ORDER BY id`,
		SelectByKey:     `SELECT id, body::text FROM documents WHERE collection = $1 AND natural_key = $2`,
		SelectForUpdate: `SELECT body::text FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE`,
		Update:          `UPDATE documents SET natural_key = $1, body = CAST($2 AS JSONB) WHERE collection = $3 AND id = $4`,
		Delete:          `DELETE FROM documents WHERE collection = $1 AND id = $2`,
		SelectUnkeyed:   `SELECT id, body::text FROM documents WHERE collection = $1 AND natural_key IS NULL ORDER BY id`,
		SetKey:          `UPDATE documents SET natural_key = $1 WHERE collection = $2 AND id = $3`,

		IsUniqueViolation: IsUniqueViolation,
		NextSequence: sqldoc.ReturningSequence(`
			INSERT INTO counters (name, sequence_value) VALUES ($1, 1)
			ON CONFLICT (name) DO UPDATE SET sequence_value = counters.sequence_value + 1
			RETURNING sequence_value`),
	}
}

// IsUniqueViolation detecta unique_violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
