// Package mysql es el dialecto MySQL del store documental (go-sql-driver/mysql).
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"livestock-records/internal/adapters/storage/sqldoc"

	driver "github.com/go-sql-driver/mysql"
)

const errDupEntry = 1062

// NewStore abre MySQL con dsn (formato go-sql-driver, p.ej. user:pass@tcp(host:3306)/db).
func NewStore(ctx context.Context, dsn string) (*sqldoc.Store, error) {
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true

	connector, err := driver.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
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
		Name: "mysql",
		Schema: []string{
			`CREATE TABLE IF NOT EXISTS documents (
				collection  VARCHAR(191) NOT NULL,
				id          VARCHAR(64)  NOT NULL,
				natural_key VARCHAR(191) NULL,
				body        JSON NOT NULL,
				PRIMARY KEY (collection, id),
				UNIQUE KEY uq_documents_natural_key (collection, natural_key)
			)`,
			`CREATE TABLE IF NOT EXISTS counters (
				name           VARCHAR(191) PRIMARY KEY,
				sequence_value BIGINT NOT NULL
			)`,
		},

		Insert:          `INSERT INTO documents (collection, id, natural_key, body) VALUES (?, ?, ?, ?)`,
		SelectAll:       `SELECT id, body FROM documents WHERE collection = ? ORDER BY id`,
		SelectByKey:     `SELECT id, body FROM documents WHERE collection = ? AND natural_key = ?`,
		SelectForUpdate: `SELECT body FROM documents WHERE collection = ? AND id = ? FOR UPDATE`,
		Update:          `UPDATE documents SET natural_key = ?, body = ? WHERE collection = ? AND id = ?`,
		Delete:          `DELETE FROM documents WHERE collection = ? AND id = ?`,
		SelectUnkeyed:   `SELECT id, body FROM documents WHERE collection = ? AND natural_key IS NULL ORDER BY id`,
		SetKey:          `UPDATE documents SET natural_key = ? WHERE collection = ? AND id = ?`,

		IsUniqueViolation: IsUniqueViolation,
		NextSequence:      nextSequence,
	}
}

// nextSequence usa LAST_INSERT_ID(expr): el valor queda en el OK packet de la misma sentencia.
func nextSequence(ctx context.Context, db *sql.DB, name string) (int64, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO counters (name, sequence_value) VALUES (?, LAST_INSERT_ID(1))
		ON DUPLICATE KEY UPDATE sequence_value = LAST_INSERT_ID(sequence_value + 1)`, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func IsUniqueViolation(err error) bool {
	var me *driver.MySQLError
	return errors.As(err, &me) && me.Number == errDupEntry
}
