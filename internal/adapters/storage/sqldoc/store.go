// Package sqldoc guarda documentos como cuerpos JSON en una tabla SQL.
// Postgres, SQLite y MySQL comparten esta implementación y sólo aportan su Dialect.
package sqldoc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"livestock-records/internal/store"

	"github.com/google/uuid"
)

// Dialect agrupa el SQL específico de cada motor. El orden de argumentos de cada sentencia es fijo:
//
//	Insert          (collection, id, natural_key, body)
//	SelectAll       (collection)               -> id, body
//	SelectByKey     (collection, natural_key)  -> id, body
//	SelectForUpdate (collection, id)           -> body
//	Update          (natural_key, body, collection, id)
//	Delete          (collection, id)
//	SelectUnkeyed   (collection)               -> id, body
//	SetKey          (natural_key, collection, id)
type Dialect struct {
	Name   string
	Schema []string

	Insert          string
	SelectAll       string
	SelectByKey     string
	SelectForUpdate string
	Update          string
	Delete          string
	SelectUnkeyed   string
	SetKey          string

	IsUniqueViolation func(err error) bool
	NextSequence      func(ctx context.Context, db *sql.DB, name string) (int64, error)
}

type Store struct {
	db      *sql.DB
	d       Dialect
	indexes *store.UniqueIndexes
}

var _ store.Store = (*Store)(nil)

// New aplica el esquema del dialecto sobre db y devuelve el store. db queda a cargo del Store (Close lo cierra).
func New(ctx context.Context, db *sql.DB, d Dialect) (*Store, error) {
	for _, stmt := range d.Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("%s schema: %w", d.Name, err)
		}
	}
	return &Store{db: db, d: d, indexes: store.NewUniqueIndexes()}, nil
}

// DB expone el pool para tests y tareas de mantenimiento.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Collection(name string) store.Collection {
	return &collection{s: s, name: name}
}

// EnsureUniqueIndex registra el campo y completa natural_key en filas insertadas antes del índice.
// La restricción UNIQUE (collection, natural_key) del esquema hace el resto.
func (s *Store) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	if err := s.indexes.Register(collection, field); err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx, s.d.SelectUnkeyed, collection)
	if err != nil {
		return fmt.Errorf("select unkeyed: %w", err)
	}
	type pending struct {
		id  string
		key string
	}
	var todo []pending
	for rows.Next() {
		var (
			id   string
			body []byte
		)
		if err := rows.Scan(&id, &body); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan: %w", err)
		}
		doc, err := decode(body)
		if err != nil {
			_ = rows.Close()
			return err
		}
		if key := store.KeyValue(doc, field); key != "" {
			todo = append(todo, pending{id: id, key: key})
		}
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range todo {
		if _, err := s.db.ExecContext(ctx, s.d.SetKey, p.key, collection, p.id); err != nil {
			return s.translate(err)
		}
	}
	return nil
}

func (s *Store) NextSequence(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, errors.New("sequence name required")
	}
	n, err := s.d.NextSequence(ctx, s.db, name)
	if err != nil {
		return 0, fmt.Errorf("%s next sequence: %w", s.d.Name, err)
	}
	return n, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close(ctx context.Context) error { return s.db.Close() }

func (s *Store) translate(err error) error {
	if err == nil {
		return nil
	}
	if s.d.IsUniqueViolation != nil && s.d.IsUniqueViolation(err) {
		return store.ErrDuplicateKey
	}
	return err
}

type collection struct {
	s    *Store
	name string
}

func (c *collection) naturalKey(doc store.Document) sql.NullString {
	field := c.s.indexes.Field(c.name)
	if field == "" {
		return sql.NullString{}
	}
	key := store.KeyValue(doc, field)
	return sql.NullString{String: key, Valid: key != ""}
}

func (c *collection) InsertOne(ctx context.Context, doc store.Document) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(doc.WithoutID())
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	if _, err := c.s.db.ExecContext(ctx, c.s.d.Insert, c.name, id.String(), c.naturalKey(doc), string(body)); err != nil {
		return "", c.s.translate(err)
	}
	return id.String(), nil
}

func (c *collection) Find(ctx context.Context) ([]store.Document, error) {
	rows, err := c.s.db.QueryContext(ctx, c.s.d.SelectAll, c.name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]store.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (c *collection) FindOne(ctx context.Context, field string, value any) (store.Document, error) {
	want := fmt.Sprint(value)

	if field == c.s.indexes.Field(c.name) {
		row := c.s.db.QueryRowContext(ctx, c.s.d.SelectByKey, c.name, want)
		doc, err := scanDocument(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return doc, err
	}

	// Campo sin índice: recorrido en orden de inserción, primer match.
	all, err := c.Find(ctx)
	if err != nil {
		return nil, err
	}
	for _, doc := range all {
		if doc.String(field) == want {
			return doc, nil
		}
	}
	return nil, store.ErrNotFound
}

func (c *collection) UpdateByID(ctx context.Context, id string, set store.Document) (matched bool, err error) {
	tx, err := c.s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var body []byte
	if err := tx.QueryRowContext(ctx, c.s.d.SelectForUpdate, c.name, id).Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = tx.Rollback()
			return false, nil
		}
		return false, err
	}
	current, err := decode(body)
	if err != nil {
		return false, err
	}

	merged := store.Merge(current, set)
	encoded, err := json.Marshal(merged)
	if err != nil {
		return false, fmt.Errorf("encode document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, c.s.d.Update, c.naturalKey(merged), string(encoded), c.name, id); err != nil {
		return false, c.s.translate(err)
	}
	if err := tx.Commit(); err != nil {
		return false, c.s.translate(err)
	}
	return true, nil
}

func (c *collection) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := c.s.db.ExecContext(ctx, c.s.d.Delete, c.name, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(sc scanner) (store.Document, error) {
	var (
		id   string
		body []byte
	)
	if err := sc.Scan(&id, &body); err != nil {
		return nil, err
	}
	doc, err := decode(body)
	if err != nil {
		return nil, err
	}
	doc[store.IDField] = id
	return doc, nil
}

func decode(body []byte) (store.Document, error) {
	doc := store.Document{}
	if len(body) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// ReturningSequence arma un NextSequence para motores con upsert + RETURNING (Postgres, SQLite).
func ReturningSequence(query string) func(ctx context.Context, db *sql.DB, name string) (int64, error) {
	return func(ctx context.Context, db *sql.DB, name string) (int64, error) {
		var n int64
		if err := db.QueryRowContext(ctx, query, name).Scan(&n); err != nil {
			return 0, err
		}
		return n, nil
	}
}
