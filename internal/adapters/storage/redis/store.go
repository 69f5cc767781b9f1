// Package redis es el backend documental sobre Redis (go-redis v8).
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"livestock-records/internal/store"

	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Claves (todas con Prefix):
//
//	docs:<collection>   HASH id -> cuerpo JSON
//	uniq:<collection>   HASH valor -> id (reclamado con HSETNX)
//	counters            HASH nombre -> sequence_value
const maxTxRetries = 16

type Options struct {
	Addr     string
	Password string
	DB       int
	// Prefix aísla varias instancias en el mismo servidor.
	Prefix string
}

type Store struct {
	rdb     *goredis.Client
	prefix  string
	indexes *store.UniqueIndexes
}

var _ store.Store = (*Store)(nil)

func Open(ctx context.Context, opts Options) (*Store, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Store{rdb: rdb, prefix: opts.Prefix, indexes: store.NewUniqueIndexes()}, nil
}

func (s *Store) docsKey(collection string) string { return s.prefix + "docs:" + collection }
func (s *Store) uniqKey(collection string) string { return s.prefix + "uniq:" + collection }
func (s *Store) countersKey() string              { return s.prefix + "counters" }

func (s *Store) Collection(name string) store.Collection {
	return &collection{s: s, name: name}
}

func (s *Store) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	if err := s.indexes.Register(collection, field); err != nil {
		return err
	}

	raw, err := s.rdb.HGetAll(ctx, s.docsKey(collection)).Result()
	if err != nil {
		return err
	}
	for id, body := range raw {
		doc, err := decode(id, body)
		if err != nil {
			return err
		}
		value := store.KeyValue(doc, field)
		if value == "" {
			continue
		}
		claimed, err := s.rdb.HSetNX(ctx, s.uniqKey(collection), value, id).Result()
		if err != nil {
			return err
		}
		if claimed {
			continue
		}
		owner, err := s.rdb.HGet(ctx, s.uniqKey(collection), value).Result()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}
		if owner != id {
			return fmt.Errorf("unique index %s.%s: %w", collection, field, store.ErrDuplicateKey)
		}
	}
	return nil
}

func (s *Store) NextSequence(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, errors.New("sequence name required")
	}
	return s.rdb.HIncrBy(ctx, s.countersKey(), name, 1).Result()
}

func (s *Store) Ping(ctx context.Context) error { return s.rdb.Ping(ctx).Err() }

func (s *Store) Close(ctx context.Context) error { return s.rdb.Close() }

// watch ejecuta fn bajo WATCH de keys y reintenta si otra escritura las tocó antes del EXEC.
func (s *Store) watch(ctx context.Context, fn func(tx *goredis.Tx) error, keys ...string) error {
	var err error
	for i := 0; i < maxTxRetries; i++ {
		err = s.rdb.Watch(ctx, fn, keys...)
		if !errors.Is(err, goredis.TxFailedErr) {
			return err
		}
	}
	return err
}

type collection struct {
	s    *Store
	name string
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

	value := store.KeyValue(doc, c.s.indexes.Field(c.name))
	if value != "" {
		claimed, err := c.s.rdb.HSetNX(ctx, c.s.uniqKey(c.name), value, id.String()).Result()
		if err != nil {
			return "", err
		}
		if !claimed {
			return "", store.ErrDuplicateKey
		}
	}

	if err := c.s.rdb.HSet(ctx, c.s.docsKey(c.name), id.String(), body).Err(); err != nil {
		if value != "" {
			_ = c.s.rdb.HDel(ctx, c.s.uniqKey(c.name), value).Err()
		}
		return "", err
	}
	return id.String(), nil
}

func (c *collection) Find(ctx context.Context) ([]store.Document, error) {
	raw, err := c.s.rdb.HGetAll(ctx, c.s.docsKey(c.name)).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	// ids UUIDv7: orden lexicográfico = orden de inserción.
	sort.Strings(ids)

	out := make([]store.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := decode(id, raw[id])
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (c *collection) FindOne(ctx context.Context, field string, value any) (store.Document, error) {
	want := fmt.Sprint(value)

	if field == c.s.indexes.Field(c.name) {
		id, err := c.s.rdb.HGet(ctx, c.s.uniqKey(c.name), want).Result()
		if errors.Is(err, goredis.Nil) {
			return nil, store.ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		body, err := c.s.rdb.HGet(ctx, c.s.docsKey(c.name), id).Result()
		if errors.Is(err, goredis.Nil) {
			return nil, store.ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return decode(id, body)
	}

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

func (c *collection) UpdateByID(ctx context.Context, id string, set store.Document) (bool, error) {
	docsKey, uniqKey := c.s.docsKey(c.name), c.s.uniqKey(c.name)
	field := c.s.indexes.Field(c.name)

	matched := false
	err := c.s.watch(ctx, func(tx *goredis.Tx) error {
		matched = false
		body, err := tx.HGet(ctx, docsKey, id).Result()
		if errors.Is(err, goredis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		current, err := decode(id, body)
		if err != nil {
			return err
		}
		matched = true

		merged := store.Merge(current, set)
		encoded, err := json.Marshal(merged.WithoutID())
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}

		oldValue, newValue := store.KeyValue(current, field), store.KeyValue(merged, field)
		if newValue != oldValue && newValue != "" {
			owner, err := tx.HGet(ctx, uniqKey, newValue).Result()
			if err != nil && !errors.Is(err, goredis.Nil) {
				return err
			}
			if owner != "" && owner != id {
				return store.ErrDuplicateKey
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.HSet(ctx, docsKey, id, encoded)
			if newValue != oldValue {
				if oldValue != "" {
					pipe.HDel(ctx, uniqKey, oldValue)
				}
				if newValue != "" {
					pipe.HSet(ctx, uniqKey, newValue, id)
				}
			}
			return nil
		})
		return err
	}, docsKey, uniqKey)
	if err != nil {
		return false, err
	}
	return matched, nil
}

func (c *collection) DeleteByID(ctx context.Context, id string) (bool, error) {
	docsKey, uniqKey := c.s.docsKey(c.name), c.s.uniqKey(c.name)
	field := c.s.indexes.Field(c.name)

	deleted := false
	err := c.s.watch(ctx, func(tx *goredis.Tx) error {
		deleted = false
		body, err := tx.HGet(ctx, docsKey, id).Result()
		if errors.Is(err, goredis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		current, err := decode(id, body)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.HDel(ctx, docsKey, id)
			if value := store.KeyValue(current, field); value != "" {
				pipe.HDel(ctx, uniqKey, value)
			}
			return nil
		})
		if err == nil {
			deleted = true
		}
		return err
	}, docsKey, uniqKey)
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func decode(id, body string) (store.Document, error) {
	doc := store.Document{}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	doc[store.IDField] = id
	return doc, nil
}
