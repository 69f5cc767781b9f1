// Package badger es el backend documental embebido sobre Badger (KV con transacciones optimistas).
package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"livestock-records/internal/store"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Esquema de claves:
//
//	doc/<collection>/<id>      -> cuerpo JSON
//	uniq/<collection>/<value>  -> id dueño del valor
//	seq/<name>                 -> uint64 big endian
const (
	prefixDoc  = "doc/"
	prefixUniq = "uniq/"
	prefixSeq  = "seq/"

	maxConflictRetries = 16
)

// Options configura la apertura.
type Options struct {
	// Path es el directorio de datos. Vacío = en memoria.
	Path string
}

type Store struct {
	db      *badgerdb.DB
	indexes *store.UniqueIndexes
}

var _ store.Store = (*Store)(nil)

func Open(opts Options) (*Store, error) {
	var bopts badgerdb.Options
	if opts.Path == "" {
		bopts = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Path, 0o755); err != nil {
			return nil, err
		}
		bopts = badgerdb.DefaultOptions(opts.Path)
	}
	bopts = bopts.WithLoggingLevel(badgerdb.ERROR)

	db, err := badgerdb.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: db, indexes: store.NewUniqueIndexes()}, nil
}

// update reintenta fn cuando otra transacción concurrente tocó las mismas claves.
func (s *Store) update(fn func(txn *badgerdb.Txn) error) error {
	var err error
	for i := 0; i < maxConflictRetries; i++ {
		err = s.db.Update(fn)
		if !errors.Is(err, badgerdb.ErrConflict) {
			return err
		}
	}
	return err
}

func (s *Store) Collection(name string) store.Collection {
	return &collection{s: s, name: name}
}

func (s *Store) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	if err := s.indexes.Register(collection, field); err != nil {
		return err
	}

	return s.update(func(txn *badgerdb.Txn) error {
		docs, err := scan(txn, docPrefix(collection))
		if err != nil {
			return err
		}
		for _, doc := range docs {
			value := store.KeyValue(doc, field)
			if value == "" {
				continue
			}
			owner, err := getString(txn, uniqKey(collection, value))
			if err != nil {
				return err
			}
			if owner != "" && owner != doc.ID() {
				return fmt.Errorf("unique index %s.%s: %w", collection, field, store.ErrDuplicateKey)
			}
			if err := txn.Set(uniqKey(collection, value), []byte(doc.ID())); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) NextSequence(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, errors.New("sequence name required")
	}

	var next uint64
	err := s.update(func(txn *badgerdb.Txn) error {
		next = 1
		item, err := txn.Get([]byte(prefixSeq + name))
		switch {
		case err == nil:
			if err := item.Value(func(val []byte) error {
				if len(val) != 8 {
					return fmt.Errorf("corrupt sequence %q", name)
				}
				next = binary.BigEndian.Uint64(val) + 1
				return nil
			}); err != nil {
				return err
			}
		case !errors.Is(err, badgerdb.ErrKeyNotFound):
			return err
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, next)
		return txn.Set([]byte(prefixSeq+name), buf)
	})
	if err != nil {
		return 0, err
	}
	return int64(next), nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger closed")
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error { return s.db.Close() }

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

	field := c.s.indexes.Field(c.name)
	value := store.KeyValue(doc, field)

	err = c.s.update(func(txn *badgerdb.Txn) error {
		if value != "" {
			owner, err := getString(txn, uniqKey(c.name, value))
			if err != nil {
				return err
			}
			if owner != "" {
				return store.ErrDuplicateKey
			}
			if err := txn.Set(uniqKey(c.name, value), []byte(id.String())); err != nil {
				return err
			}
		}
		return txn.Set(docKey(c.name, id.String()), body)
	})
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (c *collection) Find(ctx context.Context) ([]store.Document, error) {
	var out []store.Document
	err := c.s.db.View(func(txn *badgerdb.Txn) error {
		var err error
		out, err = scan(txn, docPrefix(c.name))
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []store.Document{}
	}
	return out, nil
}

func (c *collection) FindOne(ctx context.Context, field string, value any) (store.Document, error) {
	want := fmt.Sprint(value)

	var found store.Document
	err := c.s.db.View(func(txn *badgerdb.Txn) error {
		if field == c.s.indexes.Field(c.name) {
			owner, err := getString(txn, uniqKey(c.name, want))
			if err != nil || owner == "" {
				return err
			}
			found, err = getDocument(txn, c.name, owner)
			return err
		}

		docs, err := scan(txn, docPrefix(c.name))
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if doc.String(field) == want {
				found = doc
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, store.ErrNotFound
	}
	return found, nil
}

func (c *collection) UpdateByID(ctx context.Context, id string, set store.Document) (bool, error) {
	field := c.s.indexes.Field(c.name)

	matched := false
	err := c.s.update(func(txn *badgerdb.Txn) error {
		matched = false
		current, err := getDocument(txn, c.name, id)
		if err != nil || current == nil {
			return err
		}
		matched = true

		merged := store.Merge(current, set)
		if field != "" {
			oldValue := store.KeyValue(current, field)
			newValue := store.KeyValue(merged, field)
			if newValue != oldValue {
				if newValue != "" {
					owner, err := getString(txn, uniqKey(c.name, newValue))
					if err != nil {
						return err
					}
					if owner != "" && owner != id {
						return store.ErrDuplicateKey
					}
					if err := txn.Set(uniqKey(c.name, newValue), []byte(id)); err != nil {
						return err
					}
				}
				if oldValue != "" {
					if err := txn.Delete(uniqKey(c.name, oldValue)); err != nil {
						return err
					}
				}
			}
		}

		body, err := json.Marshal(merged.WithoutID())
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		return txn.Set(docKey(c.name, id), body)
	})
	if err != nil {
		return false, err
	}
	return matched, nil
}

func (c *collection) DeleteByID(ctx context.Context, id string) (bool, error) {
	field := c.s.indexes.Field(c.name)

	deleted := false
	err := c.s.update(func(txn *badgerdb.Txn) error {
		deleted = false
		current, err := getDocument(txn, c.name, id)
		if err != nil || current == nil {
			return err
		}
		if value := store.KeyValue(current, field); value != "" {
			if err := txn.Delete(uniqKey(c.name, value)); err != nil {
				return err
			}
		}
		deleted = true
		return txn.Delete(docKey(c.name, id))
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func docPrefix(collection string) []byte {
	return []byte(prefixDoc + collection + "/")
}

func docKey(collection, id string) []byte {
	return []byte(prefixDoc + collection + "/" + id)
}

func uniqKey(collection, value string) []byte {
	return []byte(prefixUniq + collection + "/" + value)
}

// getString devuelve "" si la clave no existe.
func getString(txn *badgerdb.Txn, key []byte) (string, error) {
	item, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return "", nil
		}
		return "", err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return "", err
	}
	return string(val), nil
}

// getDocument devuelve nil (sin error) si el documento no existe.
func getDocument(txn *badgerdb.Txn, collection, id string) (store.Document, error) {
	item, err := txn.Get(docKey(collection, id))
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var doc store.Document
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &doc)
	}); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc == nil {
		doc = store.Document{}
	}
	doc[store.IDField] = id
	return doc, nil
}

// scan recorre un prefijo en orden de clave; con ids UUIDv7 eso es orden de inserción.
func scan(txn *badgerdb.Txn, prefix []byte) ([]store.Document, error) {
	opts := badgerdb.DefaultIteratorOptions
	opts.PrefetchSize = 100
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var out []store.Document
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		id := string(item.Key()[len(prefix):])
		err := item.Value(func(val []byte) error {
			doc := store.Document{}
			if err := json.Unmarshal(val, &doc); err != nil {
				return fmt.Errorf("decode document: %w", err)
			}
			doc[store.IDField] = id
			out = append(out, doc)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
