package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"livestock-records/internal/store"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
)

const (
	tableDocuments = "documents"
	tableCounters  = "counters"

	indexID         = "id"
	indexCollection = "collection"
	indexNaturalKey = "natural_key"
)

// entry es la fila interna. PK y UniqueKey llevan el nombre de la colección como prefijo
// para que un solo índice sirva a todas las colecciones.
type entry struct {
	PK         string
	Collection string
	ID         string
	UniqueKey  string
	Doc        store.Document
}

type counter struct {
	Name  string
	Value int64
}

// Store es el backend in-memory (dev/tests) sobre go-memdb.
// memdb serializa las transacciones de escritura, así que el chequeo de clave + insert es atómico.
type Store struct {
	db      *memdb.MemDB
	indexes *store.UniqueIndexes
}

var _ store.Store = (*Store)(nil)

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableDocuments: {
				Name: tableDocuments,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "PK"},
					},
					indexCollection: {
						Name:    indexCollection,
						Indexer: &memdb.StringFieldIndex{Field: "Collection"},
					},
					indexNaturalKey: {
						Name:         indexNaturalKey,
						Unique:       true,
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "UniqueKey"},
					},
				},
			},
			tableCounters: {
				Name: tableCounters,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Name"},
					},
				},
			},
		},
	}
}

func NewStore() (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("memdb schema: %w", err)
	}
	return &Store{db: db, indexes: store.NewUniqueIndexes()}, nil
}

func (s *Store) Collection(name string) store.Collection {
	return &collection{s: s, name: name}
}

func (s *Store) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	if err := s.indexes.Register(collection, field); err != nil {
		return err
	}

	// Documentos previos al índice: se indexan ahora (y se valida que no haya duplicados).
	txn := s.db.Txn(true)
	defer txn.Abort()

	it, err := txn.Get(tableDocuments, indexCollection, collection)
	if err != nil {
		return err
	}
	var pending []*entry
	for obj := it.Next(); obj != nil; obj = it.Next() {
		e := obj.(*entry)
		if e.UniqueKey == "" {
			pending = append(pending, e)
		}
	}
	for _, e := range pending {
		key := uniqueKey(collection, store.KeyValue(e.Doc, field))
		if key == "" {
			continue
		}
		if existing, _ := txn.First(tableDocuments, indexNaturalKey, key); existing != nil {
			return fmt.Errorf("unique index %s.%s: %w", collection, field, store.ErrDuplicateKey)
		}
		updated := *e
		updated.UniqueKey = key
		if err := txn.Insert(tableDocuments, &updated); err != nil {
			return err
		}
	}
	txn.Commit()
	return nil
}

func (s *Store) NextSequence(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("sequence name required")
	}

	txn := s.db.Txn(true)
	defer txn.Abort()

	next := int64(1)
	raw, err := txn.First(tableCounters, indexID, name)
	if err != nil {
		return 0, err
	}
	if raw != nil {
		next = raw.(*counter).Value + 1
	}
	if err := txn.Insert(tableCounters, &counter{Name: name, Value: next}); err != nil {
		return 0, err
	}
	txn.Commit()
	return next, nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close(ctx context.Context) error { return nil }

type collection struct {
	s    *Store
	name string
}

func (c *collection) InsertOne(ctx context.Context, doc store.Document) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}

	e := &entry{
		PK:         primaryKey(c.name, id.String()),
		Collection: c.name,
		ID:         id.String(),
		Doc:        doc.WithoutID(),
	}
	if field := c.s.indexes.Field(c.name); field != "" {
		e.UniqueKey = uniqueKey(c.name, store.KeyValue(doc, field))
	}

	txn := c.s.db.Txn(true)
	defer txn.Abort()

	if e.UniqueKey != "" {
		existing, err := txn.First(tableDocuments, indexNaturalKey, e.UniqueKey)
		if err != nil {
			return "", err
		}
		if existing != nil {
			return "", store.ErrDuplicateKey
		}
	}
	if err := txn.Insert(tableDocuments, e); err != nil {
		return "", err
	}
	txn.Commit()
	return e.ID, nil
}

func (c *collection) Find(ctx context.Context) ([]store.Document, error) {
	txn := c.s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableDocuments, indexCollection, c.name)
	if err != nil {
		return nil, err
	}

	entries := make([]*entry, 0)
	for obj := it.Next(); obj != nil; obj = it.Next() {
		entries = append(entries, obj.(*entry))
	}

	// Orden natural = orden de inserción (los ids son UUIDv7).
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})

	out := make([]store.Document, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.document())
	}
	return out, nil
}

func (c *collection) FindOne(ctx context.Context, field string, value any) (store.Document, error) {
	want := fmt.Sprint(value)

	txn := c.s.db.Txn(false)
	defer txn.Abort()

	if field == c.s.indexes.Field(c.name) {
		raw, err := txn.First(tableDocuments, indexNaturalKey, uniqueKey(c.name, want))
		if err != nil {
			return nil, err
		}
		if raw == nil {
			return nil, store.ErrNotFound
		}
		return raw.(*entry).document(), nil
	}

	it, err := txn.Get(tableDocuments, indexCollection, c.name)
	if err != nil {
		return nil, err
	}
	var found *entry
	for obj := it.Next(); obj != nil; obj = it.Next() {
		e := obj.(*entry)
		if e.Doc.String(field) != want {
			continue
		}
		if found == nil || e.ID < found.ID {
			found = e
		}
	}
	if found == nil {
		return nil, store.ErrNotFound
	}
	return found.document(), nil
}

func (c *collection) UpdateByID(ctx context.Context, id string, set store.Document) (bool, error) {
	txn := c.s.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tableDocuments, indexID, primaryKey(c.name, id))
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	current := raw.(*entry)

	updated := &entry{
		PK:         current.PK,
		Collection: current.Collection,
		ID:         current.ID,
		UniqueKey:  current.UniqueKey,
		Doc:        store.Merge(current.Doc, set),
	}
	if field := c.s.indexes.Field(c.name); field != "" {
		updated.UniqueKey = uniqueKey(c.name, store.KeyValue(updated.Doc, field))
		if updated.UniqueKey != "" && updated.UniqueKey != current.UniqueKey {
			other, err := txn.First(tableDocuments, indexNaturalKey, updated.UniqueKey)
			if err != nil {
				return false, err
			}
			if other != nil && other.(*entry).PK != current.PK {
				return false, store.ErrDuplicateKey
			}
		}
	}

	if err := txn.Insert(tableDocuments, updated); err != nil {
		return false, err
	}
	txn.Commit()
	return true, nil
}

func (c *collection) DeleteByID(ctx context.Context, id string) (bool, error) {
	txn := c.s.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tableDocuments, indexID, primaryKey(c.name, id))
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := txn.Delete(tableDocuments, raw); err != nil {
		return false, err
	}
	txn.Commit()
	return true, nil
}

func (e *entry) document() store.Document {
	out := e.Doc.Clone()
	if out == nil {
		out = store.Document{}
	}
	out[store.IDField] = e.ID
	return out
}

func primaryKey(collection, id string) string {
	return collection + "\x00" + id
}

func uniqueKey(collection, value string) string {
	if value == "" {
		return ""
	}
	return collection + "\x00" + value
}
