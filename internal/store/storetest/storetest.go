// Package storetest contiene la suite de conformidad que todo backend de store debe pasar.
package storetest

import (
	"context"
	"strings"
	"sync"
	"testing"

	"livestock-records/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Opener abre un store limpio para un subtest. Debe registrar su propio Close con t.Cleanup.
type Opener func(t *testing.T) store.Store

// Run ejecuta la suite completa contra el backend que devuelve open.
func Run(t *testing.T, open Opener) {
	t.Helper()

	t.Run("insert_and_find", func(t *testing.T) { testInsertAndFind(t, open(t)) })
	t.Run("unique_index_rejects_duplicate_insert", func(t *testing.T) { testUniqueInsert(t, open(t)) })
	t.Run("ensure_unique_index_is_idempotent", func(t *testing.T) { testEnsureIdempotent(t, open(t)) })
	t.Run("find_one", func(t *testing.T) { testFindOne(t, open(t)) })
	t.Run("update_by_id_sets_fields", func(t *testing.T) { testUpdate(t, open(t)) })
	t.Run("update_unknown_id_matches_nothing", func(t *testing.T) { testUpdateUnknown(t, open(t)) })
	t.Run("update_cannot_collide_on_unique_key", func(t *testing.T) { testUpdateCollision(t, open(t)) })
	t.Run("delete_by_id", func(t *testing.T) { testDelete(t, open(t)) })
	t.Run("delete_releases_unique_key", func(t *testing.T) { testDeleteReleasesKey(t, open(t)) })
	t.Run("collections_are_isolated", func(t *testing.T) { testIsolation(t, open(t)) })
	t.Run("next_sequence", func(t *testing.T) { testNextSequence(t, open(t)) })
	t.Run("concurrent_duplicate_inserts", func(t *testing.T) { testConcurrentInserts(t, open(t)) })
}

// name genera nombres únicos para no chocar con datos de corridas previas en servidores reales.
func name(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString()[:8], "-", "")
}

func testInsertAndFind(t *testing.T, s store.Store) {
	ctx := context.Background()
	coll := s.Collection(name("Breeds"))

	id1, err := coll.InsertOne(ctx, store.Document{"breedId": "B1", "breedName": "Boer"})
	require.NoError(t, err)
	require.NotEmpty(t, id1)

	id2, err := coll.InsertOne(ctx, store.Document{"breedId": "B2", "breedName": "Kiko"})
	require.NoError(t, err)
	require.NotEqual(t, id1, id2)

	docs, err := coll.Find(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	byID := map[string]store.Document{}
	for _, d := range docs {
		byID[d.ID()] = d
	}
	require.Contains(t, byID, id1)
	require.Contains(t, byID, id2)
	assert.Equal(t, "Boer", byID[id1].String("breedName"))
	assert.Equal(t, "B2", byID[id2].String("breedId"))
}

func testUniqueInsert(t *testing.T, s store.Store) {
	ctx := context.Background()
	collName := name("Breeds")
	require.NoError(t, s.EnsureUniqueIndex(ctx, collName, "breedId"))
	coll := s.Collection(collName)

	_, err := coll.InsertOne(ctx, store.Document{"breedId": "B1", "breedName": "Boer"})
	require.NoError(t, err)

	_, err = coll.InsertOne(ctx, store.Document{"breedId": "B1", "breedName": "Other"})
	require.ErrorIs(t, err, store.ErrDuplicateKey)

	docs, err := coll.Find(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Boer", docs[0].String("breedName"))
}

func testEnsureIdempotent(t *testing.T, s store.Store) {
	ctx := context.Background()
	collName := name("Tags")
	require.NoError(t, s.EnsureUniqueIndex(ctx, collName, "tagId"))
	require.NoError(t, s.EnsureUniqueIndex(ctx, collName, "tagId"))
}

func testFindOne(t *testing.T, s store.Store) {
	ctx := context.Background()
	collName := name("Users")
	require.NoError(t, s.EnsureUniqueIndex(ctx, collName, "email"))
	coll := s.Collection(collName)

	id, err := coll.InsertOne(ctx, store.Document{"email": "a@farm.io", "role": "Admin"})
	require.NoError(t, err)

	doc, err := coll.FindOne(ctx, "email", "a@farm.io")
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID())
	assert.Equal(t, "Admin", doc.String("role"))

	// también por un campo no indexado
	doc, err = coll.FindOne(ctx, "role", "Admin")
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID())

	_, err = coll.FindOne(ctx, "email", "missing@farm.io")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testUpdate(t *testing.T, s store.Store) {
	ctx := context.Background()
	collName := name("Medicines")
	require.NoError(t, s.EnsureUniqueIndex(ctx, collName, "medicineId"))
	coll := s.Collection(collName)

	id, err := coll.InsertOne(ctx, store.Document{"medicineId": "M1", "medicineName": "Ivermectin", "availability": "Yes"})
	require.NoError(t, err)

	matched, err := coll.UpdateByID(ctx, id, store.Document{"medicineId": "M1", "availability": "No"})
	require.NoError(t, err)
	assert.True(t, matched)

	doc, err := coll.FindOne(ctx, "medicineId", "M1")
	require.NoError(t, err)
	assert.Equal(t, "No", doc.String("availability"))
	assert.Equal(t, "Ivermectin", doc.String("medicineName"), "$set no debe borrar campos no enviados")

	// cambiar la clave natural libera la anterior
	_, err = coll.UpdateByID(ctx, id, store.Document{"medicineId": "M9"})
	require.NoError(t, err)
	_, err = coll.InsertOne(ctx, store.Document{"medicineId": "M1", "medicineName": "Penicillin", "availability": "Yes"})
	require.NoError(t, err)
}

func testUpdateUnknown(t *testing.T, s store.Store) {
	ctx := context.Background()
	coll := s.Collection(name("Vendors"))

	matched, err := coll.UpdateByID(ctx, uuid.NewString(), store.Document{"vendorName": "x"})
	require.NoError(t, err)
	assert.False(t, matched)

	matched, err = coll.UpdateByID(ctx, "not-a-valid-id", store.Document{"vendorName": "x"})
	require.NoError(t, err)
	assert.False(t, matched)

	docs, err := coll.Find(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func testUpdateCollision(t *testing.T, s store.Store) {
	ctx := context.Background()
	collName := name("Breeds")
	require.NoError(t, s.EnsureUniqueIndex(ctx, collName, "breedId"))
	coll := s.Collection(collName)

	_, err := coll.InsertOne(ctx, store.Document{"breedId": "B1", "breedName": "Boer"})
	require.NoError(t, err)
	id2, err := coll.InsertOne(ctx, store.Document{"breedId": "B2", "breedName": "Kiko"})
	require.NoError(t, err)

	_, err = coll.UpdateByID(ctx, id2, store.Document{"breedId": "B1", "breedName": "Kiko"})
	require.ErrorIs(t, err, store.ErrDuplicateKey)

	doc, err := coll.FindOne(ctx, "breedName", "Kiko")
	require.NoError(t, err)
	assert.Equal(t, "B2", doc.String("breedId"))

	// mantener su propia clave no es colisión
	matched, err := coll.UpdateByID(ctx, id2, store.Document{"breedId": "B2", "breedName": "Kiko Red"})
	require.NoError(t, err)
	assert.True(t, matched)
}

func testDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	coll := s.Collection(name("Tags"))

	id, err := coll.InsertOne(ctx, store.Document{"tagId": "T1", "tagColor": "red"})
	require.NoError(t, err)

	deleted, err := coll.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	docs, err := coll.Find(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	deleted, err = coll.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = coll.DeleteByID(ctx, "not-a-valid-id")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func testDeleteReleasesKey(t *testing.T, s store.Store) {
	ctx := context.Background()
	collName := name("Tags")
	require.NoError(t, s.EnsureUniqueIndex(ctx, collName, "tagId"))
	coll := s.Collection(collName)

	id, err := coll.InsertOne(ctx, store.Document{"tagId": "T1"})
	require.NoError(t, err)
	_, err = coll.DeleteByID(ctx, id)
	require.NoError(t, err)

	_, err = coll.InsertOne(ctx, store.Document{"tagId": "T1"})
	require.NoError(t, err)
}

func testIsolation(t *testing.T, s store.Store) {
	ctx := context.Background()
	a, b := name("A"), name("B")
	require.NoError(t, s.EnsureUniqueIndex(ctx, a, "key"))
	require.NoError(t, s.EnsureUniqueIndex(ctx, b, "key"))

	_, err := s.Collection(a).InsertOne(ctx, store.Document{"key": "K1"})
	require.NoError(t, err)
	_, err = s.Collection(b).InsertOne(ctx, store.Document{"key": "K1"})
	require.NoError(t, err)

	docs, err := s.Collection(b).Find(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func testNextSequence(t *testing.T, s store.Store) {
	ctx := context.Background()
	seqA, seqB := name("goat"), name("kid")

	for want := int64(1); want <= 3; want++ {
		got, err := s.NextSequence(ctx, seqA)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := s.NextSequence(ctx, seqB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func testConcurrentInserts(t *testing.T, s store.Store) {
	ctx := context.Background()
	collName := name("Vendors")
	require.NoError(t, s.EnsureUniqueIndex(ctx, collName, "vendorId"))
	coll := s.Collection(collName)

	const workers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		dups int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := coll.InsertOne(ctx, store.Document{"vendorId": "V1", "vendorName": "Feed Co"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, store.ErrDuplicateKey):
				dups++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, dups)

	docs, err := coll.Find(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}
