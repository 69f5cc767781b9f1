package mongo

import (
	"context"
	"os"
	"testing"

	"livestock-records/internal/store"
	"livestock-records/internal/store/storetest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStoreConformance(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		ctx := context.Background()
		s, err := Open(ctx, Options{URI: uri, Database: "test_" + uuid.NewString()[:8]})
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = s.Database().Drop(ctx)
			_ = s.Close(ctx)
		})
		return s
	})
}

func TestOpen_RequiresURI(t *testing.T) {
	_, err := Open(context.Background(), Options{})
	require.Error(t, err)
}

func TestFromBSON_HexID(t *testing.T) {
	oid := primitive.NewObjectID()
	doc := fromBSON(map[string]any{"_id": oid, "breedId": "B1"})

	assert.Equal(t, oid.Hex(), doc.ID())
	assert.Equal(t, "B1", doc.String("breedId"))
}
