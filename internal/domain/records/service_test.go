package records

import (
	"context"
	"errors"
	"testing"

	"livestock-records/internal/ports/changes"
	"livestock-records/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_ThenListed(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := newWidgetService(t, newMemoryStore(t), pub)

	id, err := svc.Create(ctx, widget{WidgetID: "W1", Label: "first", State: "ignored"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, "W1", items[0].WidgetID)
	assert.Equal(t, "new", items[0].State, "Normalize(OpCreate) debe aplicarse")

	require.Len(t, pub.events, 1)
	assert.Equal(t, changes.Event{
		Collection: "Widgets", Op: changes.OpInsert, ID: id, Key: "W1", At: pub.events[0].At,
	}, pub.events[0])
}

func TestCreate_DuplicateKeyKeepsSingleDocument(t *testing.T) {
	ctx := context.Background()
	svc := newWidgetService(t, newMemoryStore(t), nil)

	_, err := svc.Create(ctx, widget{WidgetID: "W1", Label: "first"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, widget{WidgetID: "W1", Label: "second"})
	require.ErrorIs(t, err, store.ErrDuplicateKey)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "first", items[0].Label)
}

func TestCreate_MissingFieldsNeverReachStore(t *testing.T) {
	ctx := context.Background()
	st := &countingStore{Store: newMemoryStore(t)}
	svc := newWidgetService(t, st, nil)

	for _, w := range []widget{
		{Label: "no key"},
		{WidgetID: "W1"},
		{WidgetID: "   ", Label: "blank key"},
	} {
		_, err := svc.Create(ctx, w)
		require.ErrorIs(t, err, ErrMissingFields)
	}
	_, err := svc.Update(ctx, "any", widget{WidgetID: "W1"})
	require.ErrorIs(t, err, ErrMissingFields)

	assert.Zero(t, st.Writes())
}

func TestUpdate_SetsFieldsAndReportsMatch(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := newWidgetService(t, newMemoryStore(t), pub)

	id, err := svc.Create(ctx, widget{WidgetID: "W1", Label: "first"})
	require.NoError(t, err)

	matched, err := svc.Update(ctx, id, widget{WidgetID: "W1", Label: "renamed"})
	require.NoError(t, err)
	assert.True(t, matched)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "renamed", items[0].Label)
	assert.Equal(t, "new", items[0].State, "un $set sin state no lo borra")

	matched, err = svc.Update(ctx, "does-not-exist", widget{WidgetID: "W9", Label: "x"})
	require.NoError(t, err)
	assert.False(t, matched)

	assert.Equal(t, []changes.Op{changes.OpInsert, changes.OpUpdate}, pub.ops())
}

func TestUpdate_NaturalKeyCollision(t *testing.T) {
	ctx := context.Background()
	svc := newWidgetService(t, newMemoryStore(t), nil)

	_, err := svc.Create(ctx, widget{WidgetID: "W1", Label: "a"})
	require.NoError(t, err)
	id2, err := svc.Create(ctx, widget{WidgetID: "W2", Label: "b"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, id2, widget{WidgetID: "W1", Label: "b"})
	require.ErrorIs(t, err, store.ErrDuplicateKey)
}

func TestDelete_RemovesAndToleratesUnknown(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := newWidgetService(t, newMemoryStore(t), pub)

	id, err := svc.Create(ctx, widget{WidgetID: "W1", Label: "a"})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.Equal(t, []changes.Op{changes.OpInsert, changes.OpDelete}, pub.ops())
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newWidgetService(t, newMemoryStore(t), pub)

	_, err := svc.Create(ctx, widget{WidgetID: "W1", Label: "a"})
	require.NoError(t, err)
	assert.Len(t, pub.events, 1)
}

func TestNewService_Validation(t *testing.T) {
	ctx := context.Background()
	_, err := NewService[widget](ctx, newMemoryStore(t), Kind{Name: "Broken"}, Deps{})
	require.Error(t, err)

	st := newMemoryStore(t)
	require.NoError(t, st.EnsureUniqueIndex(ctx, "Widgets", "otherField"))
	_, err = NewService[widget](ctx, st, widgetKind, Deps{})
	require.Error(t, err, "un segundo campo único para la misma colección debe fallar")
}
