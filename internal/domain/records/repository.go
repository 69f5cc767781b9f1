package records

import (
	"context"

	"livestock-records/internal/store"
)

// Repository da acceso tipado a la colección de un Kind.
type Repository[T any] struct {
	coll store.Collection
}

func NewRepository[T any](st store.Store, collection string) *Repository[T] {
	return &Repository[T]{coll: st.Collection(collection)}
}

func (r *Repository[T]) Insert(ctx context.Context, doc store.Document) (string, error) {
	return r.coll.InsertOne(ctx, doc)
}

func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	docs, err := r.coll.Find(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		item, err := Decode[T](d)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *Repository[T]) Update(ctx context.Context, id string, set store.Document) (bool, error) {
	return r.coll.UpdateByID(ctx, id, set)
}

func (r *Repository[T]) Delete(ctx context.Context, id string) (bool, error) {
	return r.coll.DeleteByID(ctx, id)
}
