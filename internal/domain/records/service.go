package records

import (
	"context"
	"fmt"
	"strings"
	"time"

	"livestock-records/internal/platform/logger"
	"livestock-records/internal/ports/changes"
	"livestock-records/internal/store"
)

type Service[T Record[T]] struct {
	kind Kind
	repo *Repository[T]
	pub  changes.Publisher
	log  logger.Logger
	now  func() time.Time
}

// Deps agrupa las dependencias opcionales; los nil se reemplazan por no-ops.
type Deps struct {
	Publisher changes.Publisher
	Logger    logger.Logger
}

// NewService asegura el índice único de la clave natural y devuelve el servicio.
func NewService[T Record[T]](ctx context.Context, st store.Store, kind Kind, deps Deps) (*Service[T], error) {
	if strings.TrimSpace(kind.Collection) == "" || strings.TrimSpace(kind.KeyField) == "" {
		return nil, fmt.Errorf("records: kind %q needs collection and key field", kind.Name)
	}
	if err := st.EnsureUniqueIndex(ctx, kind.Collection, kind.KeyField); err != nil {
		return nil, fmt.Errorf("records: ensure index %s.%s: %w", kind.Collection, kind.KeyField, err)
	}

	pub := deps.Publisher
	if pub == nil {
		pub = changes.Discard{}
	}
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Service[T]{
		kind: kind,
		repo: NewRepository[T](st, kind.Collection),
		pub:  pub,
		log:  log.With(map[string]any{"collection": kind.Collection}),
		now:  time.Now,
	}, nil
}

func (s *Service[T]) Kind() Kind { return s.kind }

// Create valida antes de tocar el store. Una clave natural repetida devuelve store.ErrDuplicateKey.
func (s *Service[T]) Create(ctx context.Context, rec T) (string, error) {
	if err := rec.Validate(OpCreate); err != nil {
		return "", err
	}
	doc := rec.Normalize(OpCreate).Document()

	id, err := s.repo.Insert(ctx, doc)
	if err != nil {
		return "", err
	}
	s.publish(ctx, changes.OpInsert, id, doc.String(s.kind.KeyField))
	return id, nil
}

func (s *Service[T]) List(ctx context.Context) ([]T, error) {
	return s.repo.List(ctx)
}

// Update aplica $set con los campos del registro. matched=false no es error: el id no existía.
func (s *Service[T]) Update(ctx context.Context, id string, rec T) (bool, error) {
	if err := rec.Validate(OpUpdate); err != nil {
		return false, err
	}
	set := rec.Normalize(OpUpdate).Document()

	matched, err := s.repo.Update(ctx, id, set)
	if err != nil {
		return false, err
	}
	if matched {
		s.publish(ctx, changes.OpUpdate, id, set.String(s.kind.KeyField))
	}
	return matched, nil
}

func (s *Service[T]) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.publish(ctx, changes.OpDelete, id, "")
	}
	return deleted, nil
}

func (s *Service[T]) publish(ctx context.Context, op changes.Op, id, key string) {
	ev := changes.Event{
		Collection: s.kind.Collection,
		Op:         op,
		ID:         id,
		Key:        key,
		At:         s.now().UTC(),
	}
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.log.Warn("publish change failed", map[string]any{"op": string(op), "id": id, "err": err})
	}
}
