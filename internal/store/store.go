package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// IDField es la clave reservada donde cada backend expone el identificador de almacenamiento.
const IDField = "_id"

var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrNotFound     = errors.New("not found")
)

// Document es un registro débilmente tipado, como una fila de una colección documental.
type Document map[string]any

// ID devuelve el identificador de almacenamiento, o "" si el documento no lo trae.
func (d Document) ID() string {
	if d == nil {
		return ""
	}
	v, ok := d[IDField]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// String lee un campo como string. Campos ausentes o nil => "".
func (d Document) String(field string) string {
	if d == nil {
		return ""
	}
	v, ok := d[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Clone hace una copia superficial (los valores son escalares en todas las colecciones).
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// WithoutID devuelve una copia sin el campo _id (para inserts y $set).
func (d Document) WithoutID() Document {
	out := d.Clone()
	delete(out, IDField)
	return out
}

// Collection es la superficie mínima que usan las rutas: una operación por llamada.
type Collection interface {
	// InsertOne inserta y devuelve el identificador asignado por el backend.
	InsertOne(ctx context.Context, doc Document) (string, error)
	// Find devuelve todos los documentos en el orden natural del backend.
	Find(ctx context.Context) ([]Document, error)
	FindOne(ctx context.Context, field string, value any) (Document, error)
	// UpdateByID aplica semántica $set. matched=false si el id no existe o no es válido.
	UpdateByID(ctx context.Context, id string, set Document) (matched bool, err error)
	DeleteByID(ctx context.Context, id string) (deleted bool, err error)
}

// Store es el handle de base de datos del proceso. Se abre una vez y se inyecta.
type Store interface {
	Collection(name string) Collection
	// EnsureUniqueIndex es idempotente. Un índice por colección.
	EnsureUniqueIndex(ctx context.Context, collection, field string) error
	// NextSequence incrementa atómicamente el contador name y devuelve el nuevo valor.
	NextSequence(ctx context.Context, name string) (int64, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// KeyValue normaliza el valor de un campo indexado a string.
// Devuelve "" si el campo no está (los documentos sin clave no participan del índice).
func KeyValue(doc Document, field string) string {
	if strings.TrimSpace(field) == "" {
		return ""
	}
	return doc.String(field)
}

// Merge aplica set sobre base y devuelve un documento nuevo.
func Merge(base, set Document) Document {
	out := base.Clone()
	if out == nil {
		out = Document{}
	}
	for k, v := range set {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	return out
}

// UniqueIndexes guarda el campo único registrado por colección.
// Lo comparten los backends que no tienen índices nativos.
type UniqueIndexes struct {
	mu     sync.RWMutex
	fields map[string]string
}

func NewUniqueIndexes() *UniqueIndexes {
	return &UniqueIndexes{fields: map[string]string{}}
}

// Register valida que no se registren dos campos distintos para la misma colección.
func (u *UniqueIndexes) Register(collection, field string) error {
	collection = strings.TrimSpace(collection)
	field = strings.TrimSpace(field)
	if collection == "" || field == "" {
		return errors.New("unique index: collection and field required")
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if current, ok := u.fields[collection]; ok && current != field {
		return fmt.Errorf("unique index: %s already indexed on %s", collection, current)
	}
	u.fields[collection] = field
	return nil
}

// Field devuelve el campo único de collection, o "".
func (u *UniqueIndexes) Field(collection string) string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.fields[collection]
}
