// Package records implementa el contrato create/list/update/delete común a breeds, medicines, vendors y tags.
package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"livestock-records/internal/platform/validation"
	"livestock-records/internal/store"
)

var (
	ErrMissingFields = errors.New("missing required fields")
)

// Op distingue create de update en validación y normalización.
type Op int

const (
	OpCreate Op = iota
	OpUpdate
)

// Record es lo que cada entidad implementa para montarse sobre Service y los handlers.
type Record[T any] interface {
	// Validate devuelve ErrMissingFields si falta algún campo requerido para op.
	Validate(op Op) error
	// Normalize aplica los valores forzados por el servidor (p.ej. status de tags).
	Normalize(op Op) T
	// Document arma el documento a insertar, o el $set de un update. Nunca incluye _id.
	Document() store.Document
}

// Kind describe una colección de registros y los mensajes que devuelven sus rutas.
type Kind struct {
	Name       string // "Medicine"
	Collection string // "Medicines"
	KeyField   string // "medicineId"

	Created string
	Updated string
	Deleted string

	DuplicateStatus  int
	DuplicateMessage string

	// ListFailure es el cuerpo de un GET fallido.
	ListFailure any
	// ExposeInsertError devuelve el texto del error en un insert fallido (en vez del mensaje genérico).
	ExposeInsertError bool
}

const (
	MsgAllFieldsRequired = "All fields are required."
	MsgInternal          = "Internal server error."
	MsgInvalidJSON       = "invalid json"
)

// NewKind arma un Kind con la convención de mensajes de medicines/vendors/tags.
func NewKind(name, collection, keyField string) Kind {
	return Kind{
		Name:             name,
		Collection:       collection,
		KeyField:         keyField,
		Created:          name + " added successfully.",
		Updated:          name + " updated successfully.",
		Deleted:          name + " deleted successfully.",
		DuplicateStatus:  http.StatusBadRequest,
		DuplicateMessage: name + " ID already exists.",
		ListFailure:      MessageResponse{Message: MsgInternal},
	}
}

// MessageResponse es el cuerpo de toda respuesta de mutación.
type MessageResponse struct {
	Message string `json:"message"`
}

// Check aplica los tags `validate` de rec; cualquier campo rechazado es ErrMissingFields.
func Check(rec any) error {
	err := validation.Request.Struct(rec)
	if err == nil {
		return nil
	}
	if validation.Failures(err) != nil {
		return ErrMissingFields
	}
	return err
}

// ScalarText lee un valor JSON string o número como texto; null queda vacío.
func ScalarText(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return "", fmt.Errorf("expected string or number: %w", err)
	}
	return n.String(), nil
}

// Decode convierte un documento almacenado en T usando sus tags json.
func Decode[T any](doc store.Document) (T, error) {
	var out T
	b, err := json.Marshal(doc)
	if err != nil {
		return out, fmt.Errorf("decode document: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}
