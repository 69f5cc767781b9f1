package tags

import (
	"livestock-records/internal/domain/records"
	"livestock-records/internal/store"
)

// Status de una caravana. Conviven "available" (el que fuerza el alta) y "Available"/"Used" (los que envía el cliente).
type Status string

const (
	StatusAvailable      Status = "available"
	StatusAvailableTitle Status = "Available"
	StatusUsed           Status = "Used"
)

// DateLayout es el formato de dateOfAcquiring.
const DateLayout = "2006-01-02"

type Tag struct {
	ID              string `json:"_id,omitempty"`
	TagID           string `json:"tagId" validate:"notblank" form:"notblank"`
	TagColor        string `json:"tagColor" validate:"notblank" form:"notblank"`
	DateOfAcquiring string `json:"dateOfAcquiring" validate:"notblank" form:"datetime=2006-01-02"`
	Status          Status `json:"status,omitempty" form:"omitempty,oneof=available Available Used"`
}

// Validate: status no es requerido en ninguna operación.
func (t Tag) Validate(op records.Op) error {
	return records.Check(t)
}

// Normalize: el alta siempre guarda "available", sin importar lo enviado.
func (t Tag) Normalize(op records.Op) Tag {
	if op == records.OpCreate {
		t.Status = StatusAvailable
	}
	return t
}

// Document omite status vacío: un update sin status conserva el guardado.
func (t Tag) Document() store.Document {
	doc := store.Document{
		"tagId":           t.TagID,
		"tagColor":        t.TagColor,
		"dateOfAcquiring": t.DateOfAcquiring,
	}
	if t.Status != "" {
		doc["status"] = string(t.Status)
	}
	return doc
}

func Kind() records.Kind {
	return records.NewKind("Tag", "Tags", "tagId")
}
