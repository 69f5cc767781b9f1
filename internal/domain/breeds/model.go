package breeds

import (
	"encoding/json"
	"fmt"
	"net/http"

	"livestock-records/internal/domain/records"
	"livestock-records/internal/store"
)

// Breed es una raza caprina.
type Breed struct {
	ID        string `json:"_id,omitempty"`
	BreedID   string `json:"breedId" validate:"notblank" form:"notblank"`
	BreedName string `json:"breedName" form:"notblank"`
}

// UnmarshalJSON acepta breedId string o número; siempre se guarda como string.
func (b *Breed) UnmarshalJSON(data []byte) error {
	type plain Breed
	aux := struct {
		*plain
		BreedID json.RawMessage `json:"breedId"`
	}{plain: (*plain)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := records.ScalarText(aux.BreedID)
	if err != nil {
		return fmt.Errorf("breedId: %w", err)
	}
	b.BreedID = id
	return nil
}

// Validate sólo exige breedId: breedName puede venir vacío (chequeo histórico más laxo que el resto).
func (b Breed) Validate(op records.Op) error {
	return records.Check(b)
}

func (b Breed) Normalize(op records.Op) Breed { return b }

func (b Breed) Document() store.Document {
	return store.Document{
		"breedId":   b.BreedID,
		"breedName": b.BreedName,
	}
}

// Kind: breeds responde 409 al duplicado, expone el error de insert y usa su propio cuerpo de error en el listado.
func Kind() records.Kind {
	k := records.NewKind("Breed", "Breeds", "breedId")
	k.Created = "Breed added successfully"
	k.DuplicateStatus = http.StatusConflict
	k.DuplicateMessage = "Duplicate breedId not allowed"
	k.ListFailure = map[string]string{"error": "An error occurred when getting breeds"}
	k.ExposeInsertError = true
	return k
}
