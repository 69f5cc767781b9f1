package medicines

import (
	"livestock-records/internal/domain/records"
	"livestock-records/internal/store"
)

// Availability Yes/No. El servidor sólo exige presencia; el cliente valida el enum.
// @Enum Yes, No
type Availability string

const (
	AvailabilityYes Availability = "Yes"
	AvailabilityNo  Availability = "No"
)

type Medicine struct {
	ID           string       `json:"_id,omitempty"`
	MedicineID   string       `json:"medicineId" validate:"notblank" form:"notblank"`
	MedicineName string       `json:"medicineName" validate:"notblank" form:"notblank"`
	Availability Availability `json:"availability" validate:"notblank" form:"oneof=Yes No"`
}

func (m Medicine) Validate(op records.Op) error {
	return records.Check(m)
}

func (m Medicine) Normalize(op records.Op) Medicine { return m }

func (m Medicine) Document() store.Document {
	return store.Document{
		"medicineId":   m.MedicineID,
		"medicineName": m.MedicineName,
		"availability": string(m.Availability),
	}
}

func Kind() records.Kind {
	return records.NewKind("Medicine", "Medicines", "medicineId")
}
