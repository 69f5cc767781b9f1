package vendors

import (
	"fmt"

	"livestock-records/internal/domain/records"
	"livestock-records/internal/store"
)

// Rating es un string numérico (0-5). Acepta string o número en JSON y siempre se guarda como string.
type Rating string

func (r *Rating) UnmarshalJSON(b []byte) error {
	s, err := records.ScalarText(b)
	if err != nil {
		return fmt.Errorf("rating: %w", err)
	}
	*r = Rating(s)
	return nil
}

type Vendor struct {
	ID            string `json:"_id,omitempty"`
	VendorID      string `json:"vendorId" validate:"notblank" form:"notblank"`
	VendorName    string `json:"vendorName" validate:"notblank" form:"notblank"`
	VendorAddress string `json:"vendorAddress" validate:"notblank" form:"notblank"`
	ContactName   string `json:"contactName" validate:"notblank" form:"notblank"`
	ContactNumber string `json:"contactNumber" validate:"notblank" form:"notblank"`
	Rating        Rating `json:"rating" validate:"notblank" form:"oneof=0 1 2 3 4 5"`
}

func (v Vendor) Validate(op records.Op) error {
	return records.Check(v)
}

func (v Vendor) Normalize(op records.Op) Vendor { return v }

func (v Vendor) Document() store.Document {
	return store.Document{
		"vendorId":      v.VendorID,
		"vendorName":    v.VendorName,
		"vendorAddress": v.VendorAddress,
		"contactName":   v.ContactName,
		"contactNumber": v.ContactNumber,
		"rating":        string(v.Rating),
	}
}

func Kind() records.Kind {
	return records.NewKind("Vendor", "Vendors", "vendorId")
}
