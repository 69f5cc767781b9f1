package vendors

import (
	"encoding/json"
	"testing"

	"livestock-records/internal/domain/records"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRating_UnmarshalStringOrNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Rating
	}{
		{"string", `{"rating":"4"}`, "4"},
		{"integer", `{"rating":5}`, "5"},
		{"decimal", `{"rating":3.5}`, "3.5"},
		{"null", `{"rating":null}`, ""},
		{"missing", `{}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Vendor
			require.NoError(t, json.Unmarshal([]byte(tt.in), &v))
			assert.Equal(t, tt.want, v.Rating)
		})
	}

	var v Vendor
	require.Error(t, json.Unmarshal([]byte(`{"rating":true}`), &v))
}

func TestVendor_ValidateAndDocument(t *testing.T) {
	v := Vendor{
		VendorID:      "V1",
		VendorName:    "Feed Co",
		VendorAddress: "12 Barn Rd",
		ContactName:   "Ana",
		ContactNumber: "555-0101",
		Rating:        "4",
	}
	require.NoError(t, v.Validate(records.OpCreate))

	doc := v.Document()
	assert.Equal(t, "4", doc["rating"])
	assert.NotContains(t, doc, "_id")

	v.ContactName = ""
	assert.ErrorIs(t, v.Validate(records.OpUpdate), records.ErrMissingFields)
}
