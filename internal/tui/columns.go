package tui

import (
	"livestock-records/internal/domain/breeds"
	"livestock-records/internal/domain/medicines"
	"livestock-records/internal/domain/tags"
	"livestock-records/internal/domain/vendors"
)

// Column describe un campo editable de un registro: cómo se muestra y cómo se escribe.
type Column[T any] struct {
	Header string
	// Flag es el nombre del flag de goatctl para este campo.
	Flag string
	Get  func(T) string
	Set  func(*T, string)
	// Fixed: el campo se muestra en el alta pero no se edita ahí.
	Fixed bool
}

func Headers[T any](cols []Column[T]) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
	}
	return out
}

func Rows[T any](cols []Column[T], items []T) [][]string {
	out := make([][]string, 0, len(items))
	for _, it := range items {
		out = append(out, Values(cols, it))
	}
	return out
}

func Values[T any](cols []Column[T], item T) []string {
	row := make([]string, len(cols))
	for i, c := range cols {
		row[i] = c.Get(item)
	}
	return row
}

// Apply escribe values sobre item, columna por columna.
func Apply[T any](cols []Column[T], item T, values []string) T {
	for i, c := range cols {
		if i < len(values) {
			c.Set(&item, values[i])
		}
	}
	return item
}

var BreedColumns = []Column[breeds.Breed]{
	{Header: "Breed ID", Flag: "breed-id",
		Get: func(b breeds.Breed) string { return b.BreedID },
		Set: func(b *breeds.Breed, v string) { b.BreedID = v }},
	{Header: "Breed Name", Flag: "name",
		Get: func(b breeds.Breed) string { return b.BreedName },
		Set: func(b *breeds.Breed, v string) { b.BreedName = v }},
}

var MedicineColumns = []Column[medicines.Medicine]{
	{Header: "Medicine ID", Flag: "medicine-id",
		Get: func(m medicines.Medicine) string { return m.MedicineID },
		Set: func(m *medicines.Medicine, v string) { m.MedicineID = v }},
	{Header: "Medicine Name", Flag: "name",
		Get: func(m medicines.Medicine) string { return m.MedicineName },
		Set: func(m *medicines.Medicine, v string) { m.MedicineName = v }},
	{Header: "Availability", Flag: "availability",
		Get: func(m medicines.Medicine) string { return string(m.Availability) },
		Set: func(m *medicines.Medicine, v string) { m.Availability = medicines.Availability(v) }},
}

var VendorColumns = []Column[vendors.Vendor]{
	{Header: "Vendor ID", Flag: "vendor-id",
		Get: func(v vendors.Vendor) string { return v.VendorID },
		Set: func(v *vendors.Vendor, s string) { v.VendorID = s }},
	{Header: "Vendor Name", Flag: "name",
		Get: func(v vendors.Vendor) string { return v.VendorName },
		Set: func(v *vendors.Vendor, s string) { v.VendorName = s }},
	{Header: "Address", Flag: "address",
		Get: func(v vendors.Vendor) string { return v.VendorAddress },
		Set: func(v *vendors.Vendor, s string) { v.VendorAddress = s }},
	{Header: "Contact Name", Flag: "contact-name",
		Get: func(v vendors.Vendor) string { return v.ContactName },
		Set: func(v *vendors.Vendor, s string) { v.ContactName = s }},
	{Header: "Contact Number", Flag: "contact-number",
		Get: func(v vendors.Vendor) string { return v.ContactNumber },
		Set: func(v *vendors.Vendor, s string) { v.ContactNumber = s }},
	{Header: "Rating", Flag: "rating",
		Get: func(v vendors.Vendor) string { return string(v.Rating) },
		Set: func(v *vendors.Vendor, s string) { v.Rating = vendors.Rating(s) }},
}

var TagColumns = []Column[tags.Tag]{
	{Header: "Tag ID", Flag: "tag-id",
		Get: func(t tags.Tag) string { return t.TagID },
		Set: func(t *tags.Tag, v string) { t.TagID = v }},
	{Header: "Tag Color", Flag: "color",
		Get: func(t tags.Tag) string { return t.TagColor },
		Set: func(t *tags.Tag, v string) { t.TagColor = v }},
	{Header: "Date of Acquiring", Flag: "acquired",
		Get: func(t tags.Tag) string { return t.DateOfAcquiring },
		Set: func(t *tags.Tag, v string) { t.DateOfAcquiring = v }},
	{Header: "Status", Flag: "status", Fixed: true,
		Get: func(t tags.Tag) string { return string(t.Status) },
		Set: func(t *tags.Tag, v string) { t.Status = tags.Status(v) }},
}

func breedID(b breeds.Breed) string          { return b.ID }
func medicineID(m medicines.Medicine) string { return m.ID }
func vendorID(v vendors.Vendor) string       { return v.ID }
func tagID(t tags.Tag) string                { return t.ID }
