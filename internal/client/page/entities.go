package page

import (
	"livestock-records/internal/client/api"
	"livestock-records/internal/domain/breeds"
	"livestock-records/internal/domain/medicines"
	"livestock-records/internal/domain/tags"
	"livestock-records/internal/domain/vendors"
)

// Options comunes a las cuatro páginas.
type Options struct {
	Clock    Clock
	OnChange func()
}

func NewBreeds(c *api.Client, opts Options) *Page[breeds.Breed] {
	return New[breeds.Breed](c.Breeds(), Config[breeds.Breed]{
		Noun:     "breed",
		ID:       func(b breeds.Breed) string { return b.ID },
		Validate: ValidateBreed,
		Clock:    opts.Clock,
		OnChange: opts.OnChange,
	})
}

func NewMedicines(c *api.Client, opts Options) *Page[medicines.Medicine] {
	return New[medicines.Medicine](c.Medicines(), Config[medicines.Medicine]{
		Noun:     "medicine",
		ID:       func(m medicines.Medicine) string { return m.ID },
		Validate: ValidateMedicine,
		Reset:    func() medicines.Medicine { return medicines.Medicine{Availability: medicines.AvailabilityYes} },
		Clock:    opts.Clock,
		OnChange: opts.OnChange,
	})
}

func NewVendors(c *api.Client, opts Options) *Page[vendors.Vendor] {
	return New[vendors.Vendor](c.Vendors(), Config[vendors.Vendor]{
		Noun:     "vendor",
		ID:       func(v vendors.Vendor) string { return v.ID },
		Validate: ValidateVendor,
		Reset:    func() vendors.Vendor { return vendors.Vendor{Rating: "0"} },
		Clock:    opts.Clock,
		OnChange: opts.OnChange,
	})
}

// NewTags: el formulario de alta muestra "Available" fijo; el servidor guarda "available".
func NewTags(c *api.Client, opts Options) *Page[tags.Tag] {
	return New[tags.Tag](c.Tags(), Config[tags.Tag]{
		Noun:     "tag",
		ID:       func(t tags.Tag) string { return t.ID },
		Validate: ValidateTag,
		Reset:    func() tags.Tag { return tags.Tag{Status: tags.StatusAvailableTitle} },
		Clock:    opts.Clock,
		OnChange: opts.OnChange,
	})
}
