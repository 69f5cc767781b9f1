package main

import (
	"fmt"
	"strings"
	"time"

	"livestock-records/internal/client/api"
	"livestock-records/internal/client/page"
	"livestock-records/internal/domain/breeds"
	"livestock-records/internal/domain/medicines"
	"livestock-records/internal/domain/tags"
	"livestock-records/internal/domain/vendors"
	"livestock-records/internal/tui"

	"github.com/markusmobius/go-dateparser"
	"github.com/spf13/cobra"
)

// entity describe los subcomandos list/add/update/delete de una colección.
type entity[T any] struct {
	name     string
	noun     string
	cols     []tui.Column[T]
	id       func(T) string
	resource func(*api.Client) *api.Resource[T]
	validate func(T) error
	defaults func() T
	// parse normaliza el valor de un flag antes de asignarlo.
	parse map[string]func(a *app, v string) (string, error)
}

func breedsCmd(a *app) *cobra.Command {
	return entity[breeds.Breed]{
		name:     "breeds",
		noun:     "breed",
		cols:     tui.BreedColumns,
		id:       func(b breeds.Breed) string { return b.ID },
		resource: (*api.Client).Breeds,
		validate: page.ValidateBreed,
		defaults: func() breeds.Breed { return breeds.Breed{} },
	}.command(a)
}

func medicinesCmd(a *app) *cobra.Command {
	return entity[medicines.Medicine]{
		name:     "medicines",
		noun:     "medicine",
		cols:     tui.MedicineColumns,
		id:       func(m medicines.Medicine) string { return m.ID },
		resource: (*api.Client).Medicines,
		validate: page.ValidateMedicine,
		defaults: func() medicines.Medicine { return medicines.Medicine{Availability: medicines.AvailabilityYes} },
	}.command(a)
}

func vendorsCmd(a *app) *cobra.Command {
	return entity[vendors.Vendor]{
		name:     "vendors",
		noun:     "vendor",
		cols:     tui.VendorColumns,
		id:       func(v vendors.Vendor) string { return v.ID },
		resource: (*api.Client).Vendors,
		validate: page.ValidateVendor,
		defaults: func() vendors.Vendor { return vendors.Vendor{Rating: "0"} },
	}.command(a)
}

func tagsCmd(a *app) *cobra.Command {
	return entity[tags.Tag]{
		name:     "tags",
		noun:     "tag",
		cols:     tui.TagColumns,
		id:       func(t tags.Tag) string { return t.ID },
		resource: (*api.Client).Tags,
		validate: page.ValidateTag,
		defaults: func() tags.Tag { return tags.Tag{Status: tags.StatusAvailableTitle} },
		parse:    map[string]func(*app, string) (string, error){"acquired": parseDate},
	}.command(a)
}

// parseDate acepta YYYY-MM-DD o una fecha en lenguaje natural ("yesterday", "3 days ago", "5 March 2024").
func parseDate(a *app, in string) (string, error) {
	in = strings.TrimSpace(in)
	if _, err := time.Parse(tags.DateLayout, in); err == nil {
		return in, nil
	}
	res, err := dateparser.Parse(&dateparser.Configuration{CurrentTime: a.now()}, in)
	if err != nil {
		return "", fmt.Errorf("--acquired: cannot read %q as a date", in)
	}
	return res.Time.Format(tags.DateLayout), nil
}

func (e entity[T]) command(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   e.name,
		Short: fmt.Sprintf("List, add, update and delete %s", e.name),
	}
	cmd.AddCommand(e.listCmd(a), e.addCmd(a), e.updateCmd(a), e.deleteCmd(a))
	return cmd
}

func (e entity[T]) listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List all %s", e.name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := e.resource(a.client).List(cmd.Context())
			if err != nil {
				return failed(err, fmt.Sprintf("Failed to load %s.", e.name))
			}
			headers := append([]string{"ID"}, tui.Headers(e.cols)...)
			rows := make([][]string, 0, len(items))
			for _, it := range items {
				rows = append(rows, append([]string{e.id(it)}, tui.Values(e.cols, it)...))
			}
			return a.printer().Records(items, headers, rows)
		},
	}
}

// bindFlags registra un flag por columna. withFixed=false omite las columnas fijas en el alta.
func (e entity[T]) bindFlags(cmd *cobra.Command, withFixed bool) []string {
	values := make([]string, len(e.cols))
	for i, c := range e.cols {
		if c.Fixed && !withFixed {
			continue
		}
		cmd.Flags().StringVar(&values[i], c.Flag, "", c.Header)
	}
	return values
}

// apply escribe sobre item sólo los flags que el usuario pasó.
func (e entity[T]) apply(a *app, cmd *cobra.Command, item T, values []string) (T, error) {
	for i, c := range e.cols {
		f := cmd.Flags().Lookup(c.Flag)
		if f == nil || !f.Changed {
			continue
		}
		v := values[i]
		if parse, ok := e.parse[c.Flag]; ok {
			parsed, err := parse(a, v)
			if err != nil {
				return item, err
			}
			v = parsed
		}
		c.Set(&item, v)
	}
	return item, nil
}

func (e entity[T]) addCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Add a %s", e.noun),
		Args:  cobra.NoArgs,
	}
	values := e.bindFlags(cmd, false)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		item, err := e.apply(a, cmd, e.defaults(), values)
		if err != nil {
			return err
		}
		if err := e.validate(item); err != nil {
			return err
		}
		msg, err := e.resource(a.client).Create(cmd.Context(), item)
		if err != nil {
			return failed(err, fmt.Sprintf("An error occurred while trying to create the %s.", e.noun))
		}
		return a.printer().Message(msg)
	}
	return cmd
}

func (e entity[T]) updateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update a %s; fields not given keep their value", e.noun),
		Args:  cobra.ExactArgs(1),
	}
	values := e.bindFlags(cmd, true)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		res := e.resource(a.client)
		items, err := res.List(cmd.Context())
		if err != nil {
			return failed(err, fmt.Sprintf("Failed to load %s.", e.name))
		}
		current, ok := e.find(items, args[0])
		if !ok {
			return fmt.Errorf("no %s with id %s", e.noun, args[0])
		}
		item, err := e.apply(a, cmd, current, values)
		if err != nil {
			return err
		}
		if err := e.validate(item); err != nil {
			return err
		}
		msg, err := res.Update(cmd.Context(), args[0], item)
		if err != nil {
			return failed(err, fmt.Sprintf("An error occurred while trying to update the %s.", e.noun))
		}
		return a.printer().Message(msg)
	}
	return cmd
}

func (e entity[T]) deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", e.noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := e.resource(a.client).Delete(cmd.Context(), args[0])
			if err != nil {
				return failed(err, fmt.Sprintf("An error occurred while trying to delete the %s.", e.noun))
			}
			return a.printer().Message(msg)
		},
	}
}

func (e entity[T]) find(items []T, id string) (T, bool) {
	for _, it := range items {
		if e.id(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}
