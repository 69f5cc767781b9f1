package tui

import (
	"context"

	"livestock-records/internal/client/page"
)

// tab es una página vista como texto: el modelo no conoce el tipo del registro.
type tab interface {
	Title() string
	Headers() []string
	Fixed() []bool
	Rows() [][]string
	IDs() []string
	Banner() (page.Banner, bool)
	Status() page.Status

	Refresh(ctx context.Context) error
	FormValues() []string
	Submit(ctx context.Context, values []string) error
	Edit(id string) ([]string, error)
	SubmitEdit(ctx context.Context, values []string) error
	CancelEdit()
	Delete(ctx context.Context, id string) error
}

type entityTab[T any] struct {
	title string
	cols  []Column[T]
	id    func(T) string
	p     *page.Page[T]
}

func newTab[T any](title string, cols []Column[T], id func(T) string, p *page.Page[T]) *entityTab[T] {
	return &entityTab[T]{title: title, cols: cols, id: id, p: p}
}

func (t *entityTab[T]) Title() string     { return t.title }
func (t *entityTab[T]) Headers() []string { return Headers(t.cols) }

func (t *entityTab[T]) Fixed() []bool {
	out := make([]bool, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Fixed
	}
	return out
}

func (t *entityTab[T]) Rows() [][]string { return Rows(t.cols, t.p.Items()) }

func (t *entityTab[T]) IDs() []string {
	items := t.p.Items()
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = t.id(it)
	}
	return out
}

func (t *entityTab[T]) Banner() (page.Banner, bool) { return t.p.Banner() }
func (t *entityTab[T]) Status() page.Status         { return t.p.Status() }

func (t *entityTab[T]) Refresh(ctx context.Context) error { return t.p.Refresh(ctx) }

func (t *entityTab[T]) FormValues() []string { return Values(t.cols, t.p.Form()) }

func (t *entityTab[T]) Submit(ctx context.Context, values []string) error {
	t.p.SetForm(Apply(t.cols, t.p.Form(), values))
	return t.p.Submit(ctx)
}

func (t *entityTab[T]) Edit(id string) ([]string, error) {
	d, err := t.p.Edit(id)
	if err != nil {
		return nil, err
	}
	return Values(t.cols, d.Value()), nil
}

func (t *entityTab[T]) SubmitEdit(ctx context.Context, values []string) error {
	d := t.p.Draft()
	if d == nil {
		return page.ErrNoDraft
	}
	d.Set(Apply(t.cols, d.Value(), values))
	return t.p.SubmitEdit(ctx)
}

func (t *entityTab[T]) CancelEdit() { t.p.CancelEdit() }

func (t *entityTab[T]) Delete(ctx context.Context, id string) error { return t.p.Delete(ctx, id) }
