// Package page es el controlador de una página de registros: formulario de alta, listado, edición en diálogo
// y borrado por fila, con un banner transitorio para el resultado de cada acción.
package page

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"livestock-records/internal/client/api"
)

type Status int

const (
	Idle Status = iota
	Submitting
	Updating
	Deleting
)

func (s Status) String() string {
	switch s {
	case Submitting:
		return "submitting"
	case Updating:
		return "updating"
	case Deleting:
		return "deleting"
	default:
		return "idle"
	}
}

var (
	ErrBusy        = errors.New("page: another request is in progress")
	ErrNoDraft     = errors.New("page: no record being edited")
	ErrUnknownItem = errors.New("page: record not in list")
)

// Resource es lo que la página necesita del cliente (api.Resource lo cumple).
type Resource[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, item T) (string, error)
	Update(ctx context.Context, id string, item T) (string, error)
	Delete(ctx context.Context, id string) (string, error)
}

type Config[T any] struct {
	// Noun se usa en los mensajes de respaldo ("breed", "medicine").
	Noun string
	// ID devuelve el identificador de almacenamiento del registro.
	ID func(T) string
	// Validate corre antes de cualquier request. nil => sin validación local.
	Validate func(T) error
	// Reset es el valor del formulario después de un alta exitosa (default: cero).
	Reset func() T

	Clock Clock
	// OnChange se llama tras cada cambio de estado visible (lista, banner, status).
	OnChange func()
}

type Page[T any] struct {
	res Resource[T]
	cfg Config[T]

	mu     sync.Mutex
	items  []T
	form   T
	status Status
	draft  *Draft[T]

	banner *banners
}

func New[T any](res Resource[T], cfg Config[T]) *Page[T] {
	if cfg.Reset == nil {
		cfg.Reset = func() T { var zero T; return zero }
	}
	if cfg.OnChange == nil {
		cfg.OnChange = func() {}
	}
	return &Page[T]{
		res:    res,
		cfg:    cfg,
		form:   cfg.Reset(),
		banner: newBanners(cfg.Clock, cfg.OnChange),
	}
}

func (p *Page[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

func (p *Page[T]) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Loading es true mientras hay un request de mutación en curso (el botón de envío queda deshabilitado).
func (p *Page[T]) Loading() bool { return p.Status() != Idle }

func (p *Page[T]) Banner() (Banner, bool) { return p.banner.get() }

func (p *Page[T]) Form() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form
}

func (p *Page[T]) SetForm(v T) {
	p.mu.Lock()
	p.form = v
	p.mu.Unlock()
	p.cfg.OnChange()
}

// Refresh vuelve a pedir el listado completo.
func (p *Page[T]) Refresh(ctx context.Context) error {
	items, err := p.res.List(ctx)
	if err != nil {
		p.banner.show(BannerError, api.MessageFor(err, fmt.Sprintf("Failed to load %ss.", p.cfg.Noun)))
		return err
	}
	p.mu.Lock()
	p.items = items
	p.mu.Unlock()
	p.cfg.OnChange()
	return nil
}

// Submit valida el formulario y lo da de alta. Un error de validación no envía nada ni muestra banner.
func (p *Page[T]) Submit(ctx context.Context) error {
	form := p.Form()
	if err := p.validate(form); err != nil {
		return err
	}
	if err := p.begin(Submitting); err != nil {
		return err
	}
	defer p.end()

	msg, err := p.res.Create(ctx, form)
	if err != nil {
		p.banner.show(BannerError, api.MessageFor(err, fmt.Sprintf("An error occurred while trying to create the %s.", p.cfg.Noun)))
		return err
	}

	p.mu.Lock()
	p.form = p.cfg.Reset()
	p.mu.Unlock()
	p.banner.show(BannerSuccess, msg)
	_ = p.Refresh(ctx)
	return nil
}

func (p *Page[T]) Delete(ctx context.Context, id string) error {
	if err := p.begin(Deleting); err != nil {
		return err
	}
	defer p.end()

	msg, err := p.res.Delete(ctx, id)
	if err != nil {
		p.banner.show(BannerError, api.MessageFor(err, fmt.Sprintf("An error occurred while trying to delete the %s.", p.cfg.Noun)))
		return err
	}
	p.banner.show(BannerSuccess, msg)
	_ = p.Refresh(ctx)
	return nil
}

// Edit abre el diálogo con una copia del registro id.
func (p *Page[T]) Edit(id string) (*Draft[T], error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, it := range p.items {
		if p.cfg.ID(it) == id {
			p.draft = &Draft[T]{id: id, value: it}
			return p.draft, nil
		}
	}
	return nil, ErrUnknownItem
}

// Draft devuelve el borrador abierto, o nil si el diálogo está cerrado.
func (p *Page[T]) Draft() *Draft[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft
}

// CancelEdit descarta el borrador.
func (p *Page[T]) CancelEdit() {
	p.mu.Lock()
	p.draft = nil
	p.mu.Unlock()
	p.cfg.OnChange()
}

// SubmitEdit envía el borrador. Una vez enviado el diálogo se cierra, salga bien o mal.
// Un error de validación lo deja abierto.
func (p *Page[T]) SubmitEdit(ctx context.Context) error {
	d := p.Draft()
	if d == nil {
		return ErrNoDraft
	}
	if err := p.validate(d.Value()); err != nil {
		return err
	}
	if err := p.begin(Updating); err != nil {
		return err
	}
	defer p.end()

	msg, err := p.res.Update(ctx, d.ID(), d.Value())

	p.mu.Lock()
	p.draft = nil
	p.mu.Unlock()

	if err != nil {
		p.banner.show(BannerError, api.MessageFor(err, fmt.Sprintf("An error occurred while trying to update the %s.", p.cfg.Noun)))
		return err
	}
	p.banner.show(BannerSuccess, msg)
	_ = p.Refresh(ctx)
	return nil
}

func (p *Page[T]) validate(v T) error {
	if p.cfg.Validate == nil {
		return nil
	}
	return p.cfg.Validate(v)
}

func (p *Page[T]) begin(s Status) error {
	p.mu.Lock()
	if p.status != Idle {
		p.mu.Unlock()
		return ErrBusy
	}
	p.status = s
	p.mu.Unlock()
	p.cfg.OnChange()
	return nil
}

func (p *Page[T]) end() {
	p.mu.Lock()
	p.status = Idle
	p.mu.Unlock()
	p.cfg.OnChange()
}
