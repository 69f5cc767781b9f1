package page

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"livestock-records/internal/client/api"
	"livestock-records/internal/domain/breeds"
	"livestock-records/internal/domain/tags"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Fakes
// -------------------------

type fakeTimer struct {
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{fn: f}
	c.timers = append(c.timers, t)
	return t
}

// fire dispara el timer i aunque haya sido detenido (simula un callback que ya estaba en vuelo).
func (c *fakeClock) fire(i int) {
	c.mu.Lock()
	t := c.timers[i]
	c.mu.Unlock()
	t.fired = true
	t.fn()
}

type fakeBreeds struct {
	mu        sync.Mutex
	items     []breeds.Breed
	calls     int
	createErr error
	updateErr error
	next      int
}

func (f *fakeBreeds) List(ctx context.Context) ([]breeds.Breed, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	out := make([]breeds.Breed, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeBreeds) Create(ctx context.Context, b breeds.Breed) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.createErr != nil {
		return "", f.createErr
	}
	f.next++
	b.ID = fmt.Sprintf("id-%d", f.next)
	f.items = append(f.items, b)
	return "Breed added successfully", nil
}

func (f *fakeBreeds) Update(ctx context.Context, id string, b breeds.Breed) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.updateErr != nil {
		return "", f.updateErr
	}
	for i := range f.items {
		if f.items[i].ID == id {
			b.ID = id
			f.items[i] = b
		}
	}
	return "Breed updated successfully.", nil
}

func (f *fakeBreeds) Delete(ctx context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	kept := f.items[:0]
	for _, it := range f.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	f.items = kept
	return "Breed deleted successfully.", nil
}

func newBreedPage(res *fakeBreeds, clock *fakeClock) *Page[breeds.Breed] {
	return New[breeds.Breed](res, Config[breeds.Breed]{
		Noun:     "breed",
		ID:       func(b breeds.Breed) string { return b.ID },
		Validate: ValidateBreed,
		Clock:    clock,
	})
}

// -------------------------
// Tests
// -------------------------

func TestSubmit_InvalidFormSendsNothing(t *testing.T) {
	res := &fakeBreeds{}
	p := newBreedPage(res, &fakeClock{})

	p.SetForm(breeds.Breed{BreedID: "B1"})
	err := p.Submit(context.Background())

	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "breedName")
	assert.Zero(t, res.calls)
	_, shown := p.Banner()
	assert.False(t, shown)
}

func TestSubmit_SuccessResetsFormAndRefreshes(t *testing.T) {
	res := &fakeBreeds{}
	p := newBreedPage(res, &fakeClock{})

	p.SetForm(breeds.Breed{BreedID: "B1", BreedName: "Boer"})
	require.NoError(t, p.Submit(context.Background()))

	assert.Equal(t, breeds.Breed{}, p.Form())
	require.Len(t, p.Items(), 1)
	assert.Equal(t, "Boer", p.Items()[0].BreedName)
	assert.Equal(t, Idle, p.Status())
	assert.False(t, p.Loading())

	b, ok := p.Banner()
	require.True(t, ok)
	assert.Equal(t, Banner{Kind: BannerSuccess, Text: "Breed added successfully"}, b)
}

func TestSubmit_ErrorBanners(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &api.RequestError{StatusCode: 409, Message: "Duplicate breedId not allowed"}, "Duplicate breedId not allowed"},
		{"no response", fmt.Errorf("%w: dial tcp", api.ErrServerUnavailable), api.MsgServerUnavailable},
		{"other", errors.New("boom"), "An error occurred while trying to create the breed."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newBreedPage(&fakeBreeds{createErr: tt.err}, &fakeClock{})
			p.SetForm(breeds.Breed{BreedID: "B1", BreedName: "Boer"})

			require.Error(t, p.Submit(context.Background()))
			b, ok := p.Banner()
			require.True(t, ok)
			assert.Equal(t, BannerError, b.Kind)
			assert.Equal(t, tt.want, b.Text)
			assert.Equal(t, "Boer", p.Form().BreedName, "el formulario se conserva tras un error")
		})
	}
}

func TestBanner_ClearsAfterTTLAndNewerReplaces(t *testing.T) {
	clock := &fakeClock{}
	res := &fakeBreeds{}
	p := newBreedPage(res, clock)
	ctx := context.Background()

	p.SetForm(breeds.Breed{BreedID: "B1", BreedName: "Boer"})
	require.NoError(t, p.Submit(ctx))
	require.Len(t, clock.timers, 1)

	require.NoError(t, p.Delete(ctx, "id-1"))
	require.Len(t, clock.timers, 2)
	assert.True(t, clock.timers[0].stopped, "el banner nuevo reinicia el timer")

	// el timer viejo ya no borra el banner nuevo
	clock.fire(0)
	b, ok := p.Banner()
	require.True(t, ok)
	assert.Equal(t, "Breed deleted successfully.", b.Text)

	clock.fire(1)
	_, ok = p.Banner()
	assert.False(t, ok)
}

func TestEdit_DraftIsScopedToDialog(t *testing.T) {
	res := &fakeBreeds{}
	p := newBreedPage(res, &fakeClock{})
	ctx := context.Background()

	p.SetForm(breeds.Breed{BreedID: "B1", BreedName: "Boer"})
	require.NoError(t, p.Submit(ctx))
	id := p.Items()[0].ID

	d, err := p.Edit(id)
	require.NoError(t, err)
	d.Update(func(b *breeds.Breed) { b.BreedName = "Changed" })
	assert.Equal(t, "Boer", p.Items()[0].BreedName, "el listado no cambia mientras se edita")

	p.CancelEdit()
	assert.Nil(t, p.Draft())
	assert.Equal(t, "Boer", p.Items()[0].BreedName)

	d, err = p.Edit(id)
	require.NoError(t, err)
	d.Set(breeds.Breed{ID: id, BreedID: "B1", BreedName: "Boer Red"})
	require.NoError(t, p.SubmitEdit(ctx))
	assert.Nil(t, p.Draft())
	assert.Equal(t, "Boer Red", p.Items()[0].BreedName)

	_, err = p.Edit("missing")
	assert.ErrorIs(t, err, ErrUnknownItem)
	assert.ErrorIs(t, p.SubmitEdit(ctx), ErrNoDraft)
}

func TestSubmitEdit_ClosesDialogOnServerError(t *testing.T) {
	res := &fakeBreeds{items: []breeds.Breed{{ID: "x", BreedID: "B1", BreedName: "Boer"}}, updateErr: errors.New("boom")}
	p := newBreedPage(res, &fakeClock{})
	require.NoError(t, p.Refresh(context.Background()))

	_, err := p.Edit("x")
	require.NoError(t, err)
	require.Error(t, p.SubmitEdit(context.Background()))
	assert.Nil(t, p.Draft())

	b, _ := p.Banner()
	assert.Equal(t, "An error occurred while trying to update the breed.", b.Text)
}

func TestSubmitEdit_InvalidDraftStaysOpen(t *testing.T) {
	res := &fakeBreeds{items: []breeds.Breed{{ID: "x", BreedID: "B1", BreedName: "Boer"}}}
	p := newBreedPage(res, &fakeClock{})
	require.NoError(t, p.Refresh(context.Background()))

	d, err := p.Edit("x")
	require.NoError(t, err)
	d.Update(func(b *breeds.Breed) { b.BreedID = "" })

	require.Error(t, p.SubmitEdit(context.Background()))
	assert.NotNil(t, p.Draft())
}

// blockingBreeds bloquea Create hasta que se cierre release.
type blockingBreeds struct {
	fakeBreeds
	started chan struct{}
	release chan struct{}
}

func (b *blockingBreeds) Create(ctx context.Context, br breeds.Breed) (string, error) {
	close(b.started)
	<-b.release
	return b.fakeBreeds.Create(ctx, br)
}

func TestSubmit_BusyWhileInFlight(t *testing.T) {
	res := &blockingBreeds{started: make(chan struct{}), release: make(chan struct{})}
	p := New[breeds.Breed](res, Config[breeds.Breed]{Noun: "breed", ID: func(b breeds.Breed) string { return b.ID }, Clock: &fakeClock{}})
	p.SetForm(breeds.Breed{BreedID: "B1", BreedName: "Boer"})

	done := make(chan error, 1)
	go func() { done <- p.Submit(context.Background()) }()
	<-res.started

	assert.True(t, p.Loading())
	assert.Equal(t, Submitting, p.Status())
	assert.ErrorIs(t, p.Submit(context.Background()), ErrBusy)

	close(res.release)
	require.NoError(t, <-done)
	assert.False(t, p.Loading())
}

func TestValidators(t *testing.T) {
	assert.Error(t, ValidateTag(tags.Tag{TagID: "T1", TagColor: "red", DateOfAcquiring: "01/02/2024"}))
	assert.NoError(t, ValidateTag(tags.Tag{TagID: "T1", TagColor: "red", DateOfAcquiring: "2024-02-01", Status: tags.StatusUsed}))
	assert.Error(t, ValidateTag(tags.Tag{TagID: "T1", TagColor: "red", DateOfAcquiring: "2024-02-01", Status: "Lost"}))
}
