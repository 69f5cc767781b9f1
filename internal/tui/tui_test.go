package tui

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"livestock-records/internal/client/api"
	"livestock-records/internal/client/page"
	"livestock-records/internal/client/session"
	"livestock-records/internal/domain/breeds"
	"livestock-records/internal/domain/users"
	"livestock-records/internal/router"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (*Model, *api.Client) {
	t.Helper()

	h, err := router.NewRouter(context.Background(), router.Options{})
	require.NoError(t, err)
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	c, err := api.New(ts.URL+"/api", 5*time.Second)
	require.NoError(t, err)

	m := New(Options{Client: c})
	t.Cleanup(m.close)
	return m, c
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press manda cada tecla y ejecuta en el acto los comandos que devuelva el modelo.
func press(t *testing.T, m *Model, keys ...string) {
	t.Helper()
	for _, k := range keys {
		deliver(m, key(k))
	}
}

func deliver(m *Model, msg tea.Msg) {
	_, cmd := m.Update(msg)
	for cmd != nil {
		next := cmd()
		if _, ok := next.(tea.QuitMsg); ok {
			return
		}
		_, cmd = m.Update(next)
	}
}

func refresh(m *Model) {
	deliver(m, m.refreshCmd(m.current())())
}

// -------------------------
// Pestañas y listado
// -------------------------

func TestModel_SwitchTabs(t *testing.T) {
	m, _ := newTestModel(t)

	assert.Contains(t, m.View(), "No breeds yet.")

	press(t, m, "right")
	assert.Equal(t, 1, m.active)
	assert.Contains(t, m.View(), "No medicines yet.")

	press(t, m, "left", "left")
	assert.Equal(t, 3, m.active)
	assert.Contains(t, m.View(), "No tags yet.")

	press(t, m, "3")
	assert.Equal(t, 2, m.active)

	press(t, m, "1")
	assert.Equal(t, 0, m.active)
}

func TestModel_ListsRecordsFromServer(t *testing.T) {
	m, c := newTestModel(t)
	ctx := context.Background()

	_, err := c.Breeds().Create(ctx, breeds.Breed{BreedID: "B1", BreedName: "Boer"})
	require.NoError(t, err)
	_, err = c.Breeds().Create(ctx, breeds.Breed{BreedID: "B2", BreedName: "Kiko"})
	require.NoError(t, err)

	refresh(m)

	view := m.View()
	assert.Contains(t, view, "Breed ID")
	assert.Contains(t, view, "Boer")
	assert.Contains(t, view, "Kiko")

	press(t, m, "down", "down", "down")
	assert.Equal(t, 1, m.cursor)
	press(t, m, "up")
	assert.Equal(t, 0, m.cursor)
}

// -------------------------
// Alta
// -------------------------

func TestModel_AddBreed(t *testing.T) {
	m, _ := newTestModel(t)

	press(t, m, "a")
	require.Equal(t, modeAdd, m.mode)

	press(t, m, "B1", "tab", "Boer", "enter")

	assert.Equal(t, modeBrowse, m.mode)
	view := m.View()
	assert.Contains(t, view, "Boer")
	assert.Contains(t, view, "Breed added successfully")
}

func TestModel_AddValidationKeepsFormOpen(t *testing.T) {
	m, _ := newTestModel(t)

	press(t, m, "a", "B1", "enter")

	assert.Equal(t, modeAdd, m.mode)
	assert.Contains(t, m.notice, "This field is required.")
	_, shown := m.current().Banner()
	assert.False(t, shown)
}

func TestModel_AddDuplicateShowsServerMessage(t *testing.T) {
	m, c := newTestModel(t)
	_, err := c.Breeds().Create(context.Background(), breeds.Breed{BreedID: "B1", BreedName: "Boer"})
	require.NoError(t, err)

	press(t, m, "a", "B1", "tab", "Other", "enter")

	assert.Equal(t, modeAdd, m.mode, "el alta fallida conserva el formulario")
	b, ok := m.current().Banner()
	require.True(t, ok)
	assert.Equal(t, page.BannerError, b.Kind)
	assert.Equal(t, "Duplicate breedId not allowed", b.Text)

	press(t, m, "esc")
	assert.Equal(t, modeBrowse, m.mode)
}

func TestModel_TagFormSkipsFixedStatus(t *testing.T) {
	m, _ := newTestModel(t)

	press(t, m, "4", "a")
	require.NotNil(t, m.form)
	assert.Equal(t, "Available", m.form.values[3])
	assert.Equal(t, 0, m.form.focus)

	press(t, m, "tab", "tab", "tab")
	assert.Equal(t, 0, m.form.focus)

	press(t, m, "shift+tab")
	assert.Equal(t, 2, m.form.focus)

	press(t, m, "x")
	assert.Equal(t, "Available", m.form.values[3])
	assert.Equal(t, "x", m.form.values[2])
}

// -------------------------
// Edición y borrado
// -------------------------

func TestModel_EditThenDelete(t *testing.T) {
	m, c := newTestModel(t)
	_, err := c.Breeds().Create(context.Background(), breeds.Breed{BreedID: "B1", BreedName: "Boer"})
	require.NoError(t, err)
	refresh(m)

	press(t, m, "e")
	require.Equal(t, modeEdit, m.mode)
	assert.Equal(t, []string{"B1", "Boer"}, m.form.values)

	press(t, m, "tab", "backspace", "backspace", "backspace", "backspace", "Kiko", "enter")

	assert.Equal(t, modeBrowse, m.mode)
	assert.Nil(t, m.current().(*entityTab[breeds.Breed]).p.Draft())
	view := m.View()
	assert.Contains(t, view, "Kiko")
	assert.Contains(t, view, "Breed updated successfully.")

	press(t, m, "d", "n")
	assert.Len(t, m.current().Rows(), 1)

	press(t, m, "d", "y")
	assert.Empty(t, m.current().Rows())
	view = m.View()
	assert.Contains(t, view, "Breed deleted successfully.")
	assert.Contains(t, view, "No breeds yet.")
}

func TestModel_EditCancelDiscardsDraft(t *testing.T) {
	m, c := newTestModel(t)
	_, err := c.Breeds().Create(context.Background(), breeds.Breed{BreedID: "B1", BreedName: "Boer"})
	require.NoError(t, err)
	refresh(m)

	press(t, m, "e", "tab", "zzz", "esc")

	assert.Equal(t, modeBrowse, m.mode)
	assert.Nil(t, m.current().(*entityTab[breeds.Breed]).p.Draft())
	assert.Equal(t, [][]string{{"B1", "Boer"}}, m.current().Rows())
}

func TestModel_EditOnEmptyListDoesNothing(t *testing.T) {
	m, _ := newTestModel(t)
	press(t, m, "e", "d")
	assert.Equal(t, modeBrowse, m.mode)
}

// -------------------------
// Sesión
// -------------------------

func TestModel_SessionHeaderAndSignOut(t *testing.T) {
	m, _ := newTestModel(t)

	assert.Contains(t, m.View(), "Not signed in")
	assert.NotContains(t, m.View(), "sign out")

	m.session.Dispatch(session.Action{
		Type: session.Login,
		User: &users.User{ID: "u1", Email: "ana@farm.io", Role: users.RoleManager},
	})
	view := m.View()
	assert.Contains(t, view, "Signed in as ana@farm.io (Manager)")
	assert.Contains(t, view, "sign out")

	press(t, m, "o")
	assert.False(t, m.session.State().IsAuthenticated)
	assert.Contains(t, m.View(), "Not signed in")
}

func TestModel_ChangeSignalDoesNotBlock(t *testing.T) {
	m, _ := newTestModel(t)
	m.notify()
	m.notify()

	msg := m.waitForChange()()
	assert.Equal(t, changedMsg{}, msg)
}

// -------------------------
// Render
// -------------------------

func TestTable(t *testing.T) {
	out := Table([]string{"Breed ID", "Breed Name"}, [][]string{{"B1", "Boer"}, {"B2", "Kiko"}}, 0)
	assert.Contains(t, out, "Breed ID")
	assert.Contains(t, out, "Boer")
	assert.Contains(t, out, "Kiko")
}

func TestBannerView(t *testing.T) {
	assert.Contains(t, BannerView(page.Banner{Kind: page.BannerSuccess, Text: "ok"}), "✓ ok")
	assert.Contains(t, BannerView(page.Banner{Kind: page.BannerError, Text: "bad"}), "✗ bad")
}

func TestApplyAndValues(t *testing.T) {
	b := Apply(BreedColumns, breeds.Breed{ID: "x"}, []string{"B1", "Boer"})
	assert.Equal(t, breeds.Breed{ID: "x", BreedID: "B1", BreedName: "Boer"}, b)
	assert.Equal(t, []string{"B1", "Boer"}, Values(BreedColumns, b))
	assert.Equal(t, []string{"Breed ID", "Breed Name"}, Headers(BreedColumns))
}
