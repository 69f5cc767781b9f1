package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"livestock-records/internal/client/api"
	"livestock-records/internal/client/page"
	"livestock-records/internal/client/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// changedMsg llega cuando una página o la sesión cambió fuera del loop de bubbletea (banner vencido, request terminado).
type changedMsg struct{}

// refreshedMsg es el resultado de recargar una pestaña.
type refreshedMsg struct {
	err error
}

// doneMsg es el resultado de un alta, edición o borrado.
type doneMsg struct {
	mode mode
	err  error
}

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
)

type form struct {
	labels []string
	values []string
	fixed  []bool
	focus  int
}

func newForm(labels, values []string, fixed []bool) *form {
	f := &form{labels: labels, values: values, fixed: fixed}
	f.focus = -1
	f.move(1)
	return f
}

// move avanza el foco saltando los campos fijos.
func (f *form) move(step int) {
	n := len(f.values)
	if n == 0 {
		return
	}
	for i := 0; i < n; i++ {
		f.focus = (f.focus + step + n) % n
		if !f.editable(f.focus) {
			continue
		}
		return
	}
}

func (f *form) editable(i int) bool {
	return i >= 0 && (i >= len(f.fixed) || !f.fixed[i])
}

func (f *form) insert(s string) {
	if f.editable(f.focus) {
		f.values[f.focus] += s
	}
}

func (f *form) backspace() {
	if !f.editable(f.focus) {
		return
	}
	v := []rune(f.values[f.focus])
	if len(v) > 0 {
		f.values[f.focus] = string(v[:len(v)-1])
	}
}

type Options struct {
	Client  *api.Client
	Session *session.Store
	Clock   page.Clock
	Context context.Context
}

// Model es el programa bubbletea: pestañas Breeds, Medicines, Vendors y Tags con la sesión en la cabecera.
type Model struct {
	ctx     context.Context
	client  *api.Client
	session *session.Store

	tabs   []tab
	active int
	cursor int
	mode   mode
	form   *form
	notice string

	width   int
	changes chan struct{}
	unsub   func()
}

func New(opts Options) *Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Session == nil {
		opts.Session = session.NewStore()
	}

	m := &Model{
		ctx:     opts.Context,
		client:  opts.Client,
		session: opts.Session,
		changes: make(chan struct{}, 1),
	}
	po := page.Options{Clock: opts.Clock, OnChange: m.notify}
	m.tabs = []tab{
		newTab("Breeds", BreedColumns, breedID, page.NewBreeds(opts.Client, po)),
		newTab("Medicines", MedicineColumns, medicineID, page.NewMedicines(opts.Client, po)),
		newTab("Vendors", VendorColumns, vendorID, page.NewVendors(opts.Client, po)),
		newTab("Tags", TagColumns, tagID, page.NewTags(opts.Client, po)),
	}
	m.unsub = opts.Session.Subscribe(func(session.State) { m.notify() })
	return m
}

// notify no bloquea: basta con una señal pendiente para que la vista se redibuje.
func (m *Model) notify() {
	select {
	case m.changes <- struct{}{}:
	default:
	}
}

func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return changedMsg{}
	}
}

func (m *Model) refreshCmd(t tab) tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{err: t.Refresh(m.ctx)}
	}
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForChange()}
	for _, t := range m.tabs {
		cmds = append(cmds, m.refreshCmd(t))
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case changedMsg:
		m.clampCursor()
		return m, m.waitForChange()

	case refreshedMsg:
		m.clampCursor()
		return m, nil

	case doneMsg:
		m.finish(msg)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.close()
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd, modeEdit:
			return m, m.handleFormKey(msg)
		case modeConfirmDelete:
			return m, m.handleConfirmKey(msg)
		default:
			return m.handleBrowseKey(msg)
		}
	}
	return m, nil
}

func (m *Model) current() tab { return m.tabs[m.active] }

func (m *Model) clampCursor() {
	n := len(m.current().IDs())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selectedID() (string, bool) {
	ids := m.current().IDs()
	if m.cursor < 0 || m.cursor >= len(ids) {
		return "", false
	}
	return ids[m.cursor], true
}

func (m *Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch msg.String() {
	case "q":
		m.close()
		return m, tea.Quit

	case "tab", "right", "l":
		m.switchTab(m.active + 1)
	case "shift+tab", "left", "h":
		m.switchTab(m.active - 1)
	case "1", "2", "3", "4":
		m.switchTab(int(msg.Runes[0] - '1'))

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.current().IDs())-1 {
			m.cursor++
		}

	case "r":
		return m, m.refreshCmd(m.current())

	case "a":
		t := m.current()
		m.form = newForm(t.Headers(), t.FormValues(), t.Fixed())
		m.mode = modeAdd

	case "e", "enter":
		id, ok := m.selectedID()
		if !ok {
			return m, nil
		}
		values, err := m.current().Edit(id)
		if err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m.form = newForm(m.current().Headers(), values, nil)
		m.mode = modeEdit

	case "d":
		if _, ok := m.selectedID(); ok {
			m.mode = modeConfirmDelete
		}

	case "o":
		if m.session.State().IsAuthenticated {
			page.SignOut(m.client, m.session)
			m.notice = "Signed out."
		}
	}
	return m, nil
}

func (m *Model) switchTab(i int) {
	n := len(m.tabs)
	m.active = (i%n + n) % n
	m.cursor = 0
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		if m.mode == modeEdit {
			m.current().CancelEdit()
		}
		m.mode, m.form, m.notice = modeBrowse, nil, ""
		return nil
	case tea.KeyTab, tea.KeyDown:
		m.form.move(1)
	case tea.KeyShiftTab, tea.KeyUp:
		m.form.move(-1)
	case tea.KeyBackspace:
		m.form.backspace()
	case tea.KeySpace:
		m.form.insert(" ")
	case tea.KeyRunes:
		m.form.insert(string(msg.Runes))
	case tea.KeyEnter:
		return m.submitForm()
	}
	return nil
}

func (m *Model) submitForm() tea.Cmd {
	t, md := m.current(), m.mode
	values := append([]string(nil), m.form.values...)
	m.notice = ""
	return func() tea.Msg {
		var err error
		if md == modeEdit {
			err = t.SubmitEdit(m.ctx, values)
		} else {
			err = t.Submit(m.ctx, values)
		}
		return doneMsg{mode: md, err: err}
	}
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	m.mode = modeBrowse
	if msg.String() != "y" {
		return nil
	}
	id, ok := m.selectedID()
	if !ok {
		return nil
	}
	t := m.current()
	return func() tea.Msg {
		return doneMsg{mode: modeConfirmDelete, err: t.Delete(m.ctx, id)}
	}
}

// finish cierra el formulario salvo que el error sea local (validación u otro request en curso).
func (m *Model) finish(msg doneMsg) {
	var fe page.FieldErrors
	switch {
	case errors.As(msg.err, &fe):
		m.notice = fe.Error()
		return
	case errors.Is(msg.err, page.ErrBusy):
		m.notice = "Another request is in progress."
		return
	case msg.mode == modeAdd && msg.err != nil:
		// el alta fallida conserva lo escrito; el banner muestra el motivo
		return
	}
	if m.mode == msg.mode {
		m.mode, m.form = modeBrowse, nil
	}
	m.clampCursor()
}

func (m *Model) close() {
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
}

func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderHeader(), m.renderTabs())

	t := m.current()
	if b, ok := t.Banner(); ok {
		sections = append(sections, BannerView(b))
	}
	if st := t.Status(); st != page.Idle {
		sections = append(sections, StyleWarning.Render(strings.ToUpper(st.String()[:1])+st.String()[1:]+"..."))
	}

	rows := t.Rows()
	if len(rows) == 0 {
		sections = append(sections, StyleSubtitle.Render(fmt.Sprintf("No %s yet.", strings.ToLower(t.Title()))))
	} else {
		selected := -1
		if m.mode == modeBrowse || m.mode == modeConfirmDelete {
			selected = m.cursor
		}
		sections = append(sections, Table(t.Headers(), rows, selected))
	}

	switch m.mode {
	case modeAdd, modeEdit:
		sections = append(sections, m.renderForm())
	case modeConfirmDelete:
		sections = append(sections, StyleWarning.Render("Delete the selected record? (y/N)"))
	}

	if m.notice != "" {
		sections = append(sections, StyleError.Render(m.notice))
	}

	sections = append(sections, m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader() string {
	title := StyleTitle.Render("Livestock Records")
	st := m.session.State()
	who := "Not signed in"
	if st.IsAuthenticated && st.User != nil {
		who = fmt.Sprintf("Signed in as %s (%s)", st.User.Email, st.User.Role)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", StyleSubtitle.Render(who)) + "\n"
}

func (m *Model) renderTabs() string {
	parts := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.active {
			parts[i] = StyleActiveTab.Render(t.Title())
		} else {
			parts[i] = StyleTab.Render(t.Title())
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderForm() string {
	heading := "Add " + strings.TrimSuffix(m.current().Title(), "s")
	if m.mode == modeEdit {
		heading = "Edit " + strings.TrimSuffix(m.current().Title(), "s")
	}
	lines := []string{StyleTitle.Render(heading)}
	for i, label := range m.form.labels {
		value := m.form.values[i]
		switch {
		case i == m.form.focus:
			value = StyleFocused.Render(value + "▏")
		case !m.form.editable(i):
			value = StyleSubtitle.Render(value)
		}
		lines = append(lines, StyleLabel.Render(label)+value)
	}
	return StyleFormBox.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderHelp() string {
	switch m.mode {
	case modeAdd, modeEdit:
		return HelpBar("tab", "next field", "enter", "save", "esc", "cancel")
	case modeConfirmDelete:
		return HelpBar("y", "delete", "any key", "cancel")
	}
	pairs := []string{"←/→", "tab", "↑/↓", "select", "a", "add", "e", "edit", "d", "delete", "r", "refresh"}
	if m.session.State().IsAuthenticated {
		pairs = append(pairs, "o", "sign out")
	}
	return HelpBar(append(pairs, "q", "quit")...)
}

// Run arranca el programa en pantalla alternativa.
func Run(opts Options) error {
	m := New(opts)
	defer m.close()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx)).Run()
	return err
}
