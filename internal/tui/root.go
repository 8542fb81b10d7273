package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bsanalyst/tui-go/internal/api"
	"github.com/bsanalyst/tui-go/internal/async"
	"github.com/bsanalyst/tui-go/internal/resources"
	"github.com/bsanalyst/tui-go/internal/session"
)

// Phase is the top-level application state
type Phase int

const (
	// PhaseBooting waits for the admin-seed bootstrap call
	PhaseBooting Phase = iota
	// PhaseLogin shows the credential form; no session exists yet
	PhaseLogin
	// PhaseShell is the authenticated workspace
	PhaseShell
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type spinnerTickMsg struct{}

func spinnerTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

// seedDoneMsg carries the outcome of the startup admin bootstrap
type seedDoneMsg struct {
	result api.SeedResult
	err    error
}

// companiesLoadedMsg carries a company-list load. epoch ties the result to
// the login generation it was issued for.
type companiesLoadedMsg struct {
	seq       int
	epoch     int
	companies []api.Company
	err       error
}

// usersLoadedMsg carries a user-list load
type usersLoadedMsg struct {
	seq   int
	epoch int
	users []api.User
	err   error
}

// documentsLoadedMsg carries a document-list load for one company
type documentsLoadedMsg struct {
	seq       int
	companyID int
	documents []api.Document
	err       error
}

// Model is the root of the program. It owns the session, the resource
// cache, and the list-load operations; the workflow panels own their form
// state and mutation operations. All cross-workflow effects (invalidating
// a list after a mutation, tearing down on logout) happen here.
type Model struct {
	width  int
	height int
	ready  bool

	phase      Phase
	activeView session.View
	queryPane  int // 0 = upload pane, 1 = ask pane
	showHelp   bool

	client  *api.Client
	session *session.Store
	cache   *resources.Cache
	keys    KeyMap
	events  *EventLog

	login     LoginView
	upload    UploadPanel
	ask       AskPanel
	visuals   VisualsPanel
	documents DocumentsPanel
	admin     AdminPanel

	companiesOp async.Op[[]api.Company]
	usersOp     async.Op[[]api.User]
	documentsOp async.Op[[]api.Document]

	spinnerIndex int
}

// NewRootModel creates the program in the booting phase
func NewRootModel(client *api.Client, events *EventLog) Model {
	return Model{
		phase:      PhaseBooting,
		activeView: session.ViewQuery,
		client:     client,
		session:    &session.Store{},
		cache:      &resources.Cache{},
		keys:       DefaultKeyMap(),
		events:     events,
		login:      NewLoginView(),
		upload:     NewUploadPanel(),
		ask:        NewAskPanel(),
		visuals:    NewVisualsPanel(),
		documents:  NewDocumentsPanel(),
		admin:      NewAdminPanel(),
	}
}

// Init kicks off the admin bootstrap before anything else is allowed
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, spinnerTickCmd(), m.seedAdminCmd())
}

func (m Model) seedAdminCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		result, err := client.SeedAdmin()
		return seedDoneMsg{result: result, err: err}
	}
}

func (m *Model) loadCompaniesCmd() tea.Cmd {
	token, epoch := m.session.Token(), m.session.Epoch()
	if token == "" {
		return nil
	}
	seq := m.companiesOp.Begin()
	client := m.client
	return func() tea.Msg {
		companies, err := client.Companies(token)
		return companiesLoadedMsg{seq: seq, epoch: epoch, companies: companies, err: err}
	}
}

func (m *Model) loadUsersCmd() tea.Cmd {
	token, epoch := m.session.Token(), m.session.Epoch()
	if token == "" {
		return nil
	}
	seq := m.usersOp.Begin()
	client := m.client
	return func() tea.Msg {
		users, err := client.Users(token)
		return usersLoadedMsg{seq: seq, epoch: epoch, users: users, err: err}
	}
}

func (m *Model) loadDocumentsCmd(companyID int) tea.Cmd {
	token := m.session.Token()
	if token == "" || companyID == 0 {
		return nil
	}
	seq := m.documentsOp.Begin()
	client := m.client
	return func() tea.Msg {
		documents, err := client.Documents(token, companyID)
		return documentsLoadedMsg{seq: seq, companyID: companyID, documents: documents, err: err}
	}
}

// syncCmds is the dependency pass that runs after every state transition:
// whatever list the current screen needs but the cache lacks gets loaded,
// provided its operation slot is idle. Failed slots stay failed until the
// user refreshes, so a broken backend never causes a request loop.
func (m *Model) syncCmds() []tea.Cmd {
	if m.phase != PhaseShell || !m.session.Authenticated() {
		return nil
	}
	var cmds []tea.Cmd

	if _, ok := m.cache.Companies(); !ok && m.companiesOp.Status() == async.StatusIdle {
		cmds = append(cmds, m.loadCompaniesCmd())
	}

	if m.activeView == session.ViewAdmin {
		if _, ok := m.cache.Users(); !ok && m.usersOp.Status() == async.StatusIdle {
			cmds = append(cmds, m.loadUsersCmd())
		}
	}

	companies, _ := m.cache.Companies()
	scope := m.documents.CompanyID(companies)
	if scope != m.cache.DocumentScope() {
		m.cache.ScopeDocuments(scope)
		m.documentsOp.Reset()
	}
	if m.activeView == session.ViewDocuments && scope != 0 {
		if _, ok := m.cache.Documents(scope); !ok && m.documentsOp.Status() == async.StatusIdle {
			cmds = append(cmds, m.loadDocumentsCmd(scope))
		}
	}

	return cmds
}

// Update is the single message loop
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case spinnerTickMsg:
		m.spinnerIndex = (m.spinnerIndex + 1) % len(spinnerFrames)
		return m, spinnerTickCmd()

	case seedDoneMsg:
		if m.phase == PhaseBooting {
			m.phase = PhaseLogin
		}
		if msg.err != nil {
			m.login.bootNote = "Initial setup could not be completed; sign-in may still work."
			m.events.Record("seed", "failed: "+api.Message(msg.err))
		} else {
			m.events.Record("seed", "ok")
		}

	case loginResultMsg:
		if msg.err != nil {
			if m.login.op.Fail(msg.seq, api.Message(msg.err)) {
				m.events.Record("login", "failed")
			}
			break
		}
		if !m.login.op.Succeed(msg.seq, msg.session) {
			break
		}
		m.session.Establish(msg.session)
		m.activeView = session.Fallback(m.session.Role(), session.ViewQuery)
		m.phase = PhaseShell
		m.events.Record("login", "ok as "+string(msg.session.Role))

	case companiesLoadedMsg:
		if msg.epoch != m.session.Epoch() {
			break
		}
		if msg.err != nil {
			if m.companiesOp.Fail(msg.seq, api.Message(msg.err)) {
				m.events.Record("companies", "failed")
			}
			break
		}
		if m.companiesOp.Succeed(msg.seq, msg.companies) {
			m.cache.SetCompanies(msg.companies)
			m.events.Record("companies", fmt.Sprintf("loaded %d", len(msg.companies)))
		}

	case usersLoadedMsg:
		if msg.epoch != m.session.Epoch() {
			break
		}
		if msg.err != nil {
			if m.usersOp.Fail(msg.seq, api.Message(msg.err)) {
				m.events.Record("users", "failed")
			}
			break
		}
		if m.usersOp.Succeed(msg.seq, msg.users) {
			m.cache.SetUsers(msg.users)
			m.events.Record("users", fmt.Sprintf("loaded %d", len(msg.users)))
		}

	case documentsLoadedMsg:
		if msg.err != nil {
			if m.documentsOp.Fail(msg.seq, api.Message(msg.err)) {
				m.events.Record("documents", "failed")
			}
			break
		}
		if m.documentsOp.Succeed(msg.seq, msg.documents) {
			m.cache.SetDocuments(msg.companyID, msg.documents)
			m.events.Record("documents", fmt.Sprintf("loaded %d for %s", len(msg.documents), m.cache.CompanyName(msg.companyID)))
		}

	case uploadDoneMsg:
		m.upload = m.upload.finish(msg)
		if msg.err == nil {
			// a fresh document exists server-side; the cached list is stale
			m.cache.InvalidateDocuments()
			m.documentsOp.Reset()
			m.events.Record("upload", "ok")
		} else {
			m.events.Record("upload", "failed")
		}

	case askDoneMsg:
		m.ask = m.ask.finish(msg)
		if msg.err == nil {
			m.events.Record("ask", "ok")
		} else {
			m.events.Record("ask", "failed")
		}

	case deleteDoneMsg:
		var reload bool
		m.documents, reload = m.documents.finish(msg)
		if reload {
			m.cache.InvalidateDocuments()
			m.documentsOp.Reset()
			m.events.Record("delete", "ok")
		} else if msg.err != nil {
			m.events.Record("delete", "failed")
		}

	case userCreatedMsg:
		var refresh bool
		m.admin, refresh = m.admin.finishUserCreated(msg)
		if refresh {
			m.cache.InvalidateUsers()
			m.usersOp.Reset()
			m.events.Record("create user", "ok")
		} else if msg.err != nil {
			m.events.Record("create user", "failed")
		}

	case companyCreatedMsg:
		var refresh bool
		m.admin, refresh = m.admin.finishCompanyCreated(msg)
		if refresh {
			m.cache.InvalidateCompanies()
			m.companiesOp.Reset()
			m.events.Record("create company", "ok")
		} else if msg.err != nil {
			m.events.Record("create company", "failed")
		}

	case grantDoneMsg:
		m.admin = m.admin.finishGrant(msg)
		if msg.err == nil {
			m.events.Record("grant", "ok")
		} else {
			m.events.Record("grant", "failed")
		}

	case chartBuiltMsg:
		m.visuals = m.visuals.finish(msg)

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		cmds = append(cmds, cmd)

	default:
		// cursor blink and other component-internal messages
		var cmd tea.Cmd
		m, cmd = m.routeToActive(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.syncCmds()...)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.phase {
	case PhaseBooting:
		return m, nil
	case PhaseLogin:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg, m.keys, m.client)
		return m, cmd
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if key.Matches(msg, m.keys.Logout) {
		return m.logout(), nil
	}

	// Pane focus on the query screen, only while neither form is engaged
	if m.activeView == session.ViewQuery && m.upload.browsing && m.ask.browsing {
		switch {
		case key.Matches(msg, m.keys.Left):
			m.queryPane = 0
			return m, nil
		case key.Matches(msg, m.keys.Right):
			m.queryPane = 1
			return m, nil
		}
	}

	if !m.activeEngaged() && !m.activeTyping() {
		switch {
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.NextView):
			m.cycleView(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevView):
			m.cycleView(-1)
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.refreshActive()
			return m, nil
		}
		if idx := numberKey(msg); idx >= 0 {
			m.jumpView(idx)
			return m, nil
		}
	}

	return m.routeKeyToActive(msg)
}

func (m Model) routeKeyToActive(msg tea.KeyMsg) (Model, tea.Cmd) {
	token := m.session.Token()
	companies, _ := m.cache.Companies()
	var cmd tea.Cmd

	switch m.activeView {
	case session.ViewQuery:
		if m.queryPane == 0 {
			m.upload, cmd = m.upload.Update(msg, m.keys, m.client, token, companies)
		} else {
			m.ask, cmd = m.ask.Update(msg, m.keys, m.client, token, companies)
		}
	case session.ViewVisualizations:
		m.visuals, cmd = m.visuals.Update(msg, m.keys, companies)
	case session.ViewDocuments:
		docs, _ := m.cache.Documents(m.documents.CompanyID(companies))
		m.documents, cmd = m.documents.Update(msg, m.keys, m.client, token, companies, docs)
	case session.ViewAdmin:
		users, _ := m.cache.Users()
		m.admin, cmd = m.admin.Update(msg, m.keys, m.client, token, users, companies)
	}
	return m, cmd
}

// routeToActive forwards non-key messages so text inputs keep blinking
func (m Model) routeToActive(msg tea.Msg) (Model, tea.Cmd) {
	if m.phase == PhaseLogin {
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg, m.keys, m.client)
		return m, cmd
	}
	if m.phase != PhaseShell {
		return m, nil
	}

	token := m.session.Token()
	companies, _ := m.cache.Companies()
	var cmd tea.Cmd
	switch m.activeView {
	case session.ViewQuery:
		var upCmd, qCmd tea.Cmd
		m.upload, upCmd = m.upload.Update(msg, m.keys, m.client, token, companies)
		m.ask, qCmd = m.ask.Update(msg, m.keys, m.client, token, companies)
		cmd = tea.Batch(upCmd, qCmd)
	case session.ViewVisualizations:
		m.visuals, cmd = m.visuals.Update(msg, m.keys, companies)
	case session.ViewAdmin:
		users, _ := m.cache.Users()
		m.admin, cmd = m.admin.Update(msg, m.keys, m.client, token, users, companies)
	}
	return m, cmd
}

func (m Model) activeTyping() bool {
	switch m.activeView {
	case session.ViewQuery:
		return m.upload.typing() || m.ask.typing()
	case session.ViewVisualizations:
		return m.visuals.typing()
	case session.ViewDocuments:
		return m.documents.typing()
	case session.ViewAdmin:
		return m.admin.typing()
	}
	return false
}

// activeEngaged reports whether the current screen has claimed the
// keyboard: a form being edited, or a confirmation awaiting its answer
func (m Model) activeEngaged() bool {
	switch m.activeView {
	case session.ViewQuery:
		return !m.upload.browsing || !m.ask.browsing
	case session.ViewVisualizations:
		return !m.visuals.browsing
	case session.ViewDocuments:
		return m.documents.confirming
	case session.ViewAdmin:
		return !m.admin.browsing
	}
	return false
}

func (m *Model) cycleView(delta int) {
	views := session.Reachable(m.session.Role())
	current := 0
	for i, v := range views {
		if v == m.activeView {
			current = i
			break
		}
	}
	m.activeView = views[(current+delta+len(views))%len(views)]
}

func (m *Model) jumpView(idx int) {
	views := session.Reachable(m.session.Role())
	if idx >= len(views) {
		return
	}
	if session.CanAccess(m.session.Role(), views[idx]) {
		m.activeView = views[idx]
	}
}

// refreshActive drops the lists behind the current screen; the dependency
// pass fetches them again
func (m *Model) refreshActive() {
	switch m.activeView {
	case session.ViewQuery, session.ViewVisualizations:
		m.cache.InvalidateCompanies()
		m.companiesOp.Reset()
	case session.ViewDocuments:
		m.cache.InvalidateDocuments()
		m.documentsOp.Reset()
	case session.ViewAdmin:
		m.cache.InvalidateCompanies()
		m.companiesOp.Reset()
		m.cache.InvalidateUsers()
		m.usersOp.Reset()
	}
	m.events.Record("refresh", m.activeView.String())
}

// logout tears everything down synchronously: session, cache, operation
// slots, and every workflow's form state. Resetting the slots also
// invalidates any resolution still in flight, so nothing from the previous
// session can land in the next one.
func (m Model) logout() Model {
	m.session.Clear()
	m.cache.Clear()
	m.companiesOp.Reset()
	m.usersOp.Reset()
	m.documentsOp.Reset()

	m.login = NewLoginView()
	m.upload = NewUploadPanel()
	m.ask = NewAskPanel()
	m.visuals = NewVisualsPanel()
	m.documents = NewDocumentsPanel()
	m.admin = NewAdminPanel()

	m.activeView = session.ViewQuery
	m.queryPane = 0
	m.showHelp = false
	m.phase = PhaseLogin
	m.events.Record("logout", "ok")
	return m
}

// View renders the current phase
func (m Model) View() string {
	if !m.ready {
		return ""
	}
	switch m.phase {
	case PhaseBooting:
		return m.bootView()
	case PhaseLogin:
		return m.login.View(m.width, m.height, m.spinnerIndex)
	}
	return m.shellView()
}

func (m Model) bootView() string {
	card := CardStyle.Render(
		CardTitleStyle.Render("Initializing system…") + "\n\n" +
			InfoStyle.Render(spinnerFrames[m.spinnerIndex%len(spinnerFrames)]+" Setting up admin user, please wait."))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

func (m Model) shellView() string {
	var body string
	if m.showHelp {
		body = m.helpView()
	} else {
		body = m.bodyView()
	}

	if m.events.Enabled() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", m.events.Render(36, lipgloss.Height(body)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.tabsView(),
		body,
		m.statusView(),
	)
}

func (m Model) headerView() string {
	title := HeaderStyle.Render("Balance Sheet Analyst")
	badge := RoleBadgeStyle.Render(string(m.session.Role()))
	backend := DimStyle.Render(m.client.BaseURL())
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", badge, "  ", backend)
}

func (m Model) tabsView() string {
	views := session.Reachable(m.session.Role())
	tabs := make([]string, 0, len(views))
	for i, v := range views {
		label := fmt.Sprintf("%d %s", i+1, v.String())
		if v == m.activeView {
			tabs = append(tabs, TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, tabs...)
}

func (m Model) bodyView() string {
	companies, _ := m.cache.Companies()

	switch m.activeView {
	case session.ViewQuery:
		return m.queryView(companies)

	case session.ViewVisualizations:
		return m.visuals.View(companies, m.spinnerIndex)

	case session.ViewDocuments:
		scope := m.documents.CompanyID(companies)
		docs, loaded := m.cache.Documents(scope)
		card := m.documents.View(companies, docs, loaded, m.documentsOp.Pending(), m.spinnerIndex)
		if m.documentsOp.Failed() {
			card = lipgloss.JoinVertical(lipgloss.Left, card,
				ErrorStyle.Render(m.documentsOp.Err())+DimStyle.Render("  r to retry"))
		}
		return card

	case session.ViewAdmin:
		users, _ := m.cache.Users()
		card := m.admin.View(users, companies, m.spinnerIndex)
		if m.usersOp.Failed() {
			card = lipgloss.JoinVertical(lipgloss.Left, card,
				ErrorStyle.Render(m.usersOp.Err())+DimStyle.Render("  r to retry"))
		}
		return card
	}
	return ""
}

func (m Model) queryView(companies []api.Company) string {
	paneWidth := m.width/2 - 6
	if paneWidth < 30 {
		paneWidth = 30
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		paneLabel("Upload PDF", m.queryPane == 0),
		m.upload.View(companies, m.spinnerIndex))
	right := lipgloss.JoinVertical(lipgloss.Left,
		paneLabel("Ask a question", m.queryPane == 1),
		m.ask.View(companies, paneWidth, m.spinnerIndex))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func paneLabel(name string, active bool) string {
	if active {
		return TabActiveStyle.Render("▸ " + name)
	}
	return TabStyle.Render("  " + name)
}

func (m Model) statusView() string {
	if m.companiesOp.Failed() {
		return StatusBarStyle.Render(
			ErrorStyle.Render(m.companiesOp.Err()) + DimStyle.Render("  r to retry"))
	}

	hints := "tab views • ←/→ panes • enter edit • r refresh • ctrl+l logout • f1 help • ctrl+c quit"
	if m.activeTyping() {
		hints = "esc stop editing • enter submit • ctrl+c quit"
	} else if m.activeEngaged() {
		hints = "tab fields • enter submit • esc back • ctrl+c quit"
	}
	return StatusBarStyle.Render(DimStyle.Render(hints))
}

func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(HelpTitleStyle.Render("Keyboard reference") + "\n\n")

	rows := []struct{ keys, action string }{
		{"tab / shift+tab", "next / previous view (or field while editing)"},
		{"1-4", "jump to view"},
		{"←/→", "switch pane, cycle selector"},
		{"↑/↓", "move selection"},
		{"enter", "edit form / submit"},
		{"esc", "leave field, dismiss message"},
		{"ctrl+s", "ask the question"},
		{"ctrl+t", "show or hide retrieved context"},
		{"d", "delete selected document (asks y/n)"},
		{"r", "reload the current view's data"},
		{"ctrl+l", "log out"},
		{"f1 / ?", "this help"},
		{"ctrl+c", "quit"},
	}
	for _, row := range rows {
		b.WriteString(HelpKeyStyle.Render(fmt.Sprintf("%-16s", row.keys)) + HelpStyle.Render(row.action) + "\n")
	}
	b.WriteString("\n" + DimStyle.Render("press any key to close"))
	return CardStyle.Render(b.String())
}

func numberKey(msg tea.KeyMsg) int {
	s := msg.String()
	if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		return int(s[0] - '1')
	}
	return -1
}

// wrapText word-wraps text to width, preserving existing newlines
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		for len(line) > width {
			cut := strings.LastIndex(line[:width], " ")
			if cut <= 0 {
				cut = width
			}
			out = append(out, line[:cut])
			line = strings.TrimLeft(line[cut:], " ")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
