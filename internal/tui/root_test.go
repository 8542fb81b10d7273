package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bsanalyst/tui-go/internal/api"
	"github.com/bsanalyst/tui-go/internal/async"
	"github.com/bsanalyst/tui-go/internal/session"
)

func testModel() Model {
	return NewRootModel(api.NewClient("http://127.0.0.1:1"), NewEventLog(false))
}

// shellModel returns a model that already went through seed and login
func shellModel(role api.Role) Model {
	m := testModel()
	m.phase = PhaseShell
	m.session.Establish(api.Session{Token: "tok", Role: role, UserID: 1})
	m.activeView = session.Fallback(role, session.ViewQuery)
	m.ready = true
	return m
}

func keyTab() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyTab} }

func keyRune(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func asModel(t *testing.T, updated tea.Model) Model {
	t.Helper()
	m, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return m
}

func TestSeedOutcomeUnlocksLogin(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantBootNote bool
	}{
		{"seed succeeded", nil, false},
		{"seed failed", errors.New("connection refused"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel()
			updated, _ := m.Update(seedDoneMsg{err: tt.err})
			m = asModel(t, updated)

			if m.phase != PhaseLogin {
				t.Errorf("phase = %v, want PhaseLogin: bootstrap outcome must never block sign-in", m.phase)
			}
			if (m.login.bootNote != "") != tt.wantBootNote {
				t.Errorf("bootNote = %q, want note present = %v", m.login.bootNote, tt.wantBootNote)
			}
		})
	}
}

func TestLoginSuccessStartsCompanyLoad(t *testing.T) {
	m := testModel()
	m.phase = PhaseLogin
	seq := m.login.op.Begin()

	updated, cmd := m.Update(loginResultMsg{
		seq:     seq,
		session: api.Session{Token: "tok", Role: api.RoleAnalyst, UserID: 2},
	})
	m = asModel(t, updated)

	if m.phase != PhaseShell {
		t.Fatalf("phase = %v, want PhaseShell", m.phase)
	}
	if !m.session.Authenticated() {
		t.Errorf("session not established")
	}
	if !m.companiesOp.Pending() {
		t.Errorf("company load not started after login")
	}
	if cmd == nil {
		t.Errorf("no command returned; the company load never runs")
	}
}

func TestLoginFailureLoadsNothing(t *testing.T) {
	m := testModel()
	m.phase = PhaseLogin
	seq := m.login.op.Begin()

	updated, _ := m.Update(loginResultMsg{seq: seq, err: errors.New("dial tcp: refused")})
	m = asModel(t, updated)

	if m.phase != PhaseLogin {
		t.Errorf("phase = %v, want PhaseLogin", m.phase)
	}
	if m.session.Authenticated() {
		t.Errorf("session established from a failed login")
	}
	if m.companiesOp.Status() != async.StatusIdle {
		t.Errorf("companiesOp = %v, want idle: nothing may load before a token exists", m.companiesOp.Status())
	}
	if !m.login.op.Failed() {
		t.Errorf("login op not marked failed")
	}
}

func TestCompaniesLoadFromOldLoginDiscarded(t *testing.T) {
	m := shellModel(api.RoleAnalyst)
	seq := m.companiesOp.Begin()
	staleEpoch := m.session.Epoch() - 1

	updated, _ := m.Update(companiesLoadedMsg{
		seq:       seq,
		epoch:     staleEpoch,
		companies: []api.Company{{ID: 1, Name: "Old"}},
	})
	m = asModel(t, updated)

	if _, ok := m.cache.Companies(); ok {
		t.Errorf("company list from a previous login landed in the cache")
	}
}

func TestCompaniesLoadFailureDoesNotRetry(t *testing.T) {
	m := shellModel(api.RoleAnalyst)
	seq := m.companiesOp.Begin()

	updated, cmd := m.Update(companiesLoadedMsg{
		seq:   seq,
		epoch: m.session.Epoch(),
		err:   errors.New("dial tcp: refused"),
	})
	m = asModel(t, updated)

	if !m.companiesOp.Failed() {
		t.Fatalf("companiesOp = %v, want failed", m.companiesOp.Status())
	}
	// the dependency pass must leave a failed slot alone
	updated, cmd = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = asModel(t, updated)
	if m.companiesOp.Status() != async.StatusFailed {
		t.Errorf("failed load was restarted without a user refresh")
	}
	_ = cmd
}

func TestTabNeverReachesAdminForAnalyst(t *testing.T) {
	m := shellModel(api.RoleAnalyst)

	for i := 0; i < 6; i++ {
		updated, _ := m.Update(keyTab())
		m = asModel(t, updated)
		if m.activeView == session.ViewAdmin {
			t.Fatalf("analyst reached the admin view after %d tabs", i+1)
		}
	}
	if m.activeView != session.ViewQuery {
		t.Errorf("six tabs over three views ended on %v, want ViewQuery", m.activeView)
	}
}

func TestNumberJumpRespectsGate(t *testing.T) {
	analyst := shellModel(api.RoleAnalyst)
	updated, _ := analyst.Update(keyRune("4"))
	analyst = asModel(t, updated)
	if analyst.activeView == session.ViewAdmin {
		t.Errorf("analyst jumped to the admin view")
	}

	admin := shellModel(api.RoleGroupAdmin)
	updated, _ = admin.Update(keyRune("4"))
	admin = asModel(t, updated)
	if admin.activeView != session.ViewAdmin {
		t.Errorf("group_admin jump to view 4 landed on %v, want ViewAdmin", admin.activeView)
	}
}

func TestAdminViewTriggersUserLoad(t *testing.T) {
	m := shellModel(api.RoleGroupAdmin)
	m.cache.SetCompanies([]api.Company{{ID: 1, Name: "Acme"}})
	seq := m.companiesOp.Begin()
	m.companiesOp.Succeed(seq, nil)

	updated, cmd := m.Update(keyRune("4"))
	m = asModel(t, updated)

	if m.activeView != session.ViewAdmin {
		t.Fatalf("activeView = %v, want ViewAdmin", m.activeView)
	}
	if !m.usersOp.Pending() {
		t.Errorf("user load not started when the admin view opened")
	}
	if cmd == nil {
		t.Errorf("no command returned for the user load")
	}
}

func TestLogoutTearsEverythingDown(t *testing.T) {
	m := shellModel(api.RoleGroupAdmin)
	m.cache.SetCompanies([]api.Company{{ID: 1, Name: "Acme"}})
	m.cache.SetUsers([]api.User{{ID: 1, Username: "admin"}})
	m.activeView = session.ViewAdmin
	m.admin.username.SetValue("leftover")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = asModel(t, updated)

	if m.phase != PhaseLogin {
		t.Errorf("phase = %v, want PhaseLogin", m.phase)
	}
	if m.session.Authenticated() {
		t.Errorf("session survived logout")
	}
	if _, ok := m.cache.Companies(); ok {
		t.Errorf("cached companies survived logout")
	}
	if _, ok := m.cache.Users(); ok {
		t.Errorf("cached users survived logout")
	}
	if m.activeView != session.ViewQuery {
		t.Errorf("activeView = %v after logout, want ViewQuery", m.activeView)
	}
	if m.admin.username.Value() != "" {
		t.Errorf("admin form state survived logout")
	}
}

func TestDeleteSuccessReloadsDocuments(t *testing.T) {
	m := shellModel(api.RoleAnalyst)
	m.activeView = session.ViewDocuments
	m.cache.SetCompanies([]api.Company{{ID: 1, Name: "Acme"}})
	m.companiesOp.Begin()

	m.documents.company.cycle(1, 1) // select Acme
	m.cache.ScopeDocuments(1)
	m.cache.SetDocuments(1, []api.Document{{ID: 10, Filename: "q1.pdf"}})

	seq := m.documents.deleteOp.Begin()
	updated, cmd := m.Update(deleteDoneMsg{seq: seq, documentID: 10})
	m = asModel(t, updated)

	if _, ok := m.cache.Documents(1); ok {
		t.Errorf("document list not invalidated after deletion")
	}
	if !m.documentsOp.Pending() {
		t.Errorf("document reload not started after successful deletion")
	}
	if cmd == nil {
		t.Errorf("no reload command returned")
	}
}

func TestDeleteFailureDoesNotReload(t *testing.T) {
	m := shellModel(api.RoleAnalyst)
	m.activeView = session.ViewDocuments
	m.cache.SetCompanies([]api.Company{{ID: 1, Name: "Acme"}})
	m.documents.company.cycle(1, 1)
	m.cache.ScopeDocuments(1)
	m.cache.SetDocuments(1, []api.Document{{ID: 10, Filename: "q1.pdf"}})

	seq := m.documents.deleteOp.Begin()
	updated, _ := m.Update(deleteDoneMsg{seq: seq, documentID: 10, err: errors.New("refused")})
	m = asModel(t, updated)

	if _, ok := m.cache.Documents(1); !ok {
		t.Errorf("document list invalidated although the deletion failed")
	}
	if !m.documents.deleteOp.Failed() {
		t.Errorf("delete op not marked failed")
	}
}

func TestUploadSuccessInvalidatesDocuments(t *testing.T) {
	m := shellModel(api.RoleAnalyst)
	m.cache.SetCompanies([]api.Company{{ID: 1, Name: "Acme"}})
	m.cache.ScopeDocuments(1)
	m.cache.SetDocuments(1, []api.Document{{ID: 10}})

	seq := m.upload.op.Begin()
	updated, _ := m.Update(uploadDoneMsg{
		seq:     seq,
		outcome: uploadOutcome{result: api.IngestResult{DocumentID: 11, NumChunks: 4}},
	})
	m = asModel(t, updated)

	if _, ok := m.cache.Documents(1); ok {
		t.Errorf("document list still cached although a new document was ingested")
	}
}

func TestCompanyCreatedRefreshesCompanies(t *testing.T) {
	m := shellModel(api.RoleGroupAdmin)
	m.activeView = session.ViewAdmin
	m.cache.SetCompanies([]api.Company{{ID: 1, Name: "Acme"}})
	m.cache.SetUsers(nil)

	seq := m.admin.createCompanyOp.Begin()
	updated, cmd := m.Update(companyCreatedMsg{
		seq:    seq,
		result: api.CompanyResult{ID: 2, Name: "Globex", Message: "created"},
	})
	m = asModel(t, updated)

	if !m.companiesOp.Pending() {
		t.Errorf("company reload not started after creation")
	}
	if cmd == nil {
		t.Errorf("no reload command returned")
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"short stays whole", "hello world", 20, "hello world"},
		{"wraps at word", "alpha beta gamma", 10, "alpha beta\ngamma"},
		{"keeps newlines", "one\ntwo", 10, "one\ntwo"},
		{"hard break without spaces", "abcdefghij", 4, "abcd\nefgh\nij"},
		{"zero width untouched", "hello", 0, "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapText(tt.text, tt.width); got != tt.want {
				t.Errorf("wrapText(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}
