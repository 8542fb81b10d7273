package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bsanalyst/tui-go/internal/api"
	"github.com/bsanalyst/tui-go/internal/async"
)

// loginResultMsg carries the outcome of a login attempt
type loginResultMsg struct {
	seq     int
	session api.Session
	err     error
}

// LoginView is the credential form shown before a session exists
type LoginView struct {
	username textinput.Model
	password textinput.Model
	focusIdx int
	op       async.Op[api.Session]

	// bootNote surfaces a failed admin-seed bootstrap; informational only
	bootNote string

	// validation is a local pre-request failure, never sent to the op
	validation string
}

// NewLoginView creates the login form in its initial state
func NewLoginView() LoginView {
	username := textinput.New()
	username.Placeholder = "Enter username"
	username.Prompt = "❯ "
	username.PromptStyle = InputPromptStyle
	username.CharLimit = 64
	username.Width = 32
	username.Focus()

	password := textinput.New()
	password.Placeholder = "Enter password"
	password.Prompt = "❯ "
	password.PromptStyle = InputPromptStyle
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 64
	password.Width = 32

	return LoginView{
		username: username,
		password: password,
	}
}

// loginCmd issues the authentication request
func loginCmd(client *api.Client, seq int, username, password string) tea.Cmd {
	return func() tea.Msg {
		session, err := client.Login(username, password)
		return loginResultMsg{seq: seq, session: session, err: err}
	}
}

// Update drives the form. The submit trigger is ignored while a login is
// already pending.
func (lv LoginView) Update(msg tea.Msg, keys KeyMap, client *api.Client) (LoginView, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.Escape):
			lv.validation = ""
			if lv.op.Failed() {
				lv.op.Reset()
			}
			return lv, nil

		case key.Matches(keyMsg, keys.NextField):
			lv.setFocus((lv.focusIdx + 1) % 2)
			return lv, nil

		case key.Matches(keyMsg, keys.PrevField):
			lv.setFocus((lv.focusIdx + 1) % 2)
			return lv, nil

		case key.Matches(keyMsg, keys.Submit):
			if lv.focusIdx == 0 {
				lv.setFocus(1)
				return lv, nil
			}
			return lv.submit(client)
		}
	}

	var cmd tea.Cmd
	if lv.focusIdx == 0 {
		lv.username, cmd = lv.username.Update(msg)
	} else {
		lv.password, cmd = lv.password.Update(msg)
	}
	return lv, cmd
}

func (lv *LoginView) setFocus(idx int) {
	lv.focusIdx = idx
	if idx == 0 {
		lv.username.Focus()
		lv.password.Blur()
	} else {
		lv.username.Blur()
		lv.password.Focus()
	}
}

func (lv LoginView) submit(client *api.Client) (LoginView, tea.Cmd) {
	if lv.op.Pending() {
		return lv, nil
	}

	username := strings.TrimSpace(lv.username.Value())
	password := lv.password.Value()
	if username == "" || password == "" {
		lv.validation = "Enter both username and password"
		return lv, nil
	}

	lv.validation = ""
	seq := lv.op.Begin()
	return lv, loginCmd(client, seq, username, password)
}

// View renders the login card centered in the window
func (lv LoginView) View(width, height, spinnerIndex int) string {
	var b strings.Builder

	b.WriteString(CardTitleStyle.Render("Balance Sheet Analyst") + "\n")
	b.WriteString(DimStyle.Render("Sign in to access your financial data") + "\n\n")

	b.WriteString(lv.fieldLabel("Username", 0) + "\n")
	b.WriteString(lv.username.View() + "\n\n")
	b.WriteString(lv.fieldLabel("Password", 1) + "\n")
	b.WriteString(lv.password.View() + "\n\n")

	switch {
	case lv.op.Pending():
		b.WriteString(InfoStyle.Render(spinnerFrames[spinnerIndex%len(spinnerFrames)] + " Signing in...") + "\n")
	case lv.validation != "":
		b.WriteString(WarningStyle.Render(lv.validation) + "\n")
	case lv.op.Failed():
		b.WriteString(ErrorStyle.Render(lv.op.Err()) + "\n")
	default:
		b.WriteString(DimStyle.Render("enter to sign in") + "\n")
	}

	b.WriteString("\n" + DimStyle.Render("Default admin: admin / admin"))
	if lv.bootNote != "" {
		b.WriteString("\n" + WarningStyle.Render(lv.bootNote))
	}

	card := CardStyle.Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (lv LoginView) fieldLabel(label string, idx int) string {
	if lv.focusIdx == idx {
		return FieldFocusedLabelStyle.Render(label)
	}
	return FieldLabelStyle.Render(label)
}
