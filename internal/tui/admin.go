package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bsanalyst/tui-go/internal/api"
	"github.com/bsanalyst/tui-go/internal/async"
)

// userCreatedMsg carries the outcome of a create-user request
type userCreatedMsg struct {
	seq  int
	user api.User
	err  error
}

// companyCreatedMsg carries the outcome of a create-company request
type companyCreatedMsg struct {
	seq    int
	result api.CompanyResult
	err    error
}

// grantDoneMsg carries the outcome of a grant-access request
type grantDoneMsg struct {
	seq    int
	result api.GrantResult
	err    error
}

// Admin form fields, in tab order
const (
	adminFieldUsername = iota
	adminFieldPassword
	adminFieldRole
	adminFieldCompanyName
	adminFieldGrantUser
	adminFieldGrantCompany
	adminFieldCount
)

type messageKind int

const (
	messageNone messageKind = iota
	messageSuccess
	messageInfo
	messageError
)

// AdminPanel hosts the three admin workflows: create user, create company,
// grant access. Each drives its own operation and clears only its own
// fields on success. Reachable only for group_admin.
type AdminPanel struct {
	username    textinput.Model
	password    textinput.Model
	roleIdx     int
	companyName textinput.Model
	grantUser   selector
	grantComp   selector

	focusIdx int
	browsing bool

	createUserOp    async.Op[api.User]
	createCompanyOp async.Op[api.CompanyResult]
	grantOp         async.Op[api.GrantResult]

	message string
	kind    messageKind
}

// NewAdminPanel creates the admin forms in their initial state
func NewAdminPanel() AdminPanel {
	username := textinput.New()
	username.Placeholder = "Enter username"
	username.Prompt = "❯ "
	username.PromptStyle = InputPromptStyle
	username.CharLimit = 64
	username.Width = 28

	password := textinput.New()
	password.Placeholder = "Enter password"
	password.Prompt = "❯ "
	password.PromptStyle = InputPromptStyle
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 64
	password.Width = 28

	companyName := textinput.New()
	companyName.Placeholder = "Enter company name"
	companyName.Prompt = "❯ "
	companyName.PromptStyle = InputPromptStyle
	companyName.CharLimit = 128
	companyName.Width = 28

	return AdminPanel{
		username:    username,
		password:    password,
		companyName: companyName,
		grantUser:   newSelector(),
		grantComp:   newSelector(),
		browsing:    true,
	}
}

func (adm AdminPanel) textField(idx int) bool {
	return idx == adminFieldUsername || idx == adminFieldPassword || idx == adminFieldCompanyName
}

// typing reports whether a text input currently captures keystrokes
func (adm AdminPanel) typing() bool {
	return !adm.browsing && adm.textField(adm.focusIdx)
}

func createUserCmd(client *api.Client, seq int, token, username, password string, role api.Role) tea.Cmd {
	return func() tea.Msg {
		user, err := client.CreateUser(token, username, password, role)
		return userCreatedMsg{seq: seq, user: user, err: err}
	}
}

func createCompanyCmd(client *api.Client, seq int, token, name string) tea.Cmd {
	return func() tea.Msg {
		result, err := client.CreateCompany(token, name)
		return companyCreatedMsg{seq: seq, result: result, err: err}
	}
}

func grantAccessCmd(client *api.Client, seq int, token string, userID, companyID int) tea.Cmd {
	return func() tea.Msg {
		result, err := client.GrantAccess(token, userID, companyID)
		return grantDoneMsg{seq: seq, result: result, err: err}
	}
}

// Update drives the forms
func (adm AdminPanel) Update(msg tea.Msg, keys KeyMap, client *api.Client, token string, users []api.User, companies []api.Company) (AdminPanel, tea.Cmd) {
	adm.grantUser.clamp(len(users))
	adm.grantComp.clamp(len(companies))

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.Escape):
			if adm.typing() {
				adm.browsing = true
				adm.applyFocus()
			} else {
				adm.message = ""
				adm.kind = messageNone
			}
			return adm, nil

		case key.Matches(keyMsg, keys.NextField):
			adm.moveFocus(1)
			return adm, nil

		case key.Matches(keyMsg, keys.PrevField):
			adm.moveFocus(-1)
			return adm, nil

		case key.Matches(keyMsg, keys.Left) && !adm.typing():
			adm.cycleSelector(-1, users, companies)
			return adm, nil

		case key.Matches(keyMsg, keys.Right) && !adm.typing():
			adm.cycleSelector(1, users, companies)
			return adm, nil

		case key.Matches(keyMsg, keys.Submit):
			if adm.browsing {
				adm.browsing = false
				adm.applyFocus()
				return adm, nil
			}
			return adm.submit(client, token, users, companies)
		}
	}

	if adm.typing() {
		var cmd tea.Cmd
		switch adm.focusIdx {
		case adminFieldUsername:
			adm.username, cmd = adm.username.Update(msg)
		case adminFieldPassword:
			adm.password, cmd = adm.password.Update(msg)
		case adminFieldCompanyName:
			adm.companyName, cmd = adm.companyName.Update(msg)
		}
		return adm, cmd
	}
	return adm, nil
}

func (adm *AdminPanel) moveFocus(delta int) {
	adm.browsing = false
	adm.focusIdx = (adm.focusIdx + delta + adminFieldCount) % adminFieldCount
	adm.applyFocus()
}

func (adm *AdminPanel) applyFocus() {
	adm.username.Blur()
	adm.password.Blur()
	adm.companyName.Blur()
	if adm.browsing {
		return
	}
	switch adm.focusIdx {
	case adminFieldUsername:
		adm.username.Focus()
	case adminFieldPassword:
		adm.password.Focus()
	case adminFieldCompanyName:
		adm.companyName.Focus()
	}
}

func (adm *AdminPanel) cycleSelector(delta int, users []api.User, companies []api.Company) {
	switch adm.focusIdx {
	case adminFieldRole:
		n := len(api.Roles())
		adm.roleIdx = (adm.roleIdx + delta + n) % n
	case adminFieldGrantUser:
		adm.grantUser.cycle(delta, len(users))
	case adminFieldGrantCompany:
		adm.grantComp.cycle(delta, len(companies))
	}
}

// submit dispatches to the form the focused field belongs to
func (adm AdminPanel) submit(client *api.Client, token string, users []api.User, companies []api.Company) (AdminPanel, tea.Cmd) {
	switch adm.focusIdx {
	case adminFieldUsername, adminFieldPassword, adminFieldRole:
		return adm.submitCreateUser(client, token)
	case adminFieldCompanyName:
		return adm.submitCreateCompany(client, token)
	default:
		return adm.submitGrant(client, token, users, companies)
	}
}

func (adm AdminPanel) submitCreateUser(client *api.Client, token string) (AdminPanel, tea.Cmd) {
	if adm.createUserOp.Pending() {
		return adm, nil
	}
	username := strings.TrimSpace(adm.username.Value())
	password := adm.password.Value()
	if username == "" || password == "" {
		adm.setMessage("Enter a username and password", messageError)
		return adm, nil
	}
	seq := adm.createUserOp.Begin()
	return adm, createUserCmd(client, seq, token, username, password, api.Roles()[adm.roleIdx])
}

func (adm AdminPanel) submitCreateCompany(client *api.Client, token string) (AdminPanel, tea.Cmd) {
	if adm.createCompanyOp.Pending() {
		return adm, nil
	}
	name := strings.TrimSpace(adm.companyName.Value())
	if name == "" {
		adm.setMessage("Enter a company name", messageError)
		return adm, nil
	}
	seq := adm.createCompanyOp.Begin()
	return adm, createCompanyCmd(client, seq, token, name)
}

func (adm AdminPanel) submitGrant(client *api.Client, token string, users []api.User, companies []api.Company) (AdminPanel, tea.Cmd) {
	if adm.grantOp.Pending() {
		return adm, nil
	}
	user, okUser := adm.grantUser.userAt(users)
	company, okComp := adm.grantComp.companyAt(companies)
	if !okUser || !okComp {
		adm.setMessage("Select a user and a company", messageError)
		return adm, nil
	}
	seq := adm.grantOp.Begin()
	return adm, grantAccessCmd(client, seq, token, user.ID, company.ID)
}

func (adm *AdminPanel) setMessage(text string, kind messageKind) {
	adm.message = text
	adm.kind = kind
}

// finishUserCreated applies a create-user resolution; refresh reports
// whether the user list must be reloaded
func (adm AdminPanel) finishUserCreated(msg userCreatedMsg) (AdminPanel, bool) {
	if msg.err != nil {
		adm.createUserOp.Fail(msg.seq, api.Message(msg.err))
		adm.setMessage(adm.createUserOp.Err(), messageError)
		return adm, false
	}
	if !adm.createUserOp.Succeed(msg.seq, msg.user) {
		return adm, false
	}
	adm.setMessage(fmt.Sprintf("User created: %s (%s)", msg.user.Username, msg.user.Role), messageSuccess)
	adm.username.SetValue("")
	adm.password.SetValue("")
	adm.roleIdx = 0
	return adm, true
}

// finishCompanyCreated applies a create-company resolution; an existing
// company of the same name is an informational outcome, not a failure.
// refresh reports whether the company list must be reloaded.
func (adm AdminPanel) finishCompanyCreated(msg companyCreatedMsg) (AdminPanel, bool) {
	if msg.err != nil {
		adm.createCompanyOp.Fail(msg.seq, api.Message(msg.err))
		adm.setMessage(adm.createCompanyOp.Err(), messageError)
		return adm, false
	}
	if !adm.createCompanyOp.Succeed(msg.seq, msg.result) {
		return adm, false
	}
	if msg.result.AlreadyExisted() {
		adm.setMessage("Company already exists: "+msg.result.Name, messageInfo)
	} else {
		adm.setMessage("Company created: "+msg.result.Name, messageSuccess)
	}
	adm.companyName.SetValue("")
	return adm, true
}

// finishGrant applies a grant resolution; an already-granted outcome is
// informational, not a failure
func (adm AdminPanel) finishGrant(msg grantDoneMsg) AdminPanel {
	if msg.err != nil {
		adm.grantOp.Fail(msg.seq, api.Message(msg.err))
		adm.setMessage(adm.grantOp.Err(), messageError)
		return adm
	}
	if !adm.grantOp.Succeed(msg.seq, msg.result) {
		return adm
	}
	if msg.result.AlreadyGranted() {
		adm.setMessage("User already has access", messageInfo)
	} else {
		adm.setMessage("Access granted successfully", messageSuccess)
	}
	adm.grantUser.reset()
	adm.grantComp.reset()
	return adm
}

// View renders the three forms plus the user and company lists
func (adm AdminPanel) View(users []api.User, companies []api.Company, spinnerIndex int) string {
	var b strings.Builder

	b.WriteString(CardTitleStyle.Render("Admin Panel") + "\n\n")

	if adm.message != "" {
		switch adm.kind {
		case messageSuccess:
			b.WriteString(SuccessStyle.Render(adm.message) + "\n\n")
		case messageInfo:
			b.WriteString(InfoStyle.Render(adm.message) + "\n\n")
		default:
			b.WriteString(ErrorStyle.Render(adm.message) + "\n\n")
		}
	}

	pending := adm.createUserOp.Pending() || adm.createCompanyOp.Pending() || adm.grantOp.Pending()
	if pending {
		b.WriteString(InfoStyle.Render(spinnerFrames[spinnerIndex%len(spinnerFrames)] + " Working...") + "\n\n")
	}

	// Create user
	b.WriteString(DimStyle.Render("── Create User ──") + "\n")
	b.WriteString(adm.fieldLabel("Username", adminFieldUsername) + "  " + adm.username.View() + "\n")
	b.WriteString(adm.fieldLabel("Password", adminFieldPassword) + "  " + adm.password.View() + "\n")
	b.WriteString(adm.fieldLabel("Role    ", adminFieldRole) + "  " +
		renderSelector(string(api.Roles()[adm.roleIdx]), !adm.browsing && adm.focusIdx == adminFieldRole) + "\n\n")

	// Create company
	b.WriteString(DimStyle.Render("── Create Company ──") + "\n")
	b.WriteString(adm.fieldLabel("Name    ", adminFieldCompanyName) + "  " + adm.companyName.View() + "\n\n")

	// Grant access
	b.WriteString(DimStyle.Render("── Grant Access ──") + "\n")
	grantUserName := ""
	if user, ok := adm.grantUser.userAt(users); ok {
		grantUserName = fmt.Sprintf("%s (%s)", user.Username, user.Role)
	}
	grantCompName := ""
	if company, ok := adm.grantComp.companyAt(companies); ok {
		grantCompName = company.Name
	}
	b.WriteString(adm.fieldLabel("User    ", adminFieldGrantUser) + "  " +
		renderSelector(grantUserName, !adm.browsing && adm.focusIdx == adminFieldGrantUser) + "\n")
	b.WriteString(adm.fieldLabel("Company ", adminFieldGrantCompany) + "  " +
		renderSelector(grantCompName, !adm.browsing && adm.focusIdx == adminFieldGrantCompany) + "\n")

	forms := CardStyle.Render(b.String())
	lists := lipgloss.JoinVertical(lipgloss.Left,
		adm.renderUserList(users),
		adm.renderCompanyList(companies),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, forms, " ", lists)
}

func (adm AdminPanel) renderUserList(users []api.User) string {
	var b strings.Builder
	b.WriteString(CardTitleStyle.Render("All Users") + "\n")
	if len(users) == 0 {
		b.WriteString(DimStyle.Render("none") + "\n")
	}
	for _, user := range users {
		b.WriteString(ListItemStyle.Render(user.Username) + " " + ListMetaStyle.Render(string(user.Role)) + "\n")
	}
	return CardStyle.Render(b.String())
}

func (adm AdminPanel) renderCompanyList(companies []api.Company) string {
	var b strings.Builder
	b.WriteString(CardTitleStyle.Render("All Companies") + "\n")
	if len(companies) == 0 {
		b.WriteString(DimStyle.Render("none") + "\n")
	}
	for _, company := range companies {
		b.WriteString(ListItemStyle.Render(company.Name) + "\n")
	}
	return CardStyle.Render(b.String())
}

func (adm AdminPanel) fieldLabel(label string, idx int) string {
	if !adm.browsing && adm.focusIdx == idx {
		return FieldFocusedLabelStyle.Render(label)
	}
	return FieldLabelStyle.Render(label)
}
