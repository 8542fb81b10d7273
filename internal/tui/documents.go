package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bsanalyst/tui-go/internal/api"
	"github.com/bsanalyst/tui-go/internal/async"
)

// deleteDoneMsg carries the outcome of a document deletion
type deleteDoneMsg struct {
	seq        int
	documentID int
	err        error
}

// DocumentsPanel is the document-management workflow: browse one company's
// ingested documents and delete them after explicit confirmation
type DocumentsPanel struct {
	company  selector
	selected int

	deleteOp async.Op[int]

	confirming        bool
	pendingDeleteID   int
	pendingDeleteName string

	message string
}

// NewDocumentsPanel creates the panel in its initial state
func NewDocumentsPanel() DocumentsPanel {
	return DocumentsPanel{
		company: newSelector(),
	}
}

// typing is always false; the panel has no text inputs
func (dp DocumentsPanel) typing() bool {
	return false
}

// CompanyID returns the id of the currently selected company, 0 for none
func (dp DocumentsPanel) CompanyID(companies []api.Company) int {
	company, ok := dp.company.companyAt(companies)
	if !ok {
		return 0
	}
	return company.ID
}

// deleteDocumentCmd issues the destructive request; it only runs after the
// user confirmed
func deleteDocumentCmd(client *api.Client, seq int, token string, documentID int) tea.Cmd {
	return func() tea.Msg {
		err := client.DeleteDocument(token, documentID)
		return deleteDoneMsg{seq: seq, documentID: documentID, err: err}
	}
}

// Update drives the panel
func (dp DocumentsPanel) Update(msg tea.Msg, keys KeyMap, client *api.Client, token string, companies []api.Company, docs []api.Document) (DocumentsPanel, tea.Cmd) {
	dp.company.clamp(len(companies))
	if dp.selected >= len(docs) {
		dp.selected = len(docs) - 1
	}
	if dp.selected < 0 {
		dp.selected = 0
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return dp, nil
	}

	// Confirmation intercepts everything until answered
	if dp.confirming {
		switch keyMsg.String() {
		case "y", "Y":
			dp.confirming = false
			if dp.deleteOp.Pending() {
				return dp, nil
			}
			seq := dp.deleteOp.Begin()
			return dp, deleteDocumentCmd(client, seq, token, dp.pendingDeleteID)
		case "n", "N", "esc":
			dp.confirming = false
			dp.pendingDeleteID = 0
			dp.pendingDeleteName = ""
		}
		return dp, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Left):
		dp.company.cycle(-1, len(companies))
		dp.selected = 0
		dp.message = ""

	case key.Matches(keyMsg, keys.Right):
		dp.company.cycle(1, len(companies))
		dp.selected = 0
		dp.message = ""

	case key.Matches(keyMsg, keys.Up):
		if dp.selected > 0 {
			dp.selected--
		}

	case key.Matches(keyMsg, keys.Down):
		if dp.selected < len(docs)-1 {
			dp.selected++
		}

	case key.Matches(keyMsg, keys.Delete):
		if dp.deleteOp.Pending() || dp.selected >= len(docs) || len(docs) == 0 {
			return dp, nil
		}
		doc := docs[dp.selected]
		dp.confirming = true
		dp.pendingDeleteID = doc.ID
		dp.pendingDeleteName = doc.Filename

	case key.Matches(keyMsg, keys.Escape):
		dp.message = ""
		if dp.deleteOp.Failed() {
			dp.deleteOp.Reset()
		}
	}

	return dp, nil
}

// finish applies a delete resolution. reload reports whether the document
// list must be fetched again; the list is never spliced locally, so the
// screen always reflects server truth.
func (dp DocumentsPanel) finish(msg deleteDoneMsg) (DocumentsPanel, bool) {
	if msg.err != nil {
		dp.deleteOp.Fail(msg.seq, api.Message(msg.err))
		return dp, false
	}
	if !dp.deleteOp.Succeed(msg.seq, msg.documentID) {
		return dp, false
	}
	dp.message = "Document deleted"
	return dp, true
}

// View renders the panel
func (dp DocumentsPanel) View(companies []api.Company, docs []api.Document, loaded, loading bool, spinnerIndex int) string {
	var b strings.Builder

	b.WriteString(CardTitleStyle.Render("Document Manager") + "\n\n")

	companyName := ""
	if company, ok := dp.company.companyAt(companies); ok {
		companyName = company.Name
	}
	b.WriteString(FieldLabelStyle.Render("Company") + "  " + renderSelector(companyName, true) + "\n\n")

	if dp.confirming {
		b.WriteString(ConfirmStyle.Render(
			fmt.Sprintf("Delete %q?\n", dp.pendingDeleteName)+
				ErrorStyle.Render("y")+DimStyle.Render(" delete   ")+
				SuccessStyle.Render("n")+DimStyle.Render(" keep")) + "\n")
		return CardStyle.Render(b.String())
	}

	switch {
	case !dp.company.chosen():
		b.WriteString(DimStyle.Render("Choose a company with ←/→") + "\n")
	case loading:
		b.WriteString(InfoStyle.Render(spinnerFrames[spinnerIndex%len(spinnerFrames)] + " Loading documents...") + "\n")
	case dp.deleteOp.Pending():
		b.WriteString(InfoStyle.Render(spinnerFrames[spinnerIndex%len(spinnerFrames)] + " Deleting...") + "\n")
	case loaded && len(docs) == 0:
		b.WriteString(DimStyle.Render("No documents found for this company.") + "\n")
	default:
		for i, doc := range docs {
			line := fmt.Sprintf("%s  %d KB", doc.Filename, doc.SizeKB)
			if doc.CreatedAt != "" {
				line += " • " + formatDate(doc.CreatedAt)
			}
			if i == dp.selected {
				b.WriteString(ListSelectedStyle.Render("› "+line) + "\n")
			} else {
				b.WriteString(ListItemStyle.Render("  "+line) + "\n")
			}
		}
	}

	if dp.deleteOp.Failed() {
		b.WriteString("\n" + ErrorStyle.Render(dp.deleteOp.Err()) + "\n")
	} else if dp.message != "" {
		b.WriteString("\n" + SuccessStyle.Render(dp.message) + "\n")
	}

	b.WriteString("\n" + DimStyle.Render("↑/↓ select  d delete  r refresh"))
	return CardStyle.Render(b.String())
}

// formatDate trims an ISO timestamp down to its date part
func formatDate(iso string) string {
	if len(iso) >= 10 {
		return iso[:10]
	}
	return iso
}
