package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bsanalyst/tui-go/internal/api"
	"github.com/bsanalyst/tui-go/internal/async"
	"github.com/bsanalyst/tui-go/internal/pdfinfo"
)

// uploadOutcome pairs the backend ingestion result with the local preflight
// info so the status line can report pages alongside chunks
type uploadOutcome struct {
	result api.IngestResult
	info   pdfinfo.Info
}

// uploadDoneMsg carries the outcome of an upload-and-ingest request
type uploadDoneMsg struct {
	seq     int
	outcome uploadOutcome
	err     error
}

// UploadPanel is the PDF upload workflow: pick a company and a local PDF,
// ship it to the backend for ingestion
type UploadPanel struct {
	company  selector
	path     textinput.Model
	focusIdx int // 0 = company, 1 = path
	browsing bool

	op         async.Op[uploadOutcome]
	validation string
}

// NewUploadPanel creates the upload form in its initial state
func NewUploadPanel() UploadPanel {
	path := textinput.New()
	path.Placeholder = "/path/to/report.pdf"
	path.Prompt = "❯ "
	path.PromptStyle = InputPromptStyle
	path.CharLimit = 0
	path.Width = 48

	return UploadPanel{
		company:  newSelector(),
		path:     path,
		browsing: true,
	}
}

// typing reports whether a text input currently captures keystrokes
func (up UploadPanel) typing() bool {
	return !up.browsing && up.focusIdx == 1
}

// uploadCmd opens the preflighted file and sends it for ingestion
func uploadCmd(client *api.Client, seq int, token string, companyID int, path string, info pdfinfo.Info) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return uploadDoneMsg{seq: seq, err: fmt.Errorf("open file: %w", err)}
		}
		defer f.Close()

		result, err := client.IngestPDF(token, companyID, info.Filename, f)
		return uploadDoneMsg{seq: seq, outcome: uploadOutcome{result: result, info: info}, err: err}
	}
}

// Update drives the form
func (up UploadPanel) Update(msg tea.Msg, keys KeyMap, client *api.Client, token string, companies []api.Company) (UploadPanel, tea.Cmd) {
	up.company.clamp(len(companies))

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.Escape):
			if up.typing() {
				up.browsing = true
				up.path.Blur()
			} else {
				up.validation = ""
				if up.op.Failed() {
					up.op.Reset()
				}
			}
			return up, nil

		case key.Matches(keyMsg, keys.NextField):
			up.moveFocus(1)
			return up, nil

		case key.Matches(keyMsg, keys.PrevField):
			up.moveFocus(-1)
			return up, nil

		case key.Matches(keyMsg, keys.Left) && up.focusIdx == 0 && !up.typing():
			up.company.cycle(-1, len(companies))
			return up, nil

		case key.Matches(keyMsg, keys.Right) && up.focusIdx == 0 && !up.typing():
			up.company.cycle(1, len(companies))
			return up, nil

		case key.Matches(keyMsg, keys.Submit):
			if up.browsing {
				up.browsing = false
				up.applyFocus()
				return up, nil
			}
			return up.submit(client, token, companies)
		}
	}

	if up.typing() {
		var cmd tea.Cmd
		up.path, cmd = up.path.Update(msg)
		return up, cmd
	}
	return up, nil
}

func (up *UploadPanel) moveFocus(delta int) {
	up.browsing = false
	up.focusIdx = (up.focusIdx + delta + 2) % 2
	up.applyFocus()
}

func (up *UploadPanel) applyFocus() {
	if up.focusIdx == 1 {
		up.path.Focus()
	} else {
		up.path.Blur()
	}
}

// submit validates locally before any request leaves the client: a company
// must be chosen and the path must point at a readable PDF. On failure the
// selections stay put so the user can retry without re-entering them.
func (up UploadPanel) submit(client *api.Client, token string, companies []api.Company) (UploadPanel, tea.Cmd) {
	if up.op.Pending() {
		return up, nil
	}

	company, ok := up.company.companyAt(companies)
	if !ok {
		up.validation = "Pick a company first"
		return up, nil
	}

	info, err := pdfinfo.Inspect(strings.TrimSpace(up.path.Value()))
	if err != nil {
		up.validation = err.Error()
		return up, nil
	}

	up.validation = ""
	seq := up.op.Begin()
	return up, uploadCmd(client, seq, token, company.ID, strings.TrimSpace(up.path.Value()), info)
}

// finish applies an upload resolution. On success the file and company
// selections clear; on failure they are retained for a retry.
func (up UploadPanel) finish(msg uploadDoneMsg) UploadPanel {
	if msg.err != nil {
		up.op.Fail(msg.seq, api.Message(msg.err))
		return up
	}
	if up.op.Succeed(msg.seq, msg.outcome) {
		up.path.SetValue("")
		up.company.reset()
	}
	return up
}

// View renders the upload card
func (up UploadPanel) View(companies []api.Company, spinnerIndex int) string {
	var b strings.Builder

	b.WriteString(CardTitleStyle.Render("Upload PDF") + "\n\n")

	companyName := ""
	if company, ok := up.company.companyAt(companies); ok {
		companyName = company.Name
	}
	b.WriteString(up.fieldLabel("Company", 0) + "  " + renderSelector(companyName, !up.browsing && up.focusIdx == 0) + "\n\n")
	b.WriteString(up.fieldLabel("PDF file", 1) + "\n")
	b.WriteString(up.path.View() + "\n\n")

	switch {
	case up.op.Pending():
		b.WriteString(InfoStyle.Render(spinnerFrames[spinnerIndex%len(spinnerFrames)] + " Uploading...") + "\n")
	case up.validation != "":
		b.WriteString(WarningStyle.Render(up.validation) + "\n")
	case up.op.Failed():
		b.WriteString(ErrorStyle.Render(up.op.Err()) + "\n")
	case up.op.Succeeded():
		outcome := up.op.Result()
		b.WriteString(SuccessStyle.Render(fmt.Sprintf(
			"Uploaded %s (%d pages). Document %d, chunks: %d",
			outcome.info.Filename, outcome.info.Pages,
			outcome.result.DocumentID, outcome.result.NumChunks,
		)) + "\n")
	default:
		b.WriteString(DimStyle.Render("enter to upload & ingest") + "\n")
	}

	return CardStyle.Render(b.String())
}

func (up UploadPanel) fieldLabel(label string, idx int) string {
	if !up.browsing && up.focusIdx == idx {
		return FieldFocusedLabelStyle.Render(label)
	}
	return FieldLabelStyle.Render(label)
}
