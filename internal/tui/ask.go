package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bsanalyst/tui-go/internal/api"
	"github.com/bsanalyst/tui-go/internal/async"
)

// askDoneMsg carries the outcome of a question
type askDoneMsg struct {
	seq    int
	answer api.Answer
	err    error
}

// AskPanel is the question workflow: a company-scoped natural-language
// question answered from that company's ingested documents
type AskPanel struct {
	company  selector
	question textarea.Model
	focusIdx int // 0 = company, 1 = question
	browsing bool

	op          async.Op[api.Answer]
	validation  string
	showContext bool
}

// NewAskPanel creates the ask form in its initial state
func NewAskPanel() AskPanel {
	question := textarea.New()
	question.Placeholder = "e.g. What is the total income for the year?"
	question.SetHeight(3)
	question.SetWidth(60)
	question.CharLimit = 0
	question.ShowLineNumbers = false

	return AskPanel{
		company:  newSelector(),
		question: question,
		browsing: true,
	}
}

// typing reports whether the question textarea captures keystrokes
func (ap AskPanel) typing() bool {
	return !ap.browsing && ap.focusIdx == 1
}

// askCmd issues the question request
func askCmd(client *api.Client, seq int, token, question string, companyID int) tea.Cmd {
	return func() tea.Msg {
		answer, err := client.Ask(token, question, companyID)
		return askDoneMsg{seq: seq, answer: answer, err: err}
	}
}

// Update drives the form. Inside the textarea only tab/shift+tab cycle
// fields so arrow keys keep moving the cursor.
func (ap AskPanel) Update(msg tea.Msg, keys KeyMap, client *api.Client, token string, companies []api.Company) (AskPanel, tea.Cmd) {
	ap.company.clamp(len(companies))

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.Ask):
			return ap.submit(client, token, companies)

		case key.Matches(keyMsg, keys.Context):
			ap.showContext = !ap.showContext
			return ap, nil

		case key.Matches(keyMsg, keys.Escape):
			if ap.typing() {
				ap.browsing = true
				ap.question.Blur()
			} else {
				ap.validation = ""
				if ap.op.Failed() {
					ap.op.Reset()
				}
			}
			return ap, nil

		case keyMsg.String() == "tab":
			ap.moveFocus(1)
			return ap, nil

		case keyMsg.String() == "shift+tab":
			ap.moveFocus(-1)
			return ap, nil
		}

		if !ap.typing() {
			switch {
			case key.Matches(keyMsg, keys.Down):
				ap.moveFocus(1)
				return ap, nil
			case key.Matches(keyMsg, keys.Up):
				ap.moveFocus(-1)
				return ap, nil
			case key.Matches(keyMsg, keys.Left) && ap.focusIdx == 0:
				ap.company.cycle(-1, len(companies))
				return ap, nil
			case key.Matches(keyMsg, keys.Right) && ap.focusIdx == 0:
				ap.company.cycle(1, len(companies))
				return ap, nil
			case key.Matches(keyMsg, keys.Submit):
				if ap.browsing {
					ap.browsing = false
					ap.applyFocus()
					return ap, nil
				}
				// enter on the company selector drops into the question
				ap.moveFocus(1)
				return ap, nil
			}
		}
	}

	if ap.typing() {
		var cmd tea.Cmd
		ap.question, cmd = ap.question.Update(msg)
		return ap, cmd
	}
	return ap, nil
}

func (ap *AskPanel) moveFocus(delta int) {
	ap.browsing = false
	ap.focusIdx = (ap.focusIdx + delta + 2) % 2
	ap.applyFocus()
}

func (ap *AskPanel) applyFocus() {
	if ap.focusIdx == 1 {
		ap.question.Focus()
	} else {
		ap.question.Blur()
	}
}

// submit validates locally: a non-empty question and a chosen company are
// required before any request is sent
func (ap AskPanel) submit(client *api.Client, token string, companies []api.Company) (AskPanel, tea.Cmd) {
	if ap.op.Pending() {
		return ap, nil
	}

	company, ok := ap.company.companyAt(companies)
	if !ok {
		ap.validation = "Pick a company first"
		return ap, nil
	}

	question := strings.TrimSpace(ap.question.Value())
	if question == "" {
		ap.validation = "Type a question first"
		return ap, nil
	}

	ap.validation = ""
	seq := ap.op.Begin()
	return ap, askCmd(client, seq, token, question, company.ID)
}

// finish applies an ask resolution. The question text is never cleared so
// it stays editable for refinement or retry.
func (ap AskPanel) finish(msg askDoneMsg) AskPanel {
	if msg.err != nil {
		ap.op.Fail(msg.seq, api.Message(msg.err))
		return ap
	}
	ap.op.Succeed(msg.seq, msg.answer)
	return ap
}

// View renders the ask card plus answer and optional context blocks
func (ap AskPanel) View(companies []api.Company, width, spinnerIndex int) string {
	var b strings.Builder

	b.WriteString(CardTitleStyle.Render("Ask a question") + "\n\n")

	companyName := ""
	if company, ok := ap.company.companyAt(companies); ok {
		companyName = company.Name
	}
	b.WriteString(ap.fieldLabel("Company", 0) + "  " + renderSelector(companyName, !ap.browsing && ap.focusIdx == 0) + "\n\n")
	b.WriteString(ap.fieldLabel("Question", 1) + "\n")
	b.WriteString(ap.question.View() + "\n\n")

	switch {
	case ap.op.Pending():
		b.WriteString(InfoStyle.Render(spinnerFrames[spinnerIndex%len(spinnerFrames)] + " Thinking...") + "\n")
	case ap.validation != "":
		b.WriteString(WarningStyle.Render(ap.validation) + "\n")
	case ap.op.Failed():
		b.WriteString(ErrorStyle.Render(ap.op.Err()) + "\n")
	case ap.op.Succeeded():
		b.WriteString(ap.renderAnswer(width))
	default:
		b.WriteString(DimStyle.Render("ctrl+s to ask") + "\n")
	}

	return CardStyle.Render(b.String())
}

func (ap AskPanel) renderAnswer(width int) string {
	answer := ap.op.Result()
	textWidth := width - 12
	if textWidth < 20 {
		textWidth = 20
	}

	var b strings.Builder
	b.WriteString(SuccessStyle.Render("Answer") + "\n")
	b.WriteString(AnswerStyle.Render(wrapText(answer.Answer, textWidth)) + "\n")

	meta := fmt.Sprintf("model: %s • chunks used: %d", answer.LLM, answer.ChunksUsed)
	b.WriteString(ListMetaStyle.Render(meta) + "\n")

	if answer.Context != "" {
		if ap.showContext {
			b.WriteString("\n" + DimStyle.Render("Source (redacted)") + "\n")
			b.WriteString(ContextStyle.Render(wrapText(answer.Context, textWidth)) + "\n")
			b.WriteString(DimStyle.Render("ctrl+t to hide context") + "\n")
		} else {
			b.WriteString(DimStyle.Render("ctrl+t to show retrieved context") + "\n")
		}
	}
	return b.String()
}

func (ap AskPanel) fieldLabel(label string, idx int) string {
	if !ap.browsing && ap.focusIdx == idx {
		return FieldFocusedLabelStyle.Render(label)
	}
	return FieldLabelStyle.Render(label)
}
