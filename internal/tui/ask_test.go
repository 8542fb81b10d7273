package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bsanalyst/tui-go/internal/api"
	"github.com/bsanalyst/tui-go/internal/async"
)

func TestAskValidation(t *testing.T) {
	companies := []api.Company{{ID: 1, Name: "Acme"}}

	tests := []struct {
		name           string
		pickCompany    bool
		question       string
		wantValidation string
	}{
		{"no company", false, "What is the revenue?", "Pick a company first"},
		{"no question", true, "", "Type a question first"},
		{"whitespace question", true, "   ", "Type a question first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ap := NewAskPanel()
			if tt.pickCompany {
				ap.company.cycle(1, len(companies))
			}
			ap.question.SetValue(tt.question)

			ap, cmd := ap.submit(api.NewClient(""), "tok", companies)

			if ap.validation != tt.wantValidation {
				t.Errorf("validation = %q, want %q", ap.validation, tt.wantValidation)
			}
			if cmd != nil {
				t.Errorf("a command was issued despite failing validation")
			}
			if ap.op.Status() != async.StatusIdle {
				t.Errorf("op = %v, want idle", ap.op.Status())
			}
		})
	}
}

func TestAskSubmitStartsOperation(t *testing.T) {
	companies := []api.Company{{ID: 1, Name: "Acme"}}

	ap := NewAskPanel()
	ap.company.cycle(1, 1)
	ap.question.SetValue("What was Q4 revenue?")

	ap, cmd := ap.submit(api.NewClient(""), "tok", companies)

	if !ap.op.Pending() {
		t.Errorf("op = %v, want pending", ap.op.Status())
	}
	if cmd == nil {
		t.Errorf("no command returned; the request never leaves")
	}
}

// The question is never cleared; both outcomes leave it editable.
func TestAskKeepsQuestion(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"success", nil},
		{"failure", errors.New("dial tcp: refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ap := NewAskPanel()
			ap.question.SetValue("What was Q4 revenue?")

			seq := ap.op.Begin()
			ap = ap.finish(askDoneMsg{seq: seq, answer: api.Answer{Answer: "3.5M"}, err: tt.err})

			if ap.question.Value() != "What was Q4 revenue?" {
				t.Errorf("question = %q, want retained", ap.question.Value())
			}
		})
	}
}

func TestAskContextToggle(t *testing.T) {
	ap := NewAskPanel()
	keys := DefaultKeyMap()

	ap, _ = ap.Update(tea.KeyMsg{Type: tea.KeyCtrlT}, keys, api.NewClient(""), "tok", nil)
	if !ap.showContext {
		t.Fatalf("showContext = false after toggle, want true")
	}
	ap, _ = ap.Update(tea.KeyMsg{Type: tea.KeyCtrlT}, keys, api.NewClient(""), "tok", nil)
	if ap.showContext {
		t.Errorf("showContext = true after second toggle, want false")
	}
}
