package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bsanalyst/tui-go/internal/api"
	"github.com/bsanalyst/tui-go/internal/async"
)

// ChartBar is one labeled value in a chart
type ChartBar struct {
	Label string
	Value int
}

// ChartData is a titled bar dataset
type ChartData struct {
	Title string
	Bars  []ChartBar
}

// chartBuiltMsg carries a generated chart
type chartBuiltMsg struct {
	seq   int
	chart ChartData
	err   error
}

// VisualsPanel is the visualization workflow. The data source is a local
// stub behind the same operation lifecycle as every backend call, so a
// real analytics query can replace it without touching the orchestration.
type VisualsPanel struct {
	company  selector
	query    textinput.Model
	focusIdx int // 0 = company, 1 = query
	browsing bool

	op         async.Op[ChartData]
	validation string
}

// NewVisualsPanel creates the panel in its initial state
func NewVisualsPanel() VisualsPanel {
	query := textinput.New()
	query.Placeholder = "e.g. Show quarterly revenue breakdown"
	query.Prompt = "❯ "
	query.PromptStyle = InputPromptStyle
	query.CharLimit = 0
	query.Width = 48

	return VisualsPanel{
		company:  newSelector(),
		query:    query,
		browsing: true,
	}
}

// typing reports whether the query input captures keystrokes
func (vp VisualsPanel) typing() bool {
	return !vp.browsing && vp.focusIdx == 1
}

// buildChartCmd generates the mock dataset after a short delay, mimicking
// an analytics round trip
func buildChartCmd(seq int, query string) tea.Cmd {
	return func() tea.Msg {
		time.Sleep(800 * time.Millisecond)
		return chartBuiltMsg{seq: seq, chart: mockChart(query)}
	}
}

// mockChart keys the dataset off the query wording
func mockChart(query string) ChartData {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "revenue") || strings.Contains(q, "quarterly"):
		return ChartData{
			Title: "Quarterly Revenue",
			Bars: []ChartBar{
				{Label: "Q1 2024", Value: 2500000},
				{Label: "Q2 2024", Value: 3100000},
				{Label: "Q3 2024", Value: 2800000},
				{Label: "Q4 2024", Value: 3500000},
			},
		}
	case strings.Contains(q, "expense") || strings.Contains(q, "cost"):
		return ChartData{
			Title: "Expenses by Category",
			Bars: []ChartBar{
				{Label: "Salaries", Value: 1200000},
				{Label: "Marketing", Value: 450000},
				{Label: "Operations", Value: 680000},
				{Label: "R&D", Value: 320000},
			},
		}
	case strings.Contains(q, "asset"):
		return ChartData{
			Title: "Asset Distribution",
			Bars: []ChartBar{
				{Label: "Cash", Value: 5000000},
				{Label: "Investments", Value: 3200000},
				{Label: "Property", Value: 2800000},
				{Label: "Equipment", Value: 1500000},
			},
		}
	default:
		return ChartData{
			Title: "Sample Financial Data",
			Bars: []ChartBar{
				{Label: "Category A", Value: 1000000},
				{Label: "Category B", Value: 1500000},
				{Label: "Category C", Value: 800000},
			},
		}
	}
}

// Update drives the panel
func (vp VisualsPanel) Update(msg tea.Msg, keys KeyMap, companies []api.Company) (VisualsPanel, tea.Cmd) {
	vp.company.clamp(len(companies))

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.Escape):
			if vp.typing() {
				vp.browsing = true
				vp.query.Blur()
			} else {
				vp.validation = ""
			}
			return vp, nil

		case key.Matches(keyMsg, keys.NextField):
			vp.moveFocus(1)
			return vp, nil

		case key.Matches(keyMsg, keys.PrevField):
			vp.moveFocus(-1)
			return vp, nil

		case key.Matches(keyMsg, keys.Left) && vp.focusIdx == 0 && !vp.typing():
			vp.company.cycle(-1, len(companies))
			return vp, nil

		case key.Matches(keyMsg, keys.Right) && vp.focusIdx == 0 && !vp.typing():
			vp.company.cycle(1, len(companies))
			return vp, nil

		case key.Matches(keyMsg, keys.Submit):
			if vp.browsing {
				vp.browsing = false
				vp.applyFocus()
				return vp, nil
			}
			return vp.submit(companies)
		}
	}

	if vp.typing() {
		var cmd tea.Cmd
		vp.query, cmd = vp.query.Update(msg)
		return vp, cmd
	}
	return vp, nil
}

func (vp *VisualsPanel) moveFocus(delta int) {
	vp.browsing = false
	vp.focusIdx = (vp.focusIdx + delta + 2) % 2
	vp.applyFocus()
}

func (vp *VisualsPanel) applyFocus() {
	if vp.focusIdx == 1 {
		vp.query.Focus()
	} else {
		vp.query.Blur()
	}
}

func (vp VisualsPanel) submit(companies []api.Company) (VisualsPanel, tea.Cmd) {
	if vp.op.Pending() {
		return vp, nil
	}
	if _, ok := vp.company.companyAt(companies); !ok {
		vp.validation = "Pick a company first"
		return vp, nil
	}
	query := strings.TrimSpace(vp.query.Value())
	if query == "" {
		vp.validation = "Describe what to visualize"
		return vp, nil
	}

	vp.validation = ""
	seq := vp.op.Begin()
	return vp, buildChartCmd(seq, query)
}

// finish applies a chart resolution
func (vp VisualsPanel) finish(msg chartBuiltMsg) VisualsPanel {
	if msg.err != nil {
		vp.op.Fail(msg.seq, msg.err.Error())
		return vp
	}
	vp.op.Succeed(msg.seq, msg.chart)
	return vp
}

// View renders the panel
func (vp VisualsPanel) View(companies []api.Company, spinnerIndex int) string {
	var b strings.Builder

	b.WriteString(CardTitleStyle.Render("Visualizations") + "\n\n")

	companyName := ""
	if company, ok := vp.company.companyAt(companies); ok {
		companyName = company.Name
	}
	b.WriteString(vp.fieldLabel("Company", 0) + "  " + renderSelector(companyName, !vp.browsing && vp.focusIdx == 0) + "\n\n")
	b.WriteString(vp.fieldLabel("Query  ", 1) + "  " + vp.query.View() + "\n\n")

	switch {
	case vp.op.Pending():
		b.WriteString(InfoStyle.Render(spinnerFrames[spinnerIndex%len(spinnerFrames)] + " Generating chart...") + "\n")
	case vp.validation != "":
		b.WriteString(WarningStyle.Render(vp.validation) + "\n")
	case vp.op.Failed():
		b.WriteString(ErrorStyle.Render(vp.op.Err()) + "\n")
	case vp.op.Succeeded():
		b.WriteString(renderChart(vp.op.Result()))
	default:
		b.WriteString(DimStyle.Render("enter to visualize") + "\n")
	}

	return CardStyle.Render(b.String())
}

// renderChart draws a horizontal bar chart scaled to the largest value
func renderChart(chart ChartData) string {
	const barWidth = 30

	max := 0
	for _, bar := range chart.Bars {
		if bar.Value > max {
			max = bar.Value
		}
	}
	if max == 0 {
		max = 1
	}

	labelWidth := 0
	for _, bar := range chart.Bars {
		if len(bar.Label) > labelWidth {
			labelWidth = len(bar.Label)
		}
	}

	var b strings.Builder
	b.WriteString(CardTitleStyle.Render(chart.Title) + "\n")
	for _, bar := range chart.Bars {
		filled := bar.Value * barWidth / max
		if filled == 0 && bar.Value > 0 {
			filled = 1
		}
		b.WriteString(fmt.Sprintf("%-*s ", labelWidth, bar.Label))
		b.WriteString(ChartBarStyle.Render(strings.Repeat("█", filled)))
		b.WriteString(ChartLabelStyle.Render(fmt.Sprintf(" $%s", formatAmount(bar.Value))))
		b.WriteString("\n")
	}
	return b.String()
}

// formatAmount renders 2500000 as "2.5M"
func formatAmount(v int) string {
	switch {
	case v >= 1000000:
		whole := v / 1000000
		frac := (v % 1000000) / 100000
		if frac == 0 {
			return fmt.Sprintf("%dM", whole)
		}
		return fmt.Sprintf("%d.%dM", whole, frac)
	case v >= 1000:
		return fmt.Sprintf("%dK", v/1000)
	default:
		return fmt.Sprintf("%d", v)
	}
}

func (vp VisualsPanel) fieldLabel(label string, idx int) string {
	if !vp.browsing && vp.focusIdx == idx {
		return FieldFocusedLabelStyle.Render(label)
	}
	return FieldLabelStyle.Render(label)
}
