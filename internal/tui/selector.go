package tui

import "github.com/bsanalyst/tui-go/internal/api"

// selector is a left/right cycling chooser. Index -1 means nothing chosen,
// matching the blank "-- select --" default of a form dropdown.
type selector struct {
	idx int
}

func newSelector() selector {
	return selector{idx: -1}
}

// cycle moves the selection by delta over count options, passing through
// the empty state when wrapping
func (s *selector) cycle(delta, count int) {
	if count == 0 {
		s.idx = -1
		return
	}
	s.idx += delta
	if s.idx >= count {
		s.idx = -1
	}
	if s.idx < -1 {
		s.idx = count - 1
	}
}

// chosen reports whether an option is selected
func (s *selector) chosen() bool {
	return s.idx >= 0
}

// reset returns the selector to the empty state
func (s *selector) reset() {
	s.idx = -1
}

// clamp keeps the index valid after the option list changed size
func (s *selector) clamp(count int) {
	if s.idx >= count {
		s.idx = count - 1
	}
}

// companyAt returns the selected company from the list
func (s *selector) companyAt(companies []api.Company) (api.Company, bool) {
	if s.idx < 0 || s.idx >= len(companies) {
		return api.Company{}, false
	}
	return companies[s.idx], true
}

// userAt returns the selected user from the list
func (s *selector) userAt(users []api.User) (api.User, bool) {
	if s.idx < 0 || s.idx >= len(users) {
		return api.User{}, false
	}
	return users[s.idx], true
}

// renderSelector draws a selector field value with cycling arrows
func renderSelector(label string, focused bool) string {
	if label == "" {
		label = "-- select --"
	}
	if focused {
		return SelectorStyle.Render("◀ " + label + " ▶")
	}
	return SelectorStyle.Render(label)
}
