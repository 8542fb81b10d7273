package tui

import (
	"testing"

	"github.com/bsanalyst/tui-go/internal/api"
)

func TestSelectorCycleWrapsThroughEmpty(t *testing.T) {
	s := newSelector()

	if s.chosen() {
		t.Fatalf("fresh selector reports a choice")
	}

	s.cycle(1, 2) // -> 0
	s.cycle(1, 2) // -> 1
	if s.idx != 1 {
		t.Fatalf("idx = %d after two forward cycles, want 1", s.idx)
	}

	s.cycle(1, 2) // wraps to the empty state
	if s.chosen() {
		t.Errorf("wrap past the last option did not pass through empty")
	}

	s.cycle(-1, 2) // backwards from empty lands on the last option
	if s.idx != 1 {
		t.Errorf("idx = %d cycling back from empty, want 1", s.idx)
	}
}

func TestSelectorEmptyList(t *testing.T) {
	s := newSelector()
	s.cycle(1, 0)
	if s.chosen() {
		t.Errorf("cycling over an empty list selected something")
	}
}

func TestSelectorClamp(t *testing.T) {
	s := newSelector()
	s.cycle(1, 3)
	s.cycle(1, 3)
	s.cycle(1, 3) // idx 2

	s.clamp(1)
	if s.idx != 0 {
		t.Errorf("idx = %d after clamp to one option, want 0", s.idx)
	}

	s.clamp(0)
	if s.chosen() {
		t.Errorf("selector still chosen after the list emptied")
	}
}

func TestSelectorLookups(t *testing.T) {
	companies := []api.Company{{ID: 1, Name: "Acme"}}
	users := []api.User{{ID: 2, Username: "alice"}}

	s := newSelector()
	if _, ok := s.companyAt(companies); ok {
		t.Errorf("empty selector resolved a company")
	}

	s.cycle(1, 1)
	company, ok := s.companyAt(companies)
	if !ok || company.ID != 1 {
		t.Errorf("companyAt = %v, %v; want Acme", company, ok)
	}
	user, ok := s.userAt(users)
	if !ok || user.Username != "alice" {
		t.Errorf("userAt = %v, %v; want alice", user, ok)
	}
}
