package main

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/smartptr/scenario"
)

func TestRun_AllPass(t *testing.T) {
	var out bytes.Buffer
	if failed := run(&out, ""); failed != 0 {
		t.Fatalf("Expected no failures, got %d:\n%s", failed, out.String())
	}
	for _, s := range []string{"Size of handle", "remove", "lifecycle", "0 failed"} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("output does not contain %q:\n%s", s, out.String())
		}
	}
}

func TestRun_NoMatch(t *testing.T) {
	var out bytes.Buffer
	if failed := run(&out, "nothing-matches"); failed != 0 {
		t.Fatalf("Expected 0, got %d", failed)
	}
	if !strings.Contains(out.String(), "No scenarios match") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestListScenarios(t *testing.T) {
	var out bytes.Buffer
	listScenarios(&out)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != len(scenario.All()) {
		t.Fatalf("Expected %d lines, got %d", len(scenario.All()), len(lines))
	}
}

func TestInteractiveModel_RunSelected(t *testing.T) {
	m := newInteractiveModel()

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.selected != 1 {
		t.Fatalf("selected = %d, want 1", m.selected)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Expected a run command")
	}
	m.Update(cmd())

	if m.state != stateShowResult {
		t.Fatalf("state = %v, want result", m.state)
	}
	if len(m.results) != 1 || m.results[0].Name != scenario.All()[1].Name {
		t.Fatalf("unexpected results %+v", m.results)
	}
	if !strings.Contains(m.View(), "1 passed, 0 failed") {
		t.Errorf("view missing summary:\n%s", m.View())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateSelect {
		t.Fatalf("state = %v, want select", m.state)
	}
}

func TestInteractiveModel_Filter(t *testing.T) {
	m := newInteractiveModel()

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if m.state != stateFilter {
		t.Fatalf("state = %v, want filter", m.state)
	}
	for _, r := range "remove" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if len(m.scenarios) != 1 || m.scenarios[0].Name != "remove" {
		t.Fatalf("unexpected filtered scenarios %d", len(m.scenarios))
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateSelect {
		t.Fatalf("state = %v, want select", m.state)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if cmd == nil {
		t.Fatal("Expected run-all command")
	}
	msg, ok := cmd().(resultsMsg)
	if !ok || len(msg.results) != 1 {
		t.Fatalf("run all should run the filtered set, got %+v", msg)
	}
}
