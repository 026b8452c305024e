package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/smartptr/scenario"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Run    key.Binding
	RunAll key.Binding
	Filter key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Run, k.RunAll, k.Filter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Run, k.RunAll}, {k.Filter, k.Back, k.Quit}}
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Run:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	RunAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "run all")),
	Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
}

type modelState int

const (
	stateSelect modelState = iota
	stateFilter
	stateShowResult
)

type interactiveModel struct {
	help      help.Model
	filter    textinput.Model
	scenarios []scenario.Scenario
	results   []scenario.Result
	selected  int
	state     modelState
}

type resultsMsg struct {
	results []scenario.Result
}

func newInteractiveModel() *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "scenario name"
	ti.Prompt = "filter: "
	ti.Width = 40

	return &interactiveModel{
		help:      help.New(),
		filter:    ti,
		scenarios: scenario.All(),
		state:     stateSelect,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateFilter {
			return m.updateFilter(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			if m.state == stateSelect && m.selected > 0 {
				m.selected--
			}

		case key.Matches(msg, keys.Down):
			if m.state == stateSelect && m.selected < len(m.scenarios)-1 {
				m.selected++
			}

		case key.Matches(msg, keys.Run):
			switch m.state {
			case stateSelect:
				if len(m.scenarios) > 0 {
					return m, runScenarios(m.scenarios[m.selected : m.selected+1])
				}
			case stateShowResult:
				m.state = stateSelect
				m.results = nil
			}

		case key.Matches(msg, keys.RunAll):
			if m.state == stateSelect && len(m.scenarios) > 0 {
				return m, runScenarios(m.scenarios)
			}

		case key.Matches(msg, keys.Filter):
			if m.state == stateSelect {
				m.state = stateFilter
				return m, m.filter.Focus()
			}

		case key.Matches(msg, keys.Back):
			if m.state == stateShowResult {
				m.state = stateSelect
				m.results = nil
			}
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case resultsMsg:
		m.results = msg.results
		m.state = stateShowResult
	}

	return m, nil
}

func (m *interactiveModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Run), key.Matches(msg, keys.Back):
		m.filter.Blur()
		m.state = stateSelect
		return m, nil
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *interactiveModel) applyFilter() {
	needle := strings.TrimSpace(m.filter.Value())
	m.scenarios = m.scenarios[:0:0]
	for _, s := range scenario.All() {
		if needle == "" || strings.Contains(s.Name, needle) {
			m.scenarios = append(m.scenarios, s)
		}
	}
	if m.selected >= len(m.scenarios) {
		m.selected = max(len(m.scenarios)-1, 0)
	}
}

func runScenarios(list []scenario.Scenario) tea.Cmd {
	picked := append([]scenario.Scenario(nil), list...)
	return func() tea.Msg {
		results := make([]scenario.Result, 0, len(picked))
		for _, s := range picked {
			results = append(results, scenario.Run(s))
		}
		return resultsMsg{results: results}
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Handle contract"))
	b.WriteString(fmt.Sprintf(" handle size %d bytes", scenario.HandleSize()))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelect, stateFilter:
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}
		if len(m.scenarios) == 0 {
			b.WriteString(dimStyle.Render("No scenarios match."))
			b.WriteString("\n")
		}
		for i, s := range m.scenarios {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + s.Name))
			} else {
				b.WriteString("  " + nameStyle.Render(s.Name))
			}
			b.WriteString("  ")
			b.WriteString(descStyle.Render(s.Description))
			b.WriteString("\n")
		}

	case stateShowResult:
		for _, r := range m.results {
			line := scenario.FormatResult(r)
			if r.Passed() {
				b.WriteString(passStyle.Render(line))
			} else {
				b.WriteString(failStyle.Render(line))
			}
			b.WriteString("\n")
		}
		passed, failed := scenario.Summary(m.results)
		b.WriteString(fmt.Sprintf("\n%d passed, %d failed\n", passed, failed))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
