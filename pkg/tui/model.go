// Package tui provides the interactive front ends of the survey.
//
// Model is a bubbletea program for terminals; RunLines is a plain
// line-oriented prompt for pipes and dumb terminals. Both drive a
// survey.Controller and never touch the response store directly.
//
// Model is designed for single-threaded use within the bubbletea event
// loop.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/segap/segap/pkg/questionnaire"
	"github.com/segap/segap/pkg/scoring"
	"github.com/segap/segap/pkg/survey"
	"github.com/segap/segap/pkg/surface"
)

// Heading shown above every survey page.
const Heading = "Social engineering incident detection self-assessment"

// Instructions explain the answer scale.
const Instructions = "Rate each statement from 1 (not at all) to 5 (fully in place)."

// barWidth is the widest the page progress bar grows.
const barWidth = 40

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	progressStyle = lipgloss.NewStyle().Faint(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#20B9B4")).Bold(true)
	invalidStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C")).Bold(true)
)

// Model is the bubbletea model for one survey session.
type Model struct {
	ctrl      *survey.Controller
	questions *questionnaire.QuestionSet
	renderer  surface.Renderer

	keys keyMap
	help help.Model
	bar  progress.Model

	// cursor is the position within the current page.
	cursor int
	// touched marks questions edited since the cursor last entered them;
	// the first keystroke on an untouched question replaces its value.
	touched map[int]bool

	invalid *survey.ValidationError
	err     error

	width    int
	quitting bool
}

// NewModel creates a Model for ctrl. The question set must have exactly
// ctrl.QuestionCount() prompts.
func NewModel(ctrl *survey.Controller, questions *questionnaire.QuestionSet) Model {
	return Model{
		ctrl:      ctrl,
		questions: questions,
		renderer:  &surface.TerminalRenderer{ForceColor: true},
		keys:      defaultKeyMap(),
		help:      help.New(),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
		touched:   make(map[int]bool),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Err returns the error that ended the session, if any.
func (m Model) Err() error { return m.err }

// Quitting reports whether the user asked to leave.
func (m Model) Quitting() bool { return m.quitting }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.bar.Width = min(max(msg.Width-4, 10), barWidth)
		return m, nil

	case tea.KeyMsg:
		if m.ctrl.Completed() {
			return m.updateResults(msg)
		}
		return m.updateSurvey(msg)
	}
	return m, nil
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Forward):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Restart):
		m.ctrl.Restart()
		m.resetPage()
	}
	return m, nil
}

func (m Model) updateSurvey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes && isAnswerInput(msg.Runes) {
		m.typeRunes(msg.Runes)
		return m, nil
	}

	page := m.ctrl.PageQuestions()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(page)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Erase):
		idx := page[m.cursor]
		v := m.ctrl.Value(idx)
		if v != "" {
			v = v[:len(v)-1]
		}
		_ = m.ctrl.Enter(idx, v)
		m.touched[idx] = true

	case key.Matches(msg, m.keys.Back):
		if m.ctrl.Page() > 0 {
			m.ctrl.Back()
			m.resetPage()
		}

	case key.Matches(msg, m.keys.Forward):
		err := m.ctrl.Forward()
		var verr *survey.ValidationError
		switch {
		case errors.As(err, &verr):
			m.invalid = verr
			m.cursor = m.pageOffset(verr.Violations[0].Index)
			for _, idx := range verr.Indices() {
				delete(m.touched, idx)
			}
		case err != nil:
			m.err = err
			return m, tea.Quit
		default:
			m.resetPage()
		}
	}
	return m, nil
}

func (m *Model) typeRunes(runes []rune) {
	idx := m.ctrl.PageQuestions()[m.cursor]
	v := m.ctrl.Value(idx)
	if !m.touched[idx] {
		v = ""
	}
	_ = m.ctrl.Enter(idx, v+string(runes))
	m.touched[idx] = true
}

func (m *Model) resetPage() {
	m.cursor = 0
	m.invalid = nil
	m.touched = make(map[int]bool)
}

func (m Model) pageOffset(idx int) int {
	start, _ := m.ctrl.PageBounds(m.ctrl.Page())
	return idx - start
}

func isAnswerInput(runes []rune) bool {
	if len(runes) == 0 {
		return false
	}
	for _, r := range runes {
		if !strings.ContainsRune("0123456789.-", r) {
			return false
		}
	}
	return true
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.ctrl.Completed() {
		return m.resultsView()
	}
	return m.surveyView()
}

func (m Model) surveyView() string {
	var sb strings.Builder

	cur, total := m.ctrl.Progress()
	sb.WriteString(titleStyle.Render(Heading) + "\n")
	sb.WriteString(progressStyle.Render(fmt.Sprintf("Page %d of %d", cur, total)) + "\n")
	sb.WriteString(m.bar.ViewAs(float64(cur)/float64(total)) + "\n")
	sb.WriteString(Instructions + "\n\n")

	bad := make(map[int]bool)
	if m.invalid != nil {
		for _, idx := range m.invalid.Indices() {
			bad[idx] = true
		}
	}

	for pos, idx := range m.ctrl.PageQuestions() {
		pointer := "  "
		value := fmt.Sprintf("[ %s ]", m.ctrl.Value(idx))
		if pos == m.cursor {
			pointer = cursorStyle.Render("> ")
			value = cursorStyle.Render(value)
		}
		if bad[idx] {
			value = invalidStyle.Render(value)
		}
		sb.WriteString(fmt.Sprintf("%s%d. %s %s\n", pointer, idx+1, m.questions.Prompt(idx), value))
	}

	if m.invalid != nil {
		sb.WriteString("\n")
		for _, v := range m.invalid.Violations {
			sb.WriteString(errorStyle.Render(
				violationMessage(v)) + "\n")
		}
	}

	keys := m.keys
	keys.Back.SetEnabled(m.ctrl.Page() > 0)
	keys.Restart.SetEnabled(false)
	if m.ctrl.IsLastPage() {
		keys.Forward.SetHelp("→/enter", "calculate")
	}
	sb.WriteString("\n" + m.help.View(keys) + "\n")
	return sb.String()
}

func (m Model) resultsView() string {
	var sb strings.Builder
	if err := m.renderer.Render(&sb, m.ctrl.Report()); err != nil {
		return errorStyle.Render(err.Error()) + "\n"
	}

	keys := m.keys
	keys.Up.SetEnabled(false)
	keys.Down.SetEnabled(false)
	keys.Back.SetEnabled(false)
	keys.Forward.SetEnabled(false)
	sb.WriteString("\n" + m.help.View(keys) + "\n")
	return sb.String()
}

func violationMessage(v survey.Violation) string {
	return fmt.Sprintf("Question %d: %q is not a whole number from %d to %d",
		v.Index+1, v.Value, scoring.MinScore, scoring.MaxScore)
}
