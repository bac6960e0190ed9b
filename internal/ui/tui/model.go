// Package tui is the full-screen terminal front-end of a quiz run.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pavelanni/quizrunner/internal/i18n"
	"github.com/pavelanni/quizrunner/internal/model"
	"github.com/pavelanni/quizrunner/internal/quiz"
)

// Options configures the terminal UI model.
type Options struct {
	Translator     *i18n.Translator
	Explainer      quiz.Explainer // nil disables explanations
	ExplainTimeout time.Duration
	NoColor        bool
}

// Model renders a quiz run using Bubble Tea.
type Model struct {
	quiz    *quiz.Controller
	tr      *i18n.Translator
	explain quiz.Explainer
	timeout time.Duration
	noColor bool
	keys    keyMap

	page      int // zero-based
	cursor    int // index into items or wrong
	items     []quiz.Item
	wrong     []quiz.Item
	showWrong bool
	summary   summaryView

	pager paginator.Model
	bar   progress.Model

	status      string
	explanation map[int]string
	explaining  int // question number awaiting an explanation, 0 if none

	width  int
	height int
}

type summaryView struct {
	Total, Answered, Correct, Wrong int
}

// explainMsg carries the result of an explanation request.
type explainMsg struct {
	number int
	text   string
	err    error
}

// NewModel constructs a terminal UI model over a running quiz.
func NewModel(c *quiz.Controller, opts Options) Model {
	tr := opts.Translator
	if tr == nil {
		tr = i18n.New("en")
	}
	timeout := opts.ExplainTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	pager := paginator.New()
	pager.PerPage = c.PageSize()
	pager.SetTotalPages(c.Len())
	if pager.TotalPages > 12 {
		pager.Type = paginator.Arabic
	} else {
		pager.Type = paginator.Dots
	}

	m := Model{
		quiz:        c,
		tr:          tr,
		explain:     opts.Explainer,
		timeout:     timeout,
		noColor:     opts.NoColor,
		keys:        defaultKeys(),
		pager:       pager,
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage()),
		explanation: make(map[int]string),
		width:       80,
		height:      24,
	}
	return m.refresh()
}

// Init has no startup work.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses, window resizes and explanation results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		m.bar.Width = min(max(typed.Width/3, 10), 60)
		return m, nil
	case explainMsg:
		if typed.number == m.explaining {
			m.explaining = 0
		}
		if typed.err != nil {
			m.status = typed.err.Error()
			return m, nil
		}
		m.explanation[typed.number] = typed.text
		m.status = ""
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Wrong):
		m.showWrong = !m.showWrong
		m.cursor = 0
		m.status = ""
		return m.refresh(), nil
	case key.Matches(msg, m.keys.Explain):
		return m.requestExplanation()
	}

	if m.showWrong {
		if idx, ok := labelKey(msg.String()); ok {
			return m.apply(func(it quiz.Item) error { return m.reselect(it, idx) })
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		if m.page < m.quiz.Pages()-1 {
			m.page++
			m.cursor = 0
		}
		return m.refresh(), nil
	case key.Matches(msg, m.keys.Prev):
		if m.page > 0 {
			m.page--
			m.cursor = 0
		}
		return m.refresh(), nil
	case key.Matches(msg, m.keys.Top):
		m.page = 0
		m.cursor = 0
		return m.refresh(), nil
	case key.Matches(msg, m.keys.Submit):
		return m.apply(func(it quiz.Item) error {
			if it.Question.Kind() != model.KindMulti {
				return nil
			}
			_, err := m.quiz.Submit(it.Number)
			return err
		})
	}

	if idx, ok := labelKey(msg.String()); ok {
		return m.apply(func(it quiz.Item) error {
			label, ok := model.LabelAt(idx)
			if !ok {
				return model.ErrIndexOutOfRange
			}
			_, err := m.quiz.Answer(it.Number, label)
			return err
		})
	}
	return m, nil
}

// reselect answers a question from the wrong list. Single-select questions
// are addressed by id, the way the list records them.
func (m Model) reselect(it quiz.Item, idx int) error {
	label, ok := model.LabelAt(idx)
	if !ok {
		return model.ErrIndexOutOfRange
	}
	if it.Question.Kind() == model.KindSingle {
		return m.quiz.SelectByID(it.Question.ID, label)
	}
	_, err := m.quiz.Answer(it.Number, label)
	return err
}

func (m Model) apply(fn func(quiz.Item) error) (tea.Model, tea.Cmd) {
	it, ok := m.current()
	if !ok {
		return m, nil
	}
	m.status = ""
	if err := fn(it); err != nil {
		m.status = err.Error()
	}
	return m.refresh(), nil
}

func (m Model) requestExplanation() (tea.Model, tea.Cmd) {
	it, ok := m.current()
	if !ok {
		return m, nil
	}
	if m.explain == nil {
		m.status = m.tr.T("ExplainDisabled")
		return m, nil
	}
	if m.explaining != 0 {
		return m, nil
	}
	m.explaining = it.Number
	m.status = m.tr.T("Explaining")
	ex, timeout := m.explain, m.timeout
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := ex.Explain(ctx, it.Question, it.Selected)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				err = errors.New("explanation timed out")
			}
			return explainMsg{number: it.Number, err: err}
		}
		return explainMsg{number: it.Number, text: res.Text}
	}
}

// refresh reloads the page and wrong list after navigation or a mutation.
func (m Model) refresh() Model {
	m.items = m.quiz.Page(m.page)
	m.wrong = m.quiz.WrongItems()
	m.pager.Page = m.page
	s := m.quiz.Summary()
	m.summary = summaryView{Total: s.Total, Answered: s.Answered, Correct: s.Correct, Wrong: s.Wrong}
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	return m
}

func (m Model) visible() []quiz.Item {
	if m.showWrong {
		return m.wrong
	}
	return m.items
}

func (m Model) current() (quiz.Item, bool) {
	items := m.visible()
	if m.cursor < 0 || m.cursor >= len(items) {
		return quiz.Item{}, false
	}
	return items[m.cursor], true
}

// View renders the terminal UI.
func (m Model) View() string {
	header := stylize(m.tr.T("AppTitle"), m.noColor, lipgloss.Color("33"))
	parts := []string{header, m.renderProgress()}
	if m.showWrong {
		parts = append(parts, m.renderWrongList())
	} else {
		parts = append(parts, m.renderPageLine(), m.renderList())
	}
	parts = append(parts, m.renderDetail(), m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
